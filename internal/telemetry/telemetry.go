// Package telemetry records resolution and pool-establishment metrics through
// OpenTelemetry. Without an installed meter provider every instrument is a no-op.
package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/vvka-141/dbpool/internal/db/manager"
	"github.com/vvka-141/dbpool/pkg/poolcache"
)

const meterName = "github.com/vvka-141/dbpool"

// Metric names.
const (
	MetricResolutions      = "dbpool.resolutions"
	MetricEstablishments   = "dbpool.establish.attempts"
	MetricEstablishLatency = "dbpool.establish.duration"
	MetricPoolConnections  = "dbpool.pool.connections"
	MetricCacheState       = "dbpool.cache.state"
)

// Instruments implements poolcache.Metrics on top of an OpenTelemetry meter.
type Instruments struct {
	meter              metric.Meter
	resolutions        metric.Int64Counter
	establishments     metric.Int64Counter
	establishDurations metric.Float64Histogram
}

// New creates the instruments from mp, or from the global provider when mp is nil.
// Instrument creation errors leave that instrument as a no-op.
func New(mp metric.MeterProvider) *Instruments {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(meterName)

	resolutions, _ := meter.Int64Counter(MetricResolutions,
		metric.WithDescription("Connection URL resolution attempts by source and outcome"),
		metric.WithUnit("{attempt}"))
	establishments, _ := meter.Int64Counter(MetricEstablishments,
		metric.WithDescription("Pool initialization attempts by outcome"),
		metric.WithUnit("{attempt}"))
	establishDurations, _ := meter.Float64Histogram(MetricEstablishLatency,
		metric.WithDescription("Latency of pool initialization, resolution included"),
		metric.WithUnit("ms"))

	return &Instruments{
		meter:              meter,
		resolutions:        resolutions,
		establishments:     establishments,
		establishDurations: establishDurations,
	}
}

// RecordResolution counts one source attempt. kind is zero on success.
func (i *Instruments) RecordResolution(ctx context.Context, source string, kind poolcache.ErrorKind) {
	if i.resolutions == nil {
		return
	}
	i.resolutions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("outcome", outcome(kind)),
	))
}

// RecordEstablish counts one initialization attempt and its latency.
func (i *Instruments) RecordEstablish(ctx context.Context, elapsed time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String("outcome", establishOutcome(err)))
	if i.establishments != nil {
		i.establishments.Add(ctx, 1, attrs)
	}
	if i.establishDurations != nil {
		i.establishDurations.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)
	}
}

// ObserveCache registers gauges reporting the cache state and, once a pool is
// ready, its connection counts. The callback keeps cache reachable until the
// returned registration is unregistered.
func (i *Instruments) ObserveCache(cache *poolcache.Cache) (metric.Registration, error) {
	state, err := i.meter.Int64ObservableGauge(MetricCacheState,
		metric.WithDescription("Pool cache state (0 uninitialized, 1 initializing, 2 ready, 3 failed)"),
	)
	if err != nil {
		return nil, err
	}
	conns, err := i.meter.Int64ObservableGauge(MetricPoolConnections,
		metric.WithDescription("Connections held by the shared pool"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return nil, err
	}

	return i.meter.RegisterCallback(func(_ context.Context, observer metric.Observer) error {
		observer.ObserveInt64(state, int64(cache.State()))

		pool, ok := cache.Get()
		if !ok {
			return nil
		}
		q, err := manager.QuerierFor(pool)
		if err != nil {
			return nil
		}
		stats := q.Stats()
		driver := attribute.String("driver", pool.Driver())
		observer.ObserveInt64(conns, int64(stats.InUse), metric.WithAttributes(driver, attribute.String("state", "in_use")))
		observer.ObserveInt64(conns, int64(stats.Idle), metric.WithAttributes(driver, attribute.String("state", "idle")))
		return nil
	}, state, conns)
}

func outcome(kind poolcache.ErrorKind) string {
	if kind == 0 {
		return "success"
	}
	return kind.String()
}

func establishOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, poolcache.ErrNoSource):
		return "NoSource"
	case poolcache.KindOf(err) != 0:
		return poolcache.KindOf(err).String()
	default:
		return "error"
	}
}

// Verify Instruments implements poolcache.Metrics at compile time
var _ poolcache.Metrics = (*Instruments)(nil)
