package resolver

import (
	"context"
	"errors"
	"time"

	"github.com/vvka-141/dbpool/internal/logging"
	"github.com/vvka-141/dbpool/pkg/poolcache"
)

// Chain tries its sources in order and returns the first URL produced.
// Safe for concurrent use if its sources are.
type Chain struct {
	sources []Source
	logger  poolcache.Logger
	metrics poolcache.Metrics
}

// NewChain creates a chain over sources, tried in the order given.
func NewChain(logger poolcache.Logger, metrics poolcache.Metrics, sources ...Source) *Chain {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	if metrics == nil {
		metrics = poolcache.NopMetrics{}
	}
	return &Chain{
		sources: sources,
		logger:  logger,
		metrics: metrics,
	}
}

// Step records the outcome of one source during resolution. Err is nil for
// the source that produced the URL.
type Step struct {
	Source string
	Err    error
}

// Resolve returns the URL of the first source that succeeds. Each failure is
// logged with its kind and source before moving on. When no source succeeds
// the error wraps poolcache.ErrNoSource and every source error.
func (c *Chain) Resolve(ctx context.Context) (poolcache.ConnectionURL, error) {
	u, _, err := c.Trace(ctx)
	return u, err
}

// Trace is Resolve that also reports every source it tried, in order.
func (c *Chain) Trace(ctx context.Context) (poolcache.ConnectionURL, []Step, error) {
	errs := []error{poolcache.ErrNoSource}
	steps := make([]Step, 0, len(c.sources))

	for _, src := range c.sources {
		outcome := src.Resolve(ctx)
		steps = append(steps, Step{Source: src.Name(), Err: outcome.Err})
		if outcome.OK() {
			c.metrics.RecordResolution(ctx, src.Name(), 0)
			c.logger.Verbose("Connection URL resolved from %s source: %s", src.Name(), outcome.URL.Redacted())
			return outcome.URL, steps, nil
		}

		kind := poolcache.KindOf(outcome.Err)
		c.metrics.RecordResolution(ctx, src.Name(), kind)
		c.logFailure(src.Name(), kind, outcome.Err)
		errs = append(errs, outcome.Err)
	}

	return "", steps, errors.Join(errs...)
}

// logFailure reports expected opt-outs at verbose level and real failures at info level.
func (c *Chain) logFailure(source string, kind poolcache.ErrorKind, err error) {
	switch kind {
	case poolcache.KindNoSecretSelector, poolcache.KindEnvURLMissing:
		c.logger.Verbose("%s source skipped (%s): %v", source, kind, err)
	default:
		c.logger.Info("Warning: %s source failed (%s), falling through: %v", source, kind, err)
	}
}

// Sources returns the names of the chain's sources in order.
func (c *Chain) Sources() []string {
	names := make([]string, len(c.sources))
	for i, src := range c.sources {
		names[i] = src.Name()
	}
	return names
}

// Config describes the standard remote → environment → default chain.
type Config struct {
	Store         poolcache.SecretStore
	Scheme        string
	SecretTimeout time.Duration
	EnvVariable   string
	EnvFiles      []string
	Logger        poolcache.Logger
	Metrics       poolcache.Metrics
}

// Build returns the standard chain for selector.
func (cfg Config) Build(selector poolcache.Selector) *Chain {
	return NewChain(cfg.Logger, cfg.Metrics,
		NewRemoteSource(selector, cfg.Store, cfg.Scheme, cfg.SecretTimeout),
		NewEnvSource(cfg.EnvVariable, cfg.EnvFiles, cfg.Logger),
		NewDefaultSource(cfg.Scheme),
	)
}

// Resolver adapts Build to the function shape used by db.Establisher.
func (cfg Config) Resolver(selector poolcache.Selector) poolcache.Resolver {
	return cfg.Build(selector)
}
