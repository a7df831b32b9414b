// Package setup wires configuration into a ready-to-use pool cache: the
// secret store, the resolution chain, the drivers and the metrics.
package setup

import (
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/metric"

	"github.com/vvka-141/dbpool/internal/config"
	"github.com/vvka-141/dbpool/internal/db"
	"github.com/vvka-141/dbpool/internal/logging"
	"github.com/vvka-141/dbpool/internal/resolver"
	"github.com/vvka-141/dbpool/internal/secrets"
	"github.com/vvka-141/dbpool/internal/telemetry"
	"github.com/vvka-141/dbpool/pkg/poolcache"
)

// Components holds everything built from one configuration.
type Components struct {
	Config      *config.Config
	Logger      poolcache.Logger
	Store       poolcache.SecretStore
	Resolvers   resolver.Config
	Drivers     *db.Drivers
	Establisher *db.Establisher
	Metrics     *telemetry.Instruments
	Cache       *poolcache.Cache
}

// Deps are optional collaborators replacing the ones derived from configuration.
type Deps struct {
	Logger        poolcache.Logger
	MeterProvider metric.MeterProvider
	Store         poolcache.SecretStore
	Drivers       []poolcache.Driver
}

// Build validates cfg and wires the components. The cache is not populated;
// the first GetOrEstablish call resolves and connects.
func Build(cfg *config.Config, deps Deps) (*Components, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNullLogger()
	}

	store := deps.Store
	if store == nil {
		s, err := newStore(cfg, logger)
		if err != nil {
			return nil, err
		}
		store = s
	}

	drivers := db.DefaultDrivers(cfg.ConnectTimeout(), logger)
	if len(deps.Drivers) > 0 {
		drivers = db.NewDrivers(deps.Drivers...)
	}

	instruments := telemetry.New(deps.MeterProvider)

	resolvers := resolver.Config{
		Store:         store,
		Scheme:        cfg.Scheme(),
		SecretTimeout: cfg.SecretTimeout(),
		EnvVariable:   cfg.Env.Variable,
		EnvFiles:      cfg.Env.Files,
		Logger:        logger,
		Metrics:       instruments,
	}

	var (
		gauges     metric.Registration
		unregister sync.Once
	)
	establisher := db.NewEstablisher(resolvers.Resolver, drivers, logger)
	cache := poolcache.New(establisher,
		poolcache.WithLogger(logger),
		poolcache.WithMetrics(instruments),
		poolcache.WithCloseHook(func() {
			unregister.Do(func() {
				if gauges != nil {
					if err := gauges.Unregister(); err != nil {
						logger.Verbose("Unregister pool gauges: %v", err)
					}
				}
			})
		}),
	)
	gauges, err := instruments.ObserveCache(cache)
	if err != nil {
		logger.Verbose("Pool gauges unavailable: %v", err)
	}

	return &Components{
		Config:      cfg,
		Logger:      logger,
		Store:       store,
		Resolvers:   resolvers,
		Drivers:     drivers,
		Establisher: establisher,
		Metrics:     instruments,
		Cache:       cache,
	}, nil
}

// Selector returns the selector described by cfg: the configured secret when
// an id is set, otherwise poolcache.NoSecret. An AWS secret without a region
// leaves the region to the SDK's own resolution.
func Selector(cfg *config.Config) poolcache.Selector {
	if cfg == nil || !cfg.HasSecret() {
		return poolcache.NoSecret
	}
	return poolcache.StaticSecret(cfg.Secret.Region, cfg.Secret.ID)
}

func newStore(cfg *config.Config, logger poolcache.Logger) (poolcache.SecretStore, error) {
	store, err := secrets.NewStore(cfg.Secret.Backend, logger)
	if err != nil {
		return nil, fmt.Errorf("secret store: %w", err)
	}
	return store, nil
}
