package db

import (
	"context"
	"errors"

	"github.com/vvka-141/dbpool/internal/logging"
	"github.com/vvka-141/dbpool/pkg/poolcache"
)

const sourceEstablisher = "establisher"

// ResolverFactory builds the URL resolver for a selector.
type ResolverFactory func(selector poolcache.Selector) poolcache.Resolver

// Establisher resolves a connection URL and opens a pool for it with the
// driver matching the URL scheme. It never retries; retrying is left to the
// next Cache.GetOrEstablish call.
type Establisher struct {
	resolvers ResolverFactory
	drivers   *Drivers
	maxConns  int
	logger    poolcache.Logger
}

// NewEstablisher creates an Establisher opening pools of DefaultMaxConns connections.
func NewEstablisher(resolvers ResolverFactory, drivers *Drivers, logger poolcache.Logger) *Establisher {
	if resolvers == nil {
		panic("db: nil resolver factory")
	}
	if drivers == nil {
		panic("db: nil driver registry")
	}
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Establisher{
		resolvers: resolvers,
		drivers:   drivers,
		maxConns:  poolcache.DefaultMaxConns,
		logger:    logger,
	}
}

// Establish resolves the URL for selector and opens a verified pool.
// Driver failures are reported as KindPoolConnectFailed.
func (e *Establisher) Establish(ctx context.Context, selector poolcache.Selector) (poolcache.Pool, error) {
	u, err := logging.Timed(e.logger, "resolve connection url", func() (poolcache.ConnectionURL, error) {
		return e.resolvers(selector).Resolve(ctx)
	})
	if err != nil {
		return nil, err
	}

	driver, err := e.drivers.Lookup(u.Scheme())
	if err != nil {
		return nil, poolcache.NewError(poolcache.KindPoolConnectFailed, sourceEstablisher, err)
	}

	e.logger.Verbose("Opening %s pool to %s", driver.Name(), u.Redacted())
	pool, err := logging.Timed(e.logger, "open "+driver.Name()+" pool", func() (poolcache.Pool, error) {
		return driver.Open(ctx, u, e.maxConns)
	})
	if err != nil {
		return nil, poolcache.NewError(poolcache.KindPoolConnectFailed, driver.Name(), err)
	}
	if pool == nil {
		return nil, poolcache.NewError(poolcache.KindPoolConnectFailed, driver.Name(),
			errors.New("driver returned no pool"))
	}

	return pool, nil
}

// Verify Establisher implements poolcache.Establisher at compile time
var _ poolcache.Establisher = (*Establisher)(nil)
