package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/dbpool/internal/logging"
	"github.com/vvka-141/dbpool/pkg/poolcache"
)

const postgresDefaultPort = "5432"

// newPoolWithConfig is a seam for tests.
var newPoolWithConfig = pgxpool.NewWithConfig

// PostgresDriver opens PostgreSQL pools through pgxpool.
type PostgresDriver struct {
	connectTimeout time.Duration
	logger         poolcache.Logger
}

// NewPostgresDriver creates a PostgreSQL driver. A non-positive connectTimeout
// uses DefaultConnectTimeout.
func NewPostgresDriver(connectTimeout time.Duration, logger poolcache.Logger) *PostgresDriver {
	if connectTimeout <= 0 {
		connectTimeout = poolcache.DefaultConnectTimeout
	}
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &PostgresDriver{connectTimeout: connectTimeout, logger: logger}
}

func (d *PostgresDriver) Name() string { return DriverPostgres }

func (d *PostgresDriver) Schemes() []string { return []string{"postgres", "postgresql"} }

// Open builds a pool of at most maxConns connections and pings it once.
func (d *PostgresDriver) Open(ctx context.Context, u poolcache.ConnectionURL, maxConns int) (poolcache.Pool, error) {
	t, _, err := parseTarget(u, postgresDefaultPort)
	if err != nil {
		return nil, err
	}
	if t.database == "" {
		return nil, errMissingDatabase
	}

	// ParseConfig errors are redacted by pgx but still quote the input, so
	// they are replaced rather than wrapped.
	poolConfig, err := pgxpool.ParseConfig(u.String())
	if err != nil {
		return nil, errInvalidPostgresURL
	}

	configurePool(poolConfig, maxConns, d.logger)
	poolConfig.ConnConfig.ConnectTimeout = d.connectTimeout

	pingCtx, cancel := context.WithTimeout(ctx, d.connectTimeout)
	defer cancel()

	pool, err := newPoolWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, wrapConnectionError(err, t)
	}

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, wrapConnectionError(err, t)
	}

	d.logger.Verbose("PostgreSQL pool ready: %s@%s/%s (max %d connections)", t.user, t.addr(), t.database, maxConns)
	return &PostgresPool{pool: pool}, nil
}
