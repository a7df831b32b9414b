package db

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/dbpool/pkg/poolcache"
)

// MySQLPool adapts *sql.DB to poolcache.Pool.
//
// Thread-Safety: Safe for concurrent use (sql.DB is thread-safe).
type MySQLPool struct {
	db *sql.DB
}

// DB returns the underlying handle for issuing queries.
func (p *MySQLPool) DB() *sql.DB {
	return p.db
}

// Ping verifies a connection can be acquired and used.
func (p *MySQLPool) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Close closes every connection in the pool.
func (p *MySQLPool) Close() {
	p.db.Close() //nolint:errcheck
}

func (p *MySQLPool) Driver() string { return DriverMySQL }

// PostgresPool adapts *pgxpool.Pool to poolcache.Pool.
//
// Thread-Safety: Safe for concurrent use (pgxpool.Pool is thread-safe).
type PostgresPool struct {
	pool *pgxpool.Pool
}

// Pgx returns the underlying pgx pool for issuing queries.
func (p *PostgresPool) Pgx() *pgxpool.Pool {
	return p.pool
}

// Ping acquires a connection and checks it with an empty query.
func (p *PostgresPool) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close closes all connections, waiting for acquired ones to be released.
func (p *PostgresPool) Close() {
	p.pool.Close()
}

func (p *PostgresPool) Driver() string { return DriverPostgres }

// Verify pool adapters implement poolcache.Pool at compile time
var (
	_ poolcache.Pool = (*MySQLPool)(nil)
	_ poolcache.Pool = (*PostgresPool)(nil)
)
