package manager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vvka-141/dbpool/internal/db"
	"github.com/vvka-141/dbpool/pkg/poolcache"
)

const (
	queryMySQLServerInfo    = "SELECT VERSION(), DATABASE(), CURRENT_USER()"
	queryPostgresServerInfo = "SELECT current_setting('server_version'), current_database(), current_user"
)

// ErrUnsupportedPool is returned for pools opened by a driver the manager does not know.
var ErrUnsupportedPool = errors.New("unsupported pool type")

// Row is a single result row.
type Row interface {
	Scan(dest ...any) error
}

// PoolStats is a driver-neutral snapshot of pool occupancy.
type PoolStats struct {
	Open     int
	InUse    int
	Idle     int
	MaxConns int
}

// Querier is the minimal query surface the manager needs from a pool.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) Row
	Stats() PoolStats
	Dialect() string
}

// ServerInfo describes the server behind a pool.
type ServerInfo struct {
	Driver   string
	Version  string
	Database string
	User     string
	Stats    PoolStats
}

// Manager reports on established pools. Stateless and safe for concurrent use.
type Manager struct{}

// New creates a new Manager instance.
func New() *Manager {
	return &Manager{}
}

// Describe queries the server behind pool for its version and session identity.
func (m *Manager) Describe(ctx context.Context, pool poolcache.Pool) (ServerInfo, error) {
	q, err := QuerierFor(pool)
	if err != nil {
		return ServerInfo{}, err
	}
	return m.ServerInfo(ctx, q)
}

// ServerInfo runs the dialect's server-info query through q.
func (m *Manager) ServerInfo(ctx context.Context, q Querier) (ServerInfo, error) {
	var query string
	switch q.Dialect() {
	case db.DriverMySQL:
		query = queryMySQLServerInfo
	case db.DriverPostgres:
		query = queryPostgresServerInfo
	default:
		return ServerInfo{}, fmt.Errorf("dialect %q: %w", q.Dialect(), ErrUnsupportedPool)
	}

	info := ServerInfo{Driver: q.Dialect(), Stats: q.Stats()}
	if err := q.QueryRow(ctx, query).Scan(&info.Version, &info.Database, &info.User); err != nil {
		return ServerInfo{}, fmt.Errorf("failed to query server info: %w", err)
	}
	return info, nil
}

// QuerierFor adapts a pool opened by the db package.
func QuerierFor(pool poolcache.Pool) (Querier, error) {
	switch p := pool.(type) {
	case *db.MySQLPool:
		return sqlQuerier{db: p.DB()}, nil
	case *db.PostgresPool:
		return pgxQuerier{pool: p}, nil
	default:
		return nil, fmt.Errorf("%T: %w", pool, ErrUnsupportedPool)
	}
}

type sqlQuerier struct {
	db *sql.DB
}

func (q sqlQuerier) QueryRow(ctx context.Context, query string, args ...any) Row {
	return q.db.QueryRowContext(ctx, query, args...)
}

func (q sqlQuerier) Stats() PoolStats {
	s := q.db.Stats()
	return PoolStats{Open: s.OpenConnections, InUse: s.InUse, Idle: s.Idle, MaxConns: s.MaxOpenConnections}
}

func (q sqlQuerier) Dialect() string { return db.DriverMySQL }

type pgxQuerier struct {
	pool *db.PostgresPool
}

func (q pgxQuerier) QueryRow(ctx context.Context, query string, args ...any) Row {
	return q.pool.Pgx().QueryRow(ctx, query, args...)
}

func (q pgxQuerier) Stats() PoolStats {
	s := q.pool.Pgx().Stat()
	return PoolStats{
		Open:     int(s.TotalConns()),
		InUse:    int(s.AcquiredConns()),
		Idle:     int(s.IdleConns()),
		MaxConns: int(s.MaxConns()),
	}
}

func (q pgxQuerier) Dialect() string { return db.DriverPostgres }
