package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/vvka-141/dbpool/internal/logging"
	"github.com/vvka-141/dbpool/pkg/poolcache"
)

const mysqlDefaultPort = "3306"

// MySQLDriver opens MySQL pools through go-sql-driver/mysql.
type MySQLDriver struct {
	connectTimeout time.Duration
	logger         poolcache.Logger
}

// NewMySQLDriver creates a MySQL driver. A non-positive connectTimeout uses
// DefaultConnectTimeout.
func NewMySQLDriver(connectTimeout time.Duration, logger poolcache.Logger) *MySQLDriver {
	if connectTimeout <= 0 {
		connectTimeout = poolcache.DefaultConnectTimeout
	}
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &MySQLDriver{connectTimeout: connectTimeout, logger: logger}
}

func (d *MySQLDriver) Name() string { return DriverMySQL }

func (d *MySQLDriver) Schemes() []string { return []string{"mysql"} }

// Open builds a pool of at most maxConns connections and pings it once.
func (d *MySQLDriver) Open(ctx context.Context, u poolcache.ConnectionURL, maxConns int) (poolcache.Pool, error) {
	cfg, t, err := mysqlConfig(u, d.connectTimeout)
	if err != nil {
		return nil, err
	}

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, wrapConnectionError(err, t)
	}

	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)

	pingCtx, cancel := context.WithTimeout(ctx, d.connectTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close() //nolint:errcheck
		return nil, wrapConnectionError(err, t)
	}

	d.logger.Verbose("MySQL pool ready: %s@%s/%s (max %d connections)", t.user, t.addr(), t.database, maxConns)
	return &MySQLPool{db: db}, nil
}

// mysqlConfig converts a mysql:// URL into the driver's Config. Query
// parameters go through the driver's own DSN parser, so driver options such
// as tls, loc or parseTime are honoured and only unknown keys become session
// variables.
func mysqlConfig(u poolcache.ConnectionURL, timeout time.Duration) (*mysql.Config, target, error) {
	t, parsed, err := parseTarget(u, mysqlDefaultPort)
	if err != nil {
		return nil, target{}, err
	}
	if t.database == "" {
		return nil, target{}, errMissingDatabase
	}

	password, _ := parsed.User.Password()

	cfg := mysql.NewConfig()
	cfg.User = t.user
	cfg.Passwd = password
	cfg.Net = "tcp"
	cfg.Addr = t.addr()
	cfg.DBName = t.database
	cfg.ParseTime = true
	cfg.Timeout = timeout

	if parsed.RawQuery == "" {
		return cfg, t, nil
	}

	dsn := cfg.FormatDSN()
	if strings.Contains(dsn[strings.LastIndex(dsn, "/"):], "?") {
		dsn += "&" + parsed.RawQuery
	} else {
		dsn += "?" + parsed.RawQuery
	}
	withOptions, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, target{}, fmt.Errorf("invalid mysql connection options: %w", err)
	}
	return withOptions, t, nil
}
