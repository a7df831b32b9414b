package db

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/dbpool/pkg/poolcache"
)

// Connection pool configuration constants
const (
	// DefaultMinConns maintains at least one connection in the pool.
	DefaultMinConns = 1

	// DefaultMaxConnIdleTime keeps idle connections around long enough that a
	// quiet service does not reconnect on every request.
	DefaultMaxConnIdleTime = 30 * time.Minute
)

func configurePool(poolConfig *pgxpool.Config, maxConns int, logger poolcache.Logger) {
	poolConfig.MaxConns = int32(maxConns)
	poolConfig.MinConns = DefaultMinConns
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime
	poolConfig.ConnConfig.OnNotice = func(_ *pgconn.PgConn, notice *pgconn.Notice) {
		logger.Verbose("postgres notice: %s", notice.Message)
	}
}

// target is the credential-free part of a connection URL, used in errors and logs.
type target struct {
	host     string
	port     string
	database string
	user     string
}

func (t target) addr() string {
	if t.port == "" {
		return t.host
	}
	return net.JoinHostPort(t.host, t.port)
}

// errMissingDatabase is returned for URLs without a database path segment.
var errMissingDatabase = errors.New("connection url has no database name")

// parseTarget splits u into its non-secret parts. The returned error never
// contains the URL itself, since url.Parse errors echo their input.
func parseTarget(u poolcache.ConnectionURL, defaultPort string) (target, *url.URL, error) {
	parsed, err := url.Parse(u.String())
	if err != nil || parsed.Host == "" {
		return target{}, nil, fmt.Errorf("malformed %s connection url", u.Scheme())
	}

	t := target{
		host:     parsed.Hostname(),
		port:     parsed.Port(),
		database: strings.TrimPrefix(parsed.Path, "/"),
		user:     parsed.User.Username(),
	}
	if t.port == "" {
		t.port = defaultPort
	}
	return t, parsed, nil
}

// wrapConnectionError wraps raw driver connection errors with actionable guidance.
// Driver errors never carry the password, and neither does the added text.
func wrapConnectionError(err error, t target) error {
	errStr := strings.ToLower(err.Error())
	addr := t.addr()

	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		return fmt.Errorf(`connection refused to %s

Possible causes:
  - The database server is not running
  - Wrong host or port
  - Firewall blocking the connection

Original error: %w`, addr, err)

	case strings.Contains(errStr, "no such host") || strings.Contains(errStr, "no host"):
		return fmt.Errorf(`cannot resolve host "%s"

Possible causes:
  - Hostname is misspelled
  - DNS is not configured or reachable
  - Network connection issue

Original error: %w`, t.host, err)

	case strings.Contains(errStr, "password authentication failed") || strings.Contains(errStr, "access denied"):
		return fmt.Errorf(`authentication failed for user "%s" on database "%s"

Possible causes:
  - Wrong password in the secret or DATABASE_URL
  - Wrong username
  - User does not have access to the database

Original error: %w`, t.user, t.database, err)

	case strings.Contains(errStr, "does not exist") || strings.Contains(errStr, "unknown database"):
		return fmt.Errorf(`database "%s" does not exist on %s

Original error: %w`, t.database, addr, err)

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out") ||
		strings.Contains(errStr, "deadline exceeded"):
		return fmt.Errorf(`connection timed out to %s

Possible causes:
  - Server is overloaded or unresponsive
  - Network latency or packet loss
  - Firewall silently dropping packets
  - Wrong host/port (server not listening)

Original error: %w`, addr, err)

	case strings.Contains(errStr, "too many connections"):
		return fmt.Errorf(`too many connections to database "%s"

Possible causes:
  - Connection limit reached on the server
  - Other processes holding connections

Original error: %w`, t.database, err)

	default:
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
}
