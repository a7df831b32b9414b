// Package testinfra starts throwaway database servers for integration tests.
package testinfra

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	PostgresImage = "postgres:17-alpine"
	MySQLImage    = "mysql:8.4"

	TestUser     = "dbpool"
	TestPassword = "dbpool-test"
	TestDatabase = "test_db"
)

// Container is a running database server and the URL that reaches it.
type Container struct {
	testcontainers.Container
	URL string
}

// StartPostgres starts a PostgreSQL server and returns its postgres:// URL.
func StartPostgres(ctx context.Context) (*Container, error) {
	ctr, err := postgres.Run(ctx,
		PostgresImage,
		postgres.WithUsername(TestUser),
		postgres.WithPassword(TestPassword),
		postgres.WithDatabase(TestDatabase),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start postgres: %w", err)
	}

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get connection string: %w", err)
	}

	return &Container{Container: ctr, URL: connStr}, nil
}

// StartMySQL starts a MySQL server and returns its mysql:// URL.
// The module's own connection string is a driver DSN, so the URL is
// assembled from the mapped endpoint instead.
func StartMySQL(ctx context.Context) (*Container, error) {
	ctr, err := mysql.Run(ctx,
		MySQLImage,
		mysql.WithUsername(TestUser),
		mysql.WithPassword(TestPassword),
		mysql.WithDatabase(TestDatabase),
	)
	if err != nil {
		return nil, fmt.Errorf("start mysql: %w", err)
	}

	host, err := ctr.Host(ctx)
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mysql host: %w", err)
	}
	port, err := ctr.MappedPort(ctx, "3306/tcp")
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mysql port: %w", err)
	}

	u := url.URL{
		Scheme: "mysql",
		User:   url.UserPassword(TestUser, TestPassword),
		Host:   fmt.Sprintf("%s:%s", host, port.Port()),
		Path:   "/" + TestDatabase,
	}
	return &Container{Container: ctr, URL: u.String()}, nil
}
