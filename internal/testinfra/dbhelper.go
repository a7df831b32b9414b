package testinfra

import (
	"context"
	"os"
	"sync"
	"testing"
)

// Environment variables that point integration tests at an existing server
// instead of starting a container.
const (
	EnvPostgresURL = "DBPOOL_TEST_POSTGRES_URL"
	EnvMySQLURL    = "DBPOOL_TEST_MYSQL_URL"
)

type sharedContainer struct {
	once  sync.Once
	url   string
	err   error
	start func(context.Context) (*Container, error)
}

func (s *sharedContainer) get() (string, error) {
	s.once.Do(func() {
		ctr, err := s.start(context.Background())
		if err != nil {
			s.err = err
			return
		}
		s.url = ctr.URL
	})
	return s.url, s.err
}

var (
	postgresContainer = &sharedContainer{start: StartPostgres}
	mysqlContainer    = &sharedContainer{start: StartMySQL}
)

// SkipIfShort skips the test if running in short mode (-short flag).
func SkipIfShort(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
}

// RequirePostgres returns a postgres:// URL for a live server, or skips.
// Priority: DBPOOL_TEST_POSTGRES_URL > auto-started testcontainer > skip.
func RequirePostgres(t *testing.T) string {
	t.Helper()
	return requireURL(t, EnvPostgresURL, postgresContainer)
}

// RequireMySQL returns a mysql:// URL for a live server, or skips.
// Priority: DBPOOL_TEST_MYSQL_URL > auto-started testcontainer > skip.
func RequireMySQL(t *testing.T) string {
	t.Helper()
	return requireURL(t, EnvMySQLURL, mysqlContainer)
}

func requireURL(t *testing.T, envVar string, shared *sharedContainer) string {
	t.Helper()

	SkipIfShort(t)
	if u := os.Getenv(envVar); u != "" {
		return u
	}

	u, err := shared.get()
	if err != nil {
		t.Skipf("%s not set and Docker unavailable: %v", envVar, err)
	}
	return u
}
