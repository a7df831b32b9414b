package manager_test

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/dbpool/internal/db"
	"github.com/vvka-141/dbpool/internal/db/manager"
	"github.com/vvka-141/dbpool/internal/testinfra"
	"github.com/vvka-141/dbpool/pkg/poolcache"
)

func TestIntegration_Postgres(t *testing.T) {
	u := testinfra.RequirePostgres(t)
	testDriverAgainstServer(t, db.NewPostgresDriver(10*time.Second, nil), poolcache.ConnectionURL(u), "postgres")
}

func TestIntegration_MySQL(t *testing.T) {
	u := testinfra.RequireMySQL(t)
	testDriverAgainstServer(t, db.NewMySQLDriver(10*time.Second, nil), poolcache.ConnectionURL(u), "mysql")
}

func testDriverAgainstServer(t *testing.T, driver poolcache.Driver, u poolcache.ConnectionURL, dialect string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := driver.Open(ctx, u, poolcache.DefaultMaxConns)
	require.NoError(t, err)
	defer pool.Close()

	require.NoError(t, pool.Ping(ctx))
	assert.Equal(t, dialect, pool.Driver())

	info, err := manager.New().Describe(ctx, pool)
	require.NoError(t, err)
	assert.Equal(t, dialect, info.Driver)
	assert.NotEmpty(t, info.Version)
	assert.Equal(t, testinfra.TestDatabase, info.Database)
	assert.Equal(t, poolcache.DefaultMaxConns, info.Stats.MaxConns)
}

func TestIntegration_PostgresWrongPassword(t *testing.T) {
	live, err := url.Parse(testinfra.RequirePostgres(t))
	require.NoError(t, err)

	live.User = url.UserPassword(testinfra.TestUser, "not-the-password")
	_, err = db.NewPostgresDriver(10*time.Second, nil).
		Open(context.Background(), poolcache.ConnectionURL(live.String()), poolcache.DefaultMaxConns)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authentication failed")
	assert.NotContains(t, err.Error(), "not-the-password")
}
