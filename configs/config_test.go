package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ModeLocal, cfg.Mode)
	assert.Equal(t, "127.0.0.1", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "job_market", cfg.Database.DBName)
	assert.Equal(t, time.Second, cfg.Wait.PollInterval)
	assert.Zero(t, cfg.Wait.MaxAttempts, "unbounded wait by default")
	assert.Zero(t, cfg.Wait.Timeout)
	assert.Equal(t, "./migrations", cfg.Init.MigrationsPath)
	assert.Empty(t, cfg.Init.Command)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DEPLOY_MODE", ModeContainer)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_NAME", "jobs_test")
	t.Setenv("WAIT_POLL_INTERVAL", "250ms")
	t.Setenv("WAIT_MAX_ATTEMPTS", "10")
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("INIT_COMMAND", "psql -f bootstrap.sql")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ModeContainer, cfg.Mode)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 250*time.Millisecond, cfg.Wait.PollInterval)
	assert.Equal(t, 10, cfg.Wait.MaxAttempts)
	assert.Equal(t, "psql -f bootstrap.sql", cfg.Init.Command)

	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "cache.internal:6379", cfg.Redis.Addr())

	assert.Contains(t, cfg.Database.DSN, "host=db.internal")
	assert.Contains(t, cfg.Database.DSN, "port=5433")
	assert.Contains(t, cfg.Database.DSN, "dbname=jobs_test")
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("WAIT_MAX_ATTEMPTS", "many")
	t.Setenv("WAIT_POLL_INTERVAL", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Zero(t, cfg.Wait.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Wait.PollInterval)
}

func TestMaintenanceDSN(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	dsn := cfg.Database.MaintenanceDSN()
	assert.Contains(t, dsn, "dbname=postgres")
	assert.NotContains(t, dsn, "dbname=job_market")
}
