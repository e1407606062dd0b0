package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPPort)
	assert.Equal(t, "127.0.0.1:50051", cfg.GRPCPort)
	assert.Equal(t, 5, cfg.LoginRateLimit)
	assert.Equal(t, time.Minute, cfg.LoginRateWindow)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "yonexus.db", cfg.DSN())
	assert.Equal(t, 10*time.Second, cfg.OracleTimeout)
	assert.Equal(t, uint(3), cfg.OracleMaxAttempts)
	assert.Equal(t, "memory", cfg.OracleCache)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	env := "DB_DRIVER=postgres\nDB_HOST=db\nDB_USER=yonexus\nDB_PASSWORD=pw\nDB_NAME=tracker\nORACLE_TIMEOUT=3s\nLOGIN_RATE_WINDOW=30s\nALLOWED_ORIGINS=http://a.test, http://b.test\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte(env), 0o600))
	t.Setenv("DB_HOST", "override")
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "host=override user=yonexus password=pw dbname=tracker port=5432 sslmode=disable", cfg.DSN())
	assert.Equal(t, 3*time.Second, cfg.OracleTimeout)
	assert.Equal(t, 30*time.Second, cfg.LoginRateWindow)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Origins())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}
