package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTestDBConfig(t *testing.T) {
	t.Run("defaults to local test database port 55432", func(t *testing.T) {
		t.Setenv("TEST_DB_HOST", "")
		t.Setenv("TEST_DB_PORT", "")
		t.Setenv("TEST_DB_NAME", "")

		cfg := DefaultTestDBConfig()

		assert.Equal(t, "localhost", cfg.Host)
		assert.Equal(t, "55432", cfg.Port)
		assert.Equal(t, "talent", cfg.DBName)
	})

	t.Run("respects TEST_DB_PORT environment variable", func(t *testing.T) {
		t.Setenv("TEST_DB_PORT", "5432")
		t.Setenv("DB_SSL_MODE", "")

		cfg := DefaultTestDBConfig()

		assert.Equal(t, "5432", cfg.Port)
		assert.Contains(t, cfg.DSN(), "localhost:5432")
		assert.Contains(t, cfg.DSN(), "sslmode=disable")
	})
}

func TestSetupTestRedis(t *testing.T) {
	mr, client := SetupTestRedis(t)

	require.NoError(t, client.Set(t.Context(), "k", "v", time.Minute).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}
