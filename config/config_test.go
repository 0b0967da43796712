package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, 3*time.Second, cfg.Views.ErrorClearAfter)
	assert.Equal(t, 30*time.Second, cfg.Listing.Timeout)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, `
env: production
listing:
  base_url: "http://proffy.test"
  timeout_seconds: 5
storage:
  driver: sqlite
views:
  error_clear_after_ms: 1500
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://proffy.test", cfg.Listing.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Listing.Timeout)
	assert.Equal(t, "proffy.db", cfg.Storage.DSN)
	assert.Equal(t, 1500*time.Millisecond, cfg.Views.ErrorClearAfter)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PROFFY_LISTING_URL", "http://env.test")
	t.Setenv("PROFFY_PORT", "9000")

	cfg, err := Load(writeConfig(t, "listing:\n  base_url: http://file.test\n"))
	require.NoError(t, err)

	assert.Equal(t, "http://env.test", cfg.Listing.BaseURL)
	assert.Equal(t, 9000, cfg.Server.Port)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("unknown driver", func(t *testing.T) {
		_, err := Load(writeConfig(t, "storage:\n  driver: mongo\n"))
		assert.Error(t, err)
	})

	t.Run("postgres without dsn", func(t *testing.T) {
		_, err := Load(writeConfig(t, "storage:\n  driver: postgres\n"))
		assert.Error(t, err)
	})

	t.Run("bad port", func(t *testing.T) {
		t.Setenv("PROFFY_PORT", "http")
		_, err := Load(writeConfig(t, ""))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "server: [1, 2"))
		assert.Error(t, err)
	})
}
