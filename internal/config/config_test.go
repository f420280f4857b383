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

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
env: "dev"
storage:
  path: "data.db"
http_server:
  address: "localhost:9000"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "Local", cfg.Timezone)
	assert.Equal(t, DriverSQLite3, cfg.Storage.Driver)
	assert.Equal(t, "data.db", cfg.Storage.Path)
	assert.Equal(t, "localhost:9000", cfg.Addr)
	assert.Equal(t, 10*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.IdleTimeout)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 300, cfg.CORS.MaxAge)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
env: "dev"
timezone: "UTC"
storage:
  driver: "sqlite"
  path: "data.db"
http_server:
  address: "localhost:9000"
`)
	t.Setenv("STORAGE_DRIVER", "document")
	t.Setenv("STORAGE_PATH", "data.json")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DriverDocument, cfg.Storage.Driver)
	assert.Equal(t, "data.json", cfg.Storage.Path)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoad_Rejects(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("unknown driver", func(t *testing.T) {
		path := writeConfig(t, `
env: "dev"
storage:
  driver: "postgres"
  path: "x"
http_server:
  address: ":1"
`)
		_, err := Load(path)
		assert.ErrorContains(t, err, "invalid config")
	})

	t.Run("unknown timezone", func(t *testing.T) {
		path := writeConfig(t, `
env: "dev"
timezone: "Mars/Olympus"
storage:
  path: "x"
http_server:
  address: ":1"
`)
		_, err := Load(path)
		assert.ErrorContains(t, err, "timezone")
	})

	t.Run("missing required", func(t *testing.T) {
		path := writeConfig(t, `
env: "dev"
http_server:
  address: ":1"
`)
		_, err := Load(path)
		assert.Error(t, err)
	})
}
