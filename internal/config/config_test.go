package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/agentdesk/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, config.DefaultPort, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, int32(10), cfg.Database.MaxConns)
	assert.Equal(t, 5*time.Second, cfg.Versions.ListCacheTTL)
	assert.Equal(t, uint(3), cfg.Versions.ReadRetryAttempts)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agentdesk.yaml")
	err := os.WriteFile(path, []byte(`
server:
  port: "9090"
database:
  url: postgres://file
versions:
  list_cache_ttl: 2s
log:
  level: debug
`), 0o600)
	require.NoError(t, err)

	t.Setenv("AGENTDESK_DATABASE_URL", "postgres://env")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "postgres://env", cfg.Database.URL)
	assert.Equal(t, 2*time.Second, cfg.Versions.ListCacheTTL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, int32(2), cfg.Database.MinConns)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
