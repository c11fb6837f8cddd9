package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rpggio/spectator/internal/paginate"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SPECTATOR_CONFIG_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "spectator.db", cfg.DB.Path)
	require.Equal(t, "http", cfg.Transport.Mode)
	require.Equal(t, paginate.DefaultPolicy(), cfg.Pagination)
	require.True(t, cfg.Pagination.SoftLimit)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spectator.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
db:
  path: /var/lib/spectator.db
pagination:
  per_page: 20
  orphans: 3
  soft_limit: false
maps:
  api_key: from-file
rate_limit:
  enabled: true
  requests: 10
  window: 30s
`), 0o644))

	t.Setenv("SPECTATOR_CONFIG_PATH", path)
	t.Setenv("SPECTATOR_MAPS_API_KEY", "from-env")
	t.Setenv("SPECTATOR_SOFT_LIMIT", "true")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9000, cfg.Server.Port)
	require.Equal(t, "/var/lib/spectator.db", cfg.DB.Path)
	require.Equal(t, 20, cfg.Pagination.PerPage)
	require.Equal(t, 3, cfg.Pagination.Orphans)
	require.Equal(t, 5, cfg.Pagination.Body, "unset keys keep their defaults")
	require.True(t, cfg.Pagination.SoftLimit)
	require.Equal(t, "from-env", cfg.Maps.APIKey)
	require.Equal(t, 30*time.Second, cfg.RateLimit.Window)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("SPECTATOR_CONFIG_PATH", "")

	t.Setenv("SPECTATOR_SERVER_PORT", "http")
	_, err := Load()
	require.ErrorContains(t, err, "SPECTATOR_SERVER_PORT")

	t.Setenv("SPECTATOR_SERVER_PORT", "")
	t.Setenv("SPECTATOR_PAGE_SIZE", "0")
	_, err = Load()
	require.ErrorContains(t, err, "invalid page size")

	t.Setenv("SPECTATOR_PAGE_SIZE", "")
	t.Setenv("SPECTATOR_TRANSPORT", "websocket")
	_, err = Load()
	require.ErrorContains(t, err, "invalid transport mode")
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("SPECTATOR_CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := Load()
	require.ErrorContains(t, err, "read config file")
}
