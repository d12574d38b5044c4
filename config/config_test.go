package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Contains(t, cfg.BaseURL, "RecordLookup.aspx")
	require.True(t, cfg.Headless)
	require.Equal(t, 15*time.Second, cfg.LoginTimeout)
	require.Equal(t, time.Second, cfg.QueryPause)
	require.Equal(t, ":8000", cfg.Listen)
	require.Empty(t, cfg.RedisAddr)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("VOTERLOOKUP_REDIS_ADDR", "localhost:6379")
	t.Setenv("VOTERLOOKUP_BASE_URL", "https://staging.example.com/lookup.aspx")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "localhost:6379", cfg.RedisAddr)
	require.Equal(t, "https://staging.example.com/lookup.aspx", cfg.BaseURL)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: \":9100\"\nquery_pause: 3s\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":9100", cfg.Listen)
	require.Equal(t, 3*time.Second, cfg.QueryPause)
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
