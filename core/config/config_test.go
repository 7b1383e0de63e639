package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "3030", cfg.Server.Port)
	assert.Equal(t, "disk", cfg.Storage.Driver)
	assert.Equal(t, "json", cfg.Store.Driver)
	assert.Equal(t, "data.json", cfg.Store.Path)
	assert.Equal(t, "memory", cfg.Lock.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 60, cfg.Integrity.CacheTTLSeconds)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("STORE_DRIVER", "sql")
	t.Setenv("LOCK_TTL_SECONDS", "5")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "sql", cfg.Store.Driver)
	assert.Equal(t, 5, cfg.Lock.TTLSeconds)
}

func TestLoadConfigDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("STORAGE_BUCKET=media\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("STORAGE_BUCKET") })

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "media", cfg.Storage.Bucket)
}
