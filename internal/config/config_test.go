package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_CreatesDefaultFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendLocal, cfg.Backend)
	assert.Equal(t, "¥", cfg.Currency)
	assert.Equal(t, filepath.Join(dir, "shiftbook.db"), cfg.Database.Path)
	assert.Equal(t, filepath.Join(dir, "shiftbook.log"), cfg.Log.File)

	_, err = os.Stat(path)
	assert.NoError(t, err, "defaults should be written on first load")
	require.NoError(t, cfg.Validate())
}

func TestLoad_ReadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `backend = "remote"
currency = "$"
week_start = "monday"

[remote]
url = "https://example.supabase.co"
anon_key = "anon"
timeout_ms = 2500
max_retries = 0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendRemote, cfg.Backend)
	assert.Equal(t, "$", cfg.Currency)
	assert.Equal(t, time.Monday, cfg.FirstWeekday())
	assert.Equal(t, "https://example.supabase.co", cfg.Remote.URL)
	assert.Equal(t, 2500*time.Millisecond, cfg.Remote.Timeout())
	assert.Equal(t, 0, cfg.Remote.MaxRetries)
	assert.Equal(t, "info", cfg.Log.Level, "unset keys keep defaults")
	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("SHIFTBOOK_BACKEND", "REMOTE")
	t.Setenv("SHIFTBOOK_REMOTE_URL", "http://localhost:54321")
	t.Setenv("SHIFTBOOK_REMOTE_ANON_KEY", "key")
	t.Setenv("SHIFTBOOK_REMOTE_TIMEOUT_MS", "500")
	t.Setenv("SHIFTBOOK_REMOTE_MAX_RETRIES", "-1")
	t.Setenv("SHIFTBOOK_LOG_LEVEL", "debug")
	t.Setenv("SHIFTBOOK_DB", "/tmp/other.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendRemote, cfg.Backend)
	assert.Equal(t, "http://localhost:54321", cfg.Remote.URL)
	assert.Equal(t, "key", cfg.Remote.AnonKey)
	assert.Equal(t, 500, cfg.Remote.TimeoutMs)
	assert.Equal(t, 2, cfg.Remote.MaxRetries, "negative retries are ignored")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/other.db", cfg.Database.Path)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("backend = "), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config { return DefaultConfig(t.TempDir()) }

	cfg := base()
	cfg.Backend = "cloud"
	assert.ErrorContains(t, cfg.Validate(), "unknown backend")

	cfg = base()
	cfg.Backend = BackendRemote
	assert.ErrorContains(t, cfg.Validate(), "remote.url")

	cfg = base()
	cfg.WeekStart = "friday"
	assert.ErrorContains(t, cfg.Validate(), "week_start")

	cfg = base()
	cfg.Database.Path = ""
	assert.ErrorContains(t, cfg.Validate(), "database.path")
}

func TestHomeDir_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SHIFTBOOK_HOME", dir)

	got, err := HomeDir()
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml"), path)
}
