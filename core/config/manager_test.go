package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "config.yaml"))

	cfg := m.Get()
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, 4096, cfg.LLM.MaxTokens)
	assert.Equal(t, 2*time.Minute, cfg.LLM.Timeout)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 20, cfg.Session.HistoryWindow)
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "config.yaml"))

	require.NoError(t, m.Load())
	assert.Equal(t, "anthropic", m.Get().LLM.Provider)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
llm:
  provider: openai
  model: gpt-4o
  timeout: 30s
database:
  path: /tmp/towns.db
session:
  history_window: 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	m := NewManager(path)
	require.NoError(t, m.Load())

	cfg := m.Get()
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "/tmp/towns.db", cfg.Database.Path)
	assert.Equal(t, 5, cfg.Session.HistoryWindow)
	// Untouched sections keep defaults
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("TRAILHEAD_LLM_PROVIDER", "google")
	t.Setenv("TRAILHEAD_LLM_TIMEOUT", "45s")
	t.Setenv("TRAILHEAD_DB_PATH", "/var/data/towns.db")
	t.Setenv("TRAILHEAD_SESSION_HISTORY_WINDOW", "8")

	m := NewManager(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, m.Load())

	cfg := m.Get()
	assert.Equal(t, "google", cfg.LLM.Provider)
	assert.Equal(t, 45*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "/var/data/towns.db", cfg.Database.Path)
	assert.Equal(t, 8, cfg.Session.HistoryWindow)
}

func TestOnChangeNotified(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "config.yaml"))

	var seen *Config
	m.OnChange(func(cfg *Config) { seen = cfg })

	require.NoError(t, m.Load())
	require.NotNil(t, seen)
	assert.Equal(t, m.Get(), seen)
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm:\n  provider: anthropic\n"), 0o644))

	m := NewManager(path)
	require.NoError(t, m.Load())
	defer m.Close()

	changed := make(chan *Config, 4)
	m.OnChange(func(cfg *Config) { changed <- cfg })

	require.NoError(t, m.Watch(nil))

	require.NoError(t, os.WriteFile(path, []byte("llm:\n  provider: openai\n"), 0o644))

	select {
	case cfg := <-changed:
		assert.Equal(t, "openai", cfg.LLM.Provider)
	case <-time.After(3 * time.Second):
		t.Fatal("expected reload after config file write")
	}
}

func TestCloseIdempotent(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
}
