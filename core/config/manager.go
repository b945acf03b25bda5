// Package config loads and serves runtime configuration: YAML file with
// defaults, TRAILHEAD_* environment overrides, atomic snapshot access, and
// optional hot reload when the config file changes on disk.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"gopkg.in/yaml.v3"
)

type Manager struct {
	path      string
	current   atomic.Pointer[Config]
	watchers  []func(*Config)
	watcherMu sync.RWMutex
	stopWatch chan struct{}
	watchOnce sync.Once
}

type Config struct {
	LLM      LLMConfig      `yaml:"llm"`
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Search   SearchConfig   `yaml:"search"`
	Session  SessionConfig  `yaml:"session"`
}

type LLMConfig struct {
	Provider  string        `yaml:"provider"`
	Model     string        `yaml:"model"`
	MaxTokens int           `yaml:"max_tokens"`
	Timeout   time.Duration `yaml:"-"`

	// TimeoutText is the on-disk form of Timeout ("30s", "2m").
	TimeoutText string `yaml:"timeout,omitempty"`
}

// UnmarshalYAML parses the timeout duration string alongside the plain fields.
func (c *LLMConfig) UnmarshalYAML(unmarshal func(any) error) error {
	type plain LLMConfig
	var p plain
	p = plain(*c)
	if err := unmarshal(&p); err != nil {
		return err
	}
	*c = LLMConfig(p)
	if c.TimeoutText != "" {
		d, err := time.ParseDuration(c.TimeoutText)
		if err != nil {
			return fmt.Errorf("llm.timeout: %w", err)
		}
		c.Timeout = d
	}
	return nil
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type SearchConfig struct {
	IndexPath string `yaml:"index_path"`
}

type SessionConfig struct {
	HistoryWindow int `yaml:"history_window"`
}

func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:  "anthropic",
			MaxTokens: 4096,
			Timeout:   2 * time.Minute,
		},
		Database: DatabaseConfig{
			Path: defaultDataPath("trailhead.db"),
		},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Search: SearchConfig{
			IndexPath: defaultDataPath("search.bleve"),
		},
		Session: SessionConfig{
			HistoryWindow: 20,
		},
	}
}

func defaultDataPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".trailhead", name)
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "trailhead.yaml"
	}
	return filepath.Join(home, ".trailhead", "config.yaml")
}

// NewManager creates a manager reading from path. An empty path uses the
// default location.
func NewManager(path string) *Manager {
	if path == "" {
		path = DefaultPath()
	}
	m := &Manager{
		path:      path,
		stopWatch: make(chan struct{}),
	}
	m.current.Store(DefaultConfig())
	return m
}

// Get returns the current config snapshot. The returned value must not be
// mutated.
func (m *Manager) Get() *Config {
	return m.current.Load()
}

// Path returns the config file location the manager reads from.
func (m *Manager) Path() string {
	return m.path
}

// Load reads defaults, the YAML file if present, then environment overrides,
// and publishes the result atomically.
func (m *Manager) Load() error {
	cfg := DefaultConfig()

	if err := m.loadYAMLFile(m.path, cfg); err != nil {
		return fmt.Errorf("config file: %w", err)
	}

	m.applyEnvironment(cfg)

	m.current.Store(cfg)
	m.notifyWatchers(cfg)
	return nil
}

func (m *Manager) loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

func (m *Manager) applyEnvironment(cfg *Config) {
	if v := os.Getenv("TRAILHEAD_LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("TRAILHEAD_LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("TRAILHEAD_LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.LLM.Timeout = d
		}
	}
	if v := os.Getenv("TRAILHEAD_LLM_MAX_TOKENS"); v != "" {
		if n, err := parseInt(v); err == nil {
			cfg.LLM.MaxTokens = n
		}
	}
	if v := os.Getenv("TRAILHEAD_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("TRAILHEAD_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("TRAILHEAD_SERVER_ALLOWED_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("TRAILHEAD_SEARCH_INDEX_PATH"); v != "" {
		cfg.Search.IndexPath = v
	}
	if v := os.Getenv("TRAILHEAD_SESSION_HISTORY_WINDOW"); v != "" {
		if n, err := parseInt(v); err == nil {
			cfg.Session.HistoryWindow = n
		}
	}
}

// OnChange registers a callback invoked after each successful Load.
func (m *Manager) OnChange(fn func(*Config)) {
	m.watcherMu.Lock()
	m.watchers = append(m.watchers, fn)
	m.watcherMu.Unlock()
}

func (m *Manager) notifyWatchers(cfg *Config) {
	m.watcherMu.RLock()
	watchers := m.watchers
	m.watcherMu.RUnlock()

	for _, fn := range watchers {
		fn(cfg)
	}
}

// Reload re-reads the config file.
func (m *Manager) Reload() error {
	return m.Load()
}

// Close stops any file watching.
func (m *Manager) Close() error {
	m.watchOnce.Do(func() {
		close(m.stopWatch)
	})
	return nil
}

func parseInt(s string) (int, error) {
	var n int
	_, err := fmt.Sscanf(s, "%d", &n)
	return n, err
}
