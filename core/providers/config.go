package providers

import (
	"fmt"
	"time"
)

type ProviderType string

const (
	ProviderTypeAnthropic ProviderType = "anthropic"
	ProviderTypeOpenAI    ProviderType = "openai"
	ProviderTypeGoogle    ProviderType = "google"
)

// Config holds configuration for a single completion provider.
type Config struct {
	// Provider is the provider identifier ("anthropic", "openai", "google")
	Provider string `yaml:"provider"`

	// Model is the model identifier; each adapter supplies a default
	Model string `yaml:"model,omitempty"`

	// APIKey is the authentication key - never serialized to YAML
	APIKey string `yaml:"-"`

	// BaseURL overrides the default API endpoint (optional)
	BaseURL string `yaml:"base_url,omitempty"`

	// MaxTokens caps generation output
	MaxTokens int `yaml:"max_tokens,omitempty"`

	// Timeout bounds each completion call
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

const (
	DefaultMaxTokens = 4096
	DefaultTimeout   = 2 * time.Minute
)

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("provider %q: API key is required", c.Provider)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.MaxTokens == 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
}

// New constructs the provider named by cfg.Provider, wrapped with the
// configured per-call timeout.
func New(cfg Config) (Provider, error) {
	cfg.applyDefaults()

	var (
		provider Provider
		err      error
	)
	switch ProviderType(cfg.Provider) {
	case ProviderTypeAnthropic, "":
		provider, err = NewAnthropicProvider(cfg)
	case ProviderTypeOpenAI:
		provider, err = NewOpenAIProvider(cfg)
	case ProviderTypeGoogle:
		provider, err = NewGoogleProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	return WithTimeout(provider, cfg.Timeout), nil
}
