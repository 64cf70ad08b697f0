package llm

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// backends lists the default model of each backend and whether it needs
// an API key.
var backends = map[string]struct {
	model string
	keyed bool
}{
	"anthropic": {model: "claude-sonnet-4-20250514", keyed: true},
	"openai":    {model: "gpt-4o", keyed: true},
	"ollama":    {model: "llama3.2"},
}

// NewProvider creates a backend by name.
func NewProvider(name string, cfg ProviderConfig) (Provider, error) {
	var (
		p   Provider
		err error
	)
	switch name {
	case "anthropic":
		p, err = NewAnthropicProvider(cfg)
	case "openai":
		p, err = NewOpenAIProvider(cfg)
	case "ollama":
		p, err = NewOllamaProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown provider: %s (available: %s)", name, strings.Join(AvailableProviders(), ", "))
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// AvailableProviders returns the backend names, sorted.
func AvailableProviders() []string {
	return slices.Sorted(maps.Keys(backends))
}

// DefaultModel returns the model a backend uses when none is configured.
func DefaultModel(name string) string {
	return backends[name].model
}

// resolve checks cfg against the named backend and fills in its default model.
func resolve(name string, cfg ProviderConfig) (ProviderConfig, error) {
	b := backends[name]
	if b.keyed && cfg.APIKey == "" {
		return cfg, fmt.Errorf("%s: API key required", name)
	}
	if cfg.Model == "" {
		cfg.Model = b.model
	}
	return cfg, nil
}
