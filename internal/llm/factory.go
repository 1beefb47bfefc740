package llm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stellarlinkco/quizbench/internal/config"
)

// NewProvider constructs the provider variant for a vendor name. The
// set of names is closed; anything else is a configuration error at
// construction time.
func NewProvider(name string, pcfg config.ProviderConfig) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "claude", "anthropic":
		return NewClaudeProvider(pcfg.APIKey, pcfg.BaseURL), nil
	case "openai":
		return NewOpenAIProvider(pcfg.APIKey, pcfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", name)
	}
}

// NewRegistryFromConfig builds providers for every configured vendor.
func NewRegistryFromConfig(cfg *config.Config) (*Registry, error) {
	if cfg == nil {
		return nil, errors.New("llm: nil config")
	}

	r := NewRegistry()
	for name, pcfg := range cfg.Providers {
		if strings.TrimSpace(name) == "" {
			continue
		}
		p, err := NewProvider(name, pcfg)
		if err != nil {
			return nil, err
		}
		r.Register(p)
	}
	return r, nil
}

// ProviderFor resolves the provider a model row names, constructing
// and registering the vendor on demand. A missing config entry does
// not block a known vendor: credentials may still arrive from the
// environment at client construction.
func (r *Registry) ProviderFor(cfg *config.Config, providerName string) (Provider, error) {
	if r == nil {
		return nil, errors.New("llm: nil registry")
	}

	key := strings.ToLower(strings.TrimSpace(providerName))
	if key == "anthropic" {
		key = "claude"
	}
	if p, ok := r.Get(key); ok {
		return p, nil
	}

	var pcfg config.ProviderConfig
	if cfg != nil {
		pcfg = cfg.Providers[key]
	}
	p, err := NewProvider(key, pcfg)
	if err != nil {
		return nil, err
	}
	r.Register(p)
	return p, nil
}
