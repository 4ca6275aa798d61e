package provider

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/fraudlens-ai/fraudlens/internal/httpclient"
	"github.com/fraudlens-ai/fraudlens/internal/logging"
	"github.com/fraudlens-ai/fraudlens/internal/resilience"
	"github.com/fraudlens-ai/fraudlens/pkg/types"
)

// defaultPreference orders backends when no default model is configured.
var defaultPreference = []string{"openai", "anthropic", "gemini", "ark"}

// Registry manages all configured providers.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	config    *types.Config
}

// NewRegistry creates an empty provider registry.
func NewRegistry(config *types.Config) *Registry {
	return &Registry{
		providers: make(map[string]Provider),
		config:    config,
	}
}

// Register adds a provider to the registry.
func (r *Registry) Register(provider Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[provider.ID()] = provider
}

// Get retrieves a provider by ID.
func (r *Registry) Get(providerID string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, ok := r.providers[providerID]
	if !ok {
		return nil, fmt.Errorf("provider not found: %s", providerID)
	}
	return provider, nil
}

// Resolve returns the named provider, or the default when providerID is
// empty.
func (r *Registry) Resolve(providerID string) (Provider, error) {
	if providerID == "" {
		return r.Default()
	}
	return r.Get(providerID)
}

// List returns all registered providers sorted by ID.
func (r *Registry) List() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	providers := make([]Provider, 0, len(r.providers))
	for _, p := range r.providers {
		providers = append(providers, p)
	}
	sort.Slice(providers, func(i, j int) bool {
		return providers[i].ID() < providers[j].ID()
	})
	return providers
}

// AllModels returns the catalogs of every registered provider.
func (r *Registry) AllModels() []types.Model {
	var models []types.Model
	for _, p := range r.List() {
		models = append(models, p.Models()...)
	}
	return models
}

// Default returns the provider the configured default model names, or
// the first registered provider in preference order.
func (r *Registry) Default() (Provider, error) {
	if r.config != nil && r.config.Model != "" {
		providerID, _ := ParseModelString(r.config.Model)
		if providerID != "" {
			return r.Get(providerID)
		}
	}

	for _, id := range defaultPreference {
		if p, err := r.Get(id); err == nil {
			return p, nil
		}
	}

	providers := r.List()
	if len(providers) == 0 {
		return nil, fmt.Errorf("no providers configured")
	}
	return providers[0], nil
}

// ParseModelString parses "provider/model" format.
func ParseModelString(s string) (providerID, modelID string) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return "", s
}

// InitializeProviders creates and registers every enabled provider from
// config. A backend that fails to construct is logged and skipped, so one
// bad credential never takes the rest of the registry down.
func InitializeProviders(ctx context.Context, config *types.Config, invoker *resilience.Invoker, factory *httpclient.Factory) (*Registry, error) {
	registry := NewRegistry(config)
	log := logging.Component("provider")

	ids := make([]string, 0, len(config.Provider))
	for id := range config.Provider {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		cfg := config.Provider[id]
		if cfg.Disable {
			continue
		}

		kind := cfg.Kind
		if kind == "" {
			kind = id
		}

		var (
			p   Provider
			err error
		)
		switch kind {
		case "openai":
			p, err = NewOpenAIProvider(ctx, &OpenAIConfig{
				ID:          id,
				APIKey:      cfg.APIKey,
				BaseURL:     cfg.BaseURL,
				Model:       cfg.Model,
				MaxTokens:   cfg.MaxTokens,
				Temperature: cfg.Temperature,
				UseAzure:    cfg.UseAzure,
				APIVersion:  cfg.APIVersion,
			}, invoker)
		case "gemini":
			p, err = NewGeminiProvider(ctx, &GeminiConfig{
				APIKey:      cfg.APIKey,
				BaseURL:     cfg.BaseURL,
				Model:       cfg.Model,
				MaxTokens:   cfg.MaxTokens,
				Temperature: cfg.Temperature,
			}, invoker)
		case "ark":
			p, err = NewArkProvider(ctx, &ArkConfig{
				APIKey:      cfg.APIKey,
				BaseURL:     cfg.BaseURL,
				Model:       cfg.Model,
				MaxTokens:   cfg.MaxTokens,
				Temperature: cfg.Temperature,
			}, invoker)
		case "anthropic":
			p, err = NewAnthropicProvider(&AnthropicConfig{
				APIKey:      cfg.APIKey,
				BaseURL:     cfg.BaseURL,
				Model:       cfg.Model,
				MaxTokens:   cfg.MaxTokens,
				Temperature: cfg.Temperature,
			}, invoker, factory)
		default:
			log.Warn().Str("provider", id).Str("kind", kind).Msg("Unknown provider kind")
			continue
		}

		if err != nil {
			log.Warn().Str("provider", id).Err(err).Msg("Provider not initialized")
			continue
		}

		registry.Register(p)
		log.Info().Str("provider", id).Str("kind", kind).Msg("Provider registered")
	}

	return registry, nil
}
