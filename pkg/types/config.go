package types

import "time"

// Config is the top-level FraudLens configuration, assembled from the
// optional JSONC config file, .env, and environment overrides.
type Config struct {
	// Server settings
	Server ServerConfig `json:"server,omitempty"`

	// Logging settings
	Log LogConfig `json:"log,omitempty"`

	// Default model selection, "provider/model" (e.g. "openai/gpt-4o")
	Model string `json:"model,omitempty"`

	// Provider configs keyed by provider ID
	Provider map[string]ProviderConfig `json:"provider,omitempty"`

	// Outbound retry and circuit breaker policy
	Resilience ResilienceConfig `json:"resilience,omitempty"`

	// Core banking records API
	BankData BankDataConfig `json:"bankData,omitempty"`

	// Outbound HTTP client factory tuning
	HTTP HTTPClientConfig `json:"http,omitempty"`

	// Directory of YAML analysis profiles
	Profiles string `json:"profiles,omitempty"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string        `json:"host,omitempty"`
	Port         int           `json:"port,omitempty"`
	EnableCORS   bool          `json:"enableCORS,omitempty" split_words:"true"`
	ReadTimeout  time.Duration `json:"readTimeout,omitempty" split_words:"true"`
	WriteTimeout time.Duration `json:"writeTimeout,omitempty" split_words:"true"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `json:"level,omitempty"` // DEBUG|INFO|WARN|ERROR
	Pretty bool   `json:"pretty,omitempty"`
}

// ProviderConfig holds configuration for a single LLM provider.
type ProviderConfig struct {
	// Kind selects the backend implementation: "openai", "gemini", "ark",
	// "anthropic". Defaults to the map key when empty, so entries named
	// after a backend need no explicit kind.
	Kind string `json:"kind,omitempty"`

	APIKey  string `json:"apiKey,omitempty"`
	BaseURL string `json:"baseURL,omitempty"`
	Model   string `json:"model,omitempty"`

	MaxTokens   int     `json:"maxTokens,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`

	// Azure OpenAI deployment settings (openai kind only)
	UseAzure   bool   `json:"useAzure,omitempty"`
	APIVersion string `json:"apiVersion,omitempty"`

	// Disable the provider without removing its config
	Disable bool `json:"disable,omitempty"`
}

// ResilienceConfig holds the retry and circuit breaker knobs applied to
// every outbound target.
type ResilienceConfig struct {
	// MaxAttempts is the total attempt budget per logical call.
	MaxAttempts int `json:"maxAttempts,omitempty" split_words:"true"`
	// BackoffBase is the exponential growth factor between attempts.
	BackoffBase float64 `json:"backoffBase,omitempty" split_words:"true"`
	// BackoffUnit scales the backoff schedule; the wait before retry k is
	// BackoffBase^k units.
	BackoffUnit time.Duration `json:"backoffUnit,omitempty" split_words:"true"`
	// BreakerThreshold is the consecutive transient failure count that
	// opens a target's circuit.
	BreakerThreshold int `json:"breakerThreshold,omitempty" split_words:"true"`
	// BreakerCooldown is how long an open circuit fast-fails before
	// admitting a half-open probe.
	BreakerCooldown time.Duration `json:"breakerCooldown,omitempty" split_words:"true"`
}

// BankDataConfig holds settings for the core banking records API client.
type BankDataConfig struct {
	BaseURL string `json:"baseURL,omitempty" split_words:"true"`
	APIKey  string `json:"apiKey,omitempty" split_words:"true"`
	// NotFoundTransient treats 404 responses as retryable. The records
	// mirror lags the ledger, so a missing account usually appears on a
	// later attempt.
	NotFoundTransient bool `json:"notFoundTransient,omitempty" split_words:"true"`
	// Timeout bounds a single records exchange; zero uses the shared
	// HTTP client default.
	Timeout time.Duration `json:"timeout,omitempty"`
}

// HTTPClientConfig tunes the shared outbound HTTP transport.
type HTTPClientConfig struct {
	Timeout         time.Duration `json:"timeout,omitempty"`
	MaxIdleConns    int           `json:"maxIdleConns,omitempty" split_words:"true"`
	MaxIdlePerHost  int           `json:"maxIdlePerHost,omitempty" split_words:"true"`
	IdleConnTimeout time.Duration `json:"idleConnTimeout,omitempty" split_words:"true"`
}

// Model represents an LLM model available from a provider.
type Model struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ProviderID string `json:"providerID"`
}
