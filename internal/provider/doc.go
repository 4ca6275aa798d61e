// Package provider provides the LLM backend abstraction for FraudLens.
//
// This package implements a unified interface over the Large Language Model
// vendors that run fraud-alert analyses. It supports OpenAI GPT, Google
// Gemini and Volcengine ARK through the Eino framework, and Anthropic
// Claude through a direct Messages API client.
//
// # Core Components
//
// The package is built around a small set of types:
//
//   - Provider: the contract every backend implements
//   - Registry: manages and resolves configured providers
//   - Response/ValidationResult: the outcomes callers consume
//   - CallOption: per-call adjustments such as a profile's system prompt
//
// # The Provider Contract
//
// Every backend exposes the same three operations:
//
//	// One-shot analysis of alert evidence
//	resp, err := p.Analyze(ctx, caseContext, "is this account takeover?")
//
//	// Conversational turn carrying a session's history
//	resp, err := p.SendMessage(ctx, sess, "what should we verify next?")
//
//	// Connectivity and credential self-check
//	result := p.Validate(ctx)
//
// Analyze and SendMessage route through the resilience layer's full retry
// and circuit breaker policy under the target "llm.<id>". Validate goes
// through the breaker only, so a health check never burns the retry budget.
// SendMessage reads the session history but never appends to it; recording
// the exchange is the caller's decision.
//
// # Supported Backends
//
// ## OpenAI (GPT)
//
// Native OpenAI API access, Azure OpenAI deployments and OpenAI-compatible
// endpoints:
//
//	p, err := NewOpenAIProvider(ctx, &OpenAIConfig{
//	    APIKey:    "sk-...",
//	    Model:     "gpt-4o",
//	    MaxTokens: 4096,
//	}, invoker)
//
// ## Google Gemini
//
// Gemini models over the GenAI SDK:
//
//	p, err := NewGeminiProvider(ctx, &GeminiConfig{
//	    APIKey: "...",
//	    Model:  "gemini-2.5-flash",
//	}, invoker)
//
// ## Volcengine ARK
//
//	p, err := NewArkProvider(ctx, &ArkConfig{
//	    APIKey: "...",
//	    Model:  "endpoint-id",
//	}, invoker)
//
// ## Anthropic (Claude)
//
// Claude speaks the Messages API directly over a client from the shared
// HTTP factory, so response statuses reach the fault classifier untouched:
//
//	p, err := NewAnthropicProvider(&AnthropicConfig{
//	    APIKey:    "sk-ant-...",
//	    Model:     "claude-sonnet-4-20250514",
//	    MaxTokens: 4096,
//	}, invoker, factory)
//
// # Registry Usage
//
// The Registry manages all configured providers and resolves which one
// serves a request:
//
//	registry := NewRegistry(config)
//
//	// Get a specific provider
//	p, err := registry.Get("anthropic")
//
//	// Resolve an optional request override, falling back to the default
//	p, err := registry.Resolve(req.Provider)
//
//	// List all available models across providers
//	models := registry.AllModels()
//
// The default provider comes from the configured "provider/model" string,
// or from a fixed preference order when none is configured.
//
// # Configuration
//
// Providers are configured through the provider section of the config file,
// with API keys falling back to the conventional environment variables
// (OPENAI_API_KEY, GEMINI_API_KEY, ARK_API_KEY, ANTHROPIC_API_KEY):
//
//	"provider": {
//	    "anthropic": {"model": "claude-sonnet-4-20250514"},
//	    "openai":    {"model": "gpt-4o", "maxTokens": 4096}
//	}
//
// InitializeProviders builds every enabled entry and registers the ones
// that construct successfully; a misconfigured backend is logged and
// skipped rather than failing startup.
package provider
