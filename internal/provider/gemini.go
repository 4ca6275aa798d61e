package provider

import (
	"context"
	"fmt"
	"os"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"google.golang.org/genai"

	"github.com/fraudlens-ai/fraudlens/internal/resilience"
	"github.com/fraudlens-ai/fraudlens/pkg/types"
)

// GeminiProvider implements Provider for Google Gemini models.
type GeminiProvider struct {
	*chatModel
	config *GeminiConfig
}

// GeminiConfig holds configuration for the Gemini provider.
type GeminiConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
}

// NewGeminiProvider creates a new Gemini provider.
func NewGeminiProvider(ctx context.Context, config *GeminiConfig, invoker *resilience.Invoker) (*GeminiProvider, error) {
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	modelID := config.Model
	if modelID == "" {
		modelID = os.Getenv("GEMINI_MODEL_ID")
	}
	if modelID == "" {
		modelID = "gemini-2.5-flash"
	}

	maxTokens := config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	cfg := &gemini.Config{
		Client:    client,
		Model:     modelID,
		MaxTokens: &maxTokens,
	}
	if config.Temperature > 0 {
		t := float32(config.Temperature)
		cfg.Temperature = &t
	}

	cm, err := gemini.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini model: %w", err)
	}

	return &GeminiProvider{
		chatModel: newChatModel("gemini", "Google Gemini", modelID, geminiModels(), cm, invoker),
		config:    config,
	}, nil
}

// geminiModels returns the list of Gemini models.
func geminiModels() []types.Model {
	return []types.Model{
		{ID: "gemini-2.5-pro", Name: "Gemini 2.5 Pro", ProviderID: "gemini"},
		{ID: "gemini-2.5-flash", Name: "Gemini 2.5 Flash", ProviderID: "gemini"},
		{ID: "gemini-2.0-flash", Name: "Gemini 2.0 Flash", ProviderID: "gemini"},
	}
}
