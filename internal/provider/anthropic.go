package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fraudlens-ai/fraudlens/internal/fault"
	"github.com/fraudlens-ai/fraudlens/internal/httpclient"
	"github.com/fraudlens-ai/fraudlens/internal/resilience"
	"github.com/fraudlens-ai/fraudlens/internal/session"
	"github.com/fraudlens-ai/fraudlens/pkg/types"
)

const (
	anthropicDefaultBaseURL = "https://api.anthropic.com"
	anthropicDefaultModel   = "claude-sonnet-4-20250514"
	anthropicVersion        = "2023-06-01"
)

// AnthropicProvider implements Provider for Anthropic Claude models. It
// speaks the Messages API directly over a client from the shared factory,
// so every response status lands in the fault classifier unmangled.
type AnthropicProvider struct {
	id          string
	modelID     string
	system      string
	baseURL     string
	apiKey      string
	maxTokens   int
	temperature float64
	models      []types.Model
	client      *http.Client
	invoker     *resilience.Invoker
}

// AnthropicConfig holds configuration for the Anthropic provider.
type AnthropicConfig struct {
	APIKey      string
	BaseURL     string
	Model       string // Model ID (e.g. "claude-sonnet-4-20250514")
	MaxTokens   int
	Temperature float64
}

// NewAnthropicProvider creates a new Anthropic provider.
func NewAnthropicProvider(config *AnthropicConfig, invoker *resilience.Invoker, factory *httpclient.Factory) (*AnthropicProvider, error) {
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
	}

	modelID := config.Model
	if modelID == "" {
		modelID = os.Getenv("ANTHROPIC_MODEL_ID")
	}
	if modelID == "" {
		modelID = anthropicDefaultModel
	}

	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = anthropicDefaultBaseURL
	}

	maxTokens := config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	return &AnthropicProvider{
		id:          "anthropic",
		modelID:     modelID,
		system:      defaultSystemPrompt,
		baseURL:     baseURL,
		apiKey:      apiKey,
		maxTokens:   maxTokens,
		temperature: config.Temperature,
		models:      anthropicModels(),
		client:      factory.CreateClient(),
		invoker:     invoker,
	}, nil
}

// ID returns the provider identifier.
func (p *AnthropicProvider) ID() string { return p.id }

// Name returns the human-readable provider name.
func (p *AnthropicProvider) Name() string { return "Anthropic" }

// Models returns the list of available models.
func (p *AnthropicProvider) Models() []types.Model { return p.models }

func (p *AnthropicProvider) target() string { return "llm." + p.id }

// Analyze runs a stateless single-shot analysis.
func (p *AnthropicProvider) Analyze(ctx context.Context, caseContext, prompt string, opts ...CallOption) (*Response, error) {
	if strings.TrimSpace(caseContext) == "" || strings.TrimSpace(prompt) == "" {
		return nil, fault.Terminal(p.target(), "case context and prompt must be non-empty", nil)
	}
	o := applyOptions(p.system, opts)
	msgs := []anthropicMessage{{Role: "user", Content: analysisInput(caseContext, prompt)}}
	return p.complete(ctx, o.system, msgs, p.maxTokens)
}

// SendMessage issues a call with the session history plus the new user
// turn. The session itself is left untouched.
func (p *AnthropicProvider) SendMessage(ctx context.Context, sess *session.Session, content string, opts ...CallOption) (*Response, error) {
	if sess == nil {
		return nil, fault.Terminal(p.target(), "nil session", nil)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fault.Terminal(p.target(), "message content must be non-empty", nil)
	}
	o := applyOptions(p.system, opts)
	system, msgs := buildAnthropicMessages(o.system, sess.Messages(), content)
	return p.complete(ctx, system, msgs, p.maxTokens)
}

// Validate issues a minimal completion through the breaker only.
func (p *AnthropicProvider) Validate(ctx context.Context) ValidationResult {
	start := time.Now()
	err := p.invoker.DoOnce(ctx, p.target(), func(ctx context.Context) error {
		msgs := []anthropicMessage{{Role: "user", Content: validationPrompt}}
		return p.post(ctx, "", msgs, 16, &Response{})
	})
	res := ValidationResult{
		Provider:  p.id,
		OK:        err == nil,
		ElapsedMS: time.Since(start).Milliseconds(),
	}
	if err != nil {
		res.Detail = err.Error()
	}
	return res
}

func (p *AnthropicProvider) complete(ctx context.Context, system string, msgs []anthropicMessage, maxTokens int) (*Response, error) {
	out := &Response{}
	err := p.invoker.Do(ctx, p.target(), func(ctx context.Context) error {
		return p.post(ctx, system, msgs, maxTokens, out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// post performs one Messages API exchange and classifies the outcome.
func (p *AnthropicProvider) post(ctx context.Context, system string, msgs []anthropicMessage, maxTokens int, out *Response) error {
	reqBody := anthropicRequest{
		Model:     p.modelID,
		MaxTokens: maxTokens,
		System:    system,
		Messages:  msgs,
	}
	if p.temperature > 0 {
		reqBody.Temperature = p.temperature
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return fault.Terminal(p.target(), "encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return fault.Terminal(p.target(), "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := p.client.Do(req)
	if err != nil {
		// Network-level failure; the invoker classifies it.
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fe := fault.FromStatus(p.target(), resp.StatusCode, false)
		var apiErr anthropicErrorBody
		if decodeErr := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&apiErr); decodeErr == nil && apiErr.Error.Message != "" {
			fe.Message = fmt.Sprintf("%s: %s", fe.Message, apiErr.Error.Message)
		}
		return fe
	}

	var ar anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return fault.Terminal(p.target(), "decode response", err)
	}

	var text strings.Builder
	for _, block := range ar.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return fault.Terminal(p.target(), "empty completion", nil)
	}

	out.Content = text.String()
	out.Model = ar.Model
	if out.Model == "" {
		out.Model = p.modelID
	}
	return nil
}

// buildAnthropicMessages splits a session history into the Messages API
// shape: system turns fold into the system field, the rest alternate as
// user/assistant messages, and content arrives as the final user turn.
func buildAnthropicMessages(system string, history []types.Message, content string) (string, []anthropicMessage) {
	msgs := make([]anthropicMessage, 0, len(history)+1)
	for _, m := range history {
		switch m.Role {
		case types.RoleSystem:
			if system == "" {
				system = m.Content
			} else {
				system += "\n\n" + m.Content
			}
		case types.RoleAssistant:
			msgs = append(msgs, anthropicMessage{Role: "assistant", Content: m.Content})
		default:
			msgs = append(msgs, anthropicMessage{Role: "user", Content: m.Content})
		}
	}
	msgs = append(msgs, anthropicMessage{Role: "user", Content: content})
	return system, msgs
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	Temperature float64            `json:"temperature,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

type anthropicErrorBody struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// anthropicModels returns the list of Anthropic models.
func anthropicModels() []types.Model {
	return []types.Model{
		{ID: "claude-opus-4-20250514", Name: "Claude 4 Opus", ProviderID: "anthropic"},
		{ID: "claude-sonnet-4-20250514", Name: "Claude 4 Sonnet", ProviderID: "anthropic"},
		{ID: "claude-3-5-haiku-20241022", Name: "Claude 3.5 Haiku", ProviderID: "anthropic"},
	}
}
