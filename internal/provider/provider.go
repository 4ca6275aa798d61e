// Package provider abstracts the LLM backends that run FraudLens
// analyses. Every backend satisfies the same contract and routes its
// outbound calls through the resilience layer, so callers see classified
// outcomes regardless of which vendor is behind the call.
package provider

import (
	"context"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/fraudlens-ai/fraudlens/internal/session"
	"github.com/fraudlens-ai/fraudlens/pkg/types"
)

// defaultSystemPrompt frames every call that no profile overrides.
const defaultSystemPrompt = "You are FraudLens, a fraud-alert triage assistant for banking operations. " +
	"Weigh the alert evidence for and against fraud and answer with a concise verdict: " +
	"likely fraud, likely legitimate, or needs investigation, naming the evidence that carries your call."

// validationPrompt keeps Validate cheap: a short, deterministic reply.
const validationPrompt = "Reply with the single word OK."

// Provider is the capability contract every LLM backend satisfies.
type Provider interface {
	// ID returns the provider identifier used in configuration and routing.
	ID() string

	// Name returns the human-readable provider name.
	Name() string

	// Models returns the provider's model catalog.
	Models() []types.Model

	// Analyze runs a stateless single-shot analysis of caseContext under
	// the given instruction prompt. Both texts must be non-empty; a
	// violation is terminal and makes no network attempt.
	Analyze(ctx context.Context, caseContext, prompt string, opts ...CallOption) (*Response, error)

	// SendMessage issues a call carrying the session's accumulated
	// history plus content as the new user turn. The provider never
	// mutates the session; on success the caller appends both turns.
	SendMessage(ctx context.Context, sess *session.Session, content string, opts ...CallOption) (*Response, error)

	// Validate is a lightweight connectivity and credential check. It
	// goes through the circuit breaker but not the retry budget, and
	// never touches session state.
	Validate(ctx context.Context) ValidationResult
}

// Response is a provider's answer to a single call.
type Response struct {
	Content string `json:"content"`
	Model   string `json:"model"`
}

// ValidationResult reports a provider self-check.
type ValidationResult struct {
	Provider  string `json:"provider"`
	OK        bool   `json:"ok"`
	Detail    string `json:"detail,omitempty"`
	ElapsedMS int64  `json:"elapsedMs"`
}

// CallOption adjusts a single provider call.
type CallOption func(*callOptions)

type callOptions struct {
	system string
}

// WithSystemPrompt replaces the provider's default system prompt for one
// call. Analysis profiles use this to steer the triage framing.
func WithSystemPrompt(system string) CallOption {
	return func(o *callOptions) { o.system = system }
}

func applyOptions(defaultSystem string, opts []CallOption) callOptions {
	o := callOptions{system: defaultSystem}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// analysisInput folds the case evidence and the analyst's instruction
// into one user turn.
func analysisInput(caseContext, prompt string) string {
	var b strings.Builder
	b.WriteString("Alert evidence:\n")
	b.WriteString(strings.TrimSpace(caseContext))
	b.WriteString("\n\nAnalyst question:\n")
	b.WriteString(strings.TrimSpace(prompt))
	return b.String()
}

// buildMessages converts a session history plus the new user turn into
// the Eino wire shape, prefixing the system prompt when present.
func buildMessages(system string, history []types.Message, content string) []*schema.Message {
	msgs := make([]*schema.Message, 0, len(history)+2)
	if system != "" {
		msgs = append(msgs, schema.SystemMessage(system))
	}
	for _, m := range history {
		switch m.Role {
		case types.RoleSystem:
			msgs = append(msgs, schema.SystemMessage(m.Content))
		case types.RoleAssistant:
			msgs = append(msgs, schema.AssistantMessage(m.Content, nil))
		default:
			msgs = append(msgs, schema.UserMessage(m.Content))
		}
	}
	msgs = append(msgs, schema.UserMessage(content))
	return msgs
}
