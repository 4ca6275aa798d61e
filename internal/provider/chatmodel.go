package provider

import (
	"context"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/fraudlens-ai/fraudlens/internal/fault"
	"github.com/fraudlens-ai/fraudlens/internal/resilience"
	"github.com/fraudlens-ai/fraudlens/internal/session"
	"github.com/fraudlens-ai/fraudlens/pkg/types"
)

// chatModel is the shared engine behind every Eino-backed provider. The
// backend files construct the vendor SDK model; chatModel supplies the
// contract operations and routes each call through the resilience layer
// under the target "llm.<id>".
type chatModel struct {
	id      string
	name    string
	modelID string
	system  string
	models  []types.Model
	cm      model.BaseChatModel
	invoker *resilience.Invoker
}

func newChatModel(id, name, modelID string, models []types.Model, cm model.BaseChatModel, invoker *resilience.Invoker) *chatModel {
	return &chatModel{
		id:      id,
		name:    name,
		modelID: modelID,
		system:  defaultSystemPrompt,
		models:  models,
		cm:      cm,
		invoker: invoker,
	}
}

// ID returns the provider identifier.
func (m *chatModel) ID() string { return m.id }

// Name returns the human-readable provider name.
func (m *chatModel) Name() string { return m.name }

// Models returns the provider's model catalog.
func (m *chatModel) Models() []types.Model { return m.models }

func (m *chatModel) target() string { return "llm." + m.id }

// Analyze runs a stateless single-shot analysis.
func (m *chatModel) Analyze(ctx context.Context, caseContext, prompt string, opts ...CallOption) (*Response, error) {
	if strings.TrimSpace(caseContext) == "" || strings.TrimSpace(prompt) == "" {
		return nil, fault.Terminal(m.target(), "case context and prompt must be non-empty", nil)
	}
	o := applyOptions(m.system, opts)
	msgs := []*schema.Message{}
	if o.system != "" {
		msgs = append(msgs, schema.SystemMessage(o.system))
	}
	msgs = append(msgs, schema.UserMessage(analysisInput(caseContext, prompt)))
	return m.generate(ctx, msgs)
}

// SendMessage issues a call with the session history plus the new user
// turn. The session itself is left untouched.
func (m *chatModel) SendMessage(ctx context.Context, sess *session.Session, content string, opts ...CallOption) (*Response, error) {
	if sess == nil {
		return nil, fault.Terminal(m.target(), "nil session", nil)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fault.Terminal(m.target(), "message content must be non-empty", nil)
	}
	o := applyOptions(m.system, opts)
	return m.generate(ctx, buildMessages(o.system, sess.Messages(), content))
}

// Validate issues a minimal completion through the breaker only; a
// terminal answer from the vendor still proves connectivity in the
// breaker's eyes but fails the check.
func (m *chatModel) Validate(ctx context.Context) ValidationResult {
	start := time.Now()
	err := m.invoker.DoOnce(ctx, m.target(), func(ctx context.Context) error {
		_, gerr := m.cm.Generate(ctx, []*schema.Message{schema.UserMessage(validationPrompt)})
		return gerr
	})
	res := ValidationResult{
		Provider:  m.id,
		OK:        err == nil,
		ElapsedMS: time.Since(start).Milliseconds(),
	}
	if err != nil {
		res.Detail = err.Error()
	}
	return res
}

func (m *chatModel) generate(ctx context.Context, msgs []*schema.Message) (*Response, error) {
	var out *schema.Message
	err := m.invoker.Do(ctx, m.target(), func(ctx context.Context) error {
		resp, gerr := m.cm.Generate(ctx, msgs)
		if gerr != nil {
			// Vendor SDK errors are opaque; the invoker classifies them.
			return gerr
		}
		if resp == nil || strings.TrimSpace(resp.Content) == "" {
			return fault.Terminal(m.target(), "empty completion", nil)
		}
		out = resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Response{Content: out.Content, Model: m.modelID}, nil
}
