package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// MockLLMServer mimics an OpenAI-compatible completions API with canned
// triage verdicts, so the real provider stack can be exercised without a
// vendor behind it.
type MockLLMServer struct {
	server *httptest.Server

	mu         sync.Mutex
	requests   []MockRequest
	failStatus int
}

// MockRequest records one completions call for verification.
type MockRequest struct {
	Timestamp time.Time
	Method    string
	Path      string
	Model     string
	System    string
	LastUser  string
	Body      map[string]any
}

// NewMockLLMServer starts the mock on a local listener.
func NewMockLLMServer() *MockLLMServer {
	m := &MockLLMServer{
		requests: make([]MockRequest, 0),
	}

	mux := http.NewServeMux()

	// OpenAI-compatible endpoint, with and without the version prefix.
	mux.HandleFunc("/v1/chat/completions", m.handleChatCompletions)
	mux.HandleFunc("/chat/completions", m.handleChatCompletions)

	m.server = httptest.NewServer(mux)
	return m
}

// URL returns the mock server's URL.
func (m *MockLLMServer) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockLLMServer) Close() {
	m.server.Close()
}

// GetRequests returns all recorded requests.
func (m *MockLLMServer) GetRequests() []MockRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockRequest(nil), m.requests...)
}

// LastRequest returns the most recent completions call, if any.
func (m *MockLLMServer) LastRequest() (MockRequest, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return MockRequest{}, false
	}
	return m.requests[len(m.requests)-1], true
}

// SetFailure makes every completions call answer with the given HTTP
// status until ClearFailure. Requests are still recorded.
func (m *MockLLMServer) SetFailure(status int) {
	m.mu.Lock()
	m.failStatus = status
	m.mu.Unlock()
}

// ClearFailure restores normal answers.
func (m *MockLLMServer) ClearFailure() {
	m.mu.Lock()
	m.failStatus = 0
	m.mu.Unlock()
}

func (m *MockLLMServer) handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var req map[string]any
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	model, _ := req["model"].(string)

	m.mu.Lock()
	m.requests = append(m.requests, MockRequest{
		Timestamp: time.Now(),
		Method:    r.Method,
		Path:      r.URL.Path,
		Model:     model,
		System:    extractRole(req, "system"),
		LastUser:  extractRole(req, "user"),
		Body:      req,
	})
	failStatus := m.failStatus
	m.mu.Unlock()

	if failStatus != 0 {
		w.WriteHeader(failStatus)
		w.Write([]byte(`{"error": {"message": "induced failure", "type": "server_error"}}`))
		return
	}

	m.writeResponse(w, model, verdictFor(extractRole(req, "user")))
}

// extractRole returns the content of the last message with the given role.
func extractRole(req map[string]any, role string) string {
	messages, ok := req["messages"].([]any)
	if !ok {
		return ""
	}
	for i := len(messages) - 1; i >= 0; i-- {
		msg, ok := messages[i].(map[string]any)
		if !ok {
			continue
		}
		if r, ok := msg["role"].(string); ok && r == role {
			if content, ok := msg["content"].(string); ok {
				return content
			}
		}
	}
	return ""
}

// verdictFor scripts a triage answer keyed on the evidence text.
func verdictFor(prompt string) string {
	promptLower := strings.ToLower(prompt)

	switch {
	case strings.Contains(promptLower, "account takeover"):
		return "Verdict: likely fraud. Failed logins followed by a password reset and an immediate payee change."

	case strings.Contains(promptLower, "duplicate charge"):
		return "Verdict: likely legitimate. Duplicate authorization holds usually release within days."

	case strings.Contains(promptLower, "wire"):
		return "Verdict: needs investigation. The outbound wire pattern warrants a manual review."

	case strings.Contains(promptLower, "payroll"):
		return "Verdict: likely legitimate. The inbound amount matches the account's payroll history."

	default:
		return "Verdict: needs investigation. The evidence is inconclusive."
	}
}

// writeResponse writes a non-streaming OpenAI completions answer.
func (m *MockLLMServer) writeResponse(w http.ResponseWriter, model, content string) {
	if model == "" {
		model = "fraud-mock-1"
	}
	response := map[string]any{
		"id":      "chatcmpl-mockllm-" + generateMockID(),
		"object":  "chat.completion",
		"created": time.Now().Unix(),
		"model":   model,
		"choices": []map[string]any{
			{
				"index": 0,
				"message": map[string]any{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]any{
			"prompt_tokens":     100,
			"completion_tokens": 50,
			"total_tokens":      150,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// generateMockID generates a simple mock ID.
func generateMockID() string {
	return "mock123456"
}
