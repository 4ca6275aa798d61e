package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/fraudlens-ai/fraudlens/internal/bankdata"
	"github.com/fraudlens-ai/fraudlens/internal/event"
	"github.com/fraudlens-ai/fraudlens/internal/provider"
)

// AnalyzeRequest represents a one-shot analysis request. Context and
// accountID feed the case evidence; at least one must be present.
type AnalyzeRequest struct {
	Prompt    string `json:"prompt"`
	Context   string `json:"context,omitempty"`
	AccountID string `json:"accountID,omitempty"`
	Provider  string `json:"provider,omitempty"`
	Profile   string `json:"profile,omitempty"`
}

// analyze handles POST /analyze
//
// A stateless analysis: no session is touched. When accountID is given
// the account's records evidence is fetched and appended to the case
// context; when a profile is named its system prompt frames the call.
func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "prompt is required")
		return
	}

	caseContext := req.Context
	if req.AccountID != "" {
		if s.bank == nil {
			writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "accountID given but no records API is configured")
			return
		}
		acct, txns, err := s.bank.Evidence(r.Context(), req.AccountID, 0)
		if err != nil {
			writeFault(w, err)
			return
		}
		evidence := bankdata.CaseContext(acct, txns)
		if caseContext == "" {
			caseContext = evidence
		} else {
			caseContext = caseContext + "\n\n" + evidence
		}
	}
	if strings.TrimSpace(caseContext) == "" {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "context or accountID is required")
		return
	}

	p, err := s.registry.Resolve(req.Provider)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	var opts []provider.CallOption
	if req.Profile != "" {
		prof, ok := s.profiles.Get(req.Profile)
		if !ok {
			writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "unknown profile: "+req.Profile)
			return
		}
		opts = append(opts, provider.WithSystemPrompt(prof.SystemPrompt))
	}

	start := time.Now()
	resp, err := p.Analyze(r.Context(), caseContext, req.Prompt, opts...)
	if err != nil {
		writeFault(w, err)
		return
	}

	event.Publish(event.Event{
		Type: event.AnalysisCompleted,
		Data: event.AnalysisCompletedData{
			Provider:  p.ID(),
			Model:     resp.Model,
			Profile:   req.Profile,
			AccountID: req.AccountID,
			ElapsedMS: time.Since(start).Milliseconds(),
		},
	})

	writeJSON(w, http.StatusOK, resp)
}
