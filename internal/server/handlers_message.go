package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/fraudlens-ai/fraudlens/internal/event"
	"github.com/fraudlens-ai/fraudlens/pkg/types"
)

// SendMessageRequest represents the request to send a chat message.
type SendMessageRequest struct {
	Content  string `json:"content"`
	Provider string `json:"provider,omitempty"`
}

// sendMessage handles POST /session/{sessionID}/message
//
// The session history plus the new user turn go to the provider; on
// success both turns are appended and the assistant message returned.
// On failure nothing is appended, so a retried request carries the same
// history again.
func (s *Server) sendMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	sess, ok := s.store.Get(sessionID)
	if !ok {
		writeError(w, http.StatusNotFound, ErrCodeNotFound, "Session not found")
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "content is required")
		return
	}

	p, err := s.registry.Resolve(req.Provider)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	resp, err := p.SendMessage(r.Context(), sess, req.Content)
	if err != nil {
		writeFault(w, err)
		return
	}

	userMsg := types.NewMessage(types.RoleUser, req.Content)
	assistantMsg := types.NewMessage(types.RoleAssistant, resp.Content)
	for _, msg := range []types.Message{userMsg, assistantMsg} {
		sess.Append(msg)
		event.Publish(event.Event{
			Type: event.SessionMessageAppended,
			Data: event.SessionMessageAppendedData{SessionID: sess.ID(), Message: msg},
		})
	}

	writeJSON(w, http.StatusOK, assistantMsg)
}
