package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fraudlens-ai/fraudlens/internal/event"
)

// CreateSessionRequest represents the request body for creating a session.
// The id is optional; an empty one gets a generated ULID.
type CreateSessionRequest struct {
	ID string `json:"id,omitempty"`
}

// listSessions handles GET /session
func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.List())
}

// createSession handles POST /session
func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid JSON body")
		return
	}

	// Creation is first-write-wins: posting an existing id hands back the
	// existing session unchanged.
	sess, created := s.store.Create(req.ID)
	if created {
		event.Publish(event.Event{
			Type: event.SessionCreated,
			Data: event.SessionCreatedData{Info: sess.Info()},
		})
	}

	writeJSON(w, http.StatusOK, sess.Info())
}

// getSession handles GET /session/{sessionID}
func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	sess, ok := s.store.Get(sessionID)
	if !ok {
		writeError(w, http.StatusNotFound, ErrCodeNotFound, "Session not found")
		return
	}

	writeJSON(w, http.StatusOK, sess.Info())
}

// getHistory handles GET /session/{sessionID}/history
//
// Unknown ids answer 200 with an empty array, mirroring the store
// contract: absence and emptiness are indistinguishable here.
func (s *Server) getHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	writeJSON(w, http.StatusOK, s.store.History(sessionID))
}
