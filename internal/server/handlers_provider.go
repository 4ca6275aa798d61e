package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fraudlens-ai/fraudlens/internal/event"
	"github.com/fraudlens-ai/fraudlens/pkg/types"
)

// ProviderSummary is one entry in the provider catalog.
type ProviderSummary struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Models []types.Model `json:"models"`
}

// listProviders handles GET /provider
func (s *Server) listProviders(w http.ResponseWriter, r *http.Request) {
	providers := s.registry.List()
	out := make([]ProviderSummary, 0, len(providers))
	for _, p := range providers {
		out = append(out, ProviderSummary{
			ID:     p.ID(),
			Name:   p.Name(),
			Models: p.Models(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// validateProvider handles POST /provider/{providerID}/validate
//
// The result is reported, not mapped to an error status: a failed check
// is a successful validation request.
func (s *Server) validateProvider(w http.ResponseWriter, r *http.Request) {
	providerID := chi.URLParam(r, "providerID")

	p, err := s.registry.Get(providerID)
	if err != nil {
		writeError(w, http.StatusNotFound, ErrCodeNotFound, err.Error())
		return
	}

	result := p.Validate(r.Context())

	event.Publish(event.Event{
		Type: event.ProviderValidated,
		Data: event.ProviderValidatedData{
			Provider:  result.Provider,
			OK:        result.OK,
			Detail:    result.Detail,
			ElapsedMS: result.ElapsedMS,
		},
	})

	writeJSON(w, http.StatusOK, result)
}
