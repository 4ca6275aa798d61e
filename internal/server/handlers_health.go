package server

import (
	"net/http"

	"github.com/fraudlens-ai/fraudlens/internal/resilience"
)

// HealthResponse reports service liveness plus the state of every
// outbound dependency seen so far.
type HealthResponse struct {
	Status    string                      `json:"status"`
	Sessions  int                         `json:"sessions"`
	Providers []string                    `json:"providers"`
	Breakers  map[string]resilience.State `json:"breakers"`
}

// health handles GET /health
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	providers := make([]string, 0)
	for _, p := range s.registry.List() {
		providers = append(providers, p.ID())
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Sessions:  s.store.Len(),
		Providers: providers,
		Breakers:  s.invoker.BreakerStates(),
	})
}
