package server

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	r := s.router

	// Session routes
	r.Route("/session", func(r chi.Router) {
		r.Get("/", s.listSessions)
		r.Post("/", s.createSession)

		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Get("/history", s.getHistory)
			r.Post("/message", s.sendMessage)
		})
	})

	// One-shot analysis
	r.Post("/analyze", s.analyze)

	// Providers
	r.Route("/provider", func(r chi.Router) {
		r.Get("/", s.listProviders)
		r.Post("/{providerID}/validate", s.validateProvider)
	})

	// Analysis profiles
	r.Get("/profile", s.listProfiles)

	// Event streaming (SSE)
	r.Get("/event", s.events)

	// Health
	r.Get("/health", s.health)
}
