// Package server provides the HTTP server for the FraudLens API.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/fraudlens-ai/fraudlens/internal/bankdata"
	"github.com/fraudlens-ai/fraudlens/internal/profile"
	"github.com/fraudlens-ai/fraudlens/internal/provider"
	"github.com/fraudlens-ai/fraudlens/internal/resilience"
	"github.com/fraudlens-ai/fraudlens/internal/session"
	"github.com/fraudlens-ai/fraudlens/pkg/types"
)

// Server is the HTTP server.
type Server struct {
	config   types.ServerConfig
	router   *chi.Mux
	httpSrv  *http.Server
	store    *session.Store
	registry *provider.Registry
	invoker  *resilience.Invoker
	profiles *profile.Registry
	bank     *bankdata.Client
}

// New creates a Server wired to its collaborators. bank may be nil when
// no records API is configured; /analyze then rejects accountID lookups.
func New(cfg types.ServerConfig, store *session.Store, registry *provider.Registry, invoker *resilience.Invoker, profiles *profile.Registry, bank *bankdata.Client) *Server {
	s := &Server{
		config:   cfg,
		router:   chi.NewRouter(),
		store:    store,
		registry: registry,
		invoker:  invoker,
		profiles: profiles,
		bank:     bank,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures middleware for the server.
func (s *Server) setupMiddleware() {
	// Request ID
	s.router.Use(middleware.RequestID)

	// Logging
	s.router.Use(middleware.Logger)

	// Recover from panics
	s.router.Use(middleware.Recoverer)

	// Real IP
	s.router.Use(middleware.RealIP)

	// CORS
	if s.config.EnableCORS {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"Link", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.httpSrv = &http.Server{
		Addr:         s.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout, // zero keeps the event stream open
	}

	return s.httpSrv.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

// Router returns the Chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}
