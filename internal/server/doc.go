// Package server provides the HTTP API for the FraudLens triage service.
//
// The server exposes the alert-triage surface over a chi router:
// conversation sessions with providers, one-shot analyses, provider
// management, analysis profiles, and a real-time event stream.
//
// # API Endpoints
//
//   - POST /session: create (or fetch, for an existing id) a session
//   - GET /session: list sessions
//   - GET /session/{sessionID}: fetch one session
//   - GET /session/{sessionID}/history: full message history
//   - POST /session/{sessionID}/message: send a chat turn
//   - POST /analyze: stateless one-shot analysis
//   - GET /provider: provider catalog with models
//   - POST /provider/{providerID}/validate: connectivity check
//   - GET /profile: loaded analysis profiles
//   - GET /event: Server-Sent Events stream of bus traffic
//   - GET /health: liveness, session count, breaker states
//
// # Error Shape
//
// Failures answer with a single JSON object:
//
//	{"error": {"code": "PROVIDER_ERROR", "message": "..."}}
//
// Upstream failures map by fault kind: an open circuit answers 503
// PROVIDER_UNAVAILABLE, a cancelled call 408 REQUEST_CANCELLED, and any
// other provider failure 502 PROVIDER_ERROR. Malformed input is 400
// INVALID_REQUEST and unknown path resources are 404 NOT_FOUND.
//
// # Event Stream
//
// GET /event holds the response open and forwards every bus event as an
// SSE message carrying {"type", "data"}. The stream opens with a
// stream.connected greeting, emits comment heartbeats every 30 seconds,
// and drops events rather than stalling when a client cannot keep up.
// A sessionID query parameter narrows the stream to one session.
//
// # Usage Example
//
//	srv := server.New(cfg.Server, store, registry, invoker, profiles, bank)
//
//	go func() {
//	    if err := srv.Start(); err != nil && err != http.ErrServerClosed {
//	        logging.Error().Err(err).Msg("Server stopped")
//	    }
//	}()
//
//	<-ctx.Done()
//	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
//	defer cancel()
//	srv.Shutdown(shutdownCtx)
package server
