package core

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"wayfarer/internal/types"
)

// defaultRequestTimeout is the soft timeout applied to request contexts when
// no explicit RequestTimeout is configured.
const defaultRequestTimeout = 29 * time.Second

// defaultRedactedHeaders lists header names whose values are masked in request
// logs to prevent accidental leakage of credentials or session tokens.
var defaultRedactedHeaders = []string{
	"Authorization",
	"Cookie",
}

// MountRoutes defines the top-level routing hierarchy: the global middleware
// chain, the /v1 API group, and the health endpoint.
func (s *Server) MountRoutes() {
	s.registerGlobalMiddleware()

	s.router.Route("/v1", s.mountV1)

	s.router.Get("/health", s.HandleHealth)
}

// registerGlobalMiddleware applies middleware in strict order.
//
// Ordering Rationale:
//  1. Recoverer      - Catches panics; outermost to catch all failures.
//  2. ContextTimeout - Sets a soft deadline on the request context.
//  3. RequestID      - Generates/propagates correlation ID for tracing.
//  4. RequestLogger  - Structured logging (redacted headers).
func (s *Server) registerGlobalMiddleware() {
	s.router.Use(s.Recoverer)
	s.router.Use(ContextTimeoutMiddleware(s.requestTimeout()))
	s.router.Use(RequestIDMiddleware)
	s.router.Use(RequestLogger(s.Logger, defaultRedactedHeaders))
}

// mountV1 registers all v1 endpoints through the injected registrars.
func (s *Server) mountV1(r chi.Router) {
	for _, registrar := range s.V1RouteRegistrars {
		registrar(r)
	}
}

// requestTimeout returns the configured request timeout, falling back to the
// default when unset.
func (s *Server) requestTimeout() time.Duration {
	if s.Config != nil && s.Config.Server.RequestTimeout > 0 {
		return s.Config.Server.RequestTimeout
	}
	return defaultRequestTimeout
}

// ContextTimeoutMiddleware sets a deadline on the request context. When the
// deadline passes, downstream handlers receive a cancelled context; the
// response is controlled by the handler's behavior on cancellation.
func ContextTimeoutMiddleware(duration time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), duration)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestIDMiddleware generates or propagates a unique request ID for
// correlation across logs and traces. An incoming X-Request-Id header is
// reused; otherwise a new random ID is generated. The ID is stored in the
// context and echoed as the X-Request-Id response header.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = generateRequestID()
		}

		ctx := types.WithRequestID(r.Context(), requestID)
		w.Header().Set("X-Request-Id", requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// generateRequestID produces a cryptographically random hex string suitable
// for use as a request correlation ID.
func generateRequestID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		// If crypto/rand fails we still need a non-empty ID for correlation.
		return "fallback-" + hex.EncodeToString([]byte(time.Now().String()))
	}
	return hex.EncodeToString(b)
}
