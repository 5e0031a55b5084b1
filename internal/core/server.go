// Package core provides the API chassis for the Wayfarer itinerary service.
// It builds a chi router and enforces cross-cutting concerns -- recovery,
// timeouts, request correlation, logging, and error envelopes -- before
// requests reach domain handlers.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"wayfarer/internal/config"
)

// Server encapsulates the dependencies of the HTTP surface, allowing for easy
// injection during testing and distinct configuration per environment.
type Server struct {
	Config *config.Config
	Logger *slog.Logger

	// HealthProbes are the subsystem checks executed by GET /health.
	HealthProbes []HealthProbe

	// V1RouteRegistrars mount domain handler routes under /v1. Populated by
	// the application entry point to avoid import cycles between core and
	// handler packages.
	V1RouteRegistrars []func(chi.Router)

	router *chi.Mux
}

// NewServer initializes the chassis and prepares the router for route
// mounting. The caller mounts routes via MountRoutes after construction; the
// separation lets tests customize route registration.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}

	return &Server{
		Config: cfg,
		Logger: logger,
		router: chi.NewRouter(),
	}, nil
}

// Handler returns the http.Handler for the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Router returns the underlying chi.Mux for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Shutdown performs graceful termination of server-held resources. Database
// pool closure is owned by the entry point, which created the pool.
func (s *Server) Shutdown(ctx context.Context) error {
	s.Logger.Info("server shutdown initiated")
	s.Logger.Info("server shutdown complete")
	return nil
}
