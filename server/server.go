// Package server provides the HTTP scrape endpoint and lifecycle handling
// for the exporter. It wires the metric store's exposition handler, the
// health endpoint, and graceful shutdown.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/giygas/nginx-stats-exporter/config"
	"github.com/giygas/nginx-stats-exporter/interfaces"
	"github.com/giygas/nginx-stats-exporter/logging"
	"github.com/giygas/nginx-stats-exporter/metrics"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router chi.Router
	store  *metrics.Store
	health interfaces.HealthChecker
	config *config.Config
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, store *metrics.Store, health interfaces.HealthChecker) *Server {
	router := chi.NewRouter()

	server := &Server{
		server: &http.Server{
			Handler:      router,
			Addr:         cfg.Address + ":" + cfg.Port,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router: router,
		store:  store,
		health: health,
		config: cfg,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures all middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(RealIPMiddleware)
	s.router.Use(logging.LoggingMiddleware(slog.Default()))
	s.router.Use(middleware.Recoverer)
	s.router.Use(RateLimitMiddleware)
}

// setupRoutes configures all routes. Anything outside the two endpoints is
// a 404, which chi provides by default.
func (s *Server) setupRoutes() {
	s.router.Get("/metrics", s.store.Handler().ServeHTTP)
	s.router.Get("/health", s.handleHealth)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status, data, httpStatus := s.health.HealthCheck()
	data["status"] = status
	respondWithJSON(w, httpStatus, data)
}

// Start starts the server
func (s *Server) Start() error {
	logging.Info("Starting exporter", "address", s.config.Address, "port", s.config.Port)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	if err := s.server.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
		if err := s.server.Close(); err != nil {
			logging.Error("Server close error", "error", err)
			return err
		}
	}

	logging.Info("Server shutdown complete")
	return nil
}

// Router returns the configured router, used by tests.
func (s *Server) Router() chi.Router {
	return s.router
}
