// Package server provides HTTP server management and lifecycle handling for the bot's command surface.
// It includes server setup, middleware configuration, route management, and graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/triskis777/ketaverso-bot/config"
	"github.com/triskis777/ketaverso-bot/interfaces"
	"github.com/triskis777/ketaverso-bot/logging"
	"github.com/triskis777/ketaverso-bot/metrics"
)

// Server represents the HTTP server
type Server struct {
	server  *http.Server
	router  chi.Router
	handler interfaces.HTTPHandler
	limiter *RateLimiter
	config  *config.Config
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, handler interfaces.HTTPHandler, limiter *RateLimiter) *Server {
	router := chi.NewRouter()
	if limiter == nil {
		limiter = NewRateLimiter(DefaultRate, DefaultCapacity)
	}

	s := &Server{
		server: &http.Server{
			Handler:      router,
			Addr:         cfg.ServerAddr(),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: WriteTimeout(cfg),
			IdleTimeout:  60 * time.Second,
		},
		router:  router,
		handler: handler,
		limiter: limiter,
		config:  cfg,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// WriteTimeout covers the slowest resolution: primary query, translation, retried query, plus headroom
func WriteTimeout(cfg *config.Config) time.Duration {
	return 2*cfg.APITimeout + cfg.TranslateTimeout + 15*time.Second
}

// setupMiddleware configures all middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(RealIPMiddleware)
	s.router.Use(logging.LoggingMiddleware(logging.Logger()))
	s.router.Use(middleware.RedirectSlashes)
	s.router.Use(middleware.Recoverer)
	s.router.Use(metrics.Metrics)
	s.router.Use(RequestSizeMiddleware(s.config))
	s.router.Use(s.limiter.Handler)
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handler.HealthCheck)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Get("/substances/{query}", s.handler.ResolveSubstance)
	s.router.Post("/sessions/{id}/roas/{index}", s.handler.SelectROA)

	s.router.Route("/admin/aliases", func(r chi.Router) {
		r.Use(s.handler.RequireAdmin)
		r.Get("/", s.handler.ListAliases)
		r.Post("/", s.handler.RequestAlias)
		r.Post("/pending/{id}/confirm", s.handler.ConfirmAlias)
		r.Post("/pending/{id}/cancel", s.handler.CancelAlias)
	})
}

// Router exposes the configured handler chain
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the server. It returns nil once the server has been shut down.
func (s *Server) Start() error {
	if s.config.Env == config.EnvDevelopment {
		s.startProfilingServer()
	}

	logging.Info(fmt.Sprintf("Starting server at: %s", s.config.ServerAddr()))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
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

// startProfilingServer starts the pprof profiling server in development mode
func (s *Server) startProfilingServer() {
	go func() {
		logging.Info("Profiling server started at http://localhost:6060/debug/pprof/")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			logging.Warn("Profiling server failed", "error", err)
		}
	}()
}
