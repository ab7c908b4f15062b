// Package server exposes the sprint orchestrator over a small JSON REST
// surface. Clients poll the status endpoint to observe phase progression;
// every endpoint maps 1:1 onto one orchestrator operation.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dylangamachefl/foundation-sprint/internal/config"
	"github.com/dylangamachefl/foundation-sprint/internal/sprint"
)

// Server wraps the HTTP server and its routes.
type Server struct {
	httpServer      *http.Server
	orchestrator    *sprint.Orchestrator
	logger          *slog.Logger
	shutdownTimeout time.Duration
}

// New creates a Server wired to the given orchestrator.
func New(cfg config.ServerConfig, orchestrator *sprint.Orchestrator) *Server {
	logger := slog.Default().With("component", "server")

	h := &Handlers{
		Orchestrator: orchestrator,
		Logger:       logger,
	}

	s := &Server{
		orchestrator:    orchestrator,
		logger:          logger,
		shutdownTimeout: cfg.ShutdownTimeout,
	}

	s.httpServer = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      NewRouter(h, logger),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s
}

// NewRouter builds the chi router with all routes and middleware. Exposed
// separately so tests can drive the full stack with httptest.
func NewRouter(h *Handlers, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.Healthz)

	r.Route("/api/sprint", func(r chi.Router) {
		r.Post("/start", h.StartSprint)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/status", h.GetStatus)
			r.Post("/research", h.SubmitResearch)
			r.Post("/decisions", h.MakeDecisions)
			r.Get("/results", h.GetResults)
		})
	})

	return r
}

// requestLogger logs one structured line per request.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// ListenAndServe starts the server and blocks until it stops.
func (s *Server) ListenAndServe() error {
	s.logger.Info("listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, then waits for any in-flight
// analysis rounds to drain so their final state transitions are logged.
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}

	s.orchestrator.Wait()
	return nil
}
