// Package server implements the nmakit assessment HTTP API.
//
// The server exposes the same pipeline as the CLI over HTTP: clients
// POST comparison or effect datasets and receive assessments back,
// with results archived in the configured store for later retrieval.
//
// # Endpoints
//
//   - POST /v1/geometry: assess network geometry from comparisons
//   - POST /v1/rankings: rank treatments from effect estimates
//   - GET /v1/assessments/{id}: fetch an archived assessment
//   - GET /healthz: liveness check
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/evisynth/nmakit/pkg/config"
	"github.com/evisynth/nmakit/pkg/pipeline"
	"github.com/evisynth/nmakit/pkg/store"
)

// Server is the assessment HTTP API.
type Server struct {
	cfg    *config.Config
	store  store.Store
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a server backed by the given store.
// If logger is nil, the default logger is used.
func New(cfg *config.Config, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		cfg:    cfg,
		store:  st,
		runner: pipeline.NewRunner(st, logger),
		logger: logger,
	}
}

// Router builds the HTTP handler with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/geometry", s.handleGeometry)
		r.Post("/rankings", s.handleRankings)
		r.Get("/assessments/{id}", s.handleGetAssessment)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Listen,
		Handler:      s.Router(),
		ReadTimeout:  s.cfg.Server.ReadTimeout.Duration,
		WriteTimeout: s.cfg.Server.WriteTimeout.Duration,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout.Duration)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// logRequests logs one line per request with status and duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
