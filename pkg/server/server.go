// Package server exposes the layout and render pipeline over HTTP.
//
// Routes:
//
//	POST   /v1/layout                 layout pass as JSON
//	POST   /v1/render?format=svg      rendered artifact
//	GET    /v1/charts                 list stored charts
//	POST   /v1/charts                 store a chart
//	GET    /v1/charts/{id}            fetch a stored chart
//	PUT    /v1/charts/{id}            replace a stored chart
//	DELETE /v1/charts/{id}            delete a stored chart
//	GET    /v1/charts/{id}/render     render a stored chart
//	GET    /healthz                   liveness
//	GET    /metrics                   Prometheus metrics
//
// Errors are JSON objects {"error": CODE, "message": ...} with the status
// from [errors.HTTPStatus].
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/waterfall/pkg/pipeline"
	"github.com/matzehuels/waterfall/pkg/store"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 4 << 20

// Server serves the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	store    store.Store
	logger   *log.Logger
	defaults pipeline.Options
	metrics  http.Handler
	timeout  time.Duration
	router   chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithDefaults sets the options used for fields a request leaves unset.
func WithDefaults(o pipeline.Options) Option { return func(s *Server) { s.defaults = o } }

// WithMetricsHandler replaces the /metrics handler (default promhttp.Handler).
func WithMetricsHandler(h http.Handler) Option { return func(s *Server) { s.metrics = h } }

// WithTimeout bounds each request's processing time (default 30s).
func WithTimeout(d time.Duration) Option { return func(s *Server) { s.timeout = d } }

// New creates a server. A nil store disables the /v1/charts routes.
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner:  runner,
		store:   st,
		logger:  logger,
		metrics: promhttp.Handler(),
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(instrument)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", s.metrics)

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(s.timeout))
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)

		if s.store != nil {
			r.Route("/charts", func(r chi.Router) {
				r.Get("/", s.handleListCharts)
				r.Post("/", s.handleCreateChart)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetChart)
					r.Put("/", s.handlePutChart)
					r.Delete("/", s.handleDeleteChart)
					r.Get("/render", s.handleRenderChart)
				})
			})
		}
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
