package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/HerbHall/spacematch/internal/version"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RouteRegistrar is implemented by handlers that mount their own routes.
type RouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux)
}

// Options configures a Server.
type Options struct {
	// RateLimit is the sustained number of API requests per second. Zero
	// disables rate limiting.
	RateLimit float64
	// RateBurst is the number of requests allowed above RateLimit at once.
	RateBurst int
	// Metrics is the registry exposed on /metrics. Nil disables the endpoint.
	Metrics *prometheus.Registry
}

// Server is the spacematch HTTP server.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
}

// New creates a Server listening on addr with the given route registrars.
func New(addr string, logger *zap.Logger, opts Options, registrars ...RouteRegistrar) *Server {
	mux := http.NewServeMux()

	s := &Server{
		logger: logger,
		mux:    mux,
	}

	s.registerCoreRoutes(opts.Metrics)
	for _, r := range registrars {
		r.RegisterRoutes(mux)
	}

	var handler http.Handler = mux
	if opts.RateLimit > 0 {
		handler = rateLimit(opts.RateLimit, opts.RateBurst, handler)
	}
	handler = requestID(accessLog(logger, handler))

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the server's root handler, middleware included.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// registerCoreRoutes sets up routes that are always available.
func (s *Server) registerCoreRoutes(reg *prometheus.Registry) {
	s.mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	s.mux.HandleFunc("/api/", s.handleNotFound)
	if reg != nil {
		s.mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Spacematch-Version", version.Short())
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"service": "spacematch",
		"version": version.Map(),
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	NotFound(w, "no route for "+r.Method+" "+r.URL.Path, r.URL.Path)
}
