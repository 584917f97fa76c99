// Package server exposes the package inspector over HTTP.
//
// The API is read-only:
//
//	GET /healthz                  liveness and version
//	GET /api/v1/packages          every installed package
//	GET /api/v1/packages/{name}   full report for one package
//
// The single-package endpoint accepts files=1 to include the installed
// file manifest and latest=1 to include the index's latest version.
// Each request batch re-reads the environment, so a server stays
// accurate while packages are installed and removed underneath it.
package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/mindw/pipshow/pkg/inspect"
)

// Config wires a Server to its environment.
type Config struct {
	// Snapshot produces a fresh view of the installed environment. It is
	// called once per request that needs one.
	Snapshot func() (*inspect.Index, inspect.MetadataSource, error)

	// Latest serves ?latest=1 lookups. When nil the parameter is ignored.
	Latest inspect.VersionSource

	Logger *log.Logger
}

// Server is the HTTP handler for the inspector API.
type Server struct {
	cfg    Config
	router chi.Router
}

// New assembles the router and middleware around cfg.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	s := &Server{cfg: cfg}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/packages", s.handleList)
		r.Get("/packages/{name}", s.handleShow)
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.cfg.Logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.cfg.Logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

type contextKey string

const requestIDKey contextKey = "request_id"

// requestID tags every request with a fresh UUID, exposed both to
// handlers via the context and to clients via the X-Request-ID header.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.cfg.Logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", r.Context().Value(requestIDKey),
		)
	})
}
