// Package server exposes a loaded ladderflow project over HTTP.
//
// The engine packages are single-writer. Server is their only caller in
// the process and serializes every request that touches the workspace
// with one mutex, so concurrent HTTP clients see the same ordering the
// editor would.
//
// # Routes
//
//	GET    /healthz
//	GET    /version
//	GET    /metrics
//	GET    /pous
//	GET    /library
//	POST   /validate-type
//	GET    /flows/{pou}
//	POST   /flows/{pou}/undo
//	POST   /flows/{pou}/redo
//	GET    /flows/{pou}/rungs/{rung}
//	GET    /flows/{pou}/rungs/{rung}/dot
//	GET    /flows/{pou}/rungs/{rung}/svg
//	POST   /flows/{pou}/rungs/{rung}/nodes
//	DELETE /flows/{pou}/rungs/{rung}/nodes/last
//	POST   /flows/{pou}/rungs/{rung}/bind
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/ladderflow/pkg/cache"
	"github.com/matzehuels/ladderflow/pkg/history"
	"github.com/matzehuels/ladderflow/pkg/library"
	"github.com/matzehuels/ladderflow/pkg/observability"
)

const (
	shutdownTimeout = 5 * time.Second
	renderCacheSize = 256
)

// Server serves one workspace.
type Server struct {
	// Metrics, when set, is mounted at /metrics.
	Metrics http.Handler

	// Renders holds SVG output keyed by DOT source.
	Renders cache.Cache

	mu      sync.Mutex
	ws      history.Workspace
	history *history.Manager
	catalog *library.Catalog
	logger  *log.Logger
}

// New creates a server over ws. Undo stacks are kept per POU up to limit
// entries.
func New(ws history.Workspace, limit int, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		Renders: cache.NewMemoryCache(renderCacheSize),
		ws:      ws,
		history: history.New(ws, limit, logger),
		catalog: library.Standard().WithProject(ws.Project),
		logger:  logger,
	}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.healthz)
	r.Get("/version", s.version)
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics)
	}
	r.Get("/pous", s.listPOUs)
	r.Get("/library", s.listLibrary)
	r.Post("/validate-type", s.validateType)

	r.Route("/flows/{pou}", func(r chi.Router) {
		r.Get("/", s.getFlow)
		r.Post("/undo", s.undo)
		r.Post("/redo", s.redo)
		r.Route("/rungs/{rung}", func(r chi.Router) {
			r.Get("/", s.getRung)
			r.Get("/dot", s.getRungDOT)
			r.Get("/svg", s.getRungSVG)
			r.Post("/nodes", s.addNode)
			r.Delete("/nodes/last", s.removeLastNode)
			r.Post("/bind", s.bind)
		})
	})
	return r
}

// observe logs each request and reports it to the HTTP hooks under its
// route pattern, so /flows/main and /flows/aux share a series.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, route, status, elapsed)
		s.logger.Debug("request", "method", r.Method, "route", route, "status", status, "duration", elapsed,
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
