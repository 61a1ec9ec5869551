// Package server exposes descriptor resolution over a read-only HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/attrsel/internal/descriptor"
	"github.com/zjrosen/attrsel/internal/flags"
	"github.com/zjrosen/attrsel/internal/log"
	"github.com/zjrosen/attrsel/internal/metrics"
	"github.com/zjrosen/attrsel/internal/presentation"
	"github.com/zjrosen/attrsel/internal/registry"
	"github.com/zjrosen/attrsel/internal/selector"
	"github.com/zjrosen/attrsel/internal/tracing"
)

// Registries hands out the registry of a type.
type Registries interface {
	Get(t descriptor.Type) (*registry.Registry, error)
}

// TypeLister lists the types the API knows about.
type TypeLister interface {
	ListTypes(ctx context.Context) ([]presentation.TypeDTO, error)
}

// TypeListerFunc adapts a function to TypeLister.
type TypeListerFunc func(ctx context.Context) ([]presentation.TypeDTO, error)

// ListTypes calls f.
func (f TypeListerFunc) ListTypes(ctx context.Context) ([]presentation.TypeDTO, error) {
	return f(ctx)
}

var errUnknownType = errors.New("unknown type")

// Server serves the HTTP API.
type Server struct {
	registries Registries
	types      TypeLister
	metrics    *metrics.Metrics
	tracer     trace.Tracer
	flags      *flags.Registry
	timeout    time.Duration
	router     chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics records request counts and, with the serve-metrics flag,
// exposes /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithTracer starts a span per request.
func WithTracer(t trace.Tracer) Option {
	return func(s *Server) { s.tracer = t }
}

// WithFlags sets the feature flags.
func WithFlags(f *flags.Registry) Option {
	return func(s *Server) { s.flags = f }
}

// WithTimeout bounds request handling.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) { s.timeout = d }
}

// New creates a server resolving against registries.
func New(registries Registries, types TypeLister, opts ...Option) *Server {
	s := &Server{
		registries: registries,
		types:      types,
		timeout:    30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))
	r.Use(tracing.Middleware(s.tracer))
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1/types", func(r chi.Router) {
		r.Get("/", s.handleListTypes)
		r.Get("/{type}/descriptors", s.handleDescriptors)
		r.Get("/{type}/select", s.handleSelect)
	})
	if s.flags.Enabled(flags.FlagServeMetrics) {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	return r
}

// observe counts and logs requests by route pattern.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.IncrementHTTPRequest(route, status)
		log.Debug(log.CatServer, "request",
			"method", r.Method,
			"route", route,
			"status", status,
			"request_id", middleware.GetReqID(r.Context()),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(log.CatServer, "listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		log.Info(log.CatServer, "stopped")
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.types.ListTypes(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if types == nil {
		types = []presentation.TypeDTO{}
	}
	writeJSON(w, http.StatusOK, types)
}

func (s *Server) handleDescriptors(w http.ResponseWriter, r *http.Request) {
	reg, err := s.registry(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var ds []*descriptor.Descriptor
	switch set := r.URL.Query().Get("set"); set {
	case "", "default":
		ds = reg.Properties()
	case "registered":
		ds = reg.RegisteredDescriptors()
	default:
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "set must be default or registered, got " + set})
		return
	}
	writeJSON(w, http.StatusOK, presentation.FromDescriptors(ds))
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	reg, err := s.registry(r)
	if err != nil {
		writeError(w, err)
		return
	}

	q := r.URL.Query().Get("q")
	sel, err := selector.Parse(q)
	if err != nil {
		writeError(w, err)
		return
	}

	ds, err := reg.SelectContext(r.Context(), sel)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, presentation.NewSelection(reg.Type(), q, ds))
}

// registry resolves the {type} URL parameter to a known type's registry.
func (s *Server) registry(r *http.Request) (*registry.Registry, error) {
	name := chi.URLParam(r, "type")
	types, err := s.types.ListTypes(r.Context())
	if err != nil {
		return nil, err
	}
	known := slices.ContainsFunc(types, func(t presentation.TypeDTO) bool { return t.Name == name })
	if !known {
		return nil, fmt.Errorf("%w: %q", errUnknownType, name)
	}
	return s.registries.Get(descriptor.Named(name))
}

type errorBody struct {
	Error string `json:"error"`
}

// writeError maps err to a status: 400 for selector syntax, 404 for
// unknown types and descriptors, 500 otherwise.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, selector.ErrInvalidSyntax):
		status = http.StatusBadRequest
	case errors.Is(err, errUnknownType), errors.Is(err, registry.ErrDescriptorNotFound):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		log.ErrorErr(log.CatServer, "request failed", err)
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.ErrorErr(log.CatServer, "encode response", err)
	}
}
