// Package server exposes a worldcache.Service over HTTP.
package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/unkn0wn-root/worldcache"
)

// Backend is the request façade the handlers call. *worldcache.Service
// implements it.
type Backend interface {
	Ready() bool
	Read(ctx context.Context, id int) (worldcache.World, error)
	ReadBatch(ctx context.Context, n int) ([]worldcache.World, error)
	MutateBatch(ctx context.Context, n int) ([]worldcache.World, error)
	RandomWorld(ctx context.Context) (worldcache.World, error)
	QueryBatch(ctx context.Context, n int) ([]worldcache.World, error)
	Fortunes(ctx context.Context) ([]worldcache.Fortune, error)
}

var _ Backend = (*worldcache.Service)(nil)

type Options struct {
	Backend Backend
	Logger  worldcache.Logger // if nil, NopLogger is used

	// Registry receives the HTTP metrics and is served on /metrics.
	// nil disables both.
	Registry *prometheus.Registry
}

type Server struct {
	b       Backend
	log     worldcache.Logger
	metrics *httpMetrics
	reg     *prometheus.Registry
}

func New(opts Options) *Server {
	s := &Server{b: opts.Backend, log: opts.Logger, reg: opts.Registry}
	if s.log == nil {
		s.log = worldcache.NopLogger{}
	}
	if s.reg != nil {
		s.metrics = newHTTPMetrics(s.reg)
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	if s.metrics != nil {
		r.Use(s.metrics.middleware)
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/json", s.handleJSON)
	r.Get("/plaintext", s.handlePlaintext)
	r.Get("/db", s.handleDB)
	r.Get("/queries", s.handleQueries)
	r.Get("/query", s.handleQueries)
	r.Get("/fortunes", s.handleFortunes)

	r.Group(func(r chi.Router) {
		r.Use(s.requireWarm)
		r.Get("/cached-queries", s.handleCachedQueries)
		r.Get("/cached_query", s.handleCachedQueries)
		r.Get("/cached-worlds/{id}", s.handleCachedWorld)
		r.Get("/updates", s.handleUpdates)
		r.Get("/update", s.handleUpdates)
	})

	if s.reg != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))
	}
	return r
}

// requireWarm fails fast until the cache has been warmed.
func (s *Server) requireWarm(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.b.Ready() {
			s.writeError(w, r, worldcache.ErrNotWarmed)
			return
		}
		next.ServeHTTP(w, r)
	})
}
