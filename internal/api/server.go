// Package api serves the subset of the CloudWatch Evidently REST API that
// the emulator supports, backed by a store.Store.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"

	"github.com/TimurManjosov/goevidently/internal/store"
	"github.com/TimurManjosov/goevidently/internal/telemetry"
)

const (
	requestTimeout = 5 * time.Second
	maxBodyBytes   = 64 << 10
)

// Options configures a Server.
type Options struct {
	RolloutSalt    string
	RateLimitPerIP int // requests per minute, 0 disables limiting
	Logger         zerolog.Logger
}

type Server struct {
	store  store.Store
	opts   Options
	logger zerolog.Logger
}

func NewServer(st store.Store, opts Options) *Server {
	return &Server{
		store:  st,
		opts:   opts,
		logger: opts.Logger.With().Str("component", "api").Logger(),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(accessLog(s.logger))
	r.Use(telemetry.Middleware)
	r.Use(middleware.Timeout(requestTimeout))
	if s.opts.RateLimitPerIP > 0 {
		r.Use(httprate.Limit(s.opts.RateLimitPerIP, time.Minute,
			httprate.WithKeyByRealIP(),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				ThrottlingError(w, "Rate exceeded")
			}),
		))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		ResourceNotFoundError(w, "No route for "+r.Method+" "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		ValidationError(w, "Method "+r.Method+" is not supported for "+r.URL.Path)
	})

	// health
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/projects/{project}", func(r chi.Router) {
		r.Post("/evaluations/{feature}", s.handleEvaluateFeature)
		r.Get("/features", s.handleListFeatures)
		r.Get("/features/{feature}", s.handleGetFeature)
	})

	return r
}
