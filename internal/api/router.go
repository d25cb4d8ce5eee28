// internal/api/router.go
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"gearspire/internal/interfaces"
	"gearspire/internal/metrics"
	"gearspire/internal/storage"
)

// RouterConfig holds the router's dependencies. Runner is required;
// Store, Metrics and Hub are optional and disable their routes when nil.
type RouterConfig struct {
	Runner      interfaces.GameRunner
	Store       storage.Store
	Metrics     *metrics.Metrics
	Hub         *Hub
	RateLimiter *IPRateLimiter
	CORSOrigins []string
	Log         zerolog.Logger
}

// NewRouter builds the HTTP API. It starts no goroutines.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(cfg.Log, cfg.Metrics))

	limiter := cfg.RateLimiter
	if limiter == nil {
		limiter = NewIPRateLimiter(DefaultRateLimitConfig)
	}
	if cfg.Metrics != nil {
		m := cfg.Metrics
		limiter.onReject = func() { m.ConnectionRejected.WithLabelValues("rate_limit").Inc() }
	}

	origins := cfg.CORSOrigins
	if origins == nil {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	h := &handlers{runner: cfg.Runner, store: cfg.Store, log: cfg.Log}

	r.Get("/healthz", h.handleHealth)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}
	if cfg.Hub != nil {
		r.Get("/ws", cfg.Hub.HandleWebSocket(cfg.Runner))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(limiter.Middleware)

		r.Get("/state", h.handleState)
		r.Post("/pause", h.handlePause)
		r.Post("/restart", h.handleRestart)

		r.Get("/wave/next", h.handleNextWave)
		r.Post("/wave/start", h.handleStartWave)

		r.Post("/towers", h.handlePlaceTower)
		r.Post("/towers/combine", h.handleCombine)
		r.Delete("/towers/{id}", h.handleSellTower)
		r.Post("/towers/{id}/upgrade", h.handleUpgradeTower)
		r.Put("/towers/{id}/targeting", h.handleTargeting)

		r.Post("/crates", h.handlePlaceCrate)
		r.Delete("/crates/{x}/{y}", h.handleRemoveCrate)

		r.Get("/spawn-weights", h.handleGetWeights)
		r.Put("/spawn-weights", h.handleSetWeights)

		if cfg.Store != nil {
			r.Get("/saves", h.handleListSaves)
			r.Post("/save/{slot}", h.handleSave)
			r.Post("/load/{slot}", h.handleLoad)
			r.Delete("/saves/{slot}", h.handleDeleteSave)
		}
	})

	return r
}

// requestLogger logs each request at debug and records route metrics.
func requestLogger(log zerolog.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := "unmatched"
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			took := time.Since(start)
			if m != nil {
				m.RecordRequest(r.Method, route, status, took)
			}
			log.Debug().
				Str("method", r.Method).
				Str("route", route).
				Int("status", status).
				Dur("took", took).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("http request")
		})
	}
}
