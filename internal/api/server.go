package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"

	"github.com/scoutline/scoutline-data/internal/api/handler"
	"github.com/scoutline/scoutline-data/internal/cache"
	"github.com/scoutline/scoutline-data/internal/config"
	"github.com/scoutline/scoutline-data/internal/db"
	"github.com/scoutline/scoutline-data/internal/metrics"
	"github.com/scoutline/scoutline-data/internal/stats"
	"github.com/scoutline/scoutline-data/internal/store"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(pool *db.Pool, st store.Store, agg *stats.Aggregator, appCache *cache.Cache, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(MetricsMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "Link", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// --- Handler dependencies ---
	h := handler.New(pool, st, agg, appCache, cfg)

	// --- Routes ---

	// Root
	r.Get("/", h.Root)

	// Prometheus scrape endpoint
	r.Method("GET", "/metrics", metrics.Handler())

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
		r.Get("/cache", h.HealthCheckCache)
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Team roster
		r.Route("/teams", func(r chi.Router) {
			r.Post("/", h.UpsertTeam)
			r.Get("/", h.ListTeams)
			r.Get("/{teamNumber}", h.GetTeam)
			r.Delete("/{teamNumber}", h.DeleteTeam)
		})

		// Match scouting records
		r.Route("/matches", func(r chi.Router) {
			r.Post("/", h.CreateMatch)
			r.Get("/", h.ListMatches)
			r.Get("/{matchID}", h.GetMatch)
			r.Put("/{matchID}", h.UpdateMatch)
			r.Delete("/{matchID}", h.DeleteMatch)
		})

		// Pit scouting
		r.Route("/pit", func(r chi.Router) {
			r.Post("/", h.UpsertPitReport)
			r.Get("/", h.ListPitReports)
			r.Get("/{teamNumber}", h.GetPitReport)
		})

		// Derived statistics
		r.Route("/stats", func(r chi.Router) {
			r.Get("/percentages/{teamNumber}", h.GetPercentages)
			r.Get("/fractions/{teamNumber}", h.GetFractions)
			r.Get("/rankings", h.GetRankings)
			r.Post("/recompute/{teamNumber}", h.RecomputeTeam)
			r.Post("/recompute", h.RecomputeEvent)
		})
	})

	return r
}
