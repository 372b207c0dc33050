// Package api provides the HTTP API for ClawKit.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/getclawkit/clawkit/internal/api/handler"
	"github.com/getclawkit/clawkit/internal/api/middleware"
	"github.com/getclawkit/clawkit/internal/skills"
	"github.com/getclawkit/clawkit/internal/status"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version       string
	BuildTime     string
	Logger        zerolog.Logger
	ServiceName   string
	Metrics       *middleware.Metrics
	StatusService *status.Service
	SkillsService *skills.Service
	Ingestor      *skills.Ingestor
	DB            handler.Pinger

	// SyncSecret is the shared secret for the sync endpoint. Empty
	// means sync is disabled and every call is rejected.
	SyncSecret string
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "clawkit-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	statusHandler := handler.NewStatusHandler(cfg.StatusService)
	skillsHandler := handler.NewSkillsHandler(cfg.SkillsService)
	syncHandler := handler.NewSyncHandler(cfg.Ingestor)
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.DB)

	syncAuth := middleware.SyncAuth(cfg.SyncSecret)
	syncRateLimit := middleware.RateLimitByIP(middleware.SyncRateLimit)         // 10 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit) // 100 req/min

	r.Route("/v1", func(r chi.Router) {
		// Infrastructure status (public, edge-cacheable)
		r.With(standardRateLimit).Get("/status", statusHandler.GetStatus)

		// Skill catalog (public)
		r.Route("/skills", func(r chi.Router) {
			r.With(standardRateLimit).Get("/", skillsHandler.ListSkills)
			r.With(standardRateLimit).Get("/random", skillsHandler.RandomSkills)

			// Bulk sync - shared secret, strict rate limiting
			r.With(syncRateLimit, syncAuth, middleware.RequireJSON).
				Post("/sync", syncHandler.SyncSkills)

			r.With(standardRateLimit).Get("/{skillId}", skillsHandler.GetSkill)
		})

		// Sitemap enumeration (public)
		r.With(standardRateLimit).Get("/sitemap/skills/{page}", skillsHandler.Sitemap)

		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})
	})

	return r
}
