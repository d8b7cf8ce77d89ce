package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jupitermoney/edge-agent/internal/agent"
	httpmiddleware "github.com/jupitermoney/edge-agent/internal/http/middleware"
	"github.com/jupitermoney/edge-agent/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger          *logging.Logger
	AgentHandler    *agent.Handler
	AdminAuthSecret string
	MetricsHandler  http.Handler
}

// New creates a Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Group(func(public chi.Router) {
		public.Get("/health", cfg.AgentHandler.HealthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		public.Route("/conversations", func(r chi.Router) {
			r.Post("/start", cfg.AgentHandler.Start)
			r.Post("/message", cfg.AgentHandler.Message)
			r.Post("/end", cfg.AgentHandler.End)
			r.Get("/{userID}/summary", cfg.AgentHandler.Summary)
			r.Get("/{userID}/history", cfg.AgentHandler.History)
			r.Delete("/{userID}", cfg.AgentHandler.Reset)
		})
	})

	r.Group(func(admin chi.Router) {
		admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
		admin.Route("/admin", func(r chi.Router) {
			r.Get("/offers", cfg.AgentHandler.GetOffers)
			r.Put("/offers", cfg.AgentHandler.UpdateOffers)
			r.Get("/outcomes", cfg.AgentHandler.Outcomes)
		})
	})

	return r
}
