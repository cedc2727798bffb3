package handler

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/shortenerproject/shortener/internal/middleware"
)

// RouterConfig collects the handlers and middleware settings of the API.
type RouterConfig struct {
	Logger        *slog.Logger
	Auth          middleware.AuthConfig
	Health        *HealthHandler
	Metrics       *MetricsHandler
	Links         *LinkHandler
	Redirects     *RedirectHandler
	IsDevelopment bool
	MaxBodySize   int64
}

// NewRouter configures the chi router with all routes and middleware.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment}))
	if cfg.MaxBodySize > 0 {
		r.Use(middleware.MaxBodySize(cfg.MaxBodySize))
	}

	if cfg.Health != nil {
		r.Get("/healthz", cfg.Health.Healthz)
		r.Get("/readyz", cfg.Health.Readyz)
	}
	if cfg.Metrics != nil {
		r.Get("/metrics", cfg.Metrics.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.Auth))

		r.Route("/links", func(r chi.Router) {
			r.With(middleware.RequireRead()).Get("/", cfg.Links.List)
			r.With(middleware.RequireWrite()).Post("/", cfg.Links.Create)
			r.With(middleware.RequireRead()).Get("/search", cfg.Links.Search)
			r.With(middleware.RequireRead()).Get("/{id}", cfg.Links.Get)
			r.With(middleware.RequireWrite()).Put("/{id}", cfg.Links.Update)
			r.With(middleware.RequireWrite()).Delete("/{id}", cfg.Links.Delete)
		})

		r.With(middleware.RequireRead()).Get("/aliases/{alias}/stats", cfg.Links.Stats)
	})

	r.Get("/{alias}", cfg.Redirects.Redirect)

	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)

	return r
}
