// Package router sets up all HTTP routes and middleware chains for the
// product catalog. The JSON API is served both at the root and under /api.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"productcatalog/internal/handlers"
	"productcatalog/internal/metrics"
	"productcatalog/internal/middleware"
	"productcatalog/web"
)

// Options carries the handlers and middleware settings the router wires up.
type Options struct {
	API     *handlers.API
	Public  *handlers.Public
	Metrics *metrics.Metrics

	CORSOrigins []string

	// Limiter guards the API routes. Nil disables rate limiting.
	Limiter         middleware.Limiter
	RateLimitWindow time.Duration
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(opts Options) chi.Router {
	r := chi.NewRouter()

	// Set before any sub-router is mounted so they inherit them.
	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	// Global middleware, applied to every request.
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(opts.Metrics.Middleware)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CORS(opts.CORSOrigins))

	// Health and metrics are never rate limited.
	r.Get("/health", opts.API.Health)
	r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())

	apiRoutes := func(r chi.Router) {
		if opts.Limiter != nil {
			r.Use(middleware.RateLimit(opts.Limiter, opts.RateLimitWindow))
		}
		r.Get("/categories", opts.API.Categories)
		r.Get("/products", opts.API.Products)
	}
	r.Group(apiRoutes)
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", opts.API.Health)
		r.Group(apiRoutes)
	})

	// Public catalog page and its assets.
	r.Get("/", opts.Public.Catalog)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(web.StaticFS())))

	return r
}
