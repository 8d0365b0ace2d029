// Package main is the entry point for the product catalog server.
// It loads configuration, connects to the content store, sets up routing,
// and starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"productcatalog/internal/config"
	"productcatalog/internal/contentful"
	"productcatalog/internal/engine"
	"productcatalog/internal/handlers"
	"productcatalog/internal/metrics"
	"productcatalog/internal/middleware"
	"productcatalog/internal/router"
	"productcatalog/internal/store"
	"productcatalog/internal/valkey"
)

func main() {
	// Until the configuration says otherwise, log text at info.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	// Load configuration from the environment and .env.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(os.Stdout, cfg))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"log_level", cfg.LogLevel,
	)

	m := metrics.New()

	src, err := newSource(cfg, m)
	if err != nil {
		slog.Error("failed to initialize content store", "error", err)
		os.Exit(1)
	}
	catalog := store.NewCatalog(src)

	eng, err := engine.New()
	if err != nil {
		slog.Error("failed to initialize template engine", "error", err)
		os.Exit(1)
	}

	limiter, closeLimiter := newLimiter(context.Background(), cfg)
	defer closeLimiter()

	r := router.New(router.Options{
		API:             handlers.NewAPI(catalog),
		Public:          handlers.NewPublic(eng, catalog, cfg.SiteName),
		Metrics:         m,
		CORSOrigins:     cfg.CORSOrigins,
		Limiter:         limiter,
		RateLimitWindow: cfg.RateLimitWindow,
	})

	// WriteTimeout leaves room for a store fetch that spans several pages.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 2*cfg.ContentfulTimeout + 5*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

// newLogger builds the process logger: JSON or text at the configured level.
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// newSource returns the Contentful client, or the local fixture when
// CONTENT_FIXTURE is set.
func newSource(cfg *config.Config, m *metrics.Metrics) (store.Source, error) {
	if cfg.ContentFixture != "" {
		f, err := contentful.LoadFixture(cfg.ContentFixture)
		if err != nil {
			return nil, err
		}
		slog.Warn("serving content from a local fixture", "path", cfg.ContentFixture)
		return f, nil
	}

	client, err := contentful.New(cfg.Contentful())
	if err != nil {
		return nil, err
	}
	client.SetObserver(m.ObserveFetch)
	slog.Info("contentful client ready",
		"space", cfg.ContentfulSpaceID,
		"environment", cfg.ContentfulEnvironment,
		"host", cfg.ContentfulHost,
	)
	return client, nil
}

// newLimiter picks the rate-limit backend. Valkey is preferred when
// configured; if it cannot be reached the limiter falls back to process
// memory rather than refusing to start. The returned func releases it.
func newLimiter(ctx context.Context, cfg *config.Config) (middleware.Limiter, func()) {
	if !cfg.RateLimitEnabled() {
		slog.Warn("rate limiting disabled")
		return nil, func() {}
	}

	if cfg.UseValkey() {
		client, err := valkey.Connect(ctx, valkey.Options{
			Host:     cfg.ValkeyHost,
			Port:     cfg.ValkeyPort,
			Password: cfg.ValkeyPassword,
		})
		if err == nil {
			slog.Info("rate limiting via valkey", "requests", cfg.RateLimitRequests, "window", cfg.RateLimitWindow)
			return middleware.NewRedisLimiter(client, cfg.RateLimitRequests, cfg.RateLimitWindow), func() { client.Close() }
		}
		slog.Warn("valkey unavailable, rate limiting in memory", "error", err)
	}

	l := middleware.NewMemoryLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	slog.Info("rate limiting in memory", "requests", cfg.RateLimitRequests, "window", cfg.RateLimitWindow)
	return l, l.Stop
}
