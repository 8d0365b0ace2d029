// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"productcatalog/internal/contentful"
)

// DotEnvFile is loaded by Load when present. Variables already set in the
// environment win over the file.
const DotEnvFile = ".env"

// Log output formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	LogLevel  slog.Level
	LogFormat string // "text" or "json"

	// SiteName titles the public catalog page. Empty uses the engine default.
	SiteName string

	// Contentful Content Delivery API
	ContentfulSpaceID     string
	ContentfulAccessToken string
	ContentfulEnvironment string
	ContentfulHost        string
	ContentfulTimeout     time.Duration

	// ContentFixture replaces Contentful with a local CDA-shaped JSON file.
	ContentFixture string

	CORSOrigins []string

	// Valkey (Redis-compatible) for shared rate-limit counters. Empty
	// ValkeyHost keeps the limiter in process memory.
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	RateLimitRequests int // 0 disables rate limiting
	RateLimitWindow   time.Duration
}

// Load reads configuration from the environment (after DotEnvFile),
// applying development defaults. It fails when Contentful credentials are
// missing without a fixture, or when a value does not parse.
func Load() (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", DotEnvFile, err)
	}

	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", envOrDefault("PORT", "3001")),
		Env:  envOrDefault("APP_ENV", "development"),

		SiteName: os.Getenv("SITE_NAME"),

		ContentfulSpaceID:     os.Getenv("CONTENTFUL_SPACE_ID"),
		ContentfulAccessToken: os.Getenv("CONTENTFUL_ACCESS_TOKEN"),
		ContentfulEnvironment: envOrDefault("CONTENTFUL_ENVIRONMENT", contentful.DefaultEnvironment),
		ContentfulHost:        envOrDefault("CONTENTFUL_HOST", contentful.DefaultHost),
		ContentFixture:        os.Getenv("CONTENT_FIXTURE"),

		CORSOrigins: splitList(envOrDefault("CORS_ORIGIN", "http://localhost:3000")),

		ValkeyHost:     os.Getenv("VALKEY_HOST"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),
	}

	var err error
	defaultLevel, defaultFormat := "info", LogFormatText
	if cfg.IsDev() {
		defaultLevel = "debug"
	}
	if cfg.IsProduction() {
		defaultFormat = LogFormatJSON
	}
	if err = cfg.LogLevel.UnmarshalText([]byte(envOrDefault("LOG_LEVEL", defaultLevel))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	cfg.LogFormat = strings.ToLower(envOrDefault("LOG_FORMAT", defaultFormat))
	if cfg.LogFormat != LogFormatText && cfg.LogFormat != LogFormatJSON {
		return nil, fmt.Errorf("LOG_FORMAT must be %q or %q, got %q", LogFormatText, LogFormatJSON, cfg.LogFormat)
	}

	if cfg.ContentfulTimeout, err = envDuration("CONTENTFUL_TIMEOUT", contentful.DefaultTimeout); err != nil {
		return nil, err
	}
	if cfg.RateLimitRequests, err = envInt("RATE_LIMIT_REQUESTS", 120); err != nil {
		return nil, err
	}
	if cfg.RateLimitWindow, err = envDuration("RATE_LIMIT_WINDOW", time.Minute); err != nil {
		return nil, err
	}
	if cfg.RateLimitWindow < time.Millisecond {
		return nil, fmt.Errorf("RATE_LIMIT_WINDOW must be at least 1ms, got %s", cfg.RateLimitWindow)
	}
	if cfg.RateLimitRequests < 0 {
		return nil, fmt.Errorf("RATE_LIMIT_REQUESTS must not be negative")
	}

	if cfg.ContentFixture == "" && (cfg.ContentfulSpaceID == "" || cfg.ContentfulAccessToken == "") {
		return nil, fmt.Errorf("CONTENTFUL_SPACE_ID and CONTENTFUL_ACCESS_TOKEN must be set (or CONTENT_FIXTURE)")
	}

	return cfg, nil
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true if the application is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// UseValkey reports whether rate-limit counters live in Valkey.
func (c *Config) UseValkey() bool {
	return c.ValkeyHost != ""
}

// RateLimitEnabled reports whether API requests are rate limited.
func (c *Config) RateLimitEnabled() bool {
	return c.RateLimitRequests > 0 && c.RateLimitWindow > 0
}

// Contentful returns the client configuration.
func (c *Config) Contentful() contentful.Config {
	return contentful.Config{
		SpaceID:     c.ContentfulSpaceID,
		AccessToken: c.ContentfulAccessToken,
		Environment: c.ContentfulEnvironment,
		Host:        c.ContentfulHost,
		Timeout:     c.ContentfulTimeout,
	}
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, v)
	}
	return d, nil
}

// splitList splits a comma separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
