// Package config provides configuration loading and validation from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration.
type Config struct {
	LogLevel          string `env:"LOG_LEVEL" envDefault:"info"`           // debug, info, warn, error
	ListenAddr        string `env:"LISTEN_ADDR" envDefault:":8080"`        // API listener address
	MetricsListenAddr string `env:"METRICS_LISTEN_ADDR" envDefault:"localhost:9090"`
	DatabasePath      string `env:"DATABASE_PATH" envDefault:"/data/jurylink.db"`

	// PublicBaseURL is the externally reachable base judging links point at.
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`

	// Mail provider settings. An empty MailAPIKey leaves the transport
	// unconfigured; queued mail then resolves as failed instead of
	// retrying forever.
	MailAPIURL string `env:"MAIL_API_URL"`
	MailAPIKey string `env:"MAIL_API_KEY"`
	MailFrom   string `env:"MAIL_FROM" envDefault:"noreply@localhost"`

	// BootstrapAccessKey seeds the first organizer credential on an
	// empty database; ignored once any organizer key exists.
	BootstrapAccessKey string `env:"BOOTSTRAP_ACCESS_KEY"`

	// TokenExpiryDays is the default judging token lifetime.
	TokenExpiryDays int `env:"TOKEN_EXPIRY_DAYS" envDefault:"30"`

	// QueueInterval is the fixed delay between mail dispatches.
	QueueInterval time.Duration `env:"QUEUE_INTERVAL" envDefault:"600ms"`
}

// Load parses configuration from environment variables and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid LOG_LEVEL %q (must be debug, info, warn or error)", c.LogLevel)
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("LISTEN_ADDR must not be empty")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH must not be empty")
	}
	if c.TokenExpiryDays <= 0 {
		return fmt.Errorf("TOKEN_EXPIRY_DAYS must be positive, got %d", c.TokenExpiryDays)
	}
	if c.QueueInterval <= 0 {
		return fmt.Errorf("QUEUE_INTERVAL must be positive, got %v", c.QueueInterval)
	}
	return nil
}

// SlogLevel maps the configured log level to a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MailConfigured reports whether an outbound mail transport can be built.
func (c *Config) MailConfigured() bool {
	return c.MailAPIKey != ""
}
