// Package config handles application configuration from environment variables
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config holds all application configuration
type Config struct {
	Port        string `env:"PORT" envDefault:"3000"`
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`
	RedisAddr   string `env:"REDIS_ADDR"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// StaleAfter is the age after which a cached category batch is refetched.
	StaleAfter      time.Duration `env:"CACHE_STALE_AFTER" envDefault:"15s"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"10s"`

	Geocode UpstreamConfig `envPrefix:"GEOCODE_"`
	Weather UpstreamConfig `envPrefix:"WEATHER_"`
	Movie   UpstreamConfig `envPrefix:"MOVIE_"`
	Events  EventsConfig   `envPrefix:"EVENTS_"`

	WorkerConcurrency int `env:"WORKER_CONCURRENCY" envDefault:"4"`
}

// UpstreamConfig holds the credentials of a key-authenticated API. An empty
// BaseURL keeps the client's default.
type UpstreamConfig struct {
	APIKey  string `env:"API_KEY"`
	BaseURL string `env:"BASE_URL"`
}

// EventsConfig holds the events API credentials, which use a bearer token.
type EventsConfig struct {
	APIToken string `env:"API_TOKEN"`
	BaseURL  string `env:"BASE_URL"`
}

// Load reads configuration from environment variables
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// HasQueue reports whether background cache warming is configured.
func (c Config) HasQueue() bool {
	return c.RedisAddr != ""
}

// Level returns the configured zerolog level.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

func (c Config) Validate() error {
	var errs []error
	if c.StaleAfter <= 0 {
		errs = append(errs, fmt.Errorf("CACHE_STALE_AFTER must be positive, got %s", c.StaleAfter))
	}
	if c.UpstreamTimeout <= 0 {
		errs = append(errs, fmt.Errorf("UPSTREAM_TIMEOUT must be positive, got %s", c.UpstreamTimeout))
	}
	if c.WorkerConcurrency < 1 {
		errs = append(errs, fmt.Errorf("WORKER_CONCURRENCY must be at least 1, got %d", c.WorkerConcurrency))
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	return errors.Join(errs...)
}
