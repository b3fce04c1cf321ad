// Package config loads the gateway settings from the environment.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	API        APIConfig
	Redis      RedisConfig
	Cache      CacheConfig
	Navigation NavigationConfig
	Live       LiveConfig
	Queue      QueueConfig
}

type APIConfig struct {
	// BaseURL is required; without it every backend call fails with
	// domain.ErrNotConfigured.
	BaseURL string        `env:"API_BASE_URL"`
	Timeout time.Duration `env:"BACKEND_TIMEOUT, default=10s"`
}

// RedisConfig selects the identity cache. An empty Addr keeps the cache in
// process memory.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type CacheConfig struct {
	IdentityTTL time.Duration `env:"IDENTITY_TTL, default=5m"`
	OrdersTTL   time.Duration `env:"ORDERS_TTL,   default=1m"`
}

type NavigationConfig struct {
	ResolveTimeout    time.Duration `env:"NAVIGATION_RESOLVE_TIMEOUT, default=5s"`
	NotificationLimit int           `env:"NOTIFICATION_LIMIT,         default=5"`
}

type LiveConfig struct {
	// HandshakeTimeout of zero leaves the connection attempt unbounded.
	HandshakeTimeout time.Duration `env:"LIVE_HANDSHAKE_TIMEOUT,         default=0s"`
	MaxRetries       int           `env:"LIVE_RECONNECT_MAX_RETRIES,     default=0"`
	InitialBackoff   time.Duration `env:"LIVE_RECONNECT_INITIAL_BACKOFF, default=500ms"`
	MaxBackoff       time.Duration `env:"LIVE_RECONNECT_MAX_BACKOFF,     default=30s"`
}

type QueueConfig struct {
	Workers int `env:"QUEUE_WORKERS, default=8"`
}

// IsDevelopment reports whether ENV selects the local development profile.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads a .env file when present, then the environment. A missing
// API_BASE_URL is logged, not fatal.
func Load(ctx context.Context, log zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env")
	}
	return load(ctx, envconfig.OsLookuper(), log)
}

func load(ctx context.Context, lookuper envconfig.Lookuper, log zerolog.Logger) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if cfg.API.BaseURL == "" {
		log.Error().Msg("API_BASE_URL is not set; backend calls will fail until it is configured")
	}
	if cfg.Queue.Workers <= 0 {
		log.Warn().Int("workers", cfg.Queue.Workers).Msg("QUEUE_WORKERS must be positive, using 1")
		cfg.Queue.Workers = 1
	}
	if cfg.Navigation.NotificationLimit <= 0 {
		log.Warn().Int("limit", cfg.Navigation.NotificationLimit).Msg("NOTIFICATION_LIMIT must be positive, using 5")
		cfg.Navigation.NotificationLimit = 5
	}
	return &cfg, nil
}
