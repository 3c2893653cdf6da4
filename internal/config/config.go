package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all environment backed configuration for the server.
type Config struct {
	// HTTP Server
	HTTPPort    int `env:"HTTP_PORT" envDefault:"8080"`
	MetricsPort int `env:"METRICS_PORT" envDefault:"9091"`

	// PostgreSQL
	DatabaseURL string `env:"DATABASE_URL,notEmpty"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`

	// Auth
	JWKSURL             string        `env:"JWKS_URL,notEmpty"`
	Issuer              string        `env:"ISSUER,notEmpty"`
	Audience            string        `env:"AUDIENCE,notEmpty"`
	RefreshJWKSInterval time.Duration `env:"JWKS_REFRESH_INTERVAL" envDefault:"5m"`
	GuestRole           string        `env:"GUEST_ROLE" envDefault:"guest"`

	// Model provider
	ModelBaseURL   string        `env:"MODEL_BASE_URL" envDefault:"https://api.openai.com/v1"`
	ModelAPIKey    string        `env:"MODEL_API_KEY,notEmpty"`
	ChatModel      string        `env:"CHAT_MODEL" envDefault:"gpt-4o"`
	ReasoningModel string        `env:"REASONING_MODEL" envDefault:"o3-mini"`
	TitleModel     string        `env:"TITLE_MODEL" envDefault:"gpt-4o-mini"`
	StreamTimeout  time.Duration `env:"STREAM_TIMEOUT" envDefault:"120s"`
	MaxToolRounds  int           `env:"MAX_TOOL_ROUNDS" envDefault:"5"`

	// Tools
	SerperAPIKey  string        `env:"SERPER_API_KEY"`
	SearchTimeout time.Duration `env:"SEARCH_TIMEOUT" envDefault:"10s"`

	// Entitlements
	GuestMessageQuota      int           `env:"GUEST_MESSAGE_QUOTA" envDefault:"20"`
	RegisteredMessageQuota int           `env:"REGISTERED_MESSAGE_QUOTA" envDefault:"100"`
	QuotaWindow            time.Duration `env:"QUOTA_WINDOW" envDefault:"24h"`
	PersistGuestTurns      bool          `env:"PERSIST_GUEST_TURNS" envDefault:"true"`

	// Rate limiting
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"10"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"20"`

	// Observability / Logging
	OTLPEndpoint     string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName      string `env:"SERVICE_NAME" envDefault:"seoan-server"`
	ServiceNamespace string `env:"SERVICE_NAMESPACE" envDefault:"seoan"`
	Environment      string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat        string `env:"LOG_FORMAT" envDefault:"console"`
}

// Load parses environment variables into Config and performs minimal validation.
// A local .env file is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if _, err := url.ParseRequestURI(cfg.JWKSURL); err != nil {
		return nil, fmt.Errorf("invalid JWKS_URL: %w", err)
	}

	if _, err := url.ParseRequestURI(cfg.ModelBaseURL); err != nil {
		return nil, fmt.Errorf("invalid MODEL_BASE_URL: %w", err)
	}

	if cfg.MaxToolRounds < 1 {
		return nil, errors.New("MAX_TOOL_ROUNDS must be at least 1")
	}

	if cfg.GuestMessageQuota < 0 || cfg.RegisteredMessageQuota < 0 {
		return nil, errors.New("message quotas must not be negative")
	}

	switch strings.ToLower(cfg.LogFormat) {
	case "json", "console":
	default:
		return nil, fmt.Errorf("unsupported LOG_FORMAT %q", cfg.LogFormat)
	}

	return cfg, nil
}
