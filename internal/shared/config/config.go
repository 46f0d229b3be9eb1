package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"plant-relay/internal/shared/telemetry"
)

// Config holds application configuration.
type Config struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	Env             string        `envconfig:"ENV" default:"dev"`
	AIAPIKey        string        `envconfig:"AI_API_KEY"`
	GeminiModel     string        `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`
	UpstreamTimeout time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"60s"`
	MaxImageBytes   int64         `envconfig:"MAX_IMAGE_BYTES" default:"10485760"`
	CORSAllowOrigin []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"https://pio.apps.tossmini.com,https://pio.private-apps.tossmini.com"`
	DatabaseURL     string        `envconfig:"DATABASE_URL"`
	RateLimitRPS    float64       `envconfig:"RATE_LIMIT_RPS" default:"1"`
	RateLimitBurst  int           `envconfig:"RATE_LIMIT_BURST" default:"5"`
	// Proxies allowed to set X-Forwarded-For. Empty trusts none.
	TrustedProxies []string `envconfig:"TRUSTED_PROXIES"`
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (Config, error) {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}
	cfg.Env = normalizeEnv(cfg.Env)
	cfg.CORSAllowOrigin = trimAll(cfg.CORSAllowOrigin)
	cfg.TrustedProxies = trimAll(cfg.TrustedProxies)
	cfg.AIAPIKey = strings.TrimSpace(cfg.AIAPIKey)

	if cfg.AIAPIKey == "" {
		telemetry.Error("config.missing_ai_api_key", map[string]any{
			"env": cfg.Env,
		})
	}
	if cfg.MaxImageBytes <= 0 {
		return Config{}, fmt.Errorf("MAX_IMAGE_BYTES must be positive")
	}
	if cfg.UpstreamTimeout <= 0 {
		return Config{}, fmt.Errorf("UPSTREAM_TIMEOUT must be positive")
	}
	return cfg, nil
}

func trimAll(values []string) []string {
	var out []string
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	default:
		return "dev"
	}
}
