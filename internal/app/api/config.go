package api

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	bluelyticsclient "github.com/Apurer/agro-sales-dashboard/internal/clients/http/bluelytics"
	identity "github.com/Apurer/agro-sales-dashboard/internal/domains/identity/domain"
	marketsapp "github.com/Apurer/agro-sales-dashboard/internal/domains/markets/application"
)

// LocalJWTSecret signs tokens when ENVIRONMENT is local and JWT_SECRET is unset.
const LocalJWTSecret = "local-dev-secret"

// Config carries environment-driven settings for the API process.
type Config struct {
	Port               string
	Environment        string
	JWTSecret          string
	InvalidTokenPolicy identity.Policy
	PostgresDSN        string
	DolarAPIURL        string
	UpstreamTimeout    time.Duration
	CORSAllowedOrigins []string
	SeedDemoData       bool
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:               envDefault("PORT", "4000"),
		Environment:        envDefault("ENVIRONMENT", "local"),
		JWTSecret:          strings.TrimSpace(os.Getenv("JWT_SECRET")),
		PostgresDSN:        strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		DolarAPIURL:        envDefault("DOLAR_API_URL", bluelyticsclient.DefaultURL),
		UpstreamTimeout:    marketsapp.DefaultTimeout,
		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}
	if cfg.JWTSecret == "" {
		if !cfg.IsLocal() {
			return Config{}, errors.New("JWT_SECRET is required outside the local environment")
		}
		cfg.JWTSecret = LocalJWTSecret
	}
	policy, err := identity.ParsePolicy(os.Getenv("AUTH_INVALID_TOKEN_POLICY"))
	if err != nil {
		return Config{}, fmt.Errorf("AUTH_INVALID_TOKEN_POLICY: %w", err)
	}
	cfg.InvalidTokenPolicy = policy
	if raw := strings.TrimSpace(os.Getenv("UPSTREAM_TIMEOUT")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("UPSTREAM_TIMEOUT must be a positive duration such as 5s")
		}
		cfg.UpstreamTimeout = d
	}
	if raw := strings.TrimSpace(os.Getenv("SEED_DEMO_DATA")); raw != "" {
		cfg.SeedDemoData = isTruthy(raw)
	} else {
		cfg.SeedDemoData = cfg.IsLocal()
	}
	return cfg, nil
}

// IsLocal reports whether the process runs in the local development environment.
func (c Config) IsLocal() bool {
	return strings.EqualFold(c.Environment, "local")
}

// Addr is the listen address derived from Port.
func (c Config) Addr() string {
	return ":" + c.Port
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
