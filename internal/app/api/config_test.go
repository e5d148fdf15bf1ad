package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	bluelyticsclient "github.com/Apurer/agro-sales-dashboard/internal/clients/http/bluelytics"
	identity "github.com/Apurer/agro-sales-dashboard/internal/domains/identity/domain"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "ENVIRONMENT", "JWT_SECRET", "AUTH_INVALID_TOKEN_POLICY", "POSTGRES_DSN",
		"DOLAR_API_URL", "UPSTREAM_TIMEOUT", "CORS_ALLOWED_ORIGINS", "SEED_DEMO_DATA",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_LocalDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, ":4000", cfg.Addr())
	require.Equal(t, LocalJWTSecret, cfg.JWTSecret)
	require.Equal(t, identity.PolicyDowngrade, cfg.InvalidTokenPolicy)
	require.Equal(t, bluelyticsclient.DefaultURL, cfg.DolarAPIURL)
	require.Equal(t, 5*time.Second, cfg.UpstreamTimeout)
	require.Empty(t, cfg.CORSAllowedOrigins)
	require.True(t, cfg.SeedDemoData)
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8081")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("AUTH_INVALID_TOKEN_POLICY", "Reject")
	t.Setenv("UPSTREAM_TIMEOUT", "750ms")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://dash.example.com,")
	t.Setenv("SEED_DEMO_DATA", "yes")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, ":8081", cfg.Addr())
	require.False(t, cfg.IsLocal())
	require.Equal(t, "s3cret", cfg.JWTSecret)
	require.Equal(t, identity.PolicyReject, cfg.InvalidTokenPolicy)
	require.Equal(t, 750*time.Millisecond, cfg.UpstreamTimeout)
	require.Equal(t, []string{"http://localhost:3000", "https://dash.example.com"}, cfg.CORSAllowedOrigins)
	require.True(t, cfg.SeedDemoData)
}

func TestLoadConfig_Validation(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "production")
	_, err := LoadConfig()
	require.ErrorContains(t, err, "JWT_SECRET")

	clearEnv(t)
	t.Setenv("AUTH_INVALID_TOKEN_POLICY", "ignore")
	_, err = LoadConfig()
	require.ErrorContains(t, err, "AUTH_INVALID_TOKEN_POLICY")

	clearEnv(t)
	t.Setenv("UPSTREAM_TIMEOUT", "-1s")
	_, err = LoadConfig()
	require.ErrorContains(t, err, "UPSTREAM_TIMEOUT")
}
