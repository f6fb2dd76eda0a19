package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fixly-labs/backend-fixly/internal/config"
	"github.com/fixly-labs/backend-fixly/internal/tax"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"DATABASE_URL":         "postgres://localhost:5432/fixly",
		"REDIS_URL":            "redis://localhost:6379/0",
		"APP_ENV":              "",
		"PORT":                 "",
		"CATALOG_CACHE_TTL":    "",
		"DRAFT_TTL":            "",
		"INTAKE_RATE_LIMIT":    "",
		"TAX_DEFAULT_CODE":     "",
		"CURRENCY_CODE":        "",
		"CORS_ALLOWED_ORIGINS": "",
	})
	require.NoError(t, err)
	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, 5*time.Minute, cfg.CatalogCacheTTL)
	require.Equal(t, 24*time.Hour, cfg.DraftTTL)
	require.Equal(t, int64(30), cfg.IntakeRateLimit)
	require.Equal(t, tax.CodeNone, cfg.TaxDefaultCode)
	require.Equal(t, "INR", cfg.CurrencyCode)
	require.Empty(t, cfg.CORSAllowedOrigins)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"DATABASE_URL":         "postgres://localhost:5432/fixly",
		"REDIS_URL":            "redis://localhost:6379/0",
		"PORT":                 "9090",
		"CATALOG_CACHE_TTL":    "30s",
		"INTAKE_RATE_LIMIT":    "5",
		"TAX_DEFAULT_CODE":     "gst18",
		"CORS_ALLOWED_ORIGINS": "https://app.example.com, https://admin.example.com",
	})
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.Equal(t, 30*time.Second, cfg.CatalogCacheTTL)
	require.Equal(t, int64(5), cfg.IntakeRateLimit)
	require.Equal(t, tax.CodeGST18, cfg.TaxDefaultCode)
	require.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSAllowedOrigins)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	_, err := config.LoadForTests(map[string]string{
		"DATABASE_URL": "",
		"REDIS_URL":    "redis://localhost:6379/0",
	})
	require.Error(t, err)
}

func TestLoadRequiresRedisURL(t *testing.T) {
	_, err := config.LoadForTests(map[string]string{
		"DATABASE_URL": "postgres://localhost:5432/fixly",
		"REDIS_URL":    "",
	})
	require.Error(t, err)
}

func TestInvalidDurationFallsBack(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"DATABASE_URL":      "postgres://localhost:5432/fixly",
		"REDIS_URL":         "redis://localhost:6379/0",
		"CATALOG_CACHE_TTL": "soon",
		"INTAKE_RATE_LIMIT": "-3",
	})
	require.NoError(t, err)
	require.Equal(t, 5*time.Minute, cfg.CatalogCacheTTL)
	require.Equal(t, int64(30), cfg.IntakeRateLimit)
}
