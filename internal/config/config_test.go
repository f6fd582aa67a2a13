package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, StoreJSON, cfg.StoreDriver)
	assert.Equal(t, 8*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 6, cfg.PaymentWindowMonths)
	assert.Equal(t, 5, cfg.CourtVisitLimit)
	assert.Equal(t, LastNameInsensitive, cfg.LastNameMatch)
	assert.False(t, cfg.ClampProgress)
	assert.False(t, cfg.SessionRevocation)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_DRIVER", "SQLITE")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("PAYMENT_WINDOW_MONTHS", "12")
	t.Setenv("LAST_NAME_MATCH", "exact")
	t.Setenv("CLAMP_PROGRESS", "true")
	t.Setenv("SESSION_REVOCATION", "1")
	t.Setenv("CACHE_TTL", "5")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:5173/, https://portal.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, StoreSQLite, cfg.StoreDriver)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 12, cfg.PaymentWindowMonths)
	assert.Equal(t, LastNameExact, cfg.LastNameMatch)
	assert.True(t, cfg.ClampProgress)
	assert.True(t, cfg.SessionRevocation)
	assert.Equal(t, 5*time.Second, cfg.CacheTTL)
	assert.Equal(t, []string{"http://localhost:5173", "https://portal.example.com"}, cfg.AllowedOrigins)
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "portal.yaml")
	content := `
port: "4000"
jwt_secret: from-file
token_ttl: 1h
payment_window_months: 12
court_visit_limit: 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "4500")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "4500", cfg.Port, "environment overrides the file")
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, 12, cfg.PaymentWindowMonths)
	assert.Equal(t, 3, cfg.CourtVisitLimit)
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad cache size", "CACHE_SIZE", "many"},
		{"bad token ttl", "TOKEN_TTL", "eight hours"},
		{"negative window", "PAYMENT_WINDOW_MONTHS", "-1"},
		{"bad driver", "STORE_DRIVER", "mongo"},
		{"bad last name mode", "LAST_NAME_MATCH", "fuzzy"},
		{"bad clamp flag", "CLAMP_PROGRESS", "maybe"},
		{"zero visit limit", "COURT_VISIT_LIMIT", "0"},
		{"zero cache ttl", "CACHE_TTL", "0"},
		{"negative cache ttl", "CACHE_TTL", "-5"},
		{"bad cache ttl", "CACHE_TTL", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "s3cret")
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestCacheTTLFromFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("sub-second value is kept", func(t *testing.T) {
		path := filepath.Join(dir, "fast.yaml")
		require.NoError(t, os.WriteFile(path, []byte("jwt_secret: x\ncache_ttl: 500ms\n"), 0o600))
		t.Setenv("CONFIG_FILE", path)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 500*time.Millisecond, cfg.CacheTTL)
	})

	t.Run("zero is rejected", func(t *testing.T) {
		path := filepath.Join(dir, "never.yaml")
		require.NoError(t, os.WriteFile(path, []byte("jwt_secret: x\ncache_ttl: 0s\n"), 0o600))
		t.Setenv("CONFIG_FILE", path)

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "CACHE_TTL")
	})
}

func TestSecretRequiredOutsideDebug(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("LOG_LEVEL", "info")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("LOG_LEVEL", "debug")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, devSecret, cfg.JWTSecret)
}
