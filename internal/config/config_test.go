package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/midia")
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessTTL)
	assert.Equal(t, "/o/adaptive-media/image", cfg.MediaPathPrefix)
	assert.Equal(t, 2*time.Minute, cfg.ConfigCacheTTL)
	assert.Equal(t, "noop", cfg.Storage.Provider)
	assert.Equal(t, RegenConfig{Buffer: 256, Queue: "midia:regen", DedupTTL: 10 * time.Minute, RetryAttempts: 3}, cfg.Regen)
	assert.Equal(t, RateLimitConfig{RequestsPerSecond: 50, Burst: 100}, cfg.RateLimitPublic)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/midia")
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("ALLOW_ORIGINS", "https://a.gov.br, ,https://b.gov.br")
	t.Setenv("MEDIA_PATH_PREFIX", "imagens/")
	t.Setenv("STORAGE_PROVIDER", "R2")
	t.Setenv("S3_ENDPOINT", "https://r2.example.com")
	t.Setenv("S3_BUCKET", "midia")
	t.Setenv("S3_ACCESS_KEY", "key")
	t.Setenv("S3_SECRET_KEY", "secret")
	t.Setenv("REGEN_BUFFER", "8")
	t.Setenv("RATE_LIMIT_ADMIN_RPS", "2.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, []string{"https://a.gov.br", "https://b.gov.br"}, cfg.AllowOrigins)
	assert.Equal(t, "/imagens", cfg.MediaPathPrefix)
	assert.Equal(t, "r2", cfg.Storage.Provider)
	assert.Equal(t, 8, cfg.Regen.Buffer)
	assert.Equal(t, 2.5, cfg.RateLimitAdmin.RequestsPerSecond)
	assert.Equal(t, 40, cfg.RateLimitAdmin.Burst)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"sem dsn", map[string]string{"DB_DSN": "", "JWT_SECRET": testSecret}},
		{"segredo curto", map[string]string{"DB_DSN": "x", "JWT_SECRET": "curto"}},
		{"porta", map[string]string{"DB_DSN": "x", "JWT_SECRET": testSecret, "PORT": "abc"}},
		{"ttl", map[string]string{"DB_DSN": "x", "JWT_SECRET": testSecret, "CONFIG_CACHE_TTL": "dois"}},
		{"storage", map[string]string{"DB_DSN": "x", "JWT_SECRET": testSecret, "STORAGE_PROVIDER": "ftp"}},
		{"s3 incompleto", map[string]string{"DB_DSN": "x", "JWT_SECRET": testSecret, "STORAGE_PROVIDER": "s3"}},
		{"buffer", map[string]string{"DB_DSN": "x", "JWT_SECRET": testSecret, "REGEN_BUFFER": "0"}},
		{"prefixo raiz", map[string]string{"DB_DSN": "x", "JWT_SECRET": testSecret, "MEDIA_PATH_PREFIX": "/"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
