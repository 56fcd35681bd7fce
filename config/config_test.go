package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 4*1024*1024, cfg.BodyLimitBytes)
	assert.Equal(t, 60, cfg.RateLimitMax)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 2, cfg.ReminderWindowDays)
	assert.Equal(t, "IN", cfg.PhoneRegion)
	assert.Equal(t, []byte("test-secret"), cfg.JWTSecret)
	assert.Contains(t, cfg.DatabaseDSN, "host=localhost")
}

func TestLoadSecretFallback(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("JWT_SECRET", "fallback")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []byte("fallback"), cfg.JWTSecret)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "s")
	t.Setenv("BODY_LIMIT_BYTES", "1024")
	t.Setenv("REMINDER_WINDOW_DAYS", "5")
	t.Setenv("PHONE_REGION", "us")
	t.Setenv("DATABASE_DSN", "postgres://u:p@h:5432/db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.BodyLimitBytes)
	assert.Equal(t, 5, cfg.ReminderWindowDays)
	assert.Equal(t, "US", cfg.PhoneRegion)
	assert.Equal(t, "postgres://u:p@h:5432/db", cfg.DatabaseDSN)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing secret", env: map[string]string{"JWT_SECRET_KEY": "", "JWT_SECRET": ""}},
		{name: "non numeric port", env: map[string]string{"JWT_SECRET_KEY": "s", "PORT": "http"}},
		{name: "topic without project", env: map[string]string{
			"JWT_SECRET_KEY": "s", "PUBSUB_TOPIC": "docs", "PUBSUB_PROJECT_ID": "", "GOOGLE_CLOUD_PROJECT": "",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
