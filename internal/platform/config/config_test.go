package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("APPROVAL_TOKEN_TTL", "")
	t.Setenv("JWT_EXPIRY_DURATION", "")

	cfg, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, 24*time.Hour, cfg.ApprovalTokenTTL)
	assert.Equal(t, 8*time.Hour, cfg.JWTExpiryDuration)
	assert.Equal(t, "access_token", cfg.AuthCookieName)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("STORE_DRIVER", "BOLT")
	t.Setenv("BOLT_PATH", "/tmp/expenses-test.db")
	t.Setenv("APPROVAL_TOKEN_TTL", "90m")
	t.Setenv("BASE_URL", "https://expenses.example.com/")
	t.Setenv("REVIEW_RATE_LIMIT", "10-S")

	cfg, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, StoreDriverBolt, cfg.StoreDriver)
	assert.Equal(t, "/tmp/expenses-test.db", cfg.BoltPath)
	assert.Equal(t, 90*time.Minute, cfg.ApprovalTokenTTL)
	assert.Equal(t, "https://expenses.example.com", cfg.BaseURL)
	assert.Equal(t, "10-S", cfg.ReviewRateLimit)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")
	t.Setenv("APPROVAL_TOKEN_TTL", "tomorrow")
	t.Setenv("JWT_EXPIRY_DURATION", "-1h")

	cfg, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, 24*time.Hour, cfg.ApprovalTokenTTL)
	assert.Equal(t, 8*time.Hour, cfg.JWTExpiryDuration)
}
