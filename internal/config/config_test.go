package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_CONNECT_DSN", "user=root dbname=defaultdb sslmode=disable")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("VK_CLIENT_ID", "12345")
	t.Setenv("VK_CLIENT_SECRET", "secret")
	t.Setenv("VK_REDIRECT_URL", "http://localhost:8000/users/auth/vk/callback")
	t.Setenv("MINIO_ACCESS_KEY", "minioadmin")
	t.Setenv("MINIO_SECRET_KEY", "minioadmin")
}

func TestNewConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8000", cfg.HTTPAddr)
	assert.Equal(t, "5.131", cfg.VK.APIVersion)
	assert.Equal(t, 10*time.Second, cfg.VK.Timeout)
	assert.Equal(t, 10*time.Minute, cfg.State.TTL)
	assert.Equal(t, 720*time.Hour, cfg.JWT.Lifetime)
	assert.Empty(t, cfg.State.RedisAddr)
}

func TestNewConfig_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("VK_API_VERSION", "5.199")
	t.Setenv("STATE_TTL", "5m")
	t.Setenv("STATE_REDIS_ADDR", "localhost:6379")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "5.199", cfg.VK.APIVersion)
	assert.Equal(t, 5*time.Minute, cfg.State.TTL)
	assert.Equal(t, "localhost:6379", cfg.State.RedisAddr)
}

func TestNewConfig_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("VK_CLIENT_SECRET", "")

	_, err := NewConfig()
	assert.Error(t, err)
}
