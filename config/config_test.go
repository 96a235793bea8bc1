package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SESSION_CACHE_TTL", "")
	t.Setenv("GENERATION_RATE_LIMIT", "not-a-number")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Minute, cfg.SessionCacheTTL)
	assert.Equal(t, 10, cfg.GenerationRateLimit)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("SESSION_CACHE_TTL", "90")
	t.Setenv("CHAT_TIMEOUT", "30s")
	t.Setenv("FRONTEND_URL", "https://app.example.com/")
	t.Setenv("AUDIT_LOG_TO_DB", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 90*time.Second, cfg.SessionCacheTTL)
	assert.Equal(t, 30*time.Second, cfg.ChatTimeout)
	assert.Equal(t, "https://app.example.com", cfg.FrontendURL)
	assert.False(t, cfg.AuditLogToDB)
}
