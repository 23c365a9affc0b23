package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "nats://localhost:4222", cfg.NATSURL)
	assert.Equal(t, 15*time.Second, cfg.InferenceTimeout)
	assert.Equal(t, "sessions.db", cfg.CachePath)
	assert.Equal(t, 60, cfg.RateLimitRequests)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.TracingEnabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("INFERENCE_TIMEOUT", "5s")
	t.Setenv("SESSION_CACHE_PATH", "/var/lib/quoting/sessions.db")
	t.Setenv("TRACING_ENABLED", "true")

	cfg := Load()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 5*time.Second, cfg.InferenceTimeout)
	assert.Equal(t, "/var/lib/quoting/sessions.db", cfg.CachePath)
	assert.True(t, cfg.TracingEnabled)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("INFERENCE_TIMEOUT", "soon")
	t.Setenv("RATE_LIMIT_REQUESTS", "lots")

	cfg := Load()

	assert.Equal(t, 15*time.Second, cfg.InferenceTimeout)
	assert.Equal(t, 60, cfg.RateLimitRequests)
}
