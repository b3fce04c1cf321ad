package config

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	var buf bytes.Buffer
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}), zerolog.New(&buf))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 5*time.Minute, cfg.Cache.IdentityTTL)
	assert.Equal(t, time.Minute, cfg.Cache.OrdersTTL)
	assert.Equal(t, 5, cfg.Navigation.NotificationLimit)
	assert.Zero(t, cfg.Live.HandshakeTimeout)
	assert.Zero(t, cfg.Live.MaxRetries)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Contains(t, buf.String(), "API_BASE_URL is not set")
}

func TestLoad_Overrides(t *testing.T) {
	var buf bytes.Buffer
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"API_BASE_URL":               "https://api.booknook.test",
		"ENV":                        "production",
		"REDIS_ADDR":                 "redis:6379",
		"IDENTITY_TTL":               "30s",
		"LIVE_HANDSHAKE_TIMEOUT":     "3s",
		"LIVE_RECONNECT_MAX_RETRIES": "4",
		"QUEUE_WORKERS":              "0",
	}), zerolog.New(&buf))
	require.NoError(t, err)

	assert.Equal(t, "https://api.booknook.test", cfg.API.BaseURL)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 30*time.Second, cfg.Cache.IdentityTTL)
	assert.Equal(t, 3*time.Second, cfg.Live.HandshakeTimeout)
	assert.Equal(t, 4, cfg.Live.MaxRetries)
	assert.Equal(t, 1, cfg.Queue.Workers)
	assert.NotContains(t, buf.String(), "API_BASE_URL")
}

func TestLoad_InvalidValue(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"IDENTITY_TTL": "soon",
	}), zerolog.Nop())
	assert.Error(t, err)
}
