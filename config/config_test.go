package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_LoadsShippedConfig(t *testing.T) {
	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "medash", cfg.Env.ServiceName)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, defaultBackendURL, cfg.Backend.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 2, cfg.Backend.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.Backend.RetryBackoff)
	assert.Equal(t, 10*time.Second, cfg.Cache.StaleTime)
	assert.Equal(t, 30*time.Second, cfg.Cache.RefetchInterval)
	assert.Equal(t, 5*time.Minute, cfg.Cache.GCTime)
}

func TestNew_DefaultsSessionSettings(t *testing.T) {
	cfg, err := New()
	require.NoError(t, err)

	// The shipped file leaves session storage unset; the defaults place it
	// under the user config dir with a 5m identity staleness window.
	assert.NotEmpty(t, cfg.Session.FilePath)
	assert.Equal(t, 5*time.Minute, cfg.Session.ProfileStaleTime)
}
