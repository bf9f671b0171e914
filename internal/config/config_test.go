package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PREDICTOR_BASE_URL", "https://predictor.example.com")
	for _, key := range []string{"PORT", "CATALOG_DIR", "REQUEST_TIMEOUT_SECONDS",
		"PREVIEW_TIMEOUT_SECONDS", "SESSION_TTL_MINUTES", "REDIS_URL", "PREVIEW_USE_BROWSER"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "https://predictor.example.com", cfg.PredictorBaseURL)
	assert.Equal(t, "data", cfg.CatalogDir)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 15*time.Second, cfg.PreviewTimeout)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Empty(t, cfg.RedisURL)
	assert.False(t, cfg.PreviewBrowser)
}

func TestLoad_MissingBaseURL(t *testing.T) {
	t.Setenv("PREDICTOR_BASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PREDICTOR_BASE_URL")
}

func TestLoad_RelativeBaseURL(t *testing.T) {
	t.Setenv("PREDICTOR_BASE_URL", "/predict")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absolute URL")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PREDICTOR_BASE_URL", "https://predictor.example.com")
	t.Setenv("PORT", "9090")
	t.Setenv("CATALOG_DIR", "/etc/scamjob/data")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "10")
	t.Setenv("PREVIEW_TIMEOUT_SECONDS", "5")
	t.Setenv("SESSION_TTL_MINUTES", "60")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("PREVIEW_USE_BROWSER", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/etc/scamjob/data", cfg.CatalogDir)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 5*time.Second, cfg.PreviewTimeout)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.True(t, cfg.PreviewBrowser)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad port", "PORT", "not-a-port"},
		{"port out of range", "PORT", "70000"},
		{"bad timeout", "REQUEST_TIMEOUT_SECONDS", "-5"},
		{"bad ttl", "SESSION_TTL_MINUTES", "zero"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PREDICTOR_BASE_URL", "https://predictor.example.com")
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}
