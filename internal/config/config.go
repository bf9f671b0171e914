// Package config loads and validates environment variables at startup.
// Fail-fast: a missing or malformed required variable aborts the process
// before the server starts.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration for the web front end.
type Config struct {
	Port             int
	PredictorBaseURL string        // base URL of the remote model service
	CatalogDir       string        // directory holding the four option files
	RequestTimeout   time.Duration // fixed bound on predict/explain calls
	PreviewTimeout   time.Duration // fixed bound on link-preview fetches
	SessionTTL       time.Duration // lifetime of a cached prediction
	RedisURL         string        // optional; selects the Redis session store
	PreviewBrowser   bool          // headless fallback for SPA pages
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	base := os.Getenv("PREDICTOR_BASE_URL")
	if base == "" {
		return nil, fmt.Errorf("PREDICTOR_BASE_URL is required")
	}
	if parsed, err := url.Parse(base); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("PREDICTOR_BASE_URL must be an absolute URL, got %q", base)
	}

	port := 8080
	if s := os.Getenv("PORT"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > 65535 {
			return nil, fmt.Errorf("PORT must be a valid port number, got %q", s)
		}
		port = v
	}

	catalogDir := os.Getenv("CATALOG_DIR")
	if catalogDir == "" {
		catalogDir = "data"
	}

	requestTimeout, err := durationEnv("REQUEST_TIMEOUT_SECONDS", time.Second, 30*time.Second)
	if err != nil {
		return nil, err
	}
	previewTimeout, err := durationEnv("PREVIEW_TIMEOUT_SECONDS", time.Second, 15*time.Second)
	if err != nil {
		return nil, err
	}
	sessionTTL, err := durationEnv("SESSION_TTL_MINUTES", time.Minute, 30*time.Minute)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:             port,
		PredictorBaseURL: base,
		CatalogDir:       catalogDir,
		RequestTimeout:   requestTimeout,
		PreviewTimeout:   previewTimeout,
		SessionTTL:       sessionTTL,
		RedisURL:         os.Getenv("REDIS_URL"),
		PreviewBrowser:   os.Getenv("PREVIEW_USE_BROWSER") == "true",
	}, nil
}

// durationEnv parses an integer env var scaled by unit, or returns fallback
// when unset.
func durationEnv(name string, unit, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(name)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, s)
	}
	return time.Duration(v) * unit, nil
}
