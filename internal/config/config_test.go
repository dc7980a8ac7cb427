package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePresets(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "filters.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("FILTERS_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("BACKEND_API_URL", "")
	t.Setenv("BOOKMARK_BACKEND", "")
	t.Setenv("LOG_FORMAT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.BackendURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 1, cfg.RetryAttempts)
	assert.Equal(t, 10, cfg.DefaultPageSize)
	assert.Equal(t, int64(10<<20), cfg.MaxBodyBytes)
	assert.Equal(t, BookmarkBackendFile, cfg.BookmarkBackend)
	assert.Empty(t, cfg.Filters.Cities)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writePresets(t, "cities:\n  - Lagos\n  - Abuja\ncategories:\n  - Politics\n")
	t.Setenv("FILTERS_CONFIG_PATH", path)
	t.Setenv("BACKEND_API_URL", "https://api.example.com")
	t.Setenv("REQUEST_TIMEOUT", "5")
	t.Setenv("BACKEND_RETRY_DELAY", "250ms")
	t.Setenv("DEFAULT_PAGE_SIZE", "25")
	t.Setenv("BACKEND_MAX_BODY_BYTES", "4096")
	t.Setenv("BOOKMARK_BACKEND", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.BackendURL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryDelay)
	assert.Equal(t, 25, cfg.DefaultPageSize)
	assert.Equal(t, int64(4096), cfg.MaxBodyBytes)
	assert.Equal(t, BookmarkBackendRedis, cfg.BookmarkBackend)
	assert.True(t, cfg.Debug)
	assert.Equal(t, []string{"Lagos", "Abuja"}, cfg.Filters.Cities)
	assert.Equal(t, []string{"Politics"}, cfg.Filters.Categories)
}

func TestLoad_InvalidPresets(t *testing.T) {
	t.Setenv("FILTERS_CONFIG_PATH", writePresets(t, "cities: [unterminated"))

	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			BackendURL:       "http://localhost:8000",
			DefaultPageSize:  10,
			RetryAttempts:    1,
			MaxBodyBytes:     1 << 20,
			BookmarkBackend:  BookmarkBackendFile,
			BookmarkFilePath: "bookmarks.json",
			LogFormat:        "text",
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"relative backend url", func(c *Config) { c.BackendURL = "/api" }},
		{"zero page size", func(c *Config) { c.DefaultPageSize = 0 }},
		{"zero attempts", func(c *Config) { c.RetryAttempts = 0 }},
		{"zero body limit", func(c *Config) { c.MaxBodyBytes = 0 }},
		{"postgres without dsn", func(c *Config) { c.BookmarkBackend = BookmarkBackendPostgres }},
		{"redis without url", func(c *Config) { c.BookmarkBackend = BookmarkBackendRedis }},
		{"unknown backend", func(c *Config) { c.BookmarkBackend = "memcached" }},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
