// Package config loads service settings from the environment and the filter presets file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	BookmarkBackendFile     = "file"
	BookmarkBackendRedis    = "redis"
	BookmarkBackendPostgres = "postgres"
)

type Config struct {
	// HTTP settings
	Port               string
	FrontendURL        string
	RateLimitPerMinute int // 0 disables

	// Backend settings
	BackendURL     string
	RequestTimeout time.Duration
	RetryAttempts  int
	RetryDelay     time.Duration
	MaxBodyBytes   int64

	// Feed settings
	DefaultPageSize   int
	ItemCacheTTL      time.Duration
	FiltersConfigPath string
	Filters           FilterPresets

	// Bookmark settings
	BookmarkBackend  string // file | redis | postgres
	BookmarkFilePath string
	DatabaseURL      string
	RedisURL         string

	// App settings
	Debug     bool
	LogFormat string // text | json
}

// FilterPresets are the city and category chips offered before any data loads
type FilterPresets struct {
	Cities     []string `yaml:"cities" json:"cities"`
	Categories []string `yaml:"categories" json:"categories"`
}

// Load reads .env (when present), the environment and the filter presets file
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg := &Config{
		// Default values
		Port:              "8080",
		BackendURL:        "http://localhost:8000",
		RequestTimeout:    30 * time.Second,
		RetryAttempts:     1,
		RetryDelay:        time.Second,
		MaxBodyBytes:      10 << 20,
		DefaultPageSize:   10,
		ItemCacheTTL:      5 * time.Minute,
		FiltersConfigPath: "configs/filters.yaml",
		BookmarkBackend:   BookmarkBackendFile,
		BookmarkFilePath:  "bookmarks.json",
		LogFormat:         "text",
	}

	cfg.Port = getEnvOrDefault("PORT", cfg.Port)
	cfg.FrontendURL = os.Getenv("FRONTEND_URL")
	cfg.RateLimitPerMinute = getEnvIntOrDefault("RATE_LIMIT_PER_MINUTE", cfg.RateLimitPerMinute)
	cfg.BackendURL = getEnvOrDefault("BACKEND_API_URL", cfg.BackendURL)
	cfg.RequestTimeout = getEnvDurationOrDefault("REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.RetryAttempts = getEnvIntOrDefault("BACKEND_RETRY_ATTEMPTS", cfg.RetryAttempts)
	cfg.RetryDelay = getEnvDurationOrDefault("BACKEND_RETRY_DELAY", cfg.RetryDelay)
	cfg.MaxBodyBytes = int64(getEnvIntOrDefault("BACKEND_MAX_BODY_BYTES", int(cfg.MaxBodyBytes)))
	cfg.DefaultPageSize = getEnvIntOrDefault("DEFAULT_PAGE_SIZE", cfg.DefaultPageSize)
	cfg.ItemCacheTTL = getEnvDurationOrDefault("ITEM_CACHE_TTL", cfg.ItemCacheTTL)
	cfg.FiltersConfigPath = getEnvOrDefault("FILTERS_CONFIG_PATH", cfg.FiltersConfigPath)

	cfg.BookmarkBackend = getEnvOrDefault("BOOKMARK_BACKEND", cfg.BookmarkBackend)
	cfg.BookmarkFilePath = getEnvOrDefault("BOOKMARK_FILE_PATH", cfg.BookmarkFilePath)
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.RedisURL = os.Getenv("REDIS_URL")

	cfg.LogFormat = getEnvOrDefault("LOG_FORMAT", cfg.LogFormat)
	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}

	presets, err := LoadFilterPresets(cfg.FiltersConfigPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		slog.Warn("filter presets file not found, starting without presets", "path", cfg.FiltersConfigPath)
	}
	cfg.Filters = presets

	return cfg, cfg.Validate()
}

// LoadFilterPresets reads city and category presets from a YAML file
func LoadFilterPresets(path string) (FilterPresets, error) {
	var presets FilterPresets

	f, err := os.Open(path)
	if err != nil {
		return presets, err
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&presets); err != nil {
		return presets, fmt.Errorf("failed to parse filter presets %s: %w", path, err)
	}
	return presets, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDurationOrDefault accepts Go durations ("30s") or whole seconds ("30")
func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("BACKEND_API_URL must be an absolute http(s) URL, got %q", c.BackendURL)
	}
	if c.DefaultPageSize <= 0 {
		return fmt.Errorf("DEFAULT_PAGE_SIZE must be positive")
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("BACKEND_RETRY_ATTEMPTS must be at least 1")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("BACKEND_MAX_BODY_BYTES must be positive")
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must not be negative")
	}
	switch c.BookmarkBackend {
	case BookmarkBackendFile:
		if c.BookmarkFilePath == "" {
			return fmt.Errorf("BOOKMARK_FILE_PATH is required for the file bookmark backend")
		}
	case BookmarkBackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for the redis bookmark backend")
		}
	case BookmarkBackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres bookmark backend")
		}
	default:
		return fmt.Errorf("BOOKMARK_BACKEND must be 'file', 'redis' or 'postgres'")
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be 'text' or 'json'")
	}
	return nil
}
