// Package config handles application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Server settings
	Port    int
	BaseURL string

	// Database
	DatabaseURL string

	// Anthropic (analysis LLM)
	AnthropicAPIKey string
	AnthropicModel  string
	LLMTimeout      time.Duration
	LLMMaxRetries   int
	LLMRetryDelay   time.Duration

	// Firecrawl (external scraping service, optional)
	FirecrawlAPIKey  string
	FirecrawlBaseURL string

	// Danmarks Statistik API (analysis tools)
	DSTBaseURL string

	// Content fetching
	FetchTimeout time.Duration

	// URL handling
	// StripWWW removes a leading "www." from submitted URLs before
	// normalization, so www and non-www submissions dedupe to the same
	// listing. Validation and provider matching always compare bare
	// domains regardless of this setting.
	StripWWW bool

	// CORS
	CORSOrigins []string

	// Worker
	WorkerPollInterval time.Duration // How often to poll for queued listings (default 2s)
	WorkerConcurrency  int           // Number of concurrent workers (default 3)
	StaleJobMaxAge     time.Duration // Listings stuck mid-pipeline longer than this are timed out at startup
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnvInt("PORT", 8080),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
		DatabaseURL: getEnv("DATABASE_URL", "file:boliganalyse.db?_journal=WAL&_timeout=5000"),

		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-3-5-sonnet-20240620"),
		LLMTimeout:      getEnvDuration("LLM_TIMEOUT", 180*time.Second),
		LLMMaxRetries:   getEnvInt("LLM_MAX_RETRIES", 3),
		LLMRetryDelay:   getEnvDuration("LLM_RETRY_DELAY", 5*time.Second),

		FirecrawlAPIKey:  getEnv("FIRECRAWL_API_KEY", ""),
		FirecrawlBaseURL: getEnv("FIRECRAWL_BASE_URL", "https://api.firecrawl.dev"),

		DSTBaseURL: getEnv("DST_API_BASE_URL", "https://api.statbank.dk/v1"),

		FetchTimeout: getEnvDuration("FETCH_TIMEOUT", 30*time.Second),

		StripWWW: getEnvBool("URL_STRIP_WWW", false),

		CORSOrigins: getEnvSlice("CORS_ORIGINS", []string{"http://localhost:3000"}),

		WorkerPollInterval: getEnvDuration("WORKER_POLL_INTERVAL", 2*time.Second),
		WorkerConcurrency:  getEnvInt("WORKER_CONCURRENCY", 3),
		StaleJobMaxAge:     getEnvDuration("STALE_JOB_MAX_AGE", 1*time.Hour),
	}

	if cfg.AnthropicAPIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is required")
	}

	return cfg, nil
}

// FirecrawlEnabled returns true if the external scraping service is configured.
func (c *Config) FirecrawlEnabled() bool {
	return c.FirecrawlAPIKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		lower := strings.ToLower(value)
		return lower == "true" || lower == "1" || lower == "yes"
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
