// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port     int
	LogLevel string
	DevMode  bool

	DataDir         string
	SeriesCachePath string

	AlphaVantageAPIKey string
	MarketDataURL      string
	NewsFeedURL        string

	MaxAssets       int
	SyntheticSeed   int64
	OptimizerSeed   int64
	RiskSeed        uint64
	RiskSimulations int

	FetchConcurrency int
	FetchTimeout     time.Duration
	RequestTimeout   time.Duration

	RefreshSchedule    string
	CachePurgeSchedule string
	ResetSchedule      string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:     getEnvAsInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		DevMode:  getEnvAsBool("DEV_MODE", false),

		DataDir: getEnv("DATA_DIR", "./data"),

		AlphaVantageAPIKey: getEnv("ALPHA_VANTAGE_API_KEY", ""),
		MarketDataURL:      getEnv("MARKET_DATA_URL", ""),
		NewsFeedURL:        getEnv("NEWS_FEED_URL", ""),

		MaxAssets:       getEnvAsInt("MAX_ASSETS", 4),
		SyntheticSeed:   getEnvAsInt64("SYNTHETIC_SEED", 42),
		OptimizerSeed:   getEnvAsInt64("OPTIMIZER_SEED", 42),
		RiskSeed:        uint64(getEnvAsInt64("RISK_SEED", 42)),
		RiskSimulations: getEnvAsInt("RISK_SIMULATIONS", 10000),

		FetchConcurrency: getEnvAsInt("FETCH_CONCURRENCY", 4),
		FetchTimeout:     getEnvAsDuration("FETCH_TIMEOUT", 10*time.Second),
		RequestTimeout:   getEnvAsDuration("REQUEST_TIMEOUT", 60*time.Second),

		RefreshSchedule:    getEnv("REFRESH_SCHEDULE", "@hourly"),
		CachePurgeSchedule: getEnv("CACHE_PURGE_SCHEDULE", "@hourly"),
		ResetSchedule:      getEnv("RESET_SCHEDULE", "@midnight"),
	}
	cfg.SeriesCachePath = getEnv("SERIES_CACHE_PATH", cfg.DataDir+"/series_cache.db")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be a valid port number, got %d", c.Port)
	}
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	if c.MaxAssets <= 0 {
		return fmt.Errorf("MAX_ASSETS must be positive, got %d", c.MaxAssets)
	}

	// Note: API key and upstream URLs optional; the pipeline degrades to
	// synthetic data and pinned macro fallbacks without them.

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
