package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
)

// Config holds all configuration for the application
type Config struct {
	// Table stakes
	StartingBalance       int64
	BaseBet               int64
	PerfectPairsBet       int64
	TwentyOnePlusThreeBet int64
	DeckCount             int

	// Persistence
	StorageType string // "memory" or "sqlite"
	DataDir     string

	// Optional round history indexing
	ElasticsearchURL         string
	ElasticsearchUsername    string
	ElasticsearchPassword    string
	ElasticsearchIndexPrefix string

	// Environment
	Environment string // "development" or "production"
	LogLevel    string
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Only return error if file exists but couldn't be loaded
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	return FromEnv()
}

// FromEnv builds a Config from the current process environment
func FromEnv() (*Config, error) {
	// Get working directory for resource paths
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	cfg := &Config{
		StorageType:              getEnvWithDefault("STORAGE_TYPE", StorageMemory),
		DataDir:                  getEnvWithDefault("DATA_DIR", filepath.Join(wd, "data")),
		ElasticsearchURL:         os.Getenv("ELASTICSEARCH_URL"),
		ElasticsearchUsername:    os.Getenv("ELASTICSEARCH_USERNAME"),
		ElasticsearchPassword:    os.Getenv("ELASTICSEARCH_PASSWORD"),
		ElasticsearchIndexPrefix: getEnvWithDefault("ELASTICSEARCH_INDEX_PREFIX", "blackjack"),
		Environment:              getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:                 getEnvWithDefault("LOG_LEVEL", "info"),
	}

	if cfg.StartingBalance, err = getInt64WithDefault("STARTING_BALANCE", 1000); err != nil {
		return nil, err
	}
	if cfg.BaseBet, err = getInt64WithDefault("BASE_BET", 100); err != nil {
		return nil, err
	}
	if cfg.PerfectPairsBet, err = getInt64WithDefault("PERFECT_PAIRS_BET", 10); err != nil {
		return nil, err
	}
	if cfg.TwentyOnePlusThreeBet, err = getInt64WithDefault("TWENTY_ONE_PLUS_THREE_BET", 10); err != nil {
		return nil, err
	}
	deckCount, err := getInt64WithDefault("DECK_COUNT", 6)
	if err != nil {
		return nil, err
	}
	cfg.DeckCount = int(deckCount)

	// Validate required fields
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks that the configuration is usable
func (c *Config) validate() error {
	if c.BaseBet <= 0 {
		return fmt.Errorf("BASE_BET must be positive")
	}
	if c.PerfectPairsBet < 0 || c.TwentyOnePlusThreeBet < 0 {
		return fmt.Errorf("side bets cannot be negative")
	}
	if c.StartingBalance < 0 {
		return fmt.Errorf("STARTING_BALANCE cannot be negative")
	}
	if c.DeckCount < 1 {
		return fmt.Errorf("DECK_COUNT must be at least 1")
	}
	if c.StorageType != StorageMemory && c.StorageType != StorageSQLite {
		return fmt.Errorf("STORAGE_TYPE must be %q or %q", StorageMemory, StorageSQLite)
	}
	return nil
}

// DatabasePath returns the SQLite file used when StorageType is sqlite
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "blackjack.db")
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// getEnvWithDefault returns environment variable value or default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt64WithDefault(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number: %w", key, err)
	}
	return n, nil
}
