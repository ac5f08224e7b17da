package config

import (
	"os"
	"strconv"

	"goanova/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Data     DataConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds the optional run-ledger connection settings. An
// empty URL disables persistence entirely.
type DatabaseConfig struct {
	URL          string
	MaxOpenConns int
}

// DataConfig holds data ingestion settings
type DataConfig struct {
	File  string
	Sheet string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: getEnvIntOrDefault("DB_MAX_OPEN_CONNS", 5),
		},
		Data: DataConfig{
			File:  os.Getenv("DATA_FILE"),
			Sheet: getEnvOrDefault("DATA_SHEET", "Sheet1"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(c *Config) error {
	if c.Server.Port == "" {
		return errors.ConfigInvalid("PORT must not be empty")
	}
	if c.Database.MaxOpenConns < 1 {
		return errors.ConfigInvalid("DB_MAX_OPEN_CONNS must be at least 1")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
