// Package config provides emulator configuration loading from environment variables and .env files.
// It uses viper for flexible configuration management with sensible defaults.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all emulator configuration loaded from environment variables or .env file.
// Configuration priority: environment variables > .env file > defaults.
type Config struct {
	AppEnv         string // Application environment (dev, prod)
	HTTPAddr       string // Evidently API bind address (e.g., ":2306")
	MetricsAddr    string // Prometheus metrics bind address
	StoreType      string // Storage backend type (file, memory or postgres)
	DataDir        string // Root of the feature files for the file and memory stores
	DatabaseDSN    string // PostgreSQL connection string
	RateLimitPerIP int    // Requests per minute per client IP, 0 disables limiting
	LogLevel       string // zerolog level name
	RolloutSalt    string // Salt for deterministic launch bucketing

	rolloutSaltGenerated bool
}

const (
	saltByteSize        = 16 // 16 bytes = 128 bits of entropy
	defaultSaltFallback = "default-random-salt"
	defaultPort         = "2306"
)

// generateRandomSalt creates a random 16-byte hex-encoded salt.
// Returns a fallback value if random generation fails.
func generateRandomSalt() string {
	bytes := make([]byte, saltByteSize)
	if _, err := rand.Read(bytes); err != nil {
		return defaultSaltFallback
	}
	return hex.EncodeToString(bytes)
}

// Load reads configuration from environment variables and .env file (if present).
// Environment variables take precedence over .env file values.
//
// Load does NOT validate the result. Call Validate before starting servers.
func Load() (*Config, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigFile(".env") // Optional; silently ignored if file doesn't exist
	_ = viperInstance.ReadInConfig()
	viperInstance.AutomaticEnv()

	setConfigDefaults(viperInstance)
	rolloutSalt, rolloutSaltGenerated := getOrGenerateRolloutSalt(viperInstance)

	return &Config{
		AppEnv:               viperInstance.GetString("APP_ENV"),
		HTTPAddr:             httpAddr(viperInstance),
		MetricsAddr:          viperInstance.GetString("METRICS_ADDR"),
		StoreType:            viperInstance.GetString("STORE_TYPE"),
		DataDir:              viperInstance.GetString("DATA_DIR"),
		DatabaseDSN:          viperInstance.GetString("DB_DSN"),
		RateLimitPerIP:       viperInstance.GetInt("RATE_LIMIT_PER_IP"),
		LogLevel:             viperInstance.GetString("LOG_LEVEL"),
		RolloutSalt:          rolloutSalt,
		rolloutSaltGenerated: rolloutSaltGenerated,
	}, nil
}

// setConfigDefaults sets default values for all configuration options.
// These defaults are suitable for local development.
func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("METRICS_ADDR", ":9090")
	v.SetDefault("STORE_TYPE", "file")
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("DB_DSN", "")
	v.SetDefault("RATE_LIMIT_PER_IP", 100)
	v.SetDefault("LOG_LEVEL", "info")
}

// httpAddr prefers EVIDENTLY_LOCAL_ADDR, then EVIDENTLY_LOCAL_PORT, then :2306.
func httpAddr(v *viper.Viper) string {
	if addr := v.GetString("EVIDENTLY_LOCAL_ADDR"); addr != "" {
		return addr
	}
	if port := v.GetString("EVIDENTLY_LOCAL_PORT"); port != "" {
		return ":" + port
	}
	return ":" + defaultPort
}

// getOrGenerateRolloutSalt retrieves ROLLOUT_SALT or generates a random one.
// Returns the salt and whether it was generated.
func getOrGenerateRolloutSalt(v *viper.Viper) (string, bool) {
	rolloutSalt := v.GetString("ROLLOUT_SALT")
	if rolloutSalt == "" {
		return generateRandomSalt(), true
	}
	return rolloutSalt, false
}

// RolloutSaltGenerated reports whether RolloutSalt was generated at load time.
// Launch assignments then change on every restart.
func (c *Config) RolloutSaltGenerated() bool {
	return c.rolloutSaltGenerated
}

// ValidationError represents a configuration validation error with details about what failed.
type ValidationError struct {
	Field   string // Name of the configuration field
	Message string // Human-readable error message
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation failed [%s]: %s", e.Field, e.Message)
}

// Validate checks that the configuration can start the emulator.
//
// Validation Rules:
//  1. StoreType must be one of: "file", "memory", "postgres"
//  2. "file" requires DataDir; "postgres" requires DatabaseDSN
//  3. HTTPAddr and MetricsAddr must be non-empty
//  4. RateLimitPerIP must not be negative
//  5. In prod, RolloutSalt must be explicitly configured
//
// Returns the first ValidationError found, or nil.
func (c *Config) Validate() error {
	switch c.StoreType {
	case "file":
		if c.DataDir == "" {
			return ValidationError{
				Field:   "DATA_DIR",
				Message: "data directory is required when STORE_TYPE=file",
			}
		}
	case "memory":
	case "postgres":
		if c.DatabaseDSN == "" {
			return ValidationError{
				Field:   "DB_DSN",
				Message: "database DSN is required when STORE_TYPE=postgres",
			}
		}
	default:
		return ValidationError{
			Field:   "STORE_TYPE",
			Message: fmt.Sprintf("must be 'file', 'memory' or 'postgres', got '%s'", c.StoreType),
		}
	}

	if c.HTTPAddr == "" {
		return ValidationError{
			Field:   "EVIDENTLY_LOCAL_ADDR",
			Message: "HTTP server address cannot be empty",
		}
	}

	if c.MetricsAddr == "" {
		return ValidationError{
			Field:   "METRICS_ADDR",
			Message: "metrics server address cannot be empty",
		}
	}

	if c.RateLimitPerIP < 0 {
		return ValidationError{
			Field:   "RATE_LIMIT_PER_IP",
			Message: fmt.Sprintf("must not be negative, got %d", c.RateLimitPerIP),
		}
	}

	if (c.AppEnv == "prod" || c.AppEnv == "production") && c.rolloutSaltGenerated {
		return ValidationError{
			Field:   "ROLLOUT_SALT",
			Message: "rollout salt must be explicitly configured in production. Set ROLLOUT_SALT environment variable.",
		}
	}

	return nil
}
