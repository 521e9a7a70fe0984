// Package config provides application configuration management.
// It loads configuration from environment variables with sensible defaults.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server Server
	Remote Remote
	Redis  Redis
	Secure Secure
	Sync   Sync
}

// Server holds the local HTTP API configuration.
type Server struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Environment  string
}

// Remote holds the remote Finance Tracker API configuration.
type Remote struct {
	BaseURL        string
	RequestTimeout time.Duration
}

// Redis holds the general-tier store configuration.
type Redis struct {
	Addr     string
	Password string
	DB       int
}

// Secure holds the protected-tier store configuration.
type Secure struct {
	// DatabasePath is the sqlite file backing the protected tier.
	DatabasePath string
	// Key is the hex-encoded 32-byte secretbox key. Values written to the
	// protected tier are sealed with it before touching disk. When empty,
	// a key is generated on first run and kept at KeyPath.
	Key string
	// KeyPath is the file holding the generated key.
	KeyPath string
	// SessionToken optionally seeds the bearer token on startup. The agent
	// never performs a login flow itself.
	SessionToken string
}

// Sync holds the sync engine configuration.
type Sync struct {
	Interval     time.Duration
	BaseCurrency string
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: Server{
			Host:         getEnv("SERVER_HOST", "127.0.0.1"),
			Port:         getEnvAsInt("SERVER_PORT", 8090),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			Environment:  getEnv("ENV", "development"),
		},
		Remote: Remote{
			BaseURL:        getEnv("REMOTE_API_URL", "http://localhost:8080/api/v1"),
			RequestTimeout: getEnvAsDuration("REMOTE_API_TIMEOUT", 15*time.Second),
		},
		Redis: Redis{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Secure: Secure{
			DatabasePath: getEnv("SECURE_STORE_PATH", "finance-tracker-secure.db"),
			Key:          getEnv("SECURE_STORE_KEY", ""),
			KeyPath:      getEnv("SECURE_STORE_KEY_PATH", "finance-tracker-secure.key"),
			SessionToken: getEnv("SESSION_TOKEN", ""),
		},
		Sync: Sync{
			Interval:     getEnvAsDuration("SYNC_INTERVAL", 5*time.Minute),
			BaseCurrency: getEnv("BASE_CURRENCY", "BRL"),
		},
	}
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
