package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	CORS          CORSConfig
	Admin         AdminConfig
	Distributions DistributionsConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// AdminConfig holds the credentials for the admin surface.
// APIKey guards the /api/admin routes; TokenKey is the base64 fernet key
// used to mint short-lived admin access tokens.
type AdminConfig struct {
	APIKey   string
	TokenKey string
}

// DistributionsConfig holds the distribution sweep settings.
type DistributionsConfig struct {
	// Schedule is a cron expression; the default runs the sweep daily at 02:00.
	Schedule string
	// Concurrency caps how many investments are processed in parallel per sweep.
	Concurrency int
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/bond_platform.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitEnv("CORS_ALLOWED_ORIGINS", []string{
				"http://localhost:3000",
				"http://localhost",
			}),
		},
		Admin: AdminConfig{
			APIKey:   os.Getenv("ADMIN_API_KEY"),
			TokenKey: os.Getenv("ADMIN_TOKEN_KEY"),
		},
		Distributions: DistributionsConfig{
			Schedule:    getEnv("DISTRIBUTION_SCHEDULE", "0 2 * * *"),
			Concurrency: 4,
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// splitEnv gets a comma-separated environment variable or returns a default list
func splitEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
