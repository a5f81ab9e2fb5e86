package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Env      string
	Port     string
	LogLevel string

	// Auth: either a shared HS256 secret or a JWKS endpoint must be set.
	JWTSecret    string
	JWKSURL      string
	JWTIssuer    string
	JWTAlgorithm string
	JWTAudience  string

	MigrationsPath string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", ""),

		JWTSecret:    getEnv("AUTH_JWT_SECRET", ""),
		JWKSURL:      getEnv("AUTH_JWKS_URL", ""),
		JWTIssuer:    getEnv("AUTH_ISSUER", ""),
		JWTAlgorithm: getEnv("AUTH_JWT_ALGORITHM", "ES256"),
		JWTAudience:  getEnv("AUTH_AUDIENCE", "authenticated"),

		MigrationsPath: getEnv("MIGRATIONS_PATH", "file://migrations"),
	}

	appConfig = config
	return config, nil
}

// Validate checks the settings the API server cannot start without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" && c.JWKSURL == "" {
		return fmt.Errorf("either AUTH_JWT_SECRET or AUTH_JWKS_URL must be set")
	}
	if c.JWKSURL != "" && c.JWTIssuer == "" {
		return fmt.Errorf("AUTH_ISSUER is required when AUTH_JWKS_URL is set")
	}
	return nil
}

// IsProduction reports whether internal error details must be hidden from callers.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
