package database

import (
	"fmt"
	"net/url"
	"os"

	"github.com/joho/godotenv"
)

// Credentials is one database login.
type Credentials struct {
	User     string
	Password string
}

// Config holds database configuration. Restricted is the row-level-policy
// login used for request traffic; Elevated bypasses row-level policy and is
// reserved for server-side aggregates and migrations.
type Config struct {
	Host       string
	Port       string
	DBName     string
	SSLMode    string
	Restricted Credentials
	Elevated   Credentials
}

// NewConfig creates a new database configuration
func NewConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// It's okay if .env doesn't exist, we'll use defaults or environment variables
		fmt.Println("Warning: .env file not found")
	}

	restricted := Credentials{
		User:     getEnv("DB_USER", "mosquefund_app"),
		Password: getEnv("DB_PASSWORD", "mosquefund"),
	}
	elevated := Credentials{
		User:     getEnv("DB_SERVICE_USER", restricted.User),
		Password: getEnv("DB_SERVICE_PASSWORD", restricted.Password),
	}

	return &Config{
		Host:       getEnv("DB_HOST", "localhost"),
		Port:       getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_NAME", "mosquefund"),
		SSLMode:    getEnv("DB_SSLMODE", "disable"),
		Restricted: restricted,
		Elevated:   elevated,
	}, nil
}

// DSN returns the PostgreSQL key/value connection string for the given login.
func (c *Config) DSN(creds Credentials) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, creds.User, creds.Password, c.DBName, c.SSLMode)
}

// URL returns the postgres:// URL form used by golang-migrate.
func (c *Config) URL(creds Credentials) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(creds.User, creds.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

// SeparateElevated reports whether a distinct elevated login was configured.
func (c *Config) SeparateElevated() bool {
	return c.Elevated != c.Restricted
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}
