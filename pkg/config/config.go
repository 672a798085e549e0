package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the application configuration shared by the console,
// the CLI and the reference API.
type Config struct {
	Server   ServerConfig
	Client   ClientConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Log      LogConfig
	Metrics  MetricsConfig
}

// ServerConfig holds listener configuration for the two HTTP binaries.
type ServerConfig struct {
	ConsolePort string
	APIPort     string
	Env         string

	// SessionIdle is how long an unused console tab session is kept.
	SessionIdle time.Duration
}

// ClientConfig selects the data source behind the inventory service.
type ClientConfig struct {
	UseLocal       bool
	BaseURL        string
	RequestTimeout time.Duration
	FallbackLocal  bool
}

// DatabaseConfig holds database-related configuration for the reference API
type DatabaseConfig struct {
	URL             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// JWTConfig holds JWT-related configuration
type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// MetricsConfig holds metrics-related configuration
type MetricsConfig struct {
	Prefix string
}

// Load loads the application configuration from environment variables
func Load() (*Config, error) {
	// Load environment variables from .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			ConsolePort: getEnv("CONSOLE_PORT", "3000"),
			APIPort:     getEnv("API_PORT", "5001"),
			Env:         getEnv("APP_ENV", "development"),
			SessionIdle: getEnvAsDuration("CONSOLE_SESSION_IDLE", 30*time.Minute),
		},
		Client: ClientConfig{
			UseLocal:       getEnvAsBool("INVENTORY_USE_LOCAL", true),
			BaseURL:        strings.TrimRight(strings.TrimSpace(getEnv("INVENTORY_API_BASE_URL", "http://localhost:5001")), "/"),
			RequestTimeout: getEnvAsDuration("INVENTORY_REQUEST_TIMEOUT", 10*time.Second),
			FallbackLocal:  getEnvAsBool("INVENTORY_FALLBACK_LOCAL", false),
		},
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "inventory"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", "your-super-secret-key-change-in-production"),
			Expiration: getEnvAsDuration("JWT_EXPIRATION", 24*time.Hour),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Prefix: getEnv("METRICS_PREFIX", "inventory"),
		},
	}

	if !cfg.Client.UseLocal && cfg.Client.BaseURL == "" {
		return nil, fmt.Errorf("INVENTORY_API_BASE_URL is required when INVENTORY_USE_LOCAL=false")
	}

	return cfg, nil
}

// DSN returns the postgres connection string, preferring DATABASE_URL.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		d.Host, d.User, d.Password, d.Name, d.Port,
	)
}

// IsProduction reports whether APP_ENV is production.
func (s ServerConfig) IsProduction() bool {
	return s.Env == "production"
}

// Helper functions to get environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
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
