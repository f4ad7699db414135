package config

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/caarlos0/env"
)

// Storage drivers accepted by STORAGE_DRIVER
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds all application configuration, read from the environment
// (optionally seeded from a .env file by the caller)
type Config struct {
	// Server Configuration
	Environment       string        `env:"ENVIRONMENT" envDefault:"development"`
	Port              string        `env:"PORT" envDefault:"3000"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	BaseURL           string        `env:"BASE_URL"` // Fixed public base for short links; derived per request when empty
	TrustProxyHeaders bool          `env:"TRUST_PROXY_HEADERS" envDefault:"false"`
	MetricsEnabled    bool          `env:"METRICS_ENABLED" envDefault:"true"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Storage configuration
	StorageDriver    string `env:"STORAGE_DRIVER" envDefault:"postgres"`
	DatabaseDSN      string `env:"DATABASE_DSN"` // Overrides the DB_* fields when set
	DBHost           string `env:"DB_HOST" envDefault:"localhost"`
	DBPort           string `env:"DB_PORT" envDefault:"5432"`
	DBUser           string `env:"DB_USER" envDefault:"postgres"`
	DBPassword       string `env:"DB_PASSWORD"`
	DBName           string `env:"DB_NAME" envDefault:"shortlink"`
	DBSSLMode        string `env:"DB_SSL_MODE" envDefault:"disable"`
	DBConnectRetries int    `env:"DB_CONNECT_RETRIES" envDefault:"5"`

	// Redis configuration; the cache is disabled when RedisAddr is empty
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"1h"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration is present and valid
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a number between 1 and 65535, got %q", c.Port)
	}

	switch c.StorageDriver {
	case StoragePostgres:
		if c.IsProduction() && c.DatabaseDSN == "" && c.DBPassword == "" {
			return fmt.Errorf("DB_PASSWORD is required in production")
		}
		if c.DBConnectRetries < 1 {
			return fmt.Errorf("DB_CONNECT_RETRIES must be at least 1, got %d", c.DBConnectRetries)
		}
	case StorageMemory:
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StoragePostgres, StorageMemory, c.StorageDriver)
	}

	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return fmt.Errorf("BASE_URL must be an absolute URL, got %q", c.BaseURL)
		}
	}

	if c.RedisAddr != "" && c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive when REDIS_ADDR is set")
	}

	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}

	return nil
}

// DSN returns the PostgreSQL connection string
func (c *Config) DSN() string {
	if c.DatabaseDSN != "" {
		return c.DatabaseDSN
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}

// CacheEnabled reports whether a Redis cache should be used
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
