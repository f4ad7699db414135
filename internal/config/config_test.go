package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Environment:      "test",
		Port:             "3000",
		StorageDriver:    StorageMemory,
		DBConnectRetries: 5,
		CacheTTL:         time.Hour,
		ShutdownTimeout:  30 * time.Second,
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENVIRONMENT", "PORT", "LOG_LEVEL", "BASE_URL", "TRUST_PROXY_HEADERS", "METRICS_ENABLED",
		"SHUTDOWN_TIMEOUT", "STORAGE_DRIVER", "DATABASE_DSN", "DB_HOST", "DB_PORT", "DB_USER",
		"DB_PASSWORD", "DB_NAME", "DB_SSL_MODE", "DB_CONNECT_RETRIES", "REDIS_ADDR",
		"REDIS_PASSWORD", "REDIS_DB", "CACHE_TTL",
	} {
		// empty values fall back to envDefault
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, StoragePostgres, cfg.StorageDriver)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "shortlink", cfg.DBName)
	assert.Equal(t, 5, cfg.DBConnectRetries)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.MetricsEnabled)
	assert.False(t, cfg.TrustProxyHeaders)
	assert.False(t, cfg.CacheEnabled())
	assert.Empty(t, cfg.BaseURL)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("BASE_URL", "https://sho.rt")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CACHE_TTL", "15m")
	t.Setenv("TRUST_PROXY_HEADERS", "true")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, "https://sho.rt", cfg.BaseURL)
	assert.True(t, cfg.CacheEnabled())
	assert.Equal(t, 15*time.Minute, cfg.CacheTTL)
	assert.True(t, cfg.TrustProxyHeaders)
	assert.False(t, cfg.MetricsEnabled)
}

func TestLoadConfig_Invalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "not-a-port")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "PORT")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "port zero", mutate: func(c *Config) { c.Port = "0" }, wantErr: "PORT"},
		{name: "port too large", mutate: func(c *Config) { c.Port = "70000" }, wantErr: "PORT"},
		{name: "unknown driver", mutate: func(c *Config) { c.StorageDriver = "sqlite" }, wantErr: "STORAGE_DRIVER"},
		{
			name: "production postgres without password",
			mutate: func(c *Config) {
				c.Environment = "production"
				c.StorageDriver = StoragePostgres
			},
			wantErr: "DB_PASSWORD",
		},
		{
			name: "production postgres with dsn",
			mutate: func(c *Config) {
				c.Environment = "production"
				c.StorageDriver = StoragePostgres
				c.DatabaseDSN = "postgres://u:p@db/shortlink"
			},
		},
		{
			name: "no connect retries",
			mutate: func(c *Config) {
				c.StorageDriver = StoragePostgres
				c.DBConnectRetries = 0
			},
			wantErr: "DB_CONNECT_RETRIES",
		},
		{name: "relative base url", mutate: func(c *Config) { c.BaseURL = "sho.rt" }, wantErr: "BASE_URL"},
		{
			name: "cache without ttl",
			mutate: func(c *Config) {
				c.RedisAddr = "localhost:6379"
				c.CacheTTL = 0
			},
			wantErr: "CACHE_TTL",
		},
		{name: "no shutdown timeout", mutate: func(c *Config) { c.ShutdownTimeout = 0 }, wantErr: "SHUTDOWN_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestDSN(t *testing.T) {
	cfg := validConfig()
	cfg.DBHost = "db"
	cfg.DBPort = "5433"
	cfg.DBUser = "app"
	cfg.DBPassword = "secret"
	cfg.DBName = "links"
	cfg.DBSSLMode = "require"

	assert.Equal(t, "host=db user=app password=secret dbname=links port=5433 sslmode=require TimeZone=UTC", cfg.DSN())

	cfg.DatabaseDSN = "postgres://app:secret@db/links"
	assert.Equal(t, "postgres://app:secret@db/links", cfg.DSN())
}
