// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	App     AppConfig
	Log     LogConfig
	Storage StorageConfig
	Events  EventsConfig
	Redis   RedisConfig
	Catalog CatalogConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
	Output string
}

// StorageConfig selects where sales are persisted.
type StorageConfig struct {
	Driver string // memory, sqlite, postgres
	DSN    string
}

// EventsConfig selects where integration events are published.
type EventsConfig struct {
	Bus string // log, redis
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Channel  string
}

// CatalogConfig points at the remote catalog. An empty URL selects the built-in catalog.
type CatalogConfig struct {
	URL     string
	Timeout time.Duration
}

// Load reads configuration from environment variables and a .env file if present.
func Load() (*Config, error) {
	// Missing .env is fine, the environment wins anyway.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8081")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_OUTPUT", "stdout")
	v.SetDefault("STORAGE_DRIVER", "memory")
	v.SetDefault("DATABASE_DSN", "")
	v.SetDefault("EVENT_BUS", "log")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_CHANNEL", "sales.events")
	v.SetDefault("CATALOG_URL", "")
	v.SetDefault("CATALOG_TIMEOUT", "5s")
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Env:  v.GetString("APP_ENV"),
			Port: v.GetString("PORT"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
			Output: v.GetString("LOG_OUTPUT"),
		},
		Storage: StorageConfig{
			Driver: v.GetString("STORAGE_DRIVER"),
			DSN:    v.GetString("DATABASE_DSN"),
		},
		Events: EventsConfig{
			Bus: v.GetString("EVENT_BUS"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			Channel:  v.GetString("REDIS_CHANNEL"),
		},
		Catalog: CatalogConfig{
			URL:     v.GetString("CATALOG_URL"),
			Timeout: v.GetDuration("CATALOG_TIMEOUT"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks option combinations that cannot work.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "memory":
	case "sqlite", "postgres":
		if c.Storage.DSN == "" {
			return fmt.Errorf("DATABASE_DSN is required for storage driver %q", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}

	switch c.Events.Bus {
	case "log":
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis event bus")
		}
	default:
		return fmt.Errorf("unknown EVENT_BUS %q", c.Events.Bus)
	}

	if c.Catalog.URL != "" && c.Catalog.Timeout <= 0 {
		return fmt.Errorf("CATALOG_TIMEOUT must be positive")
	}
	return nil
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
