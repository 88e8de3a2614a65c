package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverPgx      = "pgx"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Registry RegistryConfig
	App      AppConfig
}

type ServerConfig struct {
	Host           string        `env:"HOST" envDefault:"127.0.0.1"`
	Port           string        `env:"PORT" envDefault:"8000"`
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" envDefault:"30s"`
	AllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	RateLimitRPS   float64       `env:"RATE_LIMIT_RPS" envDefault:"0"`
	RateLimitBurst int           `env:"RATE_LIMIT_BURST" envDefault:"50"`
}

// Addr is the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

type DatabaseConfig struct {
	Driver           string `env:"DB_DRIVER" envDefault:"pgx"`
	DSN              string `env:"DB_DSN"`
	Host             string `env:"DB_HOST" envDefault:"localhost"`
	Port             int    `env:"DB_PORT" envDefault:"5432"`
	User             string `env:"DB_USER" envDefault:"feast"`
	Password         string `env:"DB_PASSWORD"`
	Name             string `env:"DB_NAME" envDefault:"feast"`
	SSLMode          string `env:"DB_SSLMODE" envDefault:"disable"`
	MaxConns         int    `env:"DB_MAX_CONNS" envDefault:"10"`
	MinConns         int    `env:"DB_MIN_CONNS" envDefault:"2"`
	AutoCreateSchema bool   `env:"DB_AUTO_CREATE_SCHEMA" envDefault:"true"`
}

type RedisConfig struct {
	Addr          string `env:"REDIS_ADDR"`
	Password      string `env:"REDIS_PASSWORD"`
	DB            int    `env:"REDIS_DB" envDefault:"0"`
	ChannelPrefix string `env:"REDIS_CHANNEL_PREFIX" envDefault:"registry:events"`
}

// Enabled reports whether change events should be published.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.Addr) != ""
}

type RegistryConfig struct {
	MonotonicLastUpdated bool `env:"REGISTRY_MONOTONIC_LAST_UPDATED" envDefault:"false"`
	// Cron expression with a seconds field; empty disables scheduled teardown.
	TeardownSchedule string `env:"REGISTRY_TEARDOWN_SCHEDULE"`
}

type AppConfig struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"feast-registry"`
	Environment string `env:"APP_ENV" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"error"`
	LogPath     string `env:"LOG_PATH" envDefault:"stdout"`
	Version     string `env:"APP_VERSION" envDefault:"1.0.0"`
}

func Load() (*Config, error) {
	cfg, err := Parse()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Parse reads .env and the environment without validating, so command line
// flags can be layered on before Validate.
func Parse() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Database.Driver {
	case DriverPgx, DriverPostgres:
		if c.Database.DSN == "" && c.Database.Host == "" {
			return fmt.Errorf("DB_DSN or DB_HOST is required")
		}
	case DriverSQLite:
		if c.Database.DSN == "" {
			return fmt.Errorf("DB_DSN is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	if c.Server.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must not be negative")
	}

	return nil
}
