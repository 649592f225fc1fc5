// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// minJWTSecretLen matches the HMAC key length the token issuer accepts.
const minJWTSecretLen = 32

// Config is the full process configuration, grouped by concern.
type Config struct {
	Env string `env:"APP_ENV" envDefault:"development"`

	HTTP   HTTPConfig
	DB     DBConfig
	Auth   AuthConfig
	Log    LogConfig
	Redis  RedisConfig
	Events EventsConfig
}

// HTTPConfig configures the listener and middleware limits.
type HTTPConfig struct {
	Port            int           `env:"APP_PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	// Comma-separated; "https://*.example.com" allows any subdomain.
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	MaxRequestBodySize int64    `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
}

// DBConfig selects and sizes the store. URL is postgres://... for
// PostgreSQL, sqlite://path or file:path for SQLite.
type DBConfig struct {
	URL          string        `env:"DATABASE_URL,required"`
	MaxConns     int32         `env:"DB_MAX_CONNS" envDefault:"10"`
	MinConns     int32         `env:"DB_MIN_CONNS" envDefault:"2"`
	QueryTimeout time.Duration `env:"DB_QUERY_TIMEOUT" envDefault:"5s"`
	AutoMigrate  bool          `env:"DB_AUTO_MIGRATE" envDefault:"true"`
}

// AuthConfig configures bearer tokens.
type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET,required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"1h"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// RedisConfig is optional; token revocation is enabled when URL is set.
type RedisConfig struct {
	URL string `env:"REDIS_URL"`
}

// EventsConfig is optional; expense events are dropped when URL is unset.
type EventsConfig struct {
	URL      string `env:"AMQP_URL"`
	Exchange string `env:"AMQP_EXCHANGE" envDefault:"spendwise.events"`
}

// IsDevelopment reports whether APP_ENV is development.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate checks values that struct tags cannot express.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Auth.JWTSecret) < minJWTSecretLen {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", minJWTSecretLen))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.DB.MaxConns < 1 {
		errs = append(errs, errors.New("DB_MAX_CONNS must be at least 1"))
	}
	if c.DB.MinConns < 0 || c.DB.MinConns > c.DB.MaxConns {
		errs = append(errs, errors.New("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS"))
	}
	if c.DB.QueryTimeout <= 0 {
		errs = append(errs, errors.New("DB_QUERY_TIMEOUT must be positive"))
	}
	if c.HTTP.MaxRequestBodySize <= 0 {
		errs = append(errs, errors.New("MAX_REQUEST_BODY_SIZE must be positive"))
	}
	return errors.Join(errs...)
}

// Load parses the environment into a Config and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
