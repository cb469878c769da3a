// Package config provides configuration loading from environment variables.
// #IMPLEMENTATION_DECISION: Using envconfig for type-safe environment variable parsing
// #CODE_ASSUMPTION: All secrets provided via environment variables (no secret manager integration)
package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration loaded from environment variables.
// #INTEGRATION_POINT: All services depend on this configuration
type Config struct {
	// Database configuration
	DatabaseURI  string `envconfig:"DATABASE_URI" required:"true"`
	DatabaseName string `envconfig:"DATABASE_NAME" default:"survey"`

	// JWT configuration
	JWTSecret          string        `envconfig:"JWT_SECRET" required:"true"`
	AccessTokenExpiry  time.Duration `envconfig:"ACCESS_TOKEN_EXPIRY" default:"1h"`
	RefreshTokenExpiry time.Duration `envconfig:"REFRESH_TOKEN_EXPIRY" default:"720h"` // 30 days

	// Respondent session configuration
	SessionExpiry time.Duration `envconfig:"SESSION_EXPIRY" default:"6h"`

	// Submission lock configuration
	LockTimeout time.Duration `envconfig:"LOCK_TIMEOUT" default:"30s"`

	// Server configuration
	ServerPort  string `envconfig:"SERVER_PORT" default:"8080"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	// CORS configuration
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`

	// Rate limiting for the public enter-by-code endpoint
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"30"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
}

var (
	instance *Config
	once     sync.Once
	errInit  error
)

// Load loads configuration from environment variables.
// #IMPLEMENTATION_DECISION: Singleton pattern ensures config is loaded once
func Load() (*Config, error) {
	once.Do(func() {
		instance = &Config{}
		errInit = envconfig.Process("SURVEY", instance)
		if errInit != nil {
			return
		}

		if len(instance.JWTSecret) < 32 {
			errInit = fmt.Errorf("JWT secret must be at least 32 bytes, got %d", len(instance.JWTSecret))
			return
		}
	})

	return instance, errInit
}

// GetConfig returns the loaded configuration.
// Panics if configuration has not been loaded.
func GetConfig() *Config {
	if instance == nil {
		panic("config: Load() must be called before GetConfig()")
	}
	return instance
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
