// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, signing key) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Supported backends for temporary token storage.
const (
	TempTokenStorePostgres = "postgres"
	TempTokenStoreRedis    = "redis"
)

// # Configuration Schema

// Config holds all runtime configuration for the member API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// JWTSecret is the base64-encoded HMAC key used to sign session tokens.
	JWTSecret string `env:"JWT_SECRET,required"`

	// JWTValidSeconds is the validity window of a session token.
	JWTValidSeconds int `env:"JWT_VALID_SECONDS" envDefault:"3600"`

	// FrontDomains lists the front-end cookie domains that receive the login cookie.
	FrontDomains []string `env:"FRONT_DOMAINS" envSeparator:","`

	// TempTokenStore selects where password reset tokens live ("postgres" or "redis").
	TempTokenStore string `env:"TEMP_TOKEN_STORE" envDefault:"postgres"`

	// Post-authentication collaborators
	PostAuthEnabled   bool          `env:"POST_AUTH_ENABLED"   envDefault:"false"`
	PostAuthTimeout   time.Duration `env:"POST_AUTH_TIMEOUT"   envDefault:"3s"`
	EmailServiceURL   string        `env:"EMAIL_SERVICE_URL"   envDefault:"http://email-service/api"`
	BoardServiceURL   string        `env:"BOARD_SERVICE_URL"   envDefault:"http://board-service/api"`
	MessageServiceURL string        `env:"MESSAGE_SERVICE_URL" envDefault:"http://message-service/api"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate enforces cross-field rules that struct tags cannot express.
func (c *Config) validate() error {
	if c.JWTValidSeconds <= 0 {
		return fmt.Errorf("config: JWT_VALID_SECONDS must be positive, got %d", c.JWTValidSeconds)
	}

	switch c.TempTokenStore {
	case TempTokenStorePostgres, TempTokenStoreRedis:
	default:
		return fmt.Errorf("config: unsupported TEMP_TOKEN_STORE %q", c.TempTokenStore)
	}

	// Drop blanks left by trailing commas ("a.com,,b.com,").
	domains := c.FrontDomains[:0]
	for _, domain := range c.FrontDomains {
		if trimmed := strings.TrimSpace(domain); trimmed != "" {
			domains = append(domains, trimmed)
		}
	}
	c.FrontDomains = domains

	return nil
}

// TokenValidity returns the session token validity window.
func (c *Config) TokenValidity() time.Duration {
	return time.Duration(c.JWTValidSeconds) * time.Second
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// AllowedOrigins returns the extra CORS origins configured for production.
func (c *Config) AllowedOrigins() []string {
	if c.ExtraOrigins == "" {
		return nil
	}

	var origins []string
	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
