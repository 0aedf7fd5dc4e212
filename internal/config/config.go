// Package config provides configuration management for the customers service.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Default configuration values.
const (
	DefaultPort            = 8080
	DefaultLogLevel        = "info"
	DefaultShutdownTimeout = 10 * time.Second

	// DefaultDatabaseURL names a local SQLite file so the service runs
	// without any environment at all.
	DefaultDatabaseURL = "customers.db"
)

// Environment variable names.
const (
	EnvPort            = "PORT"
	EnvDatabaseURL     = "DATABASE_URL"
	EnvDBUser          = "DB_USER"
	EnvDBPassword      = "DB_PASSWORD"
	EnvDBHost          = "DB_HOST"
	EnvDBPort          = "DB_PORT"
	EnvDBName          = "DB_NAME"
	EnvEventsURL       = "AMQP_URL"
	EnvLogLevel        = "LOG_LEVEL"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)

// Config holds the application configuration.
type Config struct {
	Port            int
	DatabaseURL     string
	EventsURL       string // empty disables event publishing
	LogLevel        string
	ShutdownTimeout time.Duration
}

// Validation errors.
var (
	ErrInvalidPort            = errors.New("port must be between 1 and 65535")
	ErrInvalidLogLevel        = errors.New("log level must be one of: debug, info, warn, error")
	ErrInvalidShutdownTimeout = errors.New("shutdown timeout must be positive")
)

// Load reads configuration from environment variables with defaults.
// Environment variables have priority over default values.
func Load() (*Config, error) {
	cfg := &Config{
		Port:            DefaultPort,
		DatabaseURL:     DefaultDatabaseURL,
		LogLevel:        DefaultLogLevel,
		ShutdownTimeout: DefaultShutdownTimeout,
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, fmt.Errorf("loading config from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFromEnv() error {
	if val := os.Getenv(EnvPort); val != "" {
		port, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvPort, err)
		}
		c.Port = port
	}

	c.DatabaseURL = databaseURLFromEnv(c.DatabaseURL)

	if val := os.Getenv(EnvEventsURL); val != "" {
		c.EventsURL = val
	}

	if val := os.Getenv(EnvLogLevel); val != "" {
		c.LogLevel = val
	}

	if val := os.Getenv(EnvShutdownTimeout); val != "" {
		timeout, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvShutdownTimeout, err)
		}
		c.ShutdownTimeout = timeout
	}

	return nil
}

// databaseURLFromEnv resolves the store location. DATABASE_URL wins outright;
// otherwise the DB_* variables are assembled into a Postgres URL the way the
// deployment manifests set them. With neither present the fallback names a
// local SQLite file.
func databaseURLFromEnv(fallback string) string {
	if val := os.Getenv(EnvDatabaseURL); val != "" {
		return val
	}

	user := os.Getenv(EnvDBUser)
	pass := os.Getenv(EnvDBPassword)
	host := os.Getenv(EnvDBHost)
	port := os.Getenv(EnvDBPort)
	name := os.Getenv(EnvDBName)
	if user != "" && host != "" && name != "" {
		if port == "" {
			port = "5432"
		}
		return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, pass, host, port, name)
	}

	return fallback
}

// Validate checks if the configuration values are valid.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return ErrInvalidPort
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return ErrInvalidLogLevel
	}

	if c.ShutdownTimeout <= 0 {
		return ErrInvalidShutdownTimeout
	}

	return nil
}

// Address returns the listen address in :port format.
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}
