// Package config provides centralized configuration management for the
// service. It loads configuration from environment variables with sensible
// defaults and validates all settings on startup to fail fast on
// misconfiguration.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Limits   LimitsConfig
	Pipeline PipelineConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading a request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 0,
	// disabled so long-running operations can stream their messages)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"0s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`

	// TrustedProxies lists proxy CIDRs whose forwarding headers are honored
	// when resolving client IPs (default: none)
	TrustedProxies []string `env:"TRUSTED_PROXIES"`
}

// LimitsConfig holds request admission settings.
type LimitsConfig struct {
	// MaxPayloadBytes is the maximum accepted request body size (default: 25MB)
	MaxPayloadBytes int64 `env:"LIMITS_MAX_PAYLOAD_BYTES" default:"26214400"`

	// RateEnabled controls whether per-IP rate limiting is active (default: true)
	RateEnabled bool `env:"LIMITS_RATE_ENABLED" default:"true"`

	// RequestsPerMinute is the per-IP rate limit (default: 120)
	RequestsPerMinute int `env:"LIMITS_REQUESTS_PER_MINUTE" default:"120"`
}

// PipelineConfig holds defaults for operations that requests may omit.
type PipelineConfig struct {
	// NumericShare is the share of non-null values that must qualify as
	// numeric for a column to classify as numeric (default: 0.8)
	NumericShare float64 `env:"PIPELINE_NUMERIC_SHARE" default:"0.8"`

	// SampleSeed seeds the sampling source when non-zero, making random
	// and stratified sampling reproducible across runs (default: 0)
	SampleSeed int64 `env:"PIPELINE_SAMPLE_SEED" default:"0"`

	// PreviewRows bounds dataset summaries returned to hosts (default: 10)
	PreviewRows int `env:"PIPELINE_PREVIEW_ROWS" default:"10"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}

	// Limits validation
	if c.Limits.MaxPayloadBytes <= 0 {
		errs = append(errs, "LIMITS_MAX_PAYLOAD_BYTES must be positive")
	}
	if c.Limits.RateEnabled && c.Limits.RequestsPerMinute <= 0 {
		errs = append(errs, "LIMITS_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled")
	}

	// Pipeline validation
	if c.Pipeline.NumericShare <= 0 || c.Pipeline.NumericShare > 1 {
		errs = append(errs, fmt.Sprintf("PIPELINE_NUMERIC_SHARE (%g) must be in (0, 1]", c.Pipeline.NumericShare))
	}
	if c.Pipeline.PreviewRows <= 0 {
		errs = append(errs, "PIPELINE_PREVIEW_ROWS must be positive")
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a string representation of the config for logging.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Server: {Host: %q, Port: %d}, ", c.Server.Host, c.Server.Port))
	b.WriteString(fmt.Sprintf("Limits: {MaxPayloadBytes: %d, RateEnabled: %v, RequestsPerMinute: %d}, ",
		c.Limits.MaxPayloadBytes, c.Limits.RateEnabled, c.Limits.RequestsPerMinute))
	b.WriteString(fmt.Sprintf("Pipeline: {NumericShare: %g, SampleSeed: %d, PreviewRows: %d}, ",
		c.Pipeline.NumericShare, c.Pipeline.SampleSeed, c.Pipeline.PreviewRows))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}
