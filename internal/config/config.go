// Package config loads CLI configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v10"
)

// Config holds all configuration for the feel command.
type Config struct {
	// Parser configuration
	ParseMaxDepth int `env:"FEEL_PARSE_MAX_DEPTH" envDefault:"100"`

	// Evaluator configuration
	EvalMaxDepth int  `env:"FEEL_EVAL_MAX_DEPTH" envDefault:"200"`
	Debug        bool `env:"FEEL_DEBUG" envDefault:"false"`

	// Logging configuration
	LogLevel string `env:"FEEL_LOG_LEVEL" envDefault:"info"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks configuration values.
func (c *Config) Validate() error {
	if c.ParseMaxDepth <= 0 {
		return fmt.Errorf("FEEL_PARSE_MAX_DEPTH must be positive, got %d", c.ParseMaxDepth)
	}
	if c.EvalMaxDepth <= 0 {
		return fmt.Errorf("FEEL_EVAL_MAX_DEPTH must be positive, got %d", c.EvalMaxDepth)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel maps the configured log level to a slog.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown FEEL_LOG_LEVEL %q", c.LogLevel)
	}
}
