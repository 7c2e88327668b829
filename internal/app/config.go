package app

import (
	"errors"
	"fmt"

	"github.com/vk/substationc/internal/emit"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// Inputs are files, directories or glob patterns.
	Inputs []string
	Format emit.Format
	// OutDir receives one output file per input; empty means outW.
	OutDir string

	LogFormat string
	LogLevel  string
	Workers   int
	NoColor   bool
}

func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.Inputs) == 0 {
		return nil, errors.New("at least one input path is required")
	}
	if _, err := emit.ParseFormat(string(cfg.Format)); err != nil {
		return nil, err
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}
	return &cfg, nil
}
