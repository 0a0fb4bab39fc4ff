// Package config loads the server configuration from a YAML file.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the runtime settings of the querylens server.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `yaml:"addr"`

	// DatabasePath is the SQLite file for saved searches.
	// Empty disables persistence; the saved-search endpoints then
	// respond 404.
	DatabasePath string `yaml:"database_path"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Addr:     ":8080",
		LogLevel: "info",
	}
}

// Load reads a YAML config file, filling unset fields with defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Addr == "" {
		cfg.Addr = Default().Addr
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = Default().LogLevel
	}
	if _, err := cfg.SlogLevel(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// SlogLevel maps the configured level name to a slog.Level.
func (c Config) SlogLevel() (slog.Level, error) {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", c.LogLevel)
	}
}
