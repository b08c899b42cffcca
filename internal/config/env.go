package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

// EnvConfig holds settings read from the environment.
type EnvConfig struct {
	// ConfigPath overrides DefaultConfigPath.
	ConfigPath string     `env:"TUXQUIZ_CONFIG"`
	LogLevel   slog.Level `env:"TUXQUIZ_LOG_LEVEL" envDefault:"INFO"`
	// LogFile enables the debug log. Empty disables logging.
	LogFile string `env:"TUXQUIZ_LOG_FILE"`
}

// LoadEnv parses EnvConfig from the process environment.
func LoadEnv() (EnvConfig, error) {
	cfg, err := env.ParseAs[EnvConfig]()
	if err != nil {
		return EnvConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// ResolvedConfigPath returns the config file to read.
func (c EnvConfig) ResolvedConfigPath() string {
	if c.ConfigPath != "" {
		return c.ConfigPath
	}
	return DefaultConfigPath()
}
