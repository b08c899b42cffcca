// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Session SessionConfig `toml:"session"`
	Bank    BankConfig    `toml:"bank"`
}

// SessionConfig maps round timing and score bounds.
type SessionConfig struct {
	SpawnPeriod *string `toml:"spawn-period"`
	QuestionTTL *string `toml:"question-ttl"`
	MinScore    *int    `toml:"min-score"`
	MaxScore    *int    `toml:"max-score"`
	Frame       *string `toml:"frame"`
}

// BankConfig maps asset locations.
type BankConfig struct {
	Path   *string `toml:"path"`
	Banner *string `toml:"banner"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q in %s", undecoded[0].String(), path)
	}
	return cfg, nil
}

// Duration parses an optional duration setting. A nil value yields fallback.
func Duration(raw *string, fallback time.Duration) (time.Duration, error) {
	if raw == nil || *raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(*raw)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", *raw, err)
	}
	return d, nil
}
