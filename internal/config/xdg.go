// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

const appDir = "tuxquiz"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGStateHome returns the XDG state home or a default fallback.
func XDGStateHome() string {
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "state")
}

// DefaultBankDir returns the default directory for question banks.
func DefaultBankDir() string {
	return filepath.Join(XDGConfigHome(), appDir, "banks")
}

// DefaultBankPath returns the bank loaded when none is configured.
func DefaultBankPath() string {
	return filepath.Join(DefaultBankDir(), "default.toml")
}

// DefaultBannerPath returns the optional title banner file.
func DefaultBannerPath() string {
	return filepath.Join(XDGConfigHome(), appDir, "banner.txt")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appDir, "config.toml")
}

// DefaultLogPath returns a suggested debug log location.
func DefaultLogPath() string {
	return filepath.Join(XDGStateHome(), appDir, "debug.log")
}
