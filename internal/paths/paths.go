// Package paths resolves the configuration directory and database file
// locations from flags, config.yaml, environment and platform defaults.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultDBFileName is the CWD-relative database file used when nothing
// else names one.
const DefaultDBFileName = "banana.db"

// Environment variable names for location overrides.
const (
	EnvConfigDir = "BANANA_CONFIG_DIR"
	EnvDBPath    = "BANANA_DB"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/banana (fallback ~/.config/banana)
// macOS:   ~/Library/Application Support/banana
// Windows: %APPDATA%/banana
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "banana"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "banana"), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "banana"), nil
	}
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > BANANA_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDBPath returns the database file following the precedence chain:
// flag > configYAMLValue > BANANA_DB env > $(CWD)/banana.db.
func ResolveDBPath(flag, configYAMLValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configYAMLValue != "" {
		return filepath.Abs(configYAMLValue)
	}
	if env := os.Getenv(EnvDBPath); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDBFileName), nil
}
