// Config loading for the banana CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/banana/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyDBPath        = "db_path"
	cfgKeyLogLevel      = "log_level"
	cfgKeyRedirectStdio = "redirect_stdio"
	cfgKeyBusyTimeoutMS = "busy_timeout_ms"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# banana configuration

# Database file (optional; overridable by --db flag or BANANA_DB)
# db_path:

# Log level: info, debug or error
log_level: info

# Route stdout/stderr through the logger
redirect_stdio: false

# Milliseconds to wait on a locked database file (0 fails immediately)
busy_timeout_ms: 5000
`

// loadConfig reads config.yaml from configDir using Viper, creating the
// directory and a default file on first run. A missing config.yaml is not
// an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyLogLevel, types.LogLevelInfo)
	v.SetDefault(cfgKeyRedirectStdio, false)
	v.SetDefault(cfgKeyBusyTimeoutMS, types.DefaultBusyTimeoutMS)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile writes defaultConfigYAML unless config.yaml exists.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
