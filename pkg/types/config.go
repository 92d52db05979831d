package types

import (
	"errors"
	"fmt"
)

// Log levels recognized by Config.
const (
	LogLevelInfo  = "info"
	LogLevelDebug = "debug"
	LogLevelError = "error"
)

// DefaultBusyTimeoutMS is how long a connection waits on a locked database file.
const DefaultBusyTimeoutMS = 5000

// Config holds the store location and process-wide logging options.
type Config struct {
	DBPath        string `json:"db_path" yaml:"db_path"`
	LogLevel      string `json:"log_level" yaml:"log_level"`
	RedirectStdio bool   `json:"redirect_stdio" yaml:"redirect_stdio"`
	BusyTimeoutMS int    `json:"busy_timeout_ms" yaml:"busy_timeout_ms"`
}

// Config validation errors.
var (
	ErrDBPathEmpty         = errors.New("database path must not be empty")
	ErrInvalidLogLevel     = errors.New("unknown log level")
	ErrBusyTimeoutNegative = errors.New("busy timeout must not be negative")
)

var knownLogLevels = map[string]bool{
	LogLevelInfo:  true,
	LogLevelDebug: true,
	LogLevelError: true,
}

// Validate checks that the Config is well-formed. An empty LogLevel means info.
func (c Config) Validate() error {
	if c.DBPath == "" {
		return ErrDBPathEmpty
	}
	if c.LogLevel != "" && !knownLogLevels[c.LogLevel] {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}
	if c.BusyTimeoutMS < 0 {
		return ErrBusyTimeoutNegative
	}
	return nil
}
