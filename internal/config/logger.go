package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// Log formats.
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// Log outputs other than a file path. Stdout is reserved for command output.
const (
	LogOutputStderr = "stderr"
	LogOutputStdout = "stdout"
)

var logLevels = []string{"debug", "info", "warn", "error"}

// LoggerConfig holds logger configuration.
type LoggerConfig struct {
	// Level is one of debug, info, warn, error.
	Level string
	// Format is console for operators at a terminal or json for log shippers.
	Format string
	// Output is stderr or a file path. Empty means stderr.
	Output string
}

// LoadLoggerConfigFromEnv loads logger configuration from LOG_LEVEL,
// LOG_FORMAT and LOG_OUTPUT.
func LoadLoggerConfigFromEnv() LoggerConfig {
	return LoggerConfig{
		Level:  GetEnv("LOG_LEVEL", "info"),
		Format: GetEnv("LOG_FORMAT", LogFormatConsole),
		Output: GetEnv("LOG_OUTPUT", LogOutputStderr),
	}
}

// Validate validates logger configuration.
func (c LoggerConfig) Validate() error {
	if !slices.Contains(logLevels, c.Level) {
		return fmt.Errorf("invalid log level: %s (must be: debug, info, warn, error)", c.Level)
	}
	if c.Format != LogFormatConsole && c.Format != LogFormatJSON {
		return fmt.Errorf("invalid log format: %s (must be: json, console)", c.Format)
	}

	switch c.Output {
	case "", LogOutputStderr:
		return nil
	case LogOutputStdout:
		return fmt.Errorf("invalid log output: stdout carries command output, use stderr or a file path")
	}
	dir := filepath.Dir(c.Output)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("invalid log output %s: %w", c.Output, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("invalid log output %s: %s is not a directory", c.Output, dir)
	}
	return nil
}

// IsProduction reports whether logs go to a shipper rather than a terminal.
func (c LoggerConfig) IsProduction() bool {
	return c.Format == LogFormatJSON && c.Level != "debug"
}
