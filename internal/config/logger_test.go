package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLoggerConfigFromEnv(t *testing.T) {
	t.Run("defaults suit an operator terminal", func(t *testing.T) {
		restore := setupAndRestoreEnv(t, map[string]string{})
		defer restore()

		assert.Equal(t, LoggerConfig{Level: "info", Format: LogFormatConsole, Output: LogOutputStderr}, LoadLoggerConfigFromEnv())
	})

	t.Run("file output for scheduled runs", func(t *testing.T) {
		restore := setupAndRestoreEnv(t, map[string]string{
			"LOG_LEVEL":  "warn",
			"LOG_FORMAT": "json",
			"LOG_OUTPUT": "/var/log/rosterctl.log",
		})
		defer restore()

		cfg := LoadLoggerConfigFromEnv()
		assert.Equal(t, LoggerConfig{Level: "warn", Format: LogFormatJSON, Output: "/var/log/rosterctl.log"}, cfg)
		assert.True(t, cfg.IsProduction())
	})
}

func TestLoggerConfig_Validate(t *testing.T) {
	dir := t.TempDir()
	notADir := filepath.Join(dir, "plain")
	require.NoError(t, os.WriteFile(notADir, nil, 0o600))

	tests := []struct {
		name    string
		output  string
		wantErr string
	}{
		{name: "empty means stderr"},
		{name: "stderr", output: LogOutputStderr},
		{name: "file in existing directory", output: filepath.Join(dir, "rosterctl.log")},
		{name: "stdout is refused", output: LogOutputStdout, wantErr: "stdout carries command output"},
		{name: "missing directory", output: filepath.Join(dir, "nope", "rosterctl.log"), wantErr: "invalid log output"},
		{name: "parent is a file", output: filepath.Join(notADir, "rosterctl.log"), wantErr: "is not a directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := LoggerConfig{Level: "info", Format: LogFormatConsole, Output: tt.output}.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("level and format", func(t *testing.T) {
		assert.ErrorContains(t, LoggerConfig{Level: "trace", Format: LogFormatJSON}.Validate(), "invalid log level: trace")
		assert.ErrorContains(t, LoggerConfig{Level: "info", Format: "logfmt"}.Validate(), "invalid log format: logfmt")
	})
}

func TestLoggerConfig_IsProduction(t *testing.T) {
	assert.True(t, LoggerConfig{Level: "info", Format: LogFormatJSON}.IsProduction())
	assert.False(t, LoggerConfig{Level: "debug", Format: LogFormatJSON}.IsProduction())
	assert.False(t, LoggerConfig{Level: "error", Format: LogFormatConsole}.IsProduction())
}
