// Package config provides database configuration management.
package config

import (
	"fmt"
	"strings"

	appconfig "github.com/festy23/buildathon_roster/internal/config"
	"github.com/festy23/buildathon_roster/pkg/retry"
)

// PostgresConfig holds PostgreSQL connection configuration.
type PostgresConfig struct {
	Host     string
	User     string
	Password string
	DBName   string
	Port     string
	SSLMode  string
	TimeZone string
}

// BuildDSN constructs PostgreSQL DSN string from configuration.
func BuildDSN(cfg PostgresConfig) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.DBName, cfg.Port, cfg.SSLMode, cfg.TimeZone)
}

// BuildSQLiteDSN returns the DSN for a SQLite file with a busy timeout and
// foreign keys on.
func BuildSQLiteDSN(path string) string {
	return fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=on", path)
}

// LoadPostgresConfigFromEnv loads PostgreSQL configuration from environment variables.
func LoadPostgresConfigFromEnv() PostgresConfig {
	return PostgresConfig{
		Host:     appconfig.GetEnv("DB_HOST", "localhost"),
		User:     appconfig.GetEnv("DB_USER", "postgres"),
		Password: appconfig.GetEnv("DB_PASSWORD", "postgres"),
		DBName:   appconfig.GetEnv("DB_NAME", "buildathon"),
		Port:     appconfig.GetEnv("DB_PORT", "5432"),
		SSLMode:  appconfig.GetEnv("DB_SSLMODE", "disable"),
		TimeZone: appconfig.GetEnv("DB_TIMEZONE", "UTC"),
	}
}

// SanitizeError removes the password from connection error messages.
func SanitizeError(err error, cfg PostgresConfig) error {
	if err == nil {
		return nil
	}
	errMsg := err.Error()
	if cfg.Password != "" {
		errMsg = strings.ReplaceAll(errMsg, cfg.Password, "***")
	}
	return fmt.Errorf("failed to connect to database: %s", errMsg)
}

// LoadRetryConfigFromEnv loads connection retry configuration for the given
// store driver, starting from the driver's preset.
func LoadRetryConfigFromEnv(driver string) retry.Config {
	cfg := retry.For(driver)
	cfg.MaxAttempts = appconfig.GetEnvInt("DB_RETRY_MAX_ATTEMPTS", cfg.MaxAttempts)
	cfg.Backoff.Initial = appconfig.GetEnvDuration("DB_RETRY_INITIAL_DELAY", cfg.Backoff.Initial)
	cfg.Backoff.Max = appconfig.GetEnvDuration("DB_RETRY_MAX_DELAY", cfg.Backoff.Max)
	cfg.Backoff.Factor = appconfig.GetEnvFloat("DB_RETRY_MULTIPLIER", cfg.Backoff.Factor)
	return cfg
}
