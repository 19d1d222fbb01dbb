// Package config provides environment-driven configuration for the roster tools.
package config

import "fmt"

// Config holds application configuration.
type Config struct {
	// Store holds persistent store configuration.
	Store StoreConfig
	// Logger holds logger configuration.
	Logger LoggerConfig
	// Import holds CSV import configuration.
	Import ImportConfig
	// Metrics holds metrics export configuration.
	Metrics MetricsConfig
}

// ImportConfig holds CSV import configuration.
type ImportConfig struct {
	// ColumnsFile is an optional YAML file with extra survey column aliases.
	ColumnsFile string
}

// MetricsConfig holds metrics export configuration.
type MetricsConfig struct {
	// Textfile is an optional path the metrics registry is written to on exit,
	// in the node_exporter textfile collector format.
	Textfile string
}

// LoadFromEnv loads all configuration from environment variables.
func LoadFromEnv() Config {
	return Config{
		Store:  LoadStoreConfigFromEnv(),
		Logger: LoadLoggerConfigFromEnv(),
		Import: ImportConfig{
			ColumnsFile: GetEnv("IMPORT_COLUMNS_FILE", ""),
		},
		Metrics: MetricsConfig{
			Textfile: GetEnv("METRICS_TEXTFILE", ""),
		},
	}
}

// Validate validates all configuration.
func (c Config) Validate() error {
	if err := c.Store.Validate(); err != nil {
		return fmt.Errorf("store config validation failed: %w", err)
	}

	if err := c.Logger.Validate(); err != nil {
		return fmt.Errorf("logger config validation failed: %w", err)
	}

	return nil
}
