package config

import (
	"fmt"
	"time"
)

// Store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

// StoreConfig holds persistent store configuration.
type StoreConfig struct {
	// Driver selects the backend (sqlite, postgres, redis, memory).
	Driver string
	// SQLitePath is the database file used by the sqlite driver.
	SQLitePath string
	// Namespace prefixes the three collection keys.
	Namespace string
	// RedisURL is the connection URL used by the redis driver.
	RedisURL string
	// OpTimeout bounds the store work of one CLI command.
	OpTimeout time.Duration
}

// LoadStoreConfigFromEnv loads store configuration from environment variables.
// Postgres connection settings are read separately by the database/config package.
func LoadStoreConfigFromEnv() StoreConfig {
	return StoreConfig{
		Driver:     GetEnv("STORE_DRIVER", DriverSQLite),
		SQLitePath: GetEnv("STORE_SQLITE_PATH", "buildathon.db"),
		Namespace:  GetEnv("STORE_NAMESPACE", "buildathon"),
		RedisURL:   GetEnv("REDIS_URL", "redis://localhost:6379/0"),
		OpTimeout:  GetEnvDuration("STORE_OP_TIMEOUT", 10*time.Second),
	}
}

// Validate validates store configuration.
func (c StoreConfig) Validate() error {
	switch c.Driver {
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("STORE_SQLITE_PATH is required for the sqlite driver")
		}
	case DriverRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for the redis driver")
		}
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("invalid STORE_DRIVER: %s (must be: sqlite, postgres, redis, memory)", c.Driver)
	}

	if c.Namespace == "" {
		return fmt.Errorf("STORE_NAMESPACE must not be empty")
	}
	if c.OpTimeout <= 0 {
		return fmt.Errorf("OpTimeout must be greater than 0")
	}
	return nil
}
