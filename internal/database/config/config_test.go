package config

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/festy23/buildathon_roster/internal/config"
)

func TestLoadPostgresConfigFromEnv(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		for _, key := range []string{"DB_HOST", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_PORT", "DB_SSLMODE", "DB_TIMEZONE"} {
			t.Setenv(key, "")
		}

		cfg := LoadPostgresConfigFromEnv()
		expected := PostgresConfig{
			Host:     "localhost",
			User:     "postgres",
			Password: "postgres",
			DBName:   "buildathon",
			Port:     "5432",
			SSLMode:  "disable",
			TimeZone: "UTC",
		}
		assert.Equal(t, expected, cfg)
	})

	t.Run("partial override", func(t *testing.T) {
		t.Setenv("DB_HOST", "db.internal")
		t.Setenv("DB_PORT", "6543")
		t.Setenv("DB_NAME", "")

		cfg := LoadPostgresConfigFromEnv()
		assert.Equal(t, "db.internal", cfg.Host)
		assert.Equal(t, "6543", cfg.Port)
		assert.Equal(t, "buildathon", cfg.DBName)
	})
}

func TestBuildDSN(t *testing.T) {
	cfg := PostgresConfig{
		Host:     "db.example.com",
		User:     "admin",
		Password: "secret123",
		DBName:   "buildathon",
		Port:     "5433",
		SSLMode:  "require",
		TimeZone: "Europe/Moscow",
	}

	assert.Equal(t,
		"host=db.example.com user=admin password=secret123 dbname=buildathon port=5433 sslmode=require TimeZone=Europe/Moscow",
		BuildDSN(cfg))
}

func TestBuildSQLiteDSN(t *testing.T) {
	dsn := BuildSQLiteDSN("/tmp/roster.db")
	assert.Equal(t, "file:/tmp/roster.db?_busy_timeout=5000&_foreign_keys=on", dsn)
}

func TestSanitizeError(t *testing.T) {
	cfg := PostgresConfig{Host: "localhost", User: "admin", Password: "mypass", DBName: "prod"}

	t.Run("password removed", func(t *testing.T) {
		err := fmt.Errorf("failed to connect to `host=localhost user=admin password=mypass dbname=prod`")

		result := SanitizeError(err, cfg)

		require.Error(t, result)
		assert.Contains(t, result.Error(), "failed to connect to database")
		assert.Contains(t, result.Error(), "password=***")
		assert.NotContains(t, result.Error(), "mypass")
	})

	t.Run("nil error", func(t *testing.T) {
		assert.NoError(t, SanitizeError(nil, cfg))
	})

	t.Run("empty password leaves message intact", func(t *testing.T) {
		result := SanitizeError(fmt.Errorf("dial tcp: connection refused"), PostgresConfig{})
		assert.Equal(t, "failed to connect to database: dial tcp: connection refused", result.Error())
	})
}

func TestLoadRetryConfigFromEnv(t *testing.T) {
	for _, key := range []string{"DB_RETRY_MAX_ATTEMPTS", "DB_RETRY_INITIAL_DELAY", "DB_RETRY_MAX_DELAY", "DB_RETRY_MULTIPLIER"} {
		t.Setenv(key, "")
	}

	t.Run("driver presets", func(t *testing.T) {
		pg := LoadRetryConfigFromEnv(appconfig.DriverPostgres)
		assert.Equal(t, "postgres", pg.Target)
		assert.Contains(t, pg.Transient, "connection refused")

		lite := LoadRetryConfigFromEnv(appconfig.DriverSQLite)
		assert.Equal(t, "sqlite", lite.Target)
		assert.Contains(t, lite.Transient, "database is locked")

		rds := LoadRetryConfigFromEnv(appconfig.DriverRedis)
		assert.Equal(t, "redis", rds.Target)
		assert.Equal(t, 3, rds.MaxAttempts)
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("DB_RETRY_MAX_ATTEMPTS", "9")
		t.Setenv("DB_RETRY_INITIAL_DELAY", "250ms")
		t.Setenv("DB_RETRY_MAX_DELAY", "3s")
		t.Setenv("DB_RETRY_MULTIPLIER", "1.5")

		cfg := LoadRetryConfigFromEnv(appconfig.DriverPostgres)
		assert.Equal(t, 9, cfg.MaxAttempts)
		assert.Equal(t, 250*time.Millisecond, cfg.Backoff.Initial)
		assert.Equal(t, 3*time.Second, cfg.Backoff.Max)
		assert.InDelta(t, 1.5, cfg.Backoff.Factor, 0.0001)
	})
}
