// Package database opens the relational backends (SQLite, PostgreSQL) used by
// the key/value store.
package database

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	appconfig "github.com/festy23/buildathon_roster/internal/config"
	"github.com/festy23/buildathon_roster/internal/database/config"
	"github.com/festy23/buildathon_roster/internal/database/migrate"
	"github.com/festy23/buildathon_roster/internal/database/pool"
	"github.com/festy23/buildathon_roster/pkg/retry"
)

// Open opens the relational database selected by cfg.Driver and applies
// pending migrations. PostgreSQL settings are read from DB_* variables.
func Open(ctx context.Context, cfg appconfig.StoreConfig) (*gorm.DB, error) {
	switch cfg.Driver {
	case appconfig.DriverSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath)
	case appconfig.DriverPostgres:
		return OpenPostgres(ctx, config.LoadPostgresConfigFromEnv())
	default:
		return nil, fmt.Errorf("driver %q is not a relational database", cfg.Driver)
	}
}

// OpenSQLite opens (creating if needed) the SQLite file at path.
func OpenSQLite(ctx context.Context, path string) (*gorm.DB, error) {
	retryCfg := config.LoadRetryConfigFromEnv(appconfig.DriverSQLite)
	dialector := sqlite.Open(config.BuildSQLiteDSN(path))

	db, err := open(ctx, dialector, retryCfg)
	if err != nil {
		return nil, err
	}
	if err := finish(db, pool.SQLitePoolConfig()); err != nil {
		return nil, err
	}
	return db, nil
}

// OpenPostgres opens a PostgreSQL connection described by cfg.
func OpenPostgres(ctx context.Context, cfg config.PostgresConfig) (*gorm.DB, error) {
	retryCfg := config.LoadRetryConfigFromEnv(appconfig.DriverPostgres)
	dialector := postgres.Open(config.BuildDSN(cfg))

	db, err := open(ctx, dialector, retryCfg)
	if err != nil {
		return nil, config.SanitizeError(err, cfg)
	}
	if err := finish(db, pool.DefaultPoolConfig()); err != nil {
		return nil, err
	}
	return db, nil
}

func open(ctx context.Context, dialector gorm.Dialector, retryCfg retry.Config) (*gorm.DB, error) {
	return retry.DoWithResult(ctx, retryCfg, func() (*gorm.DB, error) {
		db, err := gorm.Open(dialector, &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err != nil {
			return nil, err
		}
		if err := HealthCheck(ctx, db); err != nil {
			_ = Close(db)
			return nil, err
		}
		return db, nil
	})
}

func finish(db *gorm.DB, poolCfg pool.Config) error {
	if err := migrate.Migrate(db); err != nil {
		_ = Close(db)
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	if err := pool.SetupConnectionPool(db, poolCfg); err != nil {
		_ = Close(db)
		return fmt.Errorf("failed to setup connection pool: %w", err)
	}
	return nil
}

// HealthCheck verifies database connection availability.
func HealthCheck(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close gracefully closes database connection.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}

// GetStats returns database connection pool statistics.
func GetStats(db *gorm.DB) (*sql.DBStats, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	stats := sqlDB.Stats()
	return &stats, nil
}
