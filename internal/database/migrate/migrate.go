// Package migrate provides database migration management.
package migrate

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"

	appconfig "github.com/festy23/buildathon_roster/internal/config"
)

//go:embed migrations/*.sql
var embedded embed.FS

// GetMigrationsPath returns the migrations directory override, or "" to use
// the migrations compiled into the binary.
func GetMigrationsPath() string {
	return appconfig.GetEnv("MIGRATIONS_PATH", "")
}

// Migrate applies pending migrations to db using golang-migrate. The dialect
// is taken from the gorm dialector (sqlite or postgres).
func Migrate(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	dialect := db.Dialector.Name()
	var driver database.Driver
	switch dialect {
	case "sqlite":
		driver, err = sqlite3.WithInstance(sqlDB, &sqlite3.Config{})
	case "postgres":
		driver, err = postgres.WithInstance(sqlDB, &postgres.Config{})
	default:
		return fmt.Errorf("unsupported dialect for migrations: %s", dialect)
	}
	if err != nil {
		return fmt.Errorf("failed to create %s driver: %w", dialect, err)
	}

	m, err := newMigrate(dialect, driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

func newMigrate(dialect string, driver database.Driver) (*migrate.Migrate, error) {
	if dir := GetMigrationsPath(); dir != "" {
		migrationsPath, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for migrations: %w", err)
		}
		if _, statErr := os.Stat(migrationsPath); os.IsNotExist(statErr) {
			return nil, fmt.Errorf("migrations directory does not exist: %s", migrationsPath)
		}
		return migrate.NewWithDatabaseInstance("file://"+migrationsPath, dialect, driver)
	}

	src, err := iofs.New(embedded, "migrations")
	if err != nil {
		return nil, err
	}
	return migrate.NewWithInstance("iofs", src, dialect, driver)
}
