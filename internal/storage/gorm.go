package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/festy23/buildathon_roster/internal/database/database"
)

// Entry is a row of the kv_entries table.
type Entry struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName returns the table name for GORM.
func (Entry) TableName() string {
	return "kv_entries"
}

// GormStore keeps entries in a SQL table through GORM.
type GormStore struct {
	db        *gorm.DB
	namespace string
}

// NewGormStore creates a store over an open, migrated database.
func NewGormStore(db *gorm.DB, namespace string) *GormStore {
	return &GormStore{db: db, namespace: namespace}
}

// Get returns the value stored under key.
func (s *GormStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry Entry
	err := s.db.WithContext(ctx).
		Where("key = ?", namespaced(s.namespace, key)).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return []byte(entry.Value), true, nil
}

// Set stores value under key.
func (s *GormStore) Set(ctx context.Context, key string, value []byte) error {
	return s.SetMany(ctx, map[string][]byte{key: value})
}

// SetMany upserts every entry in one transaction.
func (s *GormStore) SetMany(ctx context.Context, entries map[string][]byte) error {
	now := time.Now().UTC()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for key, value := range entries {
			entry := Entry{
				Key:       namespaced(s.namespace, key),
				Value:     string(value),
				UpdatedAt: now,
			}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&entry).Error
			if err != nil {
				return fmt.Errorf("failed to write %s: %w", key, err)
			}
		}
		return nil
	})
}

// Health pings the database.
func (s *GormStore) Health(ctx context.Context) error {
	return database.HealthCheck(ctx, s.db)
}

// Close closes the database connection.
func (s *GormStore) Close() error {
	return database.Close(s.db)
}
