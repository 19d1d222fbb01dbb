// Package storage provides the persistent key/value area that holds the
// three roster collections as whole JSON blobs.
package storage

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/festy23/buildathon_roster/internal/config"
	"github.com/festy23/buildathon_roster/internal/database/database"
)

// Collection keys. Backends prefix them with the configured namespace.
const (
	KeyParticipants = "participants"
	KeyTeams        = "teams"
	KeyCheckins     = "checkins"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store is closed")

// Store is a key/value area read and written as whole values.
type Store interface {
	// Get returns the value stored under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set stores value under key.
	Set(ctx context.Context, key string, value []byte) error

	// SetMany stores every entry atomically: either all keys are written or none.
	SetMany(ctx context.Context, entries map[string][]byte) error

	// Health verifies the backend is reachable.
	Health(ctx context.Context) error

	// Close releases the backend connection.
	Close() error
}

// Defaults returns the empty value of each collection.
func Defaults() map[string][]byte {
	return map[string][]byte{
		KeyParticipants: []byte("[]"),
		KeyTeams:        []byte("[]"),
		KeyCheckins:     []byte("{}"),
	}
}

// EnsureDefaults writes the empty value of every collection that is missing.
func EnsureDefaults(ctx context.Context, s Store) error {
	missing := make(map[string][]byte)
	for key, value := range Defaults() {
		_, ok, err := s.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", key, err)
		}
		if !ok {
			missing[key] = value
		}
	}
	if len(missing) == 0 {
		return nil
	}
	if err := s.SetMany(ctx, missing); err != nil {
		return fmt.Errorf("failed to initialize collections: %w", err)
	}
	return nil
}

// Open opens the backend selected by cfg.Driver and initializes the
// collections.
func Open(ctx context.Context, cfg config.StoreConfig, logger *zap.SugaredLogger) (Store, error) {
	var (
		s   Store
		err error
	)

	switch cfg.Driver {
	case config.DriverSQLite, config.DriverPostgres:
		db, openErr := database.Open(ctx, cfg)
		if openErr != nil {
			return nil, openErr
		}
		s = NewGormStore(db, cfg.Namespace)
	case config.DriverRedis:
		s, err = OpenRedis(ctx, cfg.RedisURL, cfg.Namespace)
	case config.DriverMemory:
		s = NewMemoryStore()
	default:
		err = fmt.Errorf("unknown store driver: %s", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := EnsureDefaults(ctx, s); err != nil {
		_ = s.Close()
		return nil, err
	}

	logger.Debugw("Store opened",
		"driver", cfg.Driver,
		"namespace", cfg.Namespace,
	)
	return s, nil
}

func namespaced(namespace, key string) string {
	if namespace == "" {
		return key
	}
	return namespace + ":" + key
}
