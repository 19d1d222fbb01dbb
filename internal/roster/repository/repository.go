// Package repository provides data access for the roster collections.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/festy23/buildathon_roster/internal/roster/model"
	"github.com/festy23/buildathon_roster/internal/storage"
)

// Repository loads and saves the participant, team and check-in collections.
// Every read-modify-write runs under one lock, so cross-collection operations
// are atomic for callers in this process.
type Repository struct {
	store storage.Store
	clock clockwork.Clock
	newID func() string

	mu sync.Mutex
}

// Option configures a Repository.
type Option func(*Repository)

// WithClock sets the clock used for timestamps.
func WithClock(clock clockwork.Clock) Option {
	return func(r *Repository) { r.clock = clock }
}

// WithIDGenerator sets the function used to assign entity ids.
func WithIDGenerator(fn func() string) Option {
	return func(r *Repository) { r.newID = fn }
}

// New creates a repository over store.
func New(store storage.Store, opts ...Option) *Repository {
	r := &Repository{
		store: store,
		clock: clockwork.NewRealClock(),
		newID: newID,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Clock returns the repository clock.
func (r *Repository) Clock() clockwork.Clock {
	return r.clock
}

// Transaction loads all collections, runs fn against them and writes back
// the collections fn changed in a single store call. Nothing is written when
// fn returns an error.
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Tx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.load(ctx)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		return err
	}

	return r.commit(ctx, tx)
}

// View loads all collections and runs fn against them without writing.
func (r *Repository) View(ctx context.Context, fn func(tx *Tx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.load(ctx)
	if err != nil {
		return err
	}
	return fn(tx)
}

func (r *Repository) load(ctx context.Context) (*Tx, error) {
	tx := &Tx{
		clock:    r.clock,
		newID:    r.newID,
		checkins: model.Checkins{},
		dirty:    make(map[string]bool),
	}

	if err := r.read(ctx, storage.KeyParticipants, &tx.participants); err != nil {
		return nil, err
	}
	if err := r.read(ctx, storage.KeyTeams, &tx.teams); err != nil {
		return nil, err
	}
	if err := r.read(ctx, storage.KeyCheckins, &tx.checkins); err != nil {
		return nil, err
	}
	if tx.checkins == nil {
		tx.checkins = model.Checkins{}
	}
	for i := range tx.teams {
		if tx.teams[i].Members == nil {
			tx.teams[i].Members = []string{}
		}
	}
	return tx, nil
}

func (r *Repository) read(ctx context.Context, key string, dst any) error {
	data, ok, err := r.store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", key, err)
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

func (r *Repository) commit(ctx context.Context, tx *Tx) error {
	if len(tx.dirty) == 0 {
		return nil
	}

	entries := make(map[string][]byte, len(tx.dirty))
	for key := range tx.dirty {
		var value any
		switch key {
		case storage.KeyParticipants:
			value = tx.participants
		case storage.KeyTeams:
			value = tx.teams
		case storage.KeyCheckins:
			value = tx.checkins
		}
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", key, err)
		}
		entries[key] = data
	}

	if err := r.store.SetMany(ctx, entries); err != nil {
		return fmt.Errorf("failed to save roster: %w", err)
	}
	return nil
}
