package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	rostermodel "github.com/festy23/buildathon_roster/internal/roster/model"
	rosterrepo "github.com/festy23/buildathon_roster/internal/roster/repository"
	"github.com/festy23/buildathon_roster/internal/storage"
)

func TestGetRoster(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop().Sugar()

	t.Run("empty store", func(t *testing.T) {
		store := storage.NewMemoryStore()
		require.NoError(t, storage.EnsureDefaults(ctx, store))
		repo := New(rosterrepo.New(store), logger)

		roster, err := repo.GetRoster(ctx)
		require.NoError(t, err)
		assert.Empty(t, roster.Participants)
		assert.Empty(t, roster.Teams)
		assert.Empty(t, roster.Checkins)
	})

	t.Run("with participants and checkins", func(t *testing.T) {
		store := storage.NewMemoryStore()
		require.NoError(t, storage.EnsureDefaults(ctx, store))
		roster := rosterrepo.New(store)

		p, err := roster.AddParticipant(ctx, rostermodel.NewParticipant{Name: "Alice", College: "MIT"})
		require.NoError(t, err)
		_, err = roster.CheckInParticipant(ctx, p.ID)
		require.NoError(t, err)

		got, err := New(roster, logger).GetRoster(ctx)
		require.NoError(t, err)
		require.Len(t, got.Participants, 1)
		assert.Equal(t, "Alice", got.Participants[0].Name)
		assert.Contains(t, got.Checkins, p.ID)
	})

	t.Run("store error", func(t *testing.T) {
		store := storage.NewMemoryStore()
		require.NoError(t, store.Close())

		roster, err := New(rosterrepo.New(store), logger).GetRoster(ctx)
		assert.Nil(t, roster)
		assert.ErrorIs(t, err, storage.ErrClosed)
	})
}
