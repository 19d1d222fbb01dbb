package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/festy23/buildathon_roster/internal/roster/model"
	"github.com/festy23/buildathon_roster/internal/storage"
)

// MockStore is a mock implementation of storage.Store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.Bool(1), args.Error(2)
}

func (m *MockStore) Set(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockStore) SetMany(ctx context.Context, entries map[string][]byte) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockStore) Health(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

var testEpoch = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestRepo(t *testing.T) (*Repository, *storage.MemoryStore, *clockwork.FakeClock) {
	t.Helper()
	store := storage.NewMemoryStore()
	require.NoError(t, storage.EnsureDefaults(context.Background(), store))
	clock := clockwork.NewFakeClockAt(testEpoch)
	return New(store, WithClock(clock), WithIDGenerator(sequentialIDs())), store, clock
}

func boolPtr(b bool) *bool { return &b }
func strPtr(s string) *string { return &s }

func TestAddParticipant(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to seeking", func(t *testing.T) {
		repo, _, _ := newTestRepo(t)

		p, err := repo.AddParticipant(ctx, model.NewParticipant{Name: "Ada", Email: "ada@uni.edu"})
		require.NoError(t, err)

		assert.Equal(t, "id-1", p.ID)
		assert.True(t, p.SeekingTeam)
		assert.False(t, p.IsTeamLead)
		assert.False(t, p.IsTeamMember)
		assert.Nil(t, p.TeamID)
		assert.Equal(t, testEpoch, p.CreatedAt)

		all, err := repo.GetAllParticipants(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("lead with team", func(t *testing.T) {
		repo, _, _ := newTestRepo(t)

		p, err := repo.AddParticipant(ctx, model.NewParticipant{Name: "Ada", IsTeamLead: true, TeamID: strPtr("t-1")})
		require.NoError(t, err)
		assert.Equal(t, model.RoleLead, p.Role())
		assert.True(t, p.InTeam("t-1"))
	})

	t.Run("role without team is invalid", func(t *testing.T) {
		repo, _, _ := newTestRepo(t)

		_, err := repo.AddParticipant(ctx, model.NewParticipant{Name: "Ada", IsTeamMember: true})
		assert.ErrorIs(t, err, model.ErrInvalidParticipant)
	})

	t.Run("blank name is invalid", func(t *testing.T) {
		repo, _, _ := newTestRepo(t)

		_, err := repo.AddParticipant(ctx, model.NewParticipant{Name: "  "})
		assert.ErrorIs(t, err, model.ErrValidation)
	})
}

func TestUpdateParticipant(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		patch model.ParticipantPatch
		want  string
	}{
		{"lead clears seeking", model.ParticipantPatch{IsTeamLead: boolPtr(true)}, model.RoleLead},
		{"member clears seeking", model.ParticipantPatch{IsTeamMember: boolPtr(true)}, model.RoleMember},
		{"lead wins over member", model.ParticipantPatch{IsTeamLead: boolPtr(true), IsTeamMember: boolPtr(true)}, model.RoleLead},
		{"seeking stays", model.ParticipantPatch{Name: strPtr("Ada L.")}, model.RoleSeeking},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, _, clock := newTestRepo(t)
			p, err := repo.AddParticipant(ctx, model.NewParticipant{Name: "Ada"})
			require.NoError(t, err)
			clock.Advance(time.Minute)

			updated, err := repo.UpdateParticipant(ctx, p.ID, tt.patch)
			require.NoError(t, err)

			assert.Equal(t, tt.want, updated.Role())
			require.NotNil(t, updated.UpdatedAt)
			assert.Equal(t, testEpoch.Add(time.Minute), *updated.UpdatedAt)
		})
	}

	t.Run("not found", func(t *testing.T) {
		repo, _, _ := newTestRepo(t)
		_, err := repo.UpdateParticipant(ctx, "missing", model.ParticipantPatch{})
		assert.ErrorIs(t, err, model.ErrParticipantNotFound)
	})
}

func TestTeamsCRUD(t *testing.T) {
	ctx := context.Background()
	repo, _, _ := newTestRepo(t)

	var created model.Team
	err := repo.Transaction(ctx, func(tx *Tx) error {
		created = tx.AddTeam(model.Team{Name: "Team 1", LeaderID: "a"})
		return nil
	})
	require.NoError(t, err)
	assert.NotNil(t, created.Members)

	got, err := repo.GetTeam(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Team 1", got.Name)

	err = repo.Transaction(ctx, func(tx *Tx) error {
		return tx.DeleteTeam(created.ID)
	})
	require.NoError(t, err)

	_, err = repo.GetTeam(ctx, created.ID)
	assert.ErrorIs(t, err, model.ErrTeamNotFound)
}

func TestCheckins(t *testing.T) {
	ctx := context.Background()
	repo, _, clock := newTestRepo(t)
	p, err := repo.AddParticipant(ctx, model.NewParticipant{Name: "Ada"})
	require.NoError(t, err)
	clock.Advance(2 * time.Hour)

	at, err := repo.CheckInParticipant(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, testEpoch.Add(2*time.Hour), at)

	checkins, err := repo.GetCheckins(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Checkins{p.ID: at}, checkins)

	_, err = repo.CheckInParticipant(ctx, "ghost")
	assert.ErrorIs(t, err, model.ErrParticipantNotFound)

	require.NoError(t, repo.RemoveCheckin(ctx, p.ID))
	assert.ErrorIs(t, repo.RemoveCheckin(ctx, p.ID), model.ErrCheckinNotFound)
}

func TestTransaction_FailedClosureWritesNothing(t *testing.T) {
	ctx := context.Background()
	repo, store, _ := newTestRepo(t)
	before, _, err := store.Get(ctx, storage.KeyParticipants)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = repo.Transaction(ctx, func(tx *Tx) error {
		_, addErr := tx.AddParticipant(model.NewParticipant{Name: "Ada"})
		require.NoError(t, addErr)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	after, _, err := store.Get(ctx, storage.KeyParticipants)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestTransaction_WritesOnlyChangedCollections(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	store.On("Get", ctx, storage.KeyParticipants).Return([]byte(`[{"id":"p-1","name":"Ada","seekingTeam":true}]`), true, nil)
	store.On("Get", ctx, storage.KeyTeams).Return([]byte(`[]`), true, nil)
	store.On("Get", ctx, storage.KeyCheckins).Return([]byte(`{}`), true, nil)
	store.On("SetMany", ctx, mock.MatchedBy(func(entries map[string][]byte) bool {
		_, hasCheckins := entries[storage.KeyCheckins]
		return len(entries) == 1 && hasCheckins
	})).Return(nil).Once()

	repo := New(store, WithClock(clockwork.NewFakeClockAt(testEpoch)))

	_, err := repo.CheckInParticipant(ctx, "p-1")
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestTransaction_StoreErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("read failure", func(t *testing.T) {
		store := new(MockStore)
		store.On("Get", ctx, storage.KeyParticipants).Return(nil, false, errors.New("connection refused"))

		_, err := New(store).GetAllParticipants(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load participants")
	})

	t.Run("corrupt value", func(t *testing.T) {
		store := new(MockStore)
		store.On("Get", ctx, storage.KeyParticipants).Return([]byte(`{not json`), true, nil)

		_, err := New(store).GetAllParticipants(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode participants")
	})

	t.Run("write failure", func(t *testing.T) {
		store := new(MockStore)
		store.On("Get", ctx, mock.Anything).Return(nil, false, nil)
		store.On("SetMany", ctx, mock.Anything).Return(errors.New("disk full"))

		_, err := New(store).AddParticipant(ctx, model.NewParticipant{Name: "Ada"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to save roster")
	})

	t.Run("view never writes", func(t *testing.T) {
		store := new(MockStore)
		store.On("Get", ctx, mock.Anything).Return(nil, false, nil)

		_, err := New(store).GetAllTeams(ctx)
		require.NoError(t, err)
		store.AssertNotCalled(t, "SetMany", mock.Anything, mock.Anything)
	})
}

func TestReplaceAllAndSnapshot(t *testing.T) {
	ctx := context.Background()
	repo, _, _ := newTestRepo(t)
	_, err := repo.AddParticipant(ctx, model.NewParticipant{Name: "Old"})
	require.NoError(t, err)

	lead := model.Participant{ID: "a", Name: "Alice", CreatedAt: testEpoch}
	lead.MakeLead("t-1")
	team := model.Team{ID: "t-1", Name: "Team 1", LeaderID: "a", Members: []string{"a"}, CreatedAt: testEpoch}

	require.NoError(t, repo.ReplaceAll(ctx, []model.Participant{lead}, []model.Team{team}, nil))

	participants, teams, checkins, err := repo.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Participant{lead}, participants)
	assert.Equal(t, []model.Team{team}, teams)
	assert.Empty(t, checkins)
	assert.NotNil(t, checkins)
}
