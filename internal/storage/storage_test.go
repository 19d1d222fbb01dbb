package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/festy23/buildathon_roster/internal/config"
	"github.com/festy23/buildathon_roster/internal/database/database"
)

func newSQLiteStore(t *testing.T, namespace string) *GormStore {
	t.Helper()
	t.Setenv("MIGRATIONS_PATH", "")
	db, err := database.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	s := NewGormStore(db, namespace)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newRedisStore(t *testing.T, namespace string) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStore(client, namespace)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func backends(t *testing.T) map[string]Store {
	t.Helper()
	redisStore, _ := newRedisStore(t, "test")
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": newSQLiteStore(t, "test"),
		"redis":  redisStore,
	}
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("missing key", func(t *testing.T) {
				value, ok, err := s.Get(ctx, "absent")
				require.NoError(t, err)
				assert.False(t, ok)
				assert.Nil(t, value)
			})

			t.Run("set then get", func(t *testing.T) {
				require.NoError(t, s.Set(ctx, KeyTeams, []byte(`[{"id":"t-1"}]`)))

				value, ok, err := s.Get(ctx, KeyTeams)
				require.NoError(t, err)
				assert.True(t, ok)
				assert.JSONEq(t, `[{"id":"t-1"}]`, string(value))
			})

			t.Run("overwrite", func(t *testing.T) {
				require.NoError(t, s.Set(ctx, KeyTeams, []byte(`[]`)))

				value, _, err := s.Get(ctx, KeyTeams)
				require.NoError(t, err)
				assert.Equal(t, "[]", string(value))
			})

			t.Run("set many", func(t *testing.T) {
				require.NoError(t, s.SetMany(ctx, map[string][]byte{
					KeyParticipants: []byte(`[{"id":"p-1"}]`),
					KeyCheckins:     []byte(`{"p-1":"2025-03-01T09:00:00Z"}`),
				}))

				participants, ok, err := s.Get(ctx, KeyParticipants)
				require.NoError(t, err)
				require.True(t, ok)
				assert.Equal(t, `[{"id":"p-1"}]`, string(participants))

				checkins, ok, err := s.Get(ctx, KeyCheckins)
				require.NoError(t, err)
				require.True(t, ok)
				assert.Equal(t, `{"p-1":"2025-03-01T09:00:00Z"}`, string(checkins))
			})

			t.Run("health", func(t *testing.T) {
				assert.NoError(t, s.Health(ctx))
			})
		})
	}
}

func TestEnsureDefaults(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, KeyTeams, []byte(`[{"id":"t-1"}]`)))

	require.NoError(t, EnsureDefaults(ctx, s))

	participants, ok, err := s.Get(ctx, KeyParticipants)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "[]", string(participants))

	checkins, _, err := s.Get(ctx, KeyCheckins)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(checkins))

	teams, _, err := s.Get(ctx, KeyTeams)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"t-1"}]`, string(teams), "existing collections are left alone")
}

func TestEnsureDefaults_ClosedStore(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Close())

	err := EnsureDefaults(context.Background(), s)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestNamespaceIsolation(t *testing.T) {
	ctx := context.Background()

	t.Run("sqlite", func(t *testing.T) {
		t.Setenv("MIGRATIONS_PATH", "")
		db, err := database.OpenSQLite(ctx, filepath.Join(t.TempDir(), "ns.db"))
		require.NoError(t, err)
		defer func() { _ = database.Close(db) }()

		spring := NewGormStore(db, "spring")
		fall := NewGormStore(db, "fall")
		require.NoError(t, spring.Set(ctx, KeyTeams, []byte(`["spring"]`)))

		_, ok, err := fall.Get(ctx, KeyTeams)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("redis", func(t *testing.T) {
		s, mr := newRedisStore(t, "spring")
		require.NoError(t, s.Set(ctx, KeyTeams, []byte(`["spring"]`)))

		assert.True(t, mr.Exists("spring:teams"))
		assert.False(t, mr.Exists("teams"))
	})
}

func TestRedisStore_Unavailable(t *testing.T) {
	s, mr := newRedisStore(t, "test")
	mr.Close()

	ctx := context.Background()
	assert.Error(t, s.Health(ctx))
	assert.Error(t, s.SetMany(ctx, map[string][]byte{KeyTeams: []byte("[]")}))
}

func TestOpenRedis(t *testing.T) {
	t.Run("invalid url", func(t *testing.T) {
		_, err := OpenRedis(context.Background(), "://bad", "test")
		assert.Error(t, err)
	})

	t.Run("miniredis", func(t *testing.T) {
		mr := miniredis.RunT(t)

		s, err := OpenRedis(context.Background(), "redis://"+mr.Addr()+"/0", "test")
		require.NoError(t, err)
		defer func() { _ = s.Close() }()

		assert.NoError(t, s.Health(context.Background()))
	})
}

func TestOpen(t *testing.T) {
	logger := zap.NewNop().Sugar()
	ctx := context.Background()

	t.Run("sqlite initializes collections", func(t *testing.T) {
		t.Setenv("MIGRATIONS_PATH", "")
		cfg := config.StoreConfig{
			Driver:     config.DriverSQLite,
			SQLitePath: filepath.Join(t.TempDir(), "open.db"),
			Namespace:  "buildathon",
		}

		s, err := Open(ctx, cfg, logger)
		require.NoError(t, err)
		defer func() { _ = s.Close() }()

		for key, want := range Defaults() {
			value, ok, err := s.Get(ctx, key)
			require.NoError(t, err)
			require.True(t, ok, key)
			assert.Equal(t, string(want), string(value))
		}
	})

	t.Run("memory", func(t *testing.T) {
		s, err := Open(ctx, config.StoreConfig{Driver: config.DriverMemory}, logger)
		require.NoError(t, err)
		assert.IsType(t, &MemoryStore{}, s)
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := Open(ctx, config.StoreConfig{Driver: "etcd"}, logger)
		assert.Error(t, err)
	})
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	value := []byte("[]")
	require.NoError(t, s.Set(ctx, KeyTeams, value))
	value[0] = 'x'

	stored, _, err := s.Get(ctx, KeyTeams)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(stored))
}
