package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-crypto-dash/storage"
	"github.com/jrsteele09/go-crypto-dash/storage/boltstore"
	"github.com/jrsteele09/go-crypto-dash/storage/redisstore"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]storage.Repo {
	t.Helper()

	bolt, err := boltstore.Open(filepath.Join(t.TempDir(), "nested", "session.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, bolt.Close()) })

	repos := map[string]storage.Repo{
		"memory": storage.NewInMemoryRepo(),
		"bolt":   bolt,
	}

	// Redis runs only when a server is provided.
	if url := os.Getenv("REDIS_URL"); url != "" {
		rs, err := redisstore.Dial(context.Background(), url, "cryptodash-test:"+uuid.NewString()+":")
		require.NoError(t, err)
		t.Cleanup(func() {
			require.NoError(t, rs.Delete(context.Background(), storage.SessionKeys...))
			require.NoError(t, rs.Close())
		})
		repos["redis"] = rs
	}
	return repos
}

func TestRedisDialFailure(t *testing.T) {
	_, err := redisstore.Dial(context.Background(), "not-a-redis-url", "")
	require.Error(t, err)
}

func TestRepo(t *testing.T) {
	ctx := context.Background()

	for name, repo := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := repo.Get(ctx, storage.KeyToken)
			require.ErrorIs(t, err, storage.ErrNotFound)

			require.NoError(t, repo.Set(ctx, storage.KeyToken, "A"))
			require.NoError(t, repo.Set(ctx, storage.KeyUser, "alice"))
			require.NoError(t, repo.Set(ctx, storage.KeyToken, "B"))

			v, err := repo.Get(ctx, storage.KeyToken)
			require.NoError(t, err)
			require.Equal(t, "B", v)

			require.NoError(t, repo.Delete(ctx, storage.SessionKeys...))
			require.NoError(t, repo.Delete(ctx, "never-set"))

			_, err = repo.Get(ctx, storage.KeyUser)
			require.ErrorIs(t, err, storage.ErrNotFound)
		})
	}
}

func TestLookup(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewInMemoryRepo()

	v, ok, err := storage.Lookup(ctx, repo, storage.KeyRefreshToken)
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, v)

	require.NoError(t, repo.Set(ctx, storage.KeyRefreshToken, ""))
	_, ok, err = storage.Lookup(ctx, repo, storage.KeyRefreshToken)
	require.NoError(t, err)
	require.False(t, ok, "empty value counts as absent")

	require.NoError(t, repo.Set(ctx, storage.KeyRefreshToken, "R"))
	v, ok, err = storage.Lookup(ctx, repo, storage.KeyRefreshToken)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "R", v)
}

func TestBoltSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")

	first, err := boltstore.Open(path, "profile")
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, storage.KeyToken, "A"))
	require.NoError(t, first.Close())

	second, err := boltstore.Open(path, "profile")
	require.NoError(t, err)
	defer second.Close()

	v, err := second.Get(ctx, storage.KeyToken)
	require.NoError(t, err)
	require.Equal(t, "A", v)
}
