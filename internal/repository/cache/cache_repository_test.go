package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petmap-service/internal/repository/cache"
)

func TestCacheRepository_RoundTrip(t *testing.T) {
	repo := cache.NewCacheRepository(getTestRedis(t))
	ctx := context.Background()
	key := "petmap:test:" + uuid.NewString()

	// Промах - не ошибка
	val, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, repo.Set(ctx, key, []byte(`[{"id":"a"}]`), time.Minute))

	val, err = repo.Get(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"a"}]`, string(val))

	exists, err := repo.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.Delete(ctx, key))
	exists, err = repo.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCacheRepository_TTL(t *testing.T) {
	repo := cache.NewCacheRepository(getTestRedis(t))
	ctx := context.Background()
	key := "petmap:test:" + uuid.NewString()

	require.NoError(t, repo.Set(ctx, key, []byte("x"), 50*time.Millisecond))
	time.Sleep(150 * time.Millisecond)

	val, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, val)
}
