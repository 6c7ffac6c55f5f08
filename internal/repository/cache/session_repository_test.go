package cache_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/petmap-service/internal/domain"
	"github.com/petmap-service/internal/pkg/errors"
	"github.com/petmap-service/internal/repository/cache"
)

// getTestRedis creates a Redis wrapper for testing
func getTestRedis(t *testing.T) *cache.Redis {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   1, // Use DB 1 for tests
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for integration tests: %v", err)
	}

	t.Cleanup(func() { _ = client.Close() })
	return cache.NewRedisFromClient(client, zap.NewNop())
}

func newState() *domain.ViewState {
	return domain.NewViewState(uuid.NewString(), domain.NewCoordinate(31.2304, 121.4737),
		domain.SearchFilter{RadiusMeters: 3000})
}

func TestSessionRepository_CreateGet(t *testing.T) {
	repo := cache.NewSessionRepository(getTestRedis(t), time.Minute)
	ctx := context.Background()

	state := newState()
	require.NoError(t, repo.Create(ctx, state))

	got, err := repo.Get(ctx, state.SessionID)
	require.NoError(t, err)
	assert.Equal(t, state.SessionID, got.SessionID)
	assert.Equal(t, domain.PermissionUnknown, got.Permission)
	assert.Equal(t, 3000, got.Filter.RadiusMeters)

	_, err = repo.Get(ctx, "missing-"+uuid.NewString())
	assert.True(t, errors.Is(err, errors.ErrSessionNotFound))
}

func TestSessionRepository_UpdateConcurrent(t *testing.T) {
	repo := cache.NewSessionRepository(getTestRedis(t), time.Minute)
	ctx := context.Background()

	state := newState()
	require.NoError(t, repo.Create(ctx, state))

	const writers = 5
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Update(ctx, state.SessionID, func(s *domain.ViewState) error {
				s.IssuedSeq++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.Get(ctx, state.SessionID)
	require.NoError(t, err)
	assert.Equal(t, uint64(writers), got.IssuedSeq)
}

func TestCacheRepository_Miss(t *testing.T) {
	repo := cache.NewCacheRepository(getTestRedis(t))
	ctx := context.Background()

	key := "petmap:test:" + uuid.NewString()
	val, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, repo.Set(ctx, key, []byte("v"), time.Minute))
	exists, err := repo.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)
	require.NoError(t, repo.Delete(ctx, key))
}
