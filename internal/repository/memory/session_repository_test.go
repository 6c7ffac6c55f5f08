package memory

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/petmap-service/internal/domain"
	"github.com/petmap-service/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestState(id string) *domain.ViewState {
	return domain.NewViewState(id, domain.NewCoordinate(31.2304, 121.4737), domain.SearchFilter{RadiusMeters: 3000})
}

func TestSessionRepository_CreateGet(t *testing.T) {
	repo := NewSessionRepository(time.Minute, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestState("s1")))
	assert.Error(t, repo.Create(ctx, newTestState("s1")))

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", got.SessionID)

	// Get отдаёт копию
	got.Notice = "changed"
	again, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, again.Notice)

	_, err = repo.Get(ctx, "missing")
	assert.True(t, errors.Is(err, errors.ErrSessionNotFound))
}

func TestSessionRepository_Update(t *testing.T) {
	repo := NewSessionRepository(time.Minute, zap.NewNop())
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newTestState("s1")))

	t.Run("applies change", func(t *testing.T) {
		updated, err := repo.Update(ctx, "s1", func(s *domain.ViewState) error {
			s.IssuedSeq = 3
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, uint64(3), updated.IssuedSeq)
	})

	t.Run("error from fn discards change", func(t *testing.T) {
		boom := stderrors.New("boom")
		_, err := repo.Update(ctx, "s1", func(s *domain.ViewState) error {
			s.IssuedSeq = 100
			return boom
		})
		assert.ErrorIs(t, err, boom)

		got, err := repo.Get(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, uint64(3), got.IssuedSeq)
	})

	t.Run("missing session", func(t *testing.T) {
		_, err := repo.Update(ctx, "missing", func(s *domain.ViewState) error { return nil })
		assert.True(t, errors.Is(err, errors.ErrSessionNotFound))
	})

	t.Run("concurrent updates are serialized", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, newTestState("s2")))
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = repo.Update(ctx, "s2", func(s *domain.ViewState) error {
					s.IssuedSeq++
					return nil
				})
			}()
		}
		wg.Wait()

		got, err := repo.Get(ctx, "s2")
		require.NoError(t, err)
		assert.Equal(t, uint64(50), got.IssuedSeq)
	})
}

func TestSessionRepository_Expiry(t *testing.T) {
	repo := NewSessionRepository(time.Minute, zap.NewNop())
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestState("old")))
	now = now.Add(2 * time.Minute)
	require.NoError(t, repo.Create(ctx, newTestState("fresh")))

	_, err := repo.Get(ctx, "old")
	assert.True(t, errors.Is(err, errors.ErrSessionNotFound))

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, repo.Cleanup())
}
