package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/petmap-service/internal/domain"
	"github.com/petmap-service/internal/domain/repository"
	"github.com/petmap-service/internal/pkg/errors"
	"go.uber.org/zap"
)

type entry struct {
	state     *domain.ViewState
	expiresAt time.Time
}

// SessionRepository - хранилище ViewState в памяти процесса.
// Подходит для одного инстанса и для тестов; просроченные сессии удаляются лениво и через Cleanup.
type SessionRepository struct {
	mu       sync.Mutex
	sessions map[string]entry
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

var _ repository.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository(ttl time.Duration, logger *zap.Logger) *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]entry),
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
	}
}

func (r *SessionRepository) Create(_ context.Context, state *domain.ViewState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.sessions[state.SessionID]; ok && r.now().Before(e.expiresAt) {
		return fmt.Errorf("session %s already exists", state.SessionID)
	}
	r.sessions[state.SessionID] = entry{state: state.Clone(), expiresAt: r.now().Add(r.ttl)}
	return nil
}

func (r *SessionRepository) Get(_ context.Context, sessionID string) (*domain.ViewState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.lookup(sessionID)
	if !ok {
		return nil, errors.ErrSessionNotFound
	}
	return e.state.Clone(), nil
}

// Update выполняет fn под мьютексом над копией; при ошибке fn состояние не меняется
func (r *SessionRepository) Update(_ context.Context, sessionID string, fn repository.SessionUpdateFunc) (*domain.ViewState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.lookup(sessionID)
	if !ok {
		return nil, errors.ErrSessionNotFound
	}

	working := e.state.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	working.UpdatedAt = r.now()

	r.sessions[sessionID] = entry{state: working, expiresAt: r.now().Add(r.ttl)}
	return working.Clone(), nil
}

// Cleanup удаляет просроченные сессии, возвращает сколько удалено
func (r *SessionRepository) Cleanup() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	now := r.now()
	for id, e := range r.sessions {
		if !now.Before(e.expiresAt) {
			delete(r.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		r.logger.Debug("Expired sessions removed", zap.Int("count", removed))
	}
	return removed
}

// RunCleanup периодически чистит просроченные сессии до отмены контекста
func (r *SessionRepository) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Cleanup()
		}
	}
}

// lookup вызывается под мьютексом
func (r *SessionRepository) lookup(sessionID string) (entry, bool) {
	e, ok := r.sessions[sessionID]
	if !ok {
		return entry{}, false
	}
	if !r.now().Before(e.expiresAt) {
		delete(r.sessions, sessionID)
		return entry{}, false
	}
	return e, true
}
