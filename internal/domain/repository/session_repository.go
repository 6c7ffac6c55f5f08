package repository

import (
	"context"

	"github.com/petmap-service/internal/domain"
)

// SessionUpdateFunc изменяет состояние на месте. Ошибка отменяет запись.
type SessionUpdateFunc func(state *domain.ViewState) error

// SessionRepository хранит эфемерное состояние экранов поиска
type SessionRepository interface {
	// Create сохраняет новое состояние
	Create(ctx context.Context, state *domain.ViewState) error

	// Get возвращает копию состояния или errors.ErrSessionNotFound
	Get(ctx context.Context, sessionID string) (*domain.ViewState, error)

	// Update атомарно читает, изменяет и записывает состояние; возвращает записанную копию
	Update(ctx context.Context, sessionID string, fn SessionUpdateFunc) (*domain.ViewState, error)
}
