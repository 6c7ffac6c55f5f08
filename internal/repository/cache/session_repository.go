package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/petmap-service/internal/domain"
	"github.com/petmap-service/internal/domain/repository"
	apperrors "github.com/petmap-service/internal/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	sessionKeyPrefix = "petmap:session:"
	// Сколько раз повторяем WATCH/MULTI при конкурентной записи
	sessionUpdateRetries = 8
)

type sessionRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewSessionRepository - хранилище ViewState в Redis для нескольких инстансов API и воркера
func NewSessionRepository(redis *Redis, ttl time.Duration) repository.SessionRepository {
	return &sessionRepository{
		client: redis.Client(),
		ttl:    ttl,
		logger: redis.logger,
	}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func (r *sessionRepository) Create(ctx context.Context, state *domain.ViewState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ok, err := r.client.SetNX(ctx, sessionKey(state.SessionID), data, r.ttl).Result()
	if err != nil {
		r.logger.Error("Failed to create session", zap.String("session_id", state.SessionID), zap.Error(err))
		return apperrors.Wrap(apperrors.ErrCacheError, err)
	}
	if !ok {
		return fmt.Errorf("session %s already exists", state.SessionID)
	}
	return nil
}

func (r *sessionRepository) Get(ctx context.Context, sessionID string) (*domain.ViewState, error) {
	data, err := r.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.ErrSessionNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get session", zap.String("session_id", sessionID), zap.Error(err))
		return nil, apperrors.Wrap(apperrors.ErrCacheError, err)
	}

	var state domain.ViewState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &state, nil
}

// Update - оптимистичная транзакция: WATCH ключа, чтение, fn, MULTI/SET/EXEC.
// При конфликте повторяем ограниченное число раз.
func (r *sessionRepository) Update(ctx context.Context, sessionID string, fn repository.SessionUpdateFunc) (*domain.ViewState, error) {
	key := sessionKey(sessionID)
	var updated *domain.ViewState

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return apperrors.ErrSessionNotFound
		}
		if err != nil {
			return apperrors.Wrap(apperrors.ErrCacheError, err)
		}

		var state domain.ViewState
		if err := json.Unmarshal(data, &state); err != nil {
			return fmt.Errorf("unmarshal session: %w", err)
		}

		if err := fn(&state); err != nil {
			return err
		}
		state.UpdatedAt = time.Now()

		out, err := json.Marshal(&state)
		if err != nil {
			return fmt.Errorf("marshal session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, r.ttl)
			return nil
		})
		if err == nil {
			updated = &state
		}
		return err
	}

	for attempt := 0; attempt < sessionUpdateRetries; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			r.logger.Debug("Session update conflict, retrying",
				zap.String("session_id", sessionID),
				zap.Int("attempt", attempt+1))
			continue
		}
		return nil, err
	}

	r.logger.Warn("Session update gave up after retries", zap.String("session_id", sessionID))
	return nil, apperrors.Wrap(apperrors.ErrCacheError, fmt.Errorf("session %s: too many concurrent updates", sessionID))
}
