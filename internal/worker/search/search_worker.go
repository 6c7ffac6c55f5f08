package search

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/petmap-service/internal/domain"
	"github.com/petmap-service/internal/domain/repository"
	"github.com/petmap-service/internal/pkg/errors"
	"github.com/petmap-service/internal/worker"
)

const (
	defaultBatchSize = 20
	emptyQueueSleep  = 100 * time.Millisecond // пауза если очередь пуста
	errorSleep       = time.Second
	retryBackoff     = 200 * time.Millisecond
)

// SearchCompleter выполняет выданный поиск и применяет его к сессии, если seq ещё актуален
type SearchCompleter interface {
	CompleteSearch(ctx context.Context, sessionID string, seq uint64, filter domain.SearchFilter) (*domain.ViewState, bool, error)
}

// PlaceSearchWorker обрабатывает асинхронные запросы на поиск из stream:places:search
type PlaceSearchWorker struct {
	*worker.BaseWorker
	streamRepo repository.StreamRepository
	completer  SearchCompleter
	batchSize  int
	maxRetries int
}

// NewPlaceSearchWorker создает новый PlaceSearchWorker
func NewPlaceSearchWorker(
	streamRepo repository.StreamRepository,
	completer SearchCompleter,
	consumerGroup string,
	batchSize int,
	maxRetries int,
	logger *zap.Logger,
) *PlaceSearchWorker {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &PlaceSearchWorker{
		BaseWorker: worker.NewBaseWorker("place-search", consumerGroup, logger),
		streamRepo: streamRepo,
		completer:  completer,
		batchSize:  batchSize,
		maxRetries: maxRetries,
	}
}

// Start запускает воркер
func (w *PlaceSearchWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting PlaceSearchWorker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.ConsumerName()),
		zap.Int("batch_size", w.batchSize))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamPlacesSearch, w.ConsumerGroup()); err != nil {
		logger.Error("Failed to create consumer group", zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		default:
			processed, err := w.ProcessBatch(ctx)
			if err != nil {
				logger.Error("Failed to process batch", zap.Error(err))
				w.Pause(ctx, errorSleep)
				continue
			}

			if processed == 0 {
				w.Pause(ctx, emptyQueueSleep)
			}
		}
	}
}

// ProcessBatch читает и обрабатывает пачку запросов.
// Возвращает количество прочитанных сообщений, включая битые.
func (w *PlaceSearchWorker) ProcessBatch(ctx context.Context) (int, error) {
	logger := w.Logger()

	messages, err := w.streamRepo.ConsumeBatch(
		ctx,
		domain.StreamPlacesSearch,
		w.ConsumerGroup(),
		w.ConsumerName(),
		w.batchSize,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}
	if len(messages) == 0 {
		return 0, nil
	}

	logger.Debug("Processing batch", zap.Int("message_count", len(messages)))

	handled := make([]string, 0, len(messages))
	for _, msg := range messages {
		event, err := parseMessage(msg)
		if err != nil {
			logger.Warn("Failed to parse message, skipping",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			// ACK битое сообщение чтобы не застревало
			_ = w.streamRepo.AckMessage(ctx, domain.StreamPlacesSearch, w.ConsumerGroup(), msg.ID)
			continue
		}

		done := w.handle(ctx, event)
		if err := w.streamRepo.PublishToStream(ctx, domain.StreamPlacesDone, done); err != nil {
			logger.Error("Failed to publish done event",
				zap.String("request_id", event.RequestID.String()),
				zap.Error(err))
		}
		handled = append(handled, msg.ID)
	}

	if len(handled) > 0 {
		if err := w.streamRepo.AckMessages(ctx, domain.StreamPlacesSearch, w.ConsumerGroup(), handled); err != nil {
			// Не критично: сообщения останутся в pending
			logger.Error("Failed to ack messages", zap.Error(err))
		}
	}

	return len(messages), nil
}

// handle выполняет один запрос. Сессия могла исчезнуть или получить более новый поиск:
// оба случая не ошибка воркера, а событие с applied=false.
func (w *PlaceSearchWorker) handle(ctx context.Context, event *domain.SearchRequestedEvent) *domain.SearchCompletedEvent {
	logger := w.Logger().With(
		zap.String("request_id", event.RequestID.String()),
		zap.String("session_id", event.SessionID),
		zap.Uint64("seq", event.Seq))

	done := &domain.SearchCompletedEvent{
		RequestID: event.RequestID,
		SessionID: event.SessionID,
		Seq:       event.Seq,
	}

	var (
		state   *domain.ViewState
		applied bool
		err     error
	)
	for attempt := 0; attempt <= w.maxRetries; attempt++ {
		state, applied, err = w.completer.CompleteSearch(ctx, event.SessionID, event.Seq, event.Filter)
		if err == nil || !retryable(err) {
			break
		}
		logger.Warn("Search completion failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Error(err))
		if !w.Pause(ctx, retryBackoff) {
			break
		}
	}

	if err != nil {
		logger.Warn("Search request dropped", zap.Error(err))
		done.Error = err.Error()
		return done
	}

	done.Applied = applied
	if applied && state.Result != nil {
		done.PlaceCount = len(state.Result.Places)
		// После применения notice непуст только если сам поиск завершился ошибкой
		done.Error = state.Notice
	}

	logger.Info("Search request processed",
		zap.Bool("applied", done.Applied),
		zap.Int("places", done.PlaceCount))
	return done
}

// retryable - ошибки хранилища сессий; отсутствие сессии повторять бесполезно
func retryable(err error) bool {
	return !errors.Is(err, errors.ErrSessionNotFound)
}

func parseMessage(msg domain.StreamMessage) (*domain.SearchRequestedEvent, error) {
	if msg.Data == "" {
		return nil, fmt.Errorf("missing or invalid 'data' field")
	}

	var event domain.SearchRequestedEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if event.SessionID == "" || event.Seq == 0 {
		return nil, fmt.Errorf("event has no session_id or seq")
	}

	return &event, nil
}
