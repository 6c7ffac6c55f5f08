package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/petmap-service/internal/domain"
	"github.com/petmap-service/internal/domain/repository"
	"github.com/petmap-service/internal/pkg/errors"
	"github.com/petmap-service/internal/pkg/metrics"
)

// PlaceSearchUseCase - поиск заведений рядом: запрос к backend, нормализация, маркеры и viewport
type PlaceSearchUseCase struct {
	placeRepo repository.PlaceRepository
	cacheRepo repository.CacheRepository
	viewport  *ViewportBuilder
	cacheTTL  time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewPlaceSearchUseCase - cacheRepo может быть nil, тогда ответы backend не кешируются
func NewPlaceSearchUseCase(
	placeRepo repository.PlaceRepository,
	cacheRepo repository.CacheRepository,
	viewport *ViewportBuilder,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *PlaceSearchUseCase {
	return &PlaceSearchUseCase{
		placeRepo: placeRepo,
		cacheRepo: cacheRepo,
		viewport:  viewport,
		cacheTTL:  cacheTTL,
		logger:    logger,
		now:       time.Now,
	}
}

// Search никогда не возвращает nil-результат. При ошибке backend возвращается пустой
// результат (только origin, широкий вид) и отдельно ошибка для уведомления.
func (uc *PlaceSearchUseCase) Search(ctx context.Context, origin domain.Coordinate, filter domain.SearchFilter) (*domain.SearchResult, error) {
	start := time.Now()

	records, err := uc.fetch(ctx, origin, filter)
	if err != nil {
		kind := "transport"
		if errors.Is(err, errors.ErrSearchApplication) {
			kind = "application"
		}
		metrics.SearchFailures.WithLabelValues(kind).Inc()
		uc.logger.Warn("Nearby search failed, returning empty result",
			zap.String("kind", kind),
			zap.Error(err))
		return uc.EmptyResult(origin, filter), err
	}

	outcome := NormalizePlaces(origin, records)
	for _, m := range outcome.Malformed {
		metrics.MalformedRecords.WithLabelValues(string(m.Reason)).Inc()
		uc.logger.Debug("Malformed place record excluded",
			zap.Int("index", m.Index),
			zap.String("reason", string(m.Reason)),
			zap.Error(m.Err))
	}

	result := &domain.SearchResult{
		Places:    outcome.Places,
		Markers:   BuildMarkers(outcome.Places),
		Viewport:  uc.viewport.Build(origin, outcome.Places, filter.RadiusMeters),
		Origin:    origin,
		Filter:    filter,
		Malformed: len(outcome.Malformed),
		FetchedAt: uc.now(),
	}

	uc.logger.Info("Nearby search completed",
		zap.Int("records", len(records)),
		zap.Int("places", len(result.Places)),
		zap.Int("malformed", result.Malformed),
		zap.String("zoom_hint", string(result.Viewport.ZoomHint)),
		zap.Duration("duration", time.Since(start)))

	return result, nil
}

// EmptyResult - результат неудачного поиска
func (uc *PlaceSearchUseCase) EmptyResult(origin domain.Coordinate, filter domain.SearchFilter) *domain.SearchResult {
	return &domain.SearchResult{
		Places:    []domain.NormalizedPlace{},
		Markers:   domain.MarkerSet{},
		Viewport:  uc.viewport.Fallback(origin, filter.RadiusMeters),
		Origin:    origin,
		Filter:    filter,
		FetchedAt: uc.now(),
	}
}

// fetch - запрос к backend через кеш. Ошибки кеша логируются и не мешают поиску.
func (uc *PlaceSearchUseCase) fetch(ctx context.Context, origin domain.Coordinate, filter domain.SearchFilter) ([]json.RawMessage, error) {
	key := nearbyCacheKey(origin, filter)

	if uc.cacheRepo != nil {
		cached, err := uc.cacheRepo.Get(ctx, key)
		switch {
		case err != nil:
			uc.logger.Warn("Search cache read failed", zap.Error(err))
		case cached != nil:
			var records []json.RawMessage
			if err := json.Unmarshal(cached, &records); err == nil {
				metrics.CacheHits.WithLabelValues("nearby").Inc()
				return records, nil
			}
			uc.logger.Warn("Corrupted search cache entry", zap.String("key", key))
		}
		metrics.CacheMisses.WithLabelValues("nearby").Inc()
	}

	upstreamStart := time.Now()
	records, err := uc.placeRepo.SearchNearby(ctx, repository.NearbyQuery{Origin: origin, Filter: filter})
	metrics.SearchDuration.Observe(time.Since(upstreamStart).Seconds())
	if err != nil {
		if _, ok := errors.As(err); !ok {
			err = errors.Wrap(errors.ErrSearchTransport, err)
		}
		return nil, err
	}

	if uc.cacheRepo != nil && uc.cacheTTL > 0 {
		if data, err := json.Marshal(records); err == nil {
			if err := uc.cacheRepo.Set(ctx, key, data, uc.cacheTTL); err != nil {
				uc.logger.Warn("Search cache write failed", zap.Error(err))
			}
		}
	}

	return records, nil
}

func nearbyCacheKey(origin domain.Coordinate, filter domain.SearchFilter) string {
	return fmt.Sprintf("petmap:nearby:%.6f:%.6f:%d:%s:%s",
		origin.Latitude,
		origin.Longitude,
		filter.RadiusMeters,
		filter.Category,
		url.QueryEscape(filter.Keyword))
}
