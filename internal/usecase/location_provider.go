package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/petmap-service/internal/domain"
	"github.com/petmap-service/internal/domain/repository"
	"github.com/petmap-service/internal/pkg/metrics"
)

// LocationProvider - снимок текущей координаты: устройство, если можно, иначе резервная точка
type LocationProvider struct {
	fallback domain.Coordinate
	logger   *zap.Logger
}

// NewLocationProvider - fallback уже проверен при загрузке конфигурации
func NewLocationProvider(fallback domain.Coordinate, logger *zap.Logger) *LocationProvider {
	return &LocationProvider{
		fallback: fallback,
		logger:   logger,
	}
}

// Fallback возвращает резервную координату
func (p *LocationProvider) Fallback() domain.Coordinate {
	return p.fallback
}

// ResolveCoordinate выполняет не больше одного запроса к геолокации.
// Без разрешения SDK не вызывается вовсе.
func (p *LocationProvider) ResolveCoordinate(
	ctx context.Context,
	geolocator repository.Geolocator,
	permission domain.PermissionState,
) (domain.Coordinate, domain.LocationSource) {
	if permission != domain.PermissionGranted {
		metrics.LocationFallbacks.WithLabelValues("not_granted").Inc()
		return p.fallback, domain.LocationFromFallback
	}

	coord, err := geolocator.CurrentCoordinate(ctx)
	if err != nil {
		p.logger.Info("Device location failed, using fallback", zap.Error(err))
		metrics.LocationFallbacks.WithLabelValues("device_error").Inc()
		return p.fallback, domain.LocationFromFallback
	}

	if !coord.Valid() {
		p.logger.Warn("Device reported invalid coordinate, using fallback",
			zap.Float64("lat", coord.Latitude),
			zap.Float64("lng", coord.Longitude))
		metrics.LocationFallbacks.WithLabelValues("invalid_coordinate").Inc()
		return p.fallback, domain.LocationFromFallback
	}

	return coord, domain.LocationFromDevice
}
