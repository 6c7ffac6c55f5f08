package repository

import (
	"context"

	"github.com/petmap-service/internal/domain"
)

// PermissionProvider - SDK платформы для разрешения на геолокацию
type PermissionProvider interface {
	// AuthorizationStatus опрашивает настройки платформы
	AuthorizationStatus(ctx context.Context) (granted bool, err error)

	// PromptAuthorization показывает системный запрос разрешения
	PromptAuthorization(ctx context.Context) (granted bool, err error)
}

// Geolocator - SDK платформы для текущей координаты устройства
type Geolocator interface {
	CurrentCoordinate(ctx context.Context) (domain.Coordinate, error)
}

// DeviceCapabilities - оба SDK устройства вместе
type DeviceCapabilities interface {
	PermissionProvider
	Geolocator
}
