package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/petmap-service/internal/domain"
	"github.com/petmap-service/internal/domain/repository"
)

const deniedGuidanceMessage = "Location access is off. Open settings and allow location to see places near you."

// PermissionGate - проверка и запрос разрешения на геолокацию.
// Ошибки SDK никогда не возвращаются наружу: они превращаются в unknown/denied.
type PermissionGate struct {
	logger *zap.Logger
}

// NewPermissionGate - создание нового PermissionGate
func NewPermissionGate(logger *zap.Logger) *PermissionGate {
	return &PermissionGate{logger: logger}
}

// CheckGranted опрашивает настройки платформы. Ошибка опроса даёт unknown.
func (g *PermissionGate) CheckGranted(ctx context.Context, provider repository.PermissionProvider) domain.PermissionState {
	granted, err := provider.AuthorizationStatus(ctx)
	if err != nil {
		g.logger.Debug("Permission status check failed", zap.Error(err))
		return domain.PermissionUnknown
	}
	if granted {
		return domain.PermissionGranted
	}
	return domain.PermissionDenied
}

// RequestPermission показывает системный запрос ровно один раз, без повторов.
// Ошибка запроса трактуется как отказ. При отказе возвращает подсказку открыть настройки,
// сама никуда не переходит.
func (g *PermissionGate) RequestPermission(
	ctx context.Context,
	provider repository.PermissionProvider,
) (domain.PermissionState, *domain.PermissionGuidance) {
	granted, err := provider.PromptAuthorization(ctx)
	if err != nil {
		g.logger.Info("Permission request failed, treating as denied", zap.Error(err))
		granted = false
	}

	if granted {
		return domain.PermissionGranted, nil
	}

	return domain.PermissionDenied, g.DeniedGuidance()
}

// DeniedGuidance - подсказка открыть системные настройки
func (g *PermissionGate) DeniedGuidance() *domain.PermissionGuidance {
	return &domain.PermissionGuidance{
		Action:  domain.GuidanceOpenSettings,
		Message: deniedGuidanceMessage,
	}
}
