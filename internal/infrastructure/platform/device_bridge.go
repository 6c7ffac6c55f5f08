package platform

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/petmap-service/internal/domain"
	"github.com/petmap-service/internal/domain/repository"
)

var (
	// ErrNotReported - устройство не сообщило результат вызова
	ErrNotReported = errors.New("platform: result not reported by device")
)

// PlatformError - ошибка, которую вернул SDK устройства
type PlatformError struct {
	Op      string
	Message string
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("platform %s failed: %s", e.Op, e.Message)
}

// DeviceBridge оборачивает DeviceReport в контракты SDK разрешений и геолокации.
// Счётчики вызовов позволяют проверить, что SDK не опрашивался лишний раз.
type DeviceBridge struct {
	report domain.DeviceReport

	statusCalls   atomic.Int32
	promptCalls   atomic.Int32
	locationCalls atomic.Int32
}

// NewDeviceBridge создает адаптер поверх отчёта устройства
func NewDeviceBridge(report domain.DeviceReport) *DeviceBridge {
	return &DeviceBridge{report: report}
}

// Factory - конструктор в виде, который ожидает слой usecase
func Factory(report domain.DeviceReport) repository.DeviceCapabilities {
	return NewDeviceBridge(report)
}

// AuthorizationStatus возвращает статус разрешения из отчёта
func (b *DeviceBridge) AuthorizationStatus(ctx context.Context) (bool, error) {
	b.statusCalls.Add(1)
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if b.report.AuthError != "" {
		return false, &PlatformError{Op: "getSetting", Message: b.report.AuthError}
	}
	if b.report.AuthStatus == nil {
		return false, ErrNotReported
	}
	return *b.report.AuthStatus, nil
}

// PromptAuthorization возвращает результат системного запроса разрешения
func (b *DeviceBridge) PromptAuthorization(ctx context.Context) (bool, error) {
	b.promptCalls.Add(1)
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if b.report.PromptError != "" {
		return false, &PlatformError{Op: "authorize", Message: b.report.PromptError}
	}
	if b.report.PromptResult == nil {
		return false, ErrNotReported
	}
	return *b.report.PromptResult, nil
}

// CurrentCoordinate возвращает координату устройства. Валидность проверяет вызывающая сторона.
func (b *DeviceBridge) CurrentCoordinate(ctx context.Context) (domain.Coordinate, error) {
	b.locationCalls.Add(1)
	if err := ctx.Err(); err != nil {
		return domain.Coordinate{}, err
	}
	if b.report.LocationError != "" {
		return domain.Coordinate{}, &PlatformError{Op: "getLocation", Message: b.report.LocationError}
	}
	if b.report.Coordinate == nil {
		return domain.Coordinate{}, ErrNotReported
	}
	return *b.report.Coordinate, nil
}

// PromptCalls - сколько раз показывался запрос разрешения
func (b *DeviceBridge) PromptCalls() int {
	return int(b.promptCalls.Load())
}

// LocationCalls - сколько раз запрашивалась координата
func (b *DeviceBridge) LocationCalls() int {
	return int(b.locationCalls.Load())
}
