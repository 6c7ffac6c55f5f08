package platform

import (
	"context"
	"testing"

	"github.com/petmap-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(v bool) *bool { return &v }

func TestDeviceBridge_AuthorizationStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("granted", func(t *testing.T) {
		granted, err := NewDeviceBridge(domain.DeviceReport{AuthStatus: boolPtr(true)}).AuthorizationStatus(ctx)
		require.NoError(t, err)
		assert.True(t, granted)
	})

	t.Run("sdk error", func(t *testing.T) {
		_, err := NewDeviceBridge(domain.DeviceReport{AuthError: "getSetting:fail"}).AuthorizationStatus(ctx)
		var platformErr *PlatformError
		require.ErrorAs(t, err, &platformErr)
		assert.Equal(t, "getSetting", platformErr.Op)
	})

	t.Run("not reported", func(t *testing.T) {
		_, err := NewDeviceBridge(domain.DeviceReport{}).AuthorizationStatus(ctx)
		assert.ErrorIs(t, err, ErrNotReported)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := NewDeviceBridge(domain.DeviceReport{AuthStatus: boolPtr(true)}).AuthorizationStatus(cancelled)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestDeviceBridge_PromptAuthorization(t *testing.T) {
	ctx := context.Background()

	bridge := NewDeviceBridge(domain.DeviceReport{PromptResult: boolPtr(false)})
	granted, err := bridge.PromptAuthorization(ctx)
	require.NoError(t, err)
	assert.False(t, granted)
	assert.Equal(t, 1, bridge.PromptCalls())

	_, err = NewDeviceBridge(domain.DeviceReport{PromptError: "auth deny"}).PromptAuthorization(ctx)
	assert.Error(t, err)
}

func TestDeviceBridge_CurrentCoordinate(t *testing.T) {
	ctx := context.Background()
	coord := domain.NewCoordinate(31.23, 121.47)

	bridge := NewDeviceBridge(domain.DeviceReport{Coordinate: &coord})
	got, err := bridge.CurrentCoordinate(ctx)
	require.NoError(t, err)
	assert.Equal(t, coord, got)
	assert.Equal(t, 1, bridge.LocationCalls())

	_, err = NewDeviceBridge(domain.DeviceReport{LocationError: "timeout"}).CurrentCoordinate(ctx)
	assert.Error(t, err)

	_, err = NewDeviceBridge(domain.DeviceReport{}).CurrentCoordinate(ctx)
	assert.ErrorIs(t, err, ErrNotReported)
}
