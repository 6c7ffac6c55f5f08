package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petmap-service/internal/domain"
	"github.com/petmap-service/internal/pkg/errors"
	"github.com/petmap-service/internal/usecase"
)

func TestViewSync_Focus(t *testing.T) {
	vs := usecase.NewViewSync(18, 14)

	focus, err := vs.Focus(domain.NewCoordinate(31.23, 121.47))
	require.NoError(t, err)
	assert.Equal(t, domain.FocusDetail, focus.Zoom)
	assert.Equal(t, 18, focus.MapZoom)
	assert.Equal(t, domain.NewCoordinate(31.23, 121.47), focus.Coordinate)

	_, err = vs.Focus(domain.NewCoordinate(-91, 0))
	assert.True(t, errors.Is(err, errors.ErrInvalidCoordinates))
}

func TestViewSync_OnMarkerTap(t *testing.T) {
	vs := usecase.NewViewSync(18, 14)
	places := []domain.NormalizedPlace{
		{ID: "a", Name: "A", Coordinate: domain.NewCoordinate(31.1, 121.1)},
		{ID: "place-1", Name: "B", Coordinate: domain.NewCoordinate(31.2, 121.2)},
	}

	t.Run("found", func(t *testing.T) {
		place, ok := vs.OnMarkerTap("place-1", places)
		require.True(t, ok)
		assert.Equal(t, "B", place.Name)
	})

	t.Run("missing id (scenario 5)", func(t *testing.T) {
		before := append([]domain.NormalizedPlace(nil), places...)
		place, ok := vs.OnMarkerTap("missing-id", places)
		assert.False(t, ok)
		assert.Nil(t, place)
		assert.Equal(t, before, places)
	})

	t.Run("no results", func(t *testing.T) {
		_, ok := vs.OnMarkerTap("a", nil)
		assert.False(t, ok)
	})

	t.Run("returned place is a copy", func(t *testing.T) {
		place, ok := vs.OnMarkerTap("a", places)
		require.True(t, ok)
		place.Name = "changed"
		assert.Equal(t, "A", places[0].Name)
	})
}

func TestViewSync_MapCenter(t *testing.T) {
	vs := usecase.NewViewSync(18, 14)
	state := domain.NewViewState("s", cityCenter, domain.SearchFilter{RadiusMeters: 3000})

	center, zoom := vs.MapCenter(state)
	assert.Equal(t, cityCenter, center)
	assert.Equal(t, 14, zoom)

	state.Result = &domain.SearchResult{Viewport: domain.Viewport{Center: domain.NewCoordinate(31.3, 121.5), Scale: 13}}
	center, zoom = vs.MapCenter(state)
	assert.Equal(t, domain.NewCoordinate(31.3, 121.5), center)
	assert.Equal(t, 13, zoom)

	state.Focus = &domain.FocusState{Coordinate: domain.NewCoordinate(31.0, 121.0), Zoom: domain.FocusDetail, MapZoom: 18}
	center, zoom = vs.MapCenter(state)
	assert.Equal(t, domain.NewCoordinate(31.0, 121.0), center)
	assert.Equal(t, 18, zoom)
}
