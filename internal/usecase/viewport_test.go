package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petmap-service/internal/domain"
	"github.com/petmap-service/internal/usecase"
)

func newTestViewportBuilder() *usecase.ViewportBuilder {
	return usecase.NewViewportBuilder(12, domain.NewCoordinate(31.2304, 121.4737))
}

func TestScaleForRadius_Monotone(t *testing.T) {
	prev := usecase.ScaleForRadius(0)
	for radius := 100; radius <= 20000; radius += 100 {
		scale := usecase.ScaleForRadius(radius)
		assert.LessOrEqual(t, scale, prev, "radius %d", radius)
		prev = scale
	}
}

func TestViewportBuilder_ZoomHintMonotoneInRadius(t *testing.T) {
	radii := []int{500, 1000, 2000, 3000, 5000, 8000, 10000, 15000, 50000}

	for _, threshold := range []int{11, 12, 13, 14, 16} {
		builder := usecase.NewViewportBuilder(threshold, testOrigin)
		for _, count := range []int{2, 3, 10} {
			for i := 1; i < len(radii); i++ {
				smaller := builder.ZoomHint(count, radii[i-1])
				larger := builder.ZoomHint(count, radii[i])
				assert.False(t, larger.NarrowerThan(smaller),
					"threshold=%d count=%d: radius %d gave %s, radius %d gave %s",
					threshold, count, radii[i-1], smaller, radii[i], larger)
			}
		}
	}
}

func TestViewportBuilder_ZoomHint(t *testing.T) {
	builder := newTestViewportBuilder()

	assert.Equal(t, domain.ZoomNarrow, builder.ZoomHint(1, 10000))
	assert.Equal(t, domain.ZoomMedium, builder.ZoomHint(3, 1000))
	assert.Equal(t, domain.ZoomMedium, builder.ZoomHint(3, 5000))
	assert.Equal(t, domain.ZoomWide, builder.ZoomHint(3, 10000))
	assert.Equal(t, domain.ZoomWide, builder.ZoomHint(3, 20000))
}

func TestViewportBuilder_Build(t *testing.T) {
	builder := newTestViewportBuilder()
	places := []domain.NormalizedPlace{
		{ID: "a", Name: "A", Coordinate: domain.NewCoordinate(31.0, 121.0)},
		{ID: "b", Name: "B", Coordinate: domain.NewCoordinate(31.4, 121.8)},
	}

	t.Run("origin and places are included", func(t *testing.T) {
		vp := builder.Build(testOrigin, places, 3000)
		require.Len(t, vp.IncludePoints, 3)
		assert.Equal(t, testOrigin, vp.IncludePoints[0])
		assert.Equal(t, domain.ZoomMedium, vp.ZoomHint)
		assert.Equal(t, 14, vp.Scale)
		assert.InDelta(t, 31.2, vp.Center.Latitude, 1e-9)
		assert.InDelta(t, 121.4, vp.Center.Longitude, 1e-9)
	})

	t.Run("only origin", func(t *testing.T) {
		vp := builder.Build(testOrigin, nil, 10000)
		assert.Equal(t, []domain.Coordinate{testOrigin}, vp.IncludePoints)
		assert.Equal(t, domain.ZoomNarrow, vp.ZoomHint)
		assert.Equal(t, testOrigin, vp.Center)
	})

	t.Run("invalid origin and no places falls back to default point", func(t *testing.T) {
		vp := builder.Build(domain.NewCoordinate(100, 0), nil, 3000)
		assert.Equal(t, []domain.Coordinate{domain.NewCoordinate(31.2304, 121.4737)}, vp.IncludePoints)
	})

	t.Run("fallback viewport is wide", func(t *testing.T) {
		vp := builder.Fallback(testOrigin, 1000)
		assert.Equal(t, []domain.Coordinate{testOrigin}, vp.IncludePoints)
		assert.Equal(t, domain.ZoomWide, vp.ZoomHint)
	})
}

func TestBuildMarkers(t *testing.T) {
	places := []domain.NormalizedPlace{
		{ID: "z", Name: "Zeta", Coordinate: domain.NewCoordinate(31.1, 121.1)},
		{ID: "place-3", Name: "Alpha", Coordinate: domain.NewCoordinate(31.2, 121.2)},
	}

	markers := usecase.BuildMarkers(places)
	require.Len(t, markers, 2)
	assert.Equal(t, domain.Marker{ID: "z", Coordinate: places[0].Coordinate, Label: "Zeta"}, markers[0])
	assert.Equal(t, "place-3", markers[1].ID)

	assert.NotNil(t, usecase.BuildMarkers(nil))
	assert.Empty(t, usecase.BuildMarkers(nil))
}
