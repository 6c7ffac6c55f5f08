package usecase

import (
	"github.com/petmap-service/internal/domain"
)

// radiusScale - таблица радиус -> масштаб карты (чем больше радиус, тем меньше масштаб)
var radiusScale = []struct {
	maxRadius int
	scale     int
}{
	{1000, 16},
	{3000, 14},
	{5000, 13},
	{10000, 12},
}

const minScale = 11

// ScaleForRadius возвращает масштаб карты для радиуса поиска. Не возрастает с ростом радиуса.
func ScaleForRadius(radiusMeters int) int {
	for _, row := range radiusScale {
		if radiusMeters <= row.maxRadius {
			return row.scale
		}
	}
	return minScale
}

// ViewportBuilder строит маркеры и область видимости карты
type ViewportBuilder struct {
	wideScaleThreshold int
	defaultPoint       domain.Coordinate
}

// NewViewportBuilder - wideScaleThreshold: масштаб, при котором и ниже карта считается "широкой"
func NewViewportBuilder(wideScaleThreshold int, defaultPoint domain.Coordinate) *ViewportBuilder {
	return &ViewportBuilder{
		wideScaleThreshold: wideScaleThreshold,
		defaultPoint:       defaultPoint,
	}
}

// ZoomHint: одна точка - narrow; иначе по масштабу радиуса - wide или medium
func (b *ViewportBuilder) ZoomHint(includeCount, radiusMeters int) domain.ZoomHint {
	if includeCount == 1 {
		return domain.ZoomNarrow
	}
	if ScaleForRadius(radiusMeters) <= b.wideScaleThreshold {
		return domain.ZoomWide
	}
	return domain.ZoomMedium
}

// BuildMarkers - по маркеру на каждое валидное заведение, в том же порядке
func BuildMarkers(places []domain.NormalizedPlace) domain.MarkerSet {
	markers := make(domain.MarkerSet, 0, len(places))
	for _, p := range places {
		markers = append(markers, domain.Marker{
			ID:         p.ID,
			Coordinate: p.Coordinate,
			Label:      p.Name,
		})
	}
	return markers
}

// Build считает область видимости: origin плюс координаты заведений.
// Если точек нет вовсе (origin невалиден и заведений нет), используется точка по умолчанию.
func (b *ViewportBuilder) Build(origin domain.Coordinate, places []domain.NormalizedPlace, radiusMeters int) domain.Viewport {
	points := make([]domain.Coordinate, 0, len(places)+1)
	if origin.Valid() {
		points = append(points, origin)
	}
	for _, p := range places {
		points = append(points, p.Coordinate)
	}
	if len(points) == 0 {
		points = append(points, b.defaultPoint)
	}

	return b.viewport(points, b.ZoomHint(len(points), radiusMeters), radiusMeters)
}

// Fallback - область видимости пустого результата после ошибки поиска: только origin, широкий вид
func (b *ViewportBuilder) Fallback(origin domain.Coordinate, radiusMeters int) domain.Viewport {
	point := origin
	if !point.Valid() {
		point = b.defaultPoint
	}
	return b.viewport([]domain.Coordinate{point}, domain.ZoomWide, radiusMeters)
}

func (b *ViewportBuilder) viewport(points []domain.Coordinate, hint domain.ZoomHint, radiusMeters int) domain.Viewport {
	center := points[0]
	if bound, ok := domain.BoundOf(points); ok {
		center = bound.Center()
	}

	return domain.Viewport{
		IncludePoints: points,
		ZoomHint:      hint,
		Center:        center,
		Scale:         ScaleForRadius(radiusMeters),
	}
}
