package usecase

import (
	"github.com/petmap-service/internal/domain"
	"github.com/petmap-service/internal/pkg/errors"
)

// ViewSync сводит выбор в списке и нажатие на маркер к общему фокусу карты.
// Никогда не запускает поиск и только читает последний результат.
type ViewSync struct {
	detailZoom int
	normalZoom int
}

func NewViewSync(detailZoom, normalZoom int) *ViewSync {
	return &ViewSync{
		detailZoom: detailZoom,
		normalZoom: normalZoom,
	}
}

// Focus - фокус на выбранной в списке координате с детальным приближением
func (v *ViewSync) Focus(coordinate domain.Coordinate) (domain.FocusState, error) {
	if !coordinate.Valid() {
		return domain.FocusState{}, errors.ErrInvalidCoordinates
	}
	return domain.FocusState{
		Coordinate: coordinate,
		Zoom:       domain.FocusDetail,
		MapZoom:    v.detailZoom,
	}, nil
}

// OnMarkerTap ищет заведение по id маркера. Устаревший маркер даёт (nil, false).
func (v *ViewSync) OnMarkerTap(markerID string, places []domain.NormalizedPlace) (*domain.NormalizedPlace, bool) {
	for i := range places {
		if places[i].ID == markerID {
			place := places[i]
			return &place, true
		}
	}
	return nil, false
}

// MapCenter - куда смотреть карте: фокус, иначе центр viewport, иначе origin
func (v *ViewSync) MapCenter(state *domain.ViewState) (domain.Coordinate, int) {
	switch {
	case state.Focus != nil:
		return state.Focus.Coordinate, state.Focus.MapZoom
	case state.Result != nil:
		return state.Result.Viewport.Center, state.Result.Viewport.Scale
	default:
		return state.Origin, v.normalZoom
	}
}
