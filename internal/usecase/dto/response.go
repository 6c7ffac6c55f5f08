package dto

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/petmap-service/internal/domain"
)

// HealthResponse - ответ health check
type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

// CategoryOption - категория с отображаемым названием
type CategoryOption struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// SearchOptionsResponse - статическая таблица опций поиска
type SearchOptionsResponse struct {
	RadiusOptions     []int             `json:"radius_options"`
	DefaultRadius     int               `json:"default_radius"`
	Categories        []CategoryOption  `json:"categories"`
	DefaultCoordinate domain.Coordinate `json:"default_coordinate"`
}

// NewSearchOptionsResponse собирает таблицу опций
func NewSearchOptionsResponse(radiusOptions []int, defaultRadius int, fallback domain.Coordinate) *SearchOptionsResponse {
	categories := make([]CategoryOption, 0, len(domain.ValidCategories()))
	for _, c := range domain.ValidCategories() {
		categories = append(categories, CategoryOption{Code: string(c), Name: c.DisplayName()})
	}
	return &SearchOptionsResponse{
		RadiusOptions:     radiusOptions,
		DefaultRadius:     defaultRadius,
		Categories:        categories,
		DefaultCoordinate: fallback,
	}
}

// MapView - то, что принимает поверхность карты
type MapView struct {
	Center        domain.Coordinate   `json:"center"`
	Zoom          int                 `json:"zoom"`
	Markers       domain.MarkerSet    `json:"markers"`
	IncludePoints []domain.Coordinate `json:"include_points"`
}

// SessionResponse - состояние экрана плюс готовый вид карты
type SessionResponse struct {
	State *domain.ViewState `json:"state"`
	Map   MapView           `json:"map"`
}

// NewSessionResponse собирает ответ; center/zoom считает ViewSync
func NewSessionResponse(state *domain.ViewState, center domain.Coordinate, zoom int) *SessionResponse {
	view := MapView{
		Center:        center,
		Zoom:          zoom,
		Markers:       domain.MarkerSet{},
		IncludePoints: []domain.Coordinate{state.Origin},
	}
	if state.Result != nil {
		view.Markers = state.Result.Markers
		view.IncludePoints = state.Result.Viewport.IncludePoints
	}
	return &SessionResponse{State: state, Map: view}
}

// MarkerTapResponse - результат нажатия на маркер. Found=false - маркер устарел, ничего не делать.
type MarkerTapResponse struct {
	Found bool                    `json:"found"`
	Place *domain.NormalizedPlace `json:"place,omitempty"`
	Focus *domain.FocusState      `json:"focus,omitempty"`
}

// AsyncSearchResponse - асинхронный поиск поставлен в очередь
type AsyncSearchResponse struct {
	RequestID string `json:"request_id"`
	SessionID string `json:"session_id"`
	Seq       uint64 `json:"seq"`
}

// NewAsyncSearchResponse конвертирует событие
func NewAsyncSearchResponse(event *domain.SearchRequestedEvent) *AsyncSearchResponse {
	return &AsyncSearchResponse{
		RequestID: event.RequestID.String(),
		SessionID: event.SessionID,
		Seq:       event.Seq,
	}
}

// ToFeatureCollection - маркеры и origin в GeoJSON. Origin помечен kind=origin.
func ToFeatureCollection(result *domain.SearchResult) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	origin := geojson.NewFeature(result.Origin.Point())
	origin.Properties["kind"] = "origin"
	fc.Append(origin)

	for _, p := range result.Places {
		f := geojson.NewFeature(p.Coordinate.Point())
		f.ID = p.ID
		f.Properties["kind"] = "place"
		f.Properties["name"] = p.Name
		f.Properties["category"] = string(p.Category)
		f.Properties["category_name"] = p.CategoryName
		if p.Address != nil {
			f.Properties["address"] = *p.Address
		}
		if p.DistanceMeters != nil {
			f.Properties["distance_meters"] = *p.DistanceMeters
		}
		fc.Append(f)
	}

	if bound, ok := domain.BoundOf(result.Viewport.IncludePoints); ok {
		b := orb.Bound{
			Min: orb.Point{bound.MinLon, bound.MinLat},
			Max: orb.Point{bound.MaxLon, bound.MaxLat},
		}
		fc.BBox = geojson.NewBBox(b)
	}

	return fc
}
