package domain

import "time"

// Допустимые радиусы поиска в метрах
const (
	Radius1Km  = 1000
	Radius3Km  = 3000
	Radius5Km  = 5000
	Radius10Km = 10000
)

// DefaultRadiusOptions - таблица радиусов по умолчанию
var DefaultRadiusOptions = []int{Radius1Km, Radius3Km, Radius5Km, Radius10Km}

// SearchFilter - фильтры поиска. Пустая категория означает "не задана".
type SearchFilter struct {
	Keyword      string   `json:"keyword,omitempty"`
	Category     Category `json:"category,omitempty"`
	RadiusMeters int      `json:"radius_meters"`
}

// SearchResult - результат одного запуска поиска
type SearchResult struct {
	Places    []NormalizedPlace `json:"places"`
	Markers   MarkerSet         `json:"markers"`
	Viewport  Viewport          `json:"viewport"`
	Origin    Coordinate        `json:"origin"`
	Filter    SearchFilter      `json:"filter"`
	Malformed int               `json:"malformed"`
	FetchedAt time.Time         `json:"fetched_at"`
}

// FindPlace ищет заведение по id в текущем списке
func (r *SearchResult) FindPlace(id string) (*NormalizedPlace, bool) {
	if r == nil {
		return nil, false
	}
	for i := range r.Places {
		if r.Places[i].ID == id {
			place := r.Places[i]
			return &place, true
		}
	}
	return nil, false
}
