package domain

// ZoomHint - грубая подсказка масштаба для карты
type ZoomHint string

const (
	ZoomWide   ZoomHint = "wide"
	ZoomMedium ZoomHint = "medium"
	ZoomNarrow ZoomHint = "narrow"
)

// rank упорядочивает подсказки от самой широкой к самой узкой
func (z ZoomHint) rank() int {
	switch z {
	case ZoomWide:
		return 0
	case ZoomMedium:
		return 1
	case ZoomNarrow:
		return 2
	default:
		return -1
	}
}

// NarrowerThan сообщает, показывает ли z более узкую область, чем other
func (z ZoomHint) NarrowerThan(other ZoomHint) bool {
	return z.rank() > other.rank()
}

// Marker - маркер заведения на карте
type Marker struct {
	ID         string     `json:"id"`
	Coordinate Coordinate `json:"coordinate"`
	Label      string     `json:"label"`
}

// MarkerSet - упорядоченный набор маркеров заведений.
// Координата пользователя сюда не входит, она участвует только во Viewport.
type MarkerSet []Marker

// Viewport - что карта должна держать в поле зрения
type Viewport struct {
	IncludePoints []Coordinate `json:"include_points"`
	ZoomHint      ZoomHint     `json:"zoom_hint"`
	Center        Coordinate   `json:"center"`
	Scale         int          `json:"scale"`
}

// FocusZoom - уровень приближения при фокусе
type FocusZoom string

const (
	FocusDetail FocusZoom = "detail"
	FocusNormal FocusZoom = "normal"
)

// FocusState - общая для списка и карты точка фокуса
type FocusState struct {
	Coordinate Coordinate `json:"coordinate"`
	Zoom       FocusZoom  `json:"zoom"`
	MapZoom    int        `json:"map_zoom"`
}
