package domain

import "time"

// ViewState - эфемерное состояние экрана поиска одной сессии.
// Единственный писатель списка/маркеров - последний завершившийся и не устаревший поиск.
type ViewState struct {
	SessionID    string              `json:"session_id"`
	Permission   PermissionState     `json:"permission"`
	Prompted     bool                `json:"prompted"`
	Origin       Coordinate          `json:"origin"`
	OriginSource LocationSource      `json:"origin_source"`
	Located      bool                `json:"located"`
	Filter       SearchFilter        `json:"filter"`
	IssuedSeq    uint64              `json:"issued_seq"`
	AppliedSeq   uint64              `json:"applied_seq"`
	Result       *SearchResult       `json:"result,omitempty"`
	Focus        *FocusState         `json:"focus,omitempty"`
	Notice       string              `json:"notice,omitempty"`
	Guidance     *PermissionGuidance `json:"guidance,omitempty"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// NewViewState создает состояние только что открытого экрана
func NewViewState(sessionID string, origin Coordinate, filter SearchFilter) *ViewState {
	return &ViewState{
		SessionID:    sessionID,
		Permission:   PermissionUnknown,
		Origin:       origin,
		OriginSource: LocationFromFallback,
		Filter:       filter,
		UpdatedAt:    time.Now(),
	}
}

// Clone возвращает независимую копию состояния
func (s *ViewState) Clone() *ViewState {
	if s == nil {
		return nil
	}
	c := *s
	if s.Focus != nil {
		f := *s.Focus
		c.Focus = &f
	}
	if s.Guidance != nil {
		g := *s.Guidance
		c.Guidance = &g
	}
	// Result не мутируется после создания, его можно разделять
	return &c
}
