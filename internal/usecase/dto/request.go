package dto

import "github.com/petmap-service/internal/domain"

// NearbyRequest - запрос на поиск заведений рядом (query-параметры)
type NearbyRequest struct {
	Lat      float64 `query:"lat" validate:"min=-90,max=90"`
	Lng      float64 `query:"lng" validate:"min=-180,max=180"`
	Radius   int     `query:"radius" validate:"omitempty,min=1"`
	Keyword  string  `query:"keyword" validate:"omitempty,max=100"`
	Category string  `query:"category" validate:"omitempty,place_category"`
}

// Origin - координата запроса
func (r NearbyRequest) Origin() domain.Coordinate {
	return domain.NewCoordinate(r.Lat, r.Lng)
}

// Filter - фильтр поиска из запроса
func (r NearbyRequest) Filter() domain.SearchFilter {
	return domain.SearchFilter{
		Keyword:      r.Keyword,
		Category:     domain.Category(r.Category),
		RadiusMeters: r.Radius,
	}
}

// SearchRequest - фильтры поиска в рамках сессии
type SearchRequest struct {
	Keyword  string `json:"keyword" validate:"omitempty,max=100"`
	Category string `json:"category" validate:"omitempty,place_category"`
	Radius   int    `json:"radius" validate:"omitempty,min=1"`
}

// Filter - фильтр поиска из запроса
func (r SearchRequest) Filter() domain.SearchFilter {
	return domain.SearchFilter{
		Keyword:      r.Keyword,
		Category:     domain.Category(r.Category),
		RadiusMeters: r.Radius,
	}
}

// DeviceRequest - отчёт мини-программы о разрешении и геолокации
type DeviceRequest struct {
	Device DeviceReport `json:"device"`
}

// DeviceReport - результаты вызовов SDK устройства
type DeviceReport struct {
	AuthStatus    *bool    `json:"auth_status,omitempty"`
	AuthError     string   `json:"auth_error,omitempty" validate:"max=200"`
	PromptResult  *bool    `json:"prompt_result,omitempty"`
	PromptError   string   `json:"prompt_error,omitempty" validate:"max=200"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	LocationError string   `json:"location_error,omitempty" validate:"max=200"`
}

// ToDomain конвертирует отчёт. Координата считается сообщённой только если есть обе компоненты.
func (r DeviceReport) ToDomain() domain.DeviceReport {
	report := domain.DeviceReport{
		AuthStatus:    r.AuthStatus,
		AuthError:     r.AuthError,
		PromptResult:  r.PromptResult,
		PromptError:   r.PromptError,
		LocationError: r.LocationError,
	}
	if r.Latitude != nil && r.Longitude != nil {
		coord := domain.NewCoordinate(*r.Latitude, *r.Longitude)
		report.Coordinate = &coord
	}
	return report
}

// StartSessionRequest - открытие экрана поиска. Device необязателен.
type StartSessionRequest struct {
	Device *DeviceReport `json:"device,omitempty"`
}

// FocusRequest - выбор элемента списка
type FocusRequest struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lng float64 `json:"lng" validate:"min=-180,max=180"`
}

// MapErrorRequest - событие onMapLoadError
type MapErrorRequest struct {
	Reason string `json:"reason" validate:"required,max=200"`
}
