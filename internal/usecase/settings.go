package usecase

import (
	"strings"

	"github.com/petmap-service/internal/domain"
	"github.com/petmap-service/internal/pkg/errors"
	"github.com/petmap-service/internal/pkg/utils"
)

// MapSettings - статическая таблица опций карты, которую собирает cmd из конфигурации
type MapSettings struct {
	Fallback           domain.Coordinate
	RadiusOptions      []int
	DefaultRadius      int
	WideScaleThreshold int
	DetailZoom         int
	NormalZoom         int
}

// DefaultFilter - фильтр только что открытого экрана
func (s MapSettings) DefaultFilter() domain.SearchFilter {
	return domain.SearchFilter{RadiusMeters: s.DefaultRadius}
}

// NormalizeFilter приводит пользовательский фильтр к допустимому виду.
// Нулевой радиус заменяется радиусом по умолчанию, пустая категория означает "без фильтра".
func (s MapSettings) NormalizeFilter(filter domain.SearchFilter) (domain.SearchFilter, error) {
	filter.Keyword = strings.TrimSpace(filter.Keyword)

	if filter.RadiusMeters == 0 {
		filter.RadiusMeters = s.DefaultRadius
	}
	if !utils.ValidateRadius(filter.RadiusMeters, s.RadiusOptions) {
		return domain.SearchFilter{}, errors.ErrInvalidRadius.WithDetails(map[string]interface{}{
			"radius":  filter.RadiusMeters,
			"allowed": s.RadiusOptions,
		})
	}

	if filter.Category != "" {
		category := domain.Category(strings.ToLower(strings.TrimSpace(string(filter.Category))))
		if !domain.IsValidCategory(category) {
			return domain.SearchFilter{}, errors.ErrInvalidCategory.WithDetails(map[string]interface{}{
				"category": string(filter.Category),
			})
		}
		filter.Category = category
	}

	return filter, nil
}
