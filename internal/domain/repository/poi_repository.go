package repository

import (
	"context"
	"encoding/json"

	"github.com/petmap-service/internal/domain"
)

// NearbyQuery - параметры запроса к удалённому поиску заведений
type NearbyQuery struct {
	Origin domain.Coordinate
	Filter domain.SearchFilter
}

// PlaceRepository - удалённый endpoint поиска заведений рядом
type PlaceRepository interface {
	// SearchNearby возвращает сырые записи из поля data конверта ответа.
	// Каждая запись остаётся json.RawMessage: разбор и валидация - забота вызывающей стороны.
	SearchNearby(ctx context.Context, query NearbyQuery) ([]json.RawMessage, error)
}
