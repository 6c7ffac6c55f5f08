package usecase

import (
	"encoding/json"
	stderrors "errors"

	"github.com/petmap-service/internal/domain"
	"github.com/petmap-service/internal/pkg/utils"
)

// MalformedRecord - запись, исключённая при нормализации
type MalformedRecord struct {
	Index  int
	Reason domain.ParseReason
	Err    error
}

// NormalizeOutcome - результат нормализации одной пачки записей
type NormalizeOutcome struct {
	Places    []domain.NormalizedPlace
	Malformed []MalformedRecord
}

// NormalizePlaces превращает сырые записи в NormalizedPlace.
// Порядок backend сохраняется, невалидные записи удаляются на месте и не ломают остальные.
// Синтетический id строится по индексу в исходном массиве, а не в отфильтрованном.
func NormalizePlaces(origin domain.Coordinate, records []json.RawMessage) NormalizeOutcome {
	out := NormalizeOutcome{
		Places: make([]domain.NormalizedPlace, 0, len(records)),
	}

	for i, raw := range records {
		place, err := normalizePlace(origin, i, raw)
		if err != nil {
			out.Malformed = append(out.Malformed, MalformedRecord{
				Index:  i,
				Reason: reasonOf(err),
				Err:    err,
			})
			continue
		}
		out.Places = append(out.Places, place)
	}

	return out
}

func normalizePlace(origin domain.Coordinate, index int, raw json.RawMessage) (domain.NormalizedPlace, error) {
	rec, err := domain.DecodeRawPlaceRecord(raw)
	if err != nil {
		return domain.NormalizedPlace{}, err
	}

	coord, _, err := domain.ParseLocation(rec.Location)
	if err != nil {
		return domain.NormalizedPlace{}, err
	}

	id := rec.ID
	if id == "" {
		id = domain.SyntheticPlaceID(index)
	}

	category := domain.ParseCategory(rec.Category)

	place := domain.NormalizedPlace{
		ID:           id,
		Name:         rec.Name,
		Category:     category,
		CategoryName: category.DisplayName(),
		Coordinate:   coord,
		SourceIndex:  index,
	}
	if rec.Address != "" {
		address := rec.Address
		place.Address = &address
	}

	switch {
	case rec.Distance != nil:
		place.DistanceMeters = rec.Distance
	case origin.Valid():
		d := utils.HaversineMeters(origin, coord)
		place.DistanceMeters = &d
	}

	return place, nil
}

func reasonOf(err error) domain.ParseReason {
	var parseErr *domain.ParseError
	if stderrors.As(err, &parseErr) {
		return parseErr.Reason
	}
	return domain.ReasonBadShape
}
