package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// LocationEncoding - в какой из двух форм backend прислал координату заведения
type LocationEncoding string

const (
	// EncodingGeoJSON - {type:"Point", coordinates:[lng, lat]}
	EncodingGeoJSON LocationEncoding = "geojson"
	// EncodingDirect - {latitude, longitude}
	EncodingDirect LocationEncoding = "direct"
)

// ParseReason - почему запись признана невалидной
type ParseReason string

const (
	ReasonNotObject       ParseReason = "not_object"
	ReasonMissingLocation ParseReason = "missing_location"
	ReasonBadShape        ParseReason = "bad_shape"
	ReasonNonNumeric      ParseReason = "non_numeric"
	ReasonNonFinite       ParseReason = "non_finite"
	ReasonOutOfRange      ParseReason = "out_of_range"
)

// ParseError - ошибка разбора одной записи
type ParseError struct {
	Reason ParseReason
	Detail string
}

func (e *ParseError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("malformed place record: %s", e.Reason)
	}
	return fmt.Sprintf("malformed place record: %s: %s", e.Reason, e.Detail)
}

func parseErr(reason ParseReason, format string, args ...interface{}) *ParseError {
	return &ParseError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// RawPlaceRecord - запись о заведении в том виде, в каком её прислал backend.
// Location остаётся сырым JSON и разбирается отдельно через ParseLocation.
type RawPlaceRecord struct {
	ID       string
	Name     string
	Category string
	Address  string
	Distance *float64
	Location json.RawMessage
}

// DecodeRawPlaceRecord извлекает известные поля записи, не падая на полях неожиданного типа.
// Ошибку возвращает только если запись вообще не JSON-объект.
func DecodeRawPlaceRecord(raw json.RawMessage) (RawPlaceRecord, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return RawPlaceRecord{}, parseErr(ReasonNotObject, "record is not a JSON object")
	}

	rec := RawPlaceRecord{
		ID:       decodeID(fields["id"]),
		Name:     decodeString(fields["name"]),
		Category: decodeString(fields["category"]),
		Address:  decodeString(fields["address"]),
		Location: fields["location"],
	}
	if rec.ID == "" {
		rec.ID = decodeID(fields["_id"])
	}
	if d, err := parseNumber(fields["distance"]); err == nil && d >= 0 {
		rec.Distance = &d
	}

	return rec, nil
}

// ParseLocation - разбор tagged union координаты.
// Сначала пробуется GeoJSON форма, затем прямая форма; иначе запись невалидна.
func ParseLocation(raw json.RawMessage) (Coordinate, LocationEncoding, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Coordinate{}, "", parseErr(ReasonMissingLocation, "location is absent")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil || fields == nil {
		return Coordinate{}, "", parseErr(ReasonBadShape, "location is not an object")
	}

	coord, geoErr := parseGeoJSONLocation(fields)
	if geoErr == nil {
		return coord, EncodingGeoJSON, nil
	}

	coord, directErr := parseDirectLocation(fields)
	if directErr == nil {
		return coord, EncodingDirect, nil
	}

	// Причина той формы, которую backend пытался использовать
	if _, ok := fields["coordinates"]; ok {
		return Coordinate{}, "", geoErr
	}
	return Coordinate{}, "", directErr
}

func parseGeoJSONLocation(fields map[string]json.RawMessage) (Coordinate, error) {
	rawCoords, ok := fields["coordinates"]
	if !ok {
		return Coordinate{}, parseErr(ReasonBadShape, "no coordinates")
	}

	if rawType, ok := fields["type"]; ok {
		if t := decodeString(rawType); !strings.EqualFold(t, "Point") {
			return Coordinate{}, parseErr(ReasonBadShape, "geometry type %q is not Point", t)
		}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(rawCoords, &items); err != nil {
		return Coordinate{}, parseErr(ReasonBadShape, "coordinates is not an array")
	}
	if len(items) != 2 {
		return Coordinate{}, parseErr(ReasonBadShape, "coordinates has %d entries", len(items))
	}

	lng, err := parseNumber(items[0])
	if err != nil {
		return Coordinate{}, err
	}
	lat, err := parseNumber(items[1])
	if err != nil {
		return Coordinate{}, err
	}

	return checkRange(Coordinate{Latitude: lat, Longitude: lng})
}

func parseDirectLocation(fields map[string]json.RawMessage) (Coordinate, error) {
	rawLat, hasLat := fields["latitude"]
	rawLng, hasLng := fields["longitude"]
	if !hasLat || !hasLng {
		return Coordinate{}, parseErr(ReasonBadShape, "latitude/longitude keys missing")
	}

	lat, err := parseNumber(rawLat)
	if err != nil {
		return Coordinate{}, err
	}
	lng, err := parseNumber(rawLng)
	if err != nil {
		return Coordinate{}, err
	}

	return checkRange(Coordinate{Latitude: lat, Longitude: lng})
}

func checkRange(c Coordinate) (Coordinate, error) {
	if !c.Valid() {
		return Coordinate{}, parseErr(ReasonOutOfRange, "lat=%v lng=%v", c.Latitude, c.Longitude)
	}
	return c, nil
}

// parseNumber принимает только JSON-числа: строки, null и bool отклоняются
func parseNumber(raw json.RawMessage) (float64, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0, parseErr(ReasonNonNumeric, "value is absent")
	}
	if c := trimmed[0]; c != '-' && (c < '0' || c > '9') {
		return 0, parseErr(ReasonNonNumeric, "%s is not a number", string(trimmed))
	}

	v, err := strconv.ParseFloat(string(trimmed), 64)
	if err != nil && !math.IsInf(v, 0) {
		return 0, parseErr(ReasonNonNumeric, "%s is not a number", string(trimmed))
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, parseErr(ReasonNonFinite, "%s is not finite", string(trimmed))
	}
	return v, nil
}

func decodeString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// decodeID принимает строку, число или {"$oid": "..."}
func decodeID(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}

	switch trimmed[0] {
	case '"':
		return decodeString(trimmed)
	case '{':
		var oid struct {
			OID string `json:"$oid"`
		}
		if err := json.Unmarshal(trimmed, &oid); err == nil {
			return strings.TrimSpace(oid.OID)
		}
		return ""
	default:
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err == nil {
			return n.String()
		}
		return ""
	}
}

// NormalizedPlace - заведение после нормализации, единственная форма, которую видят список и карта
type NormalizedPlace struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Category       Category   `json:"category"`
	CategoryName   string     `json:"category_name"`
	Address        *string    `json:"address,omitempty"`
	Coordinate     Coordinate `json:"coordinate"`
	DistanceMeters *float64   `json:"distance_meters,omitempty"`
	SourceIndex    int        `json:"source_index"`
}

// SyntheticPlaceID - ключ для записи без id, по позиции в исходном массиве
func SyntheticPlaceID(index int) string {
	return fmt.Sprintf("place-%d", index)
}
