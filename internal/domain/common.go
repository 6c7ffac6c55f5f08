package domain

import (
	"math"

	"github.com/paulmach/orb"
)

// Coordinate - географическая точка (WGS 84)
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewCoordinate создает координату из широты и долготы
func NewCoordinate(lat, lng float64) Coordinate {
	return Coordinate{Latitude: lat, Longitude: lng}
}

// Valid проверяет что обе компоненты конечны и лежат в допустимых диапазонах
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Latitude) || math.IsInf(c.Latitude, 0) {
		return false
	}
	if math.IsNaN(c.Longitude) || math.IsInf(c.Longitude, 0) {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// Point конвертирует координату в orb.Point ([lng, lat])
func (c Coordinate) Point() orb.Point {
	return orb.Point{c.Longitude, c.Latitude}
}

// CoordinateFromPoint - обратная конвертация из orb.Point
func CoordinateFromPoint(p orb.Point) Coordinate {
	return Coordinate{Latitude: p.Lat(), Longitude: p.Lon()}
}

// BoundingBox - прямоугольник, охватывающий набор точек
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// BoundOf строит BoundingBox по набору координат. Для пустого набора возвращает false.
func BoundOf(points []Coordinate) (BoundingBox, bool) {
	if len(points) == 0 {
		return BoundingBox{}, false
	}

	bound := points[0].Point().Bound()
	for _, p := range points[1:] {
		bound = bound.Extend(p.Point())
	}

	return BoundingBox{
		MinLat: bound.Min.Lat(),
		MinLon: bound.Min.Lon(),
		MaxLat: bound.Max.Lat(),
		MaxLon: bound.Max.Lon(),
	}, true
}

// Center возвращает центр прямоугольника
func (b BoundingBox) Center() Coordinate {
	bound := orb.Bound{
		Min: orb.Point{b.MinLon, b.MinLat},
		Max: orb.Point{b.MaxLon, b.MaxLat},
	}
	return CoordinateFromPoint(bound.Center())
}
