// Package geo provides the pure spatial math shared by every search
// component: great-circle distance, viewport bounds and a zoom hint.
package geo

import (
	"math"

	"geosearch-api/internal/models"
)

// earthRadiusKm is the mean Earth radius used by the Haversine formula.
const earthRadiusKm = 6371.0

// boundsPadding expands a viewport by 10% of the coordinate spread so edge
// markers are not clipped.
const boundsPadding = 0.1

// Distance returns the great-circle distance between two points in
// kilometers using the Haversine formula.
func Distance(a, b models.Coordinates) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Bounds returns the padded bounding box covering all points. A single point
// degenerates to a zero-spread box at that point; an empty slice returns the
// zero box.
func Bounds(points []models.Coordinates) models.MapBounds {
	if len(points) == 0 {
		return models.MapBounds{}
	}

	b := models.MapBounds{
		North: points[0].Lat,
		South: points[0].Lat,
		East:  points[0].Lng,
		West:  points[0].Lng,
	}
	for _, p := range points[1:] {
		b.North = math.Max(b.North, p.Lat)
		b.South = math.Min(b.South, p.Lat)
		b.East = math.Max(b.East, p.Lng)
		b.West = math.Min(b.West, p.Lng)
	}

	latPad := (b.North - b.South) * boundsPadding
	lngPad := (b.East - b.West) * boundsPadding
	b.North += latPad
	b.South -= latPad
	b.East += lngPad
	b.West -= lngPad
	return b
}

// OptimalZoom maps a search radius to a map zoom level. Presentation hint
// only, nothing inside the core consumes it.
func OptimalZoom(radiusKm float64) int {
	switch {
	case radiusKm <= 1:
		return 15
	case radiusKm <= 5:
		return 13
	case radiusKm <= 10:
		return 12
	case radiusKm <= 25:
		return 11
	case radiusKm <= 50:
		return 10
	case radiusKm <= 100:
		return 9
	default:
		return 8
	}
}
