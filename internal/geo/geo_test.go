package geo

import (
	"testing"

	"geosearch-api/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	berlin := models.Coordinates{Lat: 52.5200, Lng: 13.4050}
	munich := models.Coordinates{Lat: 48.1351, Lng: 11.5820}

	t.Run("berlin to munich", func(t *testing.T) {
		assert.InDelta(t, 504, Distance(berlin, munich), 5)
	})

	t.Run("symmetry", func(t *testing.T) {
		assert.InDelta(t, Distance(berlin, munich), Distance(munich, berlin), 1e-9)
	})

	t.Run("zero distance to itself", func(t *testing.T) {
		assert.Equal(t, 0.0, Distance(berlin, berlin))
	})
}

func TestBounds(t *testing.T) {
	tests := []struct {
		name     string
		points   []models.Coordinates
		expected models.MapBounds
	}{
		{
			name:     "empty slice",
			points:   nil,
			expected: models.MapBounds{},
		},
		{
			name:     "single point collapses with zero padding",
			points:   []models.Coordinates{{Lat: 0, Lng: 0}},
			expected: models.MapBounds{North: 0, South: 0, East: 0, West: 0},
		},
		{
			name:     "two points padded by 10 percent of span",
			points:   []models.Coordinates{{Lat: 0, Lng: 0}, {Lat: 10, Lng: 10}},
			expected: models.MapBounds{North: 11, South: -1, East: 11, West: -1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Bounds(tt.points)
			assert.InDelta(t, tt.expected.North, b.North, 1e-9)
			assert.InDelta(t, tt.expected.South, b.South, 1e-9)
			assert.InDelta(t, tt.expected.East, b.East, 1e-9)
			assert.InDelta(t, tt.expected.West, b.West, 1e-9)
		})
	}
}

func TestOptimalZoom(t *testing.T) {
	tests := []struct {
		radiusKm float64
		zoom     int
	}{
		{0.5, 15},
		{1, 15},
		{3, 13},
		{10, 12},
		{25, 11},
		{50, 10},
		{100, 9},
		{250, 8},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.zoom, OptimalZoom(tt.radiusKm), "radius %v", tt.radiusKm)
	}
}
