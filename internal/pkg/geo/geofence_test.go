package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var office = Point{Latitude: -6.200000, Longitude: 106.816666}

func TestCalculateHaversineDistance(t *testing.T) {
	tests := []struct {
		name     string
		lat1     float64
		lon1     float64
		lat2     float64
		lon2     float64
		expected float64
		delta    float64
	}{
		{name: "same point", lat1: -6.2, lon1: 106.816666, lat2: -6.2, lon2: 106.816666, expected: 0, delta: 0.0001},
		{name: "one degree of latitude", lat1: 0, lon1: 0, lat2: 1, lon2: 0, expected: 111194.93, delta: 1},
		{name: "jakarta to bandung", lat1: -6.2088, lon1: 106.8456, lat2: -6.9175, lon2: 107.6191, expected: 116000, delta: 2000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateHaversineDistance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.InDelta(t, tt.expected, got, tt.delta)
		})
	}
}

func TestCalculateHaversineDistance_Symmetric(t *testing.T) {
	a := CalculateHaversineDistance(-6.2, 106.8, -6.3, 106.9)
	b := CalculateHaversineDistance(-6.3, 106.9, -6.2, 106.8)
	assert.InDelta(t, a, b, 1e-6)
}

func TestValidate_Boundaries(t *testing.T) {
	fix := Fix{Latitude: -6.201000, Longitude: 106.817000, AccuracyMeters: 5}
	d := CalculateHaversineDistance(fix.Latitude, fix.Longitude, office.Latitude, office.Longitude)

	tests := []struct {
		name      string
		radiusMin float64
		radiusMax float64
		valid     bool
	}{
		{name: "distance equals radiusMax", radiusMin: 0, radiusMax: d, valid: true},
		{name: "distance equals radiusMin", radiusMin: d, radiusMax: d + 100, valid: true},
		{name: "one meter below radiusMin", radiusMin: d + 1, radiusMax: d + 100, valid: false},
		{name: "one meter above radiusMax", radiusMin: 0, radiusMax: d - 1, valid: false},
		{name: "well inside band", radiusMin: 0, radiusMax: 500, valid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(fix, office, tt.radiusMin, tt.radiusMax)
			assert.Equal(t, tt.valid, res.Valid)
			assert.Equal(t, d, res.DistanceMeters)
		})
	}
}

func TestValidate_AccuracyDoesNotWidenBand(t *testing.T) {
	precise := Fix{Latitude: -6.205000, Longitude: 106.816666, AccuracyMeters: 3}
	sloppy := precise
	sloppy.AccuracyMeters = 2000

	a := Validate(precise, office, 0, 100)
	b := Validate(sloppy, office, 0, 100)

	assert.False(t, a.Valid)
	assert.Equal(t, a, b)
}

func TestValidate_ZeroInnerRadiusAcceptsReferencePoint(t *testing.T) {
	res := Validate(Fix{Latitude: office.Latitude, Longitude: office.Longitude}, office, 0, 50)
	assert.True(t, res.Valid)
	assert.Zero(t, res.DistanceMeters)
}
