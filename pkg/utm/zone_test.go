package utm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alvinye9/global-racetrajectory-optimization/pkg/geo"
)

func TestZoneOf(t *testing.T) {
	tests := []struct {
		lng  float64
		want int
	}{
		{-180, 1},
		{-174.0001, 1},
		{-174, 2}, // western edge of zone 2
		{-173.9999, 2},
		{-0.0001, 30},
		{0, 31},
		{8.5, 32},
		{179.9999, 60},
		{180, 1},   // wraps
		{540, 1},   // wraps twice
		{-181, 60}, // wraps below
	}

	for _, tt := range tests {
		got := ZoneOf(tt.lng)
		assert.Equal(t, tt.want, got, "ZoneOf(%v)", tt.lng)
		assert.GreaterOrEqual(t, got, 1)
		assert.LessOrEqual(t, got, 60)
	}
}

func TestHemisphereOf(t *testing.T) {
	assert.Equal(t, geo.North, HemisphereOf(0))
	assert.Equal(t, geo.North, HemisphereOf(45))
	assert.Equal(t, geo.South, HemisphereOf(-0.0001))
	assert.Equal(t, geo.South, HemisphereOf(-33.9))
}

func TestResolveZone(t *testing.T) {
	z := ResolveZone(geo.LatLng{Lat: -37.8497, Lng: 144.968}) // Albert Park
	assert.Equal(t, geo.Zone{Number: 55, Hemisphere: geo.South}, z)

	z = ResolveZone(geo.LatLng{Lat: 47.0, Lng: 8.0})
	assert.Equal(t, geo.Zone{Number: 32, Hemisphere: geo.North}, z)
}

func TestCentralMeridian(t *testing.T) {
	assert.Equal(t, -177.0, CentralMeridian(1))
	assert.Equal(t, 3.0, CentralMeridian(31))
	assert.Equal(t, 9.0, CentralMeridian(32))
	assert.Equal(t, 177.0, CentralMeridian(60))
}
