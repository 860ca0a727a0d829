package main

import (
	"testing"

	"github.com/paulmach/orb"

	"github.com/alvinye9/global-racetrajectory-optimization/pkg/geo"
	"github.com/alvinye9/global-racetrajectory-optimization/pkg/smooth"
)

func TestLines(t *testing.T) {
	ll := latLngLine([]geo.LatLng{{Lat: 47, Lng: 8}, {Lat: 47.001, Lng: 8.002}})
	if want := (orb.LineString{{47, 8}, {47.001, 8.002}}); !ll.Equal(want) {
		t.Errorf("latLngLine = %v, want %v", ll, want)
	}

	loc := localLine([]geo.Local{{X: 1, Y: 2}, {X: -3, Y: 4}})
	if want := (orb.LineString{{1, 2}, {-3, 4}}); !loc.Equal(want) {
		t.Errorf("localLine = %v, want %v", loc, want)
	}
}

func TestLargestMove(t *testing.T) {
	before := localLine([]geo.Local{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: 0}})
	after := localLine([]geo.Local{{X: 0, Y: 0.1}, {X: 10, Y: -0.4}, {X: 20, Y: 0.3}})

	d, i := smooth.MaxDeviation(before, after)
	if i != 1 || d < 0.4-1e-12 || d > 0.4+1e-12 {
		t.Errorf("MaxDeviation = (%g, %d), want (0.4, 1)", d, i)
	}
}
