package geo

import (
	"math"
	"testing"
)

func TestHaversine(t *testing.T) {
	tests := []struct {
		name             string
		a, b             LatLng
		wantMeters       float64
		tolerancePercent float64
	}{
		{
			name:             "Monza start line to Parabolica",
			a:                LatLng{Lat: 45.6190, Lng: 9.2811},
			b:                LatLng{Lat: 45.6156, Lng: 9.2790},
			wantMeters:       415,
			tolerancePercent: 2,
		},
		{
			name:       "Same point",
			a:          LatLng{Lat: 39.7950, Lng: -86.2347},
			b:          LatLng{Lat: 39.7950, Lng: -86.2347},
			wantMeters: 0,
		},
		{
			name:             "London to Paris",
			a:                LatLng{Lat: 51.5074, Lng: -0.1278},
			b:                LatLng{Lat: 48.8566, Lng: 2.3522},
			wantMeters:       343_500,
			tolerancePercent: 1,
		},
		{
			name:             "One thousandth of a degree of latitude",
			a:                LatLng{Lat: 47.0, Lng: 8.0},
			b:                LatLng{Lat: 47.001, Lng: 8.0},
			wantMeters:       111,
			tolerancePercent: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Haversine(tt.a, tt.b)
			if tt.wantMeters == 0 {
				if got != 0 {
					t.Errorf("expected 0, got %f", got)
				}
				return
			}
			diff := math.Abs(got-tt.wantMeters) / tt.wantMeters * 100
			if diff > tt.tolerancePercent {
				t.Errorf("Haversine = %f m, want ~%f m (diff %.1f%%)", got, tt.wantMeters, diff)
			}
		})
	}
}

func TestPointToSegmentDist(t *testing.T) {
	tests := []struct {
		name      string
		p, a, b   LatLng
		wantRatio float64
		maxDistM  float64
	}{
		{
			name:      "Point at start of segment",
			p:         LatLng{Lat: 47.0, Lng: 8.0},
			a:         LatLng{Lat: 47.0, Lng: 8.0},
			b:         LatLng{Lat: 47.01, Lng: 8.0},
			wantRatio: 0.0,
			maxDistM:  1,
		},
		{
			name:      "Point at end of segment",
			p:         LatLng{Lat: 47.01, Lng: 8.0},
			a:         LatLng{Lat: 47.0, Lng: 8.0},
			b:         LatLng{Lat: 47.01, Lng: 8.0},
			wantRatio: 1.0,
			maxDistM:  1,
		},
		{
			name:      "Point at midpoint perpendicular",
			p:         LatLng{Lat: 47.005, Lng: 8.001},
			a:         LatLng{Lat: 47.0, Lng: 8.0},
			b:         LatLng{Lat: 47.01, Lng: 8.0},
			wantRatio: 0.5,
			maxDistM:  100, // ~76 m at this latitude
		},
		{
			name:      "Degenerate segment (A == B)",
			p:         LatLng{Lat: 47.0, Lng: 8.001},
			a:         LatLng{Lat: 47.0, Lng: 8.0},
			b:         LatLng{Lat: 47.0, Lng: 8.0},
			wantRatio: 0.0,
			maxDistM:  100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dist, ratio := PointToSegmentDist(tt.p, tt.a, tt.b)
			if dist > tt.maxDistM {
				t.Errorf("dist = %f m, want <= %f m", dist, tt.maxDistM)
			}
			if math.Abs(ratio-tt.wantRatio) > 0.05 {
				t.Errorf("ratio = %f, want ~%f", ratio, tt.wantRatio)
			}
		})
	}
}

func TestPointToPathDist(t *testing.T) {
	path := []LatLng{{Lat: 47.0, Lng: 8.0}, {Lat: 47.01, Lng: 8.0}, {Lat: 47.01, Lng: 8.01}}

	// On the second segment.
	if d := PointToPathDist(LatLng{Lat: 47.01, Lng: 8.005}, path); d > 0.5 {
		t.Errorf("dist to vertex-free segment point = %f m, want ~0", d)
	}
	if d := PointToPathDist(LatLng{Lat: 47.0, Lng: 8.0}, path[:1]); d != 0 {
		t.Errorf("single point path dist = %f, want 0", d)
	}
	if d := PointToPathDist(LatLng{}, nil); !math.IsInf(d, 1) {
		t.Errorf("empty path dist = %f, want +Inf", d)
	}
}

func BenchmarkHaversine(b *testing.B) {
	p, q := LatLng{Lat: 45.6190, Lng: 9.2811}, LatLng{Lat: 45.6156, Lng: 9.2790}
	for b.Loop() {
		Haversine(p, q)
	}
}
