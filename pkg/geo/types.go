// Package geo defines the coordinate types shared by the raceline tools:
// geographic points, UTM grid points and local planar offsets, plus the
// error kinds and great-circle distances used across packages.
package geo

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

var (
	// ErrValidation is returned for out-of-range coordinates, zone mismatches
	// and invalid numeric configuration.
	ErrValidation = errors.New("validation error")

	// ErrEmptyInput is returned when a trajectory has no points.
	ErrEmptyInput = errors.New("empty input")
)

// LatLng represents a geographic coordinate in degrees on WGS84.
type LatLng struct {
	Lat float64
	Lng float64
}

// Validate reports whether the coordinate is finite and inside
// [-90, 90] x [-180, 180].
func (ll LatLng) Validate() error {
	if math.IsNaN(ll.Lat) || math.IsNaN(ll.Lng) || math.IsInf(ll.Lat, 0) || math.IsInf(ll.Lng, 0) {
		return fmt.Errorf("%w: coordinates must be finite numbers", ErrValidation)
	}
	if ll.Lat < -90 || ll.Lat > 90 {
		return fmt.Errorf("%w: latitude %g out of range", ErrValidation, ll.Lat)
	}
	if ll.Lng < -180 || ll.Lng > 180 {
		return fmt.Errorf("%w: longitude %g out of range", ErrValidation, ll.Lng)
	}
	return nil
}

// Point returns the coordinate as an orb.Point in (lng, lat) order.
func (ll LatLng) Point() orb.Point {
	return orb.Point{ll.Lng, ll.Lat}
}

// Hemisphere selects the northing origin convention of a UTM zone.
type Hemisphere int

const (
	North Hemisphere = iota
	South
)

func (h Hemisphere) String() string {
	if h == South {
		return "S"
	}
	return "N"
}

// Zone identifies a UTM zone. Projected coordinates are only meaningful
// within the zone they were produced in.
type Zone struct {
	Number     int // 1..60
	Hemisphere Hemisphere
}

// Valid returns true if the zone number is in [1, 60].
func (z Zone) Valid() bool {
	return z.Number >= 1 && z.Number <= 60 && (z.Hemisphere == North || z.Hemisphere == South)
}

// EPSG returns the WGS84 / UTM EPSG code (326xx north, 327xx south).
func (z Zone) EPSG() int {
	if z.Hemisphere == South {
		return 32700 + z.Number
	}
	return 32600 + z.Number
}

func (z Zone) String() string {
	return fmt.Sprintf("%d%s", z.Number, z.Hemisphere)
}

// UTM is a projected coordinate in meters, tagged with its zone.
type UTM struct {
	Easting  float64
	Northing float64
	Zone     Zone
}

// Local is a planar coordinate in meters relative to a local origin.
// Its zone is the zone of the frame that produced it.
type Local struct {
	X float64
	Y float64
}

// Point returns the coordinate as an orb.Point in (x, y) order.
func (l Local) Point() orb.Point {
	return orb.Point{l.X, l.Y}
}

// ParseLatLng parses a "lat,lng" pair such as "47.0,8.0" and validates it.
func ParseLatLng(s string) (LatLng, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return LatLng{}, fmt.Errorf("%w: invalid coordinate %q (expected lat,lng)", ErrValidation, s)
	}
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, errLng := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLat != nil || errLng != nil {
		return LatLng{}, fmt.Errorf("%w: invalid coordinate %q (expected lat,lng)", ErrValidation, s)
	}
	ll := LatLng{Lat: lat, Lng: lng}
	if err := ll.Validate(); err != nil {
		return LatLng{}, err
	}
	return ll, nil
}
