package utm

import (
	"math"

	"github.com/alvinye9/global-racetrajectory-optimization/pkg/geo"
)

// ZoneOf returns the UTM zone number for a longitude in degrees.
// Longitudes outside [-180, 180] wrap around, so the result is always in
// [1, 60]. The Norway and Svalbard exceptions are not applied.
func ZoneOf(lng float64) int {
	m := math.Mod(lng+180, 360)
	if m < 0 {
		m += 360
	}
	zone := int(math.Floor(m/6)) + 1
	if zone > 60 {
		// m can round up to exactly 360 for tiny negative inputs.
		zone = 1
	}
	return zone
}

// HemisphereOf returns North for latitudes >= 0, South otherwise.
func HemisphereOf(lat float64) geo.Hemisphere {
	if lat >= 0 {
		return geo.North
	}
	return geo.South
}

// ResolveZone picks the zone and hemisphere of a reference point. A whole
// trajectory is projected in the zone of a single reference so that tracks
// straddling a zone boundary stay continuous.
func ResolveZone(ref geo.LatLng) geo.Zone {
	return geo.Zone{Number: ZoneOf(ref.Lng), Hemisphere: HemisphereOf(ref.Lat)}
}

// CentralMeridian returns the central meridian of a zone in degrees.
func CentralMeridian(zone int) float64 {
	return float64(zone)*6 - 183
}
