package geo

import "math"

const earthRadiusMeters = 6_371_000.0

// Haversine returns the great-circle distance in meters between two points.
func Haversine(a, b LatLng) float64 {
	lat1r := a.Lat * math.Pi / 180
	lat2r := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}

// degToMeters converts degree-scaled equirectangular distances to meters.
const degToMeters = math.Pi / 180 * earthRadiusMeters

// PointToSegmentDist computes the distance in meters from p to segment ab,
// and returns the projection ratio along ab clamped to [0,1].
func PointToSegmentDist(p, a, b LatLng) (dist float64, ratio float64) {
	// Equirectangular projection is good enough for track-scale distances.
	cosLat := math.Cos((a.Lat + b.Lat) / 2 * math.Pi / 180)

	ax, ay := a.Lng*cosLat, a.Lat
	bx, by := b.Lng*cosLat, b.Lat
	px, py := p.Lng*cosLat, p.Lat

	// Compare the original coordinates; after the cosLat multiplication
	// identical points can differ by ~1e-15.
	if a == b {
		ex := px - ax
		ey := py - ay
		return math.Sqrt(ex*ex+ey*ey) * degToMeters, 0
	}

	dx := bx - ax
	dy := by - ay
	lenSq := dx*dx + dy*dy

	var t float64
	if lenSq > 0 {
		t = ((px-ax)*dx + (py-ay)*dy) / lenSq
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
	}

	ex := px - (ax + t*dx)
	ey := py - (ay + t*dy)
	return math.Sqrt(ex*ex+ey*ey) * degToMeters, t
}

// PointToPathDist returns the shortest distance in meters from p to the
// polyline through path. A single-point path degenerates to a point distance.
func PointToPathDist(p LatLng, path []LatLng) float64 {
	switch len(path) {
	case 0:
		return math.Inf(1)
	case 1:
		d, _ := PointToSegmentDist(p, path[0], path[0])
		return d
	}
	best := math.Inf(1)
	for i := 0; i < len(path)-1; i++ {
		if d, _ := PointToSegmentDist(p, path[i], path[i+1]); d < best {
			best = d
		}
	}
	return best
}
