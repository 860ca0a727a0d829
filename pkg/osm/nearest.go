package osm

import (
	"errors"
	"math"

	"github.com/tidwall/rtree"

	"github.com/alvinye9/global-racetrajectory-optimization/pkg/geo"
)

// ErrNoRaceway is returned when no raceway lies within the search radius.
var ErrNoRaceway = errors.New("no raceway near point")

const metersPerDegree = 111_320.0

// Match is a raceway selected by Nearest.
type Match struct {
	Index int     // index into the raceways passed to Nearest
	Dist  float64 // distance in meters from the query point to the centerline
}

// Nearest returns the raceway whose centerline passes closest to near,
// considering only raceways within radiusMeters.
func Nearest(raceways []Raceway, near geo.LatLng, radiusMeters float64) (Match, error) {
	var tr rtree.RTreeG[int]
	for i, r := range raceways {
		if len(r.Points) == 0 {
			continue
		}
		b := r.Bound()
		tr.Insert([2]float64(b.Min), [2]float64(b.Max), i)
	}

	// Search window around the point, widened in longitude by latitude.
	dLat := radiusMeters / metersPerDegree
	dLng := 180.0
	if c := math.Cos(near.Lat * math.Pi / 180); c > 1e-9 {
		dLng = math.Min(radiusMeters/(metersPerDegree*c), 180)
	}
	lo := [2]float64{near.Lng - dLng, near.Lat - dLat}
	hi := [2]float64{near.Lng + dLng, near.Lat + dLat}

	best := Match{Index: -1, Dist: math.Inf(1)}
	tr.Search(lo, hi, func(_, _ [2]float64, i int) bool {
		d := geo.PointToPathDist(near, raceways[i].Points)
		if d < best.Dist || (d == best.Dist && i < best.Index) {
			best = Match{Index: i, Dist: d}
		}
		return true
	})

	if best.Index < 0 || best.Dist > radiusMeters {
		return Match{}, ErrNoRaceway
	}
	return best, nil
}
