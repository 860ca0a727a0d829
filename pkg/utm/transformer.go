// Package utm resolves UTM zones and projects WGS84 coordinates into a
// fixed zone and back.
package utm

import (
	"fmt"
	"math"

	"github.com/golang/geo/s2"
	"github.com/tzneal/coordconv"

	"github.com/alvinye9/global-racetrajectory-optimization/pkg/geo"
)

// UTM grid constants.
const (
	falseEasting       = 500_000.0
	falseNorthingSouth = 10_000_000.0
)

// Transformer converts between WGS84 geographic coordinates and UTM grid
// coordinates of one fixed zone. It is immutable and safe for concurrent use.
type Transformer struct {
	zone geo.Zone
}

// NewTransformer returns a transformer for the given zone.
func NewTransformer(z geo.Zone) (*Transformer, error) {
	if !z.Valid() {
		return nil, fmt.Errorf("%w: invalid UTM zone %d%s", geo.ErrValidation, z.Number, z.Hemisphere)
	}
	return &Transformer{zone: z}, nil
}

// ForReference returns a transformer for the zone containing ref.
func ForReference(ref geo.LatLng) (*Transformer, error) {
	if err := ref.Validate(); err != nil {
		return nil, fmt.Errorf("reference point: %w", err)
	}
	return NewTransformer(ResolveZone(ref))
}

// Zone returns the zone this transformer projects into.
func (t *Transformer) Zone() geo.Zone {
	return t.zone
}

// Forward projects a geographic coordinate into the transformer's zone.
// Points outside the zone's nominal band are projected into the same zone
// rather than re-zoned, as long as they lie in a neighboring zone. The
// northing always uses the transformer's hemisphere, so a northern-zone
// trajectory dipping below the equator gets negative northings.
func (t *Transformer) Forward(p geo.LatLng) (geo.UTM, error) {
	if err := p.Validate(); err != nil {
		return geo.UTM{}, err
	}

	c, err := coordconv.DefaultUTMConverter.ConvertFromGeodetic(s2.LatLngFromDegrees(p.Lat, p.Lng), t.zone.Number)
	if err != nil {
		return geo.UTM{}, fmt.Errorf("%w: (%g, %g) is outside the projection domain of zone %s: %w",
			geo.ErrValidation, p.Lat, p.Lng, t.zone, err)
	}

	out := geo.UTM{Easting: c.Easting, Northing: c.Northing, Zone: t.zone}
	switch {
	case c.Hemisphere == coordconv.HemisphereSouth && t.zone.Hemisphere == geo.North:
		out.Northing -= falseNorthingSouth
	case c.Hemisphere == coordconv.HemisphereNorth && t.zone.Hemisphere == geo.South:
		out.Northing += falseNorthingSouth
	}
	return out, nil
}

// Inverse converts a UTM coordinate of the transformer's zone back to
// geographic coordinates.
func (t *Transformer) Inverse(p geo.UTM) (geo.LatLng, error) {
	if p.Zone != t.zone {
		return geo.LatLng{}, fmt.Errorf("%w: point in zone %s passed to transformer for zone %s",
			geo.ErrValidation, p.Zone, t.zone)
	}
	if !finite(p.Easting) || !finite(p.Northing) {
		return geo.LatLng{}, fmt.Errorf("%w: easting/northing must be finite numbers", geo.ErrValidation)
	}

	// The grid only accepts northings in [0, 1e7]; points across the
	// equator from the zone's hemisphere are handed over to the other one.
	c := coordconv.UTMCoord{Easting: p.Easting, Northing: p.Northing, Zone: t.zone.Number}
	switch {
	case t.zone.Hemisphere == geo.North && p.Northing < 0:
		c.Hemisphere = coordconv.HemisphereSouth
		c.Northing += falseNorthingSouth
	case t.zone.Hemisphere == geo.North:
		c.Hemisphere = coordconv.HemisphereNorth
	case p.Northing > falseNorthingSouth:
		c.Hemisphere = coordconv.HemisphereNorth
		c.Northing -= falseNorthingSouth
	default:
		c.Hemisphere = coordconv.HemisphereSouth
	}

	ll, err := coordconv.DefaultUTMConverter.ConvertToGeodetic(c)
	if err != nil {
		return geo.LatLng{}, fmt.Errorf("%w: (%g, %g) is outside zone %s: %w",
			geo.ErrValidation, p.Easting, p.Northing, t.zone, err)
	}
	out := geo.LatLng{Lat: ll.Lat.Degrees(), Lng: ll.Lng.Degrees()}
	if err := out.Validate(); err != nil {
		return geo.LatLng{}, err
	}
	return out, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
