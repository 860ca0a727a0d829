// Package frame expresses projected coordinates relative to a local origin,
// so trajectories become small planar offsets instead of large UTM values.
package frame

import (
	"fmt"

	"github.com/alvinye9/global-racetrajectory-optimization/pkg/geo"
)

// Projector converts between geographic and projected coordinates of a
// single fixed zone. *utm.Transformer implements it.
type Projector interface {
	Forward(p geo.LatLng) (geo.UTM, error)
	Inverse(p geo.UTM) (geo.LatLng, error)
}

// Frame is a local planar frame anchored at an origin. The zone of every
// local point is the zone of the frame's projector.
type Frame struct {
	proj      Projector
	origin    geo.LatLng
	originUTM geo.UTM
}

// New anchors a frame at origin. The origin is projected once and reused
// for every conversion.
func New(proj Projector, origin geo.LatLng) (*Frame, error) {
	o, err := proj.Forward(origin)
	if err != nil {
		return nil, fmt.Errorf("project origin: %w", err)
	}
	return &Frame{proj: proj, origin: origin, originUTM: o}, nil
}

// Origin returns the geographic origin of the frame.
func (f *Frame) Origin() geo.LatLng { return f.origin }

// OriginUTM returns the projected origin of the frame.
func (f *Frame) OriginUTM() geo.UTM { return f.originUTM }

// ToLocal returns p relative to the frame origin, in meters.
func (f *Frame) ToLocal(p geo.LatLng) (geo.Local, error) {
	u, err := f.proj.Forward(p)
	if err != nil {
		return geo.Local{}, err
	}
	return f.FromUTM(u), nil
}

// FromUTM translates an already projected point into the frame.
func (f *Frame) FromUTM(u geo.UTM) geo.Local {
	return geo.Local{
		X: u.Easting - f.originUTM.Easting,
		Y: u.Northing - f.originUTM.Northing,
	}
}

// ToUTM translates a local point back to projected coordinates.
func (f *Frame) ToUTM(l geo.Local) geo.UTM {
	return geo.UTM{
		Easting:  l.X + f.originUTM.Easting,
		Northing: l.Y + f.originUTM.Northing,
		Zone:     f.originUTM.Zone,
	}
}

// ToLatLng converts a local point back to geographic coordinates.
func (f *Frame) ToLatLng(l geo.Local) (geo.LatLng, error) {
	return f.proj.Inverse(f.ToUTM(l))
}
