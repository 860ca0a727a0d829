// Package pipeline runs whole-trajectory conversions. A trajectory is
// projected into a single zone, resolved once from a reference point, so
// that its local coordinates stay continuous across zone boundaries.
package pipeline

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/alvinye9/global-racetrajectory-optimization/pkg/frame"
	"github.com/alvinye9/global-racetrajectory-optimization/pkg/geo"
	"github.com/alvinye9/global-racetrajectory-optimization/pkg/smooth"
	"github.com/alvinye9/global-racetrajectory-optimization/pkg/utm"
)

// LocalResult holds a trajectory converted to UTM and to the local frame.
// UTM and Local are index-aligned with the input.
type LocalResult struct {
	Zone   geo.Zone
	Origin geo.LatLng
	UTM    []geo.UTM
	Local  []geo.Local
}

// NewFrame builds the local frame anchored at ref, projecting into the zone
// that contains ref.
func NewFrame(ref geo.LatLng) (*frame.Frame, error) {
	tr, err := utm.ForReference(ref)
	if err != nil {
		return nil, err
	}
	return frame.New(tr, ref)
}

// ToLocal converts a geographic trajectory to UTM and local coordinates.
// The zone and the origin come from ref when it is non-nil, otherwise from
// the first point.
func ToLocal(points []geo.LatLng, ref *geo.LatLng) (*LocalResult, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("to local: %w", geo.ErrEmptyInput)
	}
	origin := points[0]
	if ref != nil {
		origin = *ref
	}

	tr, err := utm.ForReference(origin)
	if err != nil {
		return nil, fmt.Errorf("to local: %w", err)
	}
	f, err := frame.New(tr, origin)
	if err != nil {
		return nil, fmt.Errorf("to local: %w", err)
	}

	res := &LocalResult{
		Zone:   tr.Zone(),
		Origin: f.Origin(),
		UTM:    make([]geo.UTM, len(points)),
		Local:  make([]geo.Local, len(points)),
	}
	for i, p := range points {
		u, err := tr.Forward(p)
		if err != nil {
			return nil, fmt.Errorf("to local: point %d: %w", i, err)
		}
		res.UTM[i] = u
		res.Local[i] = f.FromUTM(u)
	}
	return res, nil
}

// ToLatLng converts local coordinates relative to ref back to geographic
// coordinates, in the zone containing ref.
func ToLatLng(local []geo.Local, ref geo.LatLng) ([]geo.LatLng, error) {
	if len(local) == 0 {
		return nil, fmt.Errorf("to lat/lng: %w", geo.ErrEmptyInput)
	}
	f, err := NewFrame(ref)
	if err != nil {
		return nil, fmt.Errorf("to lat/lng: %w", err)
	}

	out := make([]geo.LatLng, len(local))
	for i, l := range local {
		p, err := f.ToLatLng(l)
		if err != nil {
			return nil, fmt.Errorf("to lat/lng: point %d: %w", i, err)
		}
		out[i] = p
	}
	return out, nil
}

// Smooth smooths a geographic trajectory treating (lat, lng) as plain planar
// pairs, so cfg.MaxLateralDeviation is in degrees.
func Smooth(points []geo.LatLng, cfg smooth.Config) ([]geo.LatLng, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("smooth: %w", geo.ErrEmptyInput)
	}
	ls := make(orb.LineString, len(points))
	for i, p := range points {
		ls[i] = orb.Point{p.Lat, p.Lng}
	}

	out, err := smooth.Smooth(ls, cfg)
	if err != nil {
		return nil, fmt.Errorf("smooth: %w", err)
	}

	res := make([]geo.LatLng, len(out))
	for i, p := range out {
		res[i] = geo.LatLng{Lat: p[0], Lng: p[1]}
	}
	return res, nil
}

// SmoothLocal smooths a planar trajectory; cfg.MaxLateralDeviation is in
// meters.
func SmoothLocal(points []geo.Local, cfg smooth.Config) ([]geo.Local, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("smooth: %w", geo.ErrEmptyInput)
	}
	ls := make(orb.LineString, len(points))
	for i, p := range points {
		ls[i] = p.Point()
	}

	out, err := smooth.Smooth(ls, cfg)
	if err != nil {
		return nil, fmt.Errorf("smooth: %w", err)
	}

	res := make([]geo.Local, len(out))
	for i, p := range out {
		res[i] = geo.Local{X: p[0], Y: p[1]}
	}
	return res, nil
}
