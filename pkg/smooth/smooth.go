// Package smooth fits a smoothing spline through a raceline and limits how
// far any point may move from where it was recorded.
package smooth

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/alvinye9/global-racetrajectory-optimization/pkg/geo"
)

// ErrFitting is returned when a smoothing curve cannot be fitted: too few
// points, non-finite coordinates or a degenerate fit.
var ErrFitting = errors.New("fitting error")

// Defaults are tuned for (lat, lng) input. The deviation is in input
// units; 5e-6 degrees is roughly half a meter at mid latitudes.
const (
	DefaultSmoothingFactor     = 0.5
	DefaultMaxLateralDeviation = 0.000005
)

// Config controls the smoother.
type Config struct {
	// SmoothingFactor bounds the total squared residual of the fit.
	// 0 interpolates the points exactly.
	SmoothingFactor float64
	// MaxLateralDeviation is the largest distance, in input units, any
	// output point may lie from its input point.
	MaxLateralDeviation float64
}

// DefaultConfig returns the default smoothing configuration.
func DefaultConfig() Config {
	return Config{
		SmoothingFactor:     DefaultSmoothingFactor,
		MaxLateralDeviation: DefaultMaxLateralDeviation,
	}
}

// Validate checks that both parameters are finite and non-negative.
func (c Config) Validate() error {
	if c.SmoothingFactor < 0 || !finite(c.SmoothingFactor) {
		return fmt.Errorf("%w: smoothing factor must be a finite value >= 0, got %g", geo.ErrValidation, c.SmoothingFactor)
	}
	if c.MaxLateralDeviation < 0 || !finite(c.MaxLateralDeviation) {
		return fmt.Errorf("%w: max lateral deviation must be a finite value >= 0, got %g", geo.ErrValidation, c.MaxLateralDeviation)
	}
	return nil
}

// Smooth returns a smoothed copy of original. Every output point lies within
// cfg.MaxLateralDeviation of the input point with the same index; the input
// is not modified.
func Smooth(original orb.LineString, cfg Config) (orb.LineString, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sp, err := Fit(original, cfg.SmoothingFactor)
	if err != nil {
		return nil, err
	}

	n := len(original)
	out := make(orb.LineString, n)
	for i := range original {
		candidate := sp.At(float64(i) / float64(n-1))
		out[i] = Clamp(original[i], candidate, cfg.MaxLateralDeviation)
	}
	return out, nil
}

// Clamp limits candidate to a circle of radius limit around orig, keeping its
// direction from orig.
func Clamp(orig, candidate orb.Point, limit float64) orb.Point {
	d := planar.Distance(orig, candidate)
	if d <= limit {
		return candidate
	}
	scale := limit / d
	return orb.Point{
		orig[0] + (candidate[0]-orig[0])*scale,
		orig[1] + (candidate[1]-orig[1])*scale,
	}
}

// MaxDeviation returns the largest point-wise distance between two
// sequences of equal length, and the index where it occurs.
func MaxDeviation(a, b orb.LineString) (float64, int) {
	best, at := 0.0, -1
	for i := 0; i < len(a) && i < len(b); i++ {
		if d := planar.Distance(a[i], b[i]); d > best || at < 0 {
			best, at = d, i
		}
	}
	return best, at
}
