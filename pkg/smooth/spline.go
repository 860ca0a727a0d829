package smooth

import (
	"fmt"
	"math"
	"sort"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/mat"

	"github.com/alvinye9/global-racetrajectory-optimization/pkg/geo"
)

// MinPoints is the smallest trajectory a smoothing spline can be fitted to.
const MinPoints = 4

// Bounds of the penalty search, as log10(lambda). Knots live on [0, 1], so
// the useful range scales with the point count; these bounds cover tracks
// from 4 to several hundred thousand points.
const (
	minLogLambda = -30.0
	maxLogLambda = 20.0
)

// residualTol is the relative gap to s at which the penalty search stops.
const residualTol = 1e-6

// Spline is a parametric natural cubic smoothing spline through an ordered
// point sequence. Both coordinates share the knots and the penalty.
type Spline struct {
	knots    []float64
	values   [2][]float64 // fitted value at each knot
	second   [2][]float64 // second derivative at each knot, zero at both ends
	lambda   float64
	residual float64
}

// Fit fits a parametric cubic smoothing spline through points, parameterized
// uniformly by index. s bounds the total squared residual: the result is the
// smoothest spline with sum |g(t_i) - p_i|^2 <= s. s = 0 interpolates.
func Fit(points orb.LineString, s float64) (*Spline, error) {
	n := len(points)
	if n < MinPoints {
		return nil, fmt.Errorf("%w: need at least %d points, got %d", ErrFitting, MinPoints, n)
	}
	if s < 0 || math.IsNaN(s) || math.IsInf(s, 0) {
		return nil, fmt.Errorf("%w: smoothing factor must be a finite value >= 0, got %g", geo.ErrValidation, s)
	}
	for i, p := range points {
		if !finite(p[0]) || !finite(p[1]) {
			return nil, fmt.Errorf("%w: point %d is not finite", ErrFitting, i)
		}
	}

	sys := newSystem(uniformKnots(n), points)

	lambda := 0.0
	if s > 0 {
		var err error
		lambda, err = sys.searchLambda(s)
		if err != nil {
			return nil, err
		}
	}

	sp, err := sys.solve(lambda)
	if err != nil {
		return nil, err
	}
	for d := 0; d < 2; d++ {
		for i := range sp.values[d] {
			if !finite(sp.values[d][i]) || !finite(sp.second[d][i]) {
				return nil, fmt.Errorf("%w: non-finite fit result", ErrFitting)
			}
		}
	}
	return sp, nil
}

// uniformKnots returns n parameters evenly spaced on [0, 1]. Spacing
// between the points themselves is ignored, so uneven sampling biases the
// fit towards densely sampled stretches.
func uniformKnots(n int) []float64 {
	knots := make([]float64, n)
	for i := range knots {
		knots[i] = float64(i) / float64(n-1)
	}
	return knots
}

// Len returns the number of knots.
func (sp *Spline) Len() int { return len(sp.knots) }

// Lambda returns the roughness penalty the fit settled on.
func (sp *Spline) Lambda() float64 { return sp.lambda }

// Residual returns the total squared distance between the fitted values at
// the knots and the input points.
func (sp *Spline) Residual() float64 { return sp.residual }

// At evaluates the spline at parameter t in [0, 1]. Values outside the
// range are clamped to the ends.
func (sp *Spline) At(t float64) orb.Point {
	n := len(sp.knots)
	if t <= sp.knots[0] {
		return orb.Point{sp.values[0][0], sp.values[1][0]}
	}
	if t >= sp.knots[n-1] {
		return orb.Point{sp.values[0][n-1], sp.values[1][n-1]}
	}

	// First knot >= t; after the decrement t lies in (knots[j], knots[j+1]).
	j := sort.SearchFloat64s(sp.knots, t)
	if j < n && sp.knots[j] == t {
		return orb.Point{sp.values[0][j], sp.values[1][j]}
	}
	j--

	t0, t1 := sp.knots[j], sp.knots[j+1]
	h := t1 - t0
	dl, dr := t-t0, t1-t

	var out orb.Point
	for d := 0; d < 2; d++ {
		g0, g1 := sp.values[d][j], sp.values[d][j+1]
		s0, s1 := sp.second[d][j], sp.second[d][j+1]
		out[d] = (dl*g1+dr*g0)/h - dl*dr/6*((1+dl/h)*s1+(1+dr/h)*s0)
	}
	return out
}

// system holds the banded matrices of the Reinsch formulation
//
//	(R + lambda Q'Q) gamma = Q'y,   g = y - lambda Q gamma
//
// where gamma are the second derivatives at the interior knots. The band
// matrix, its factorization and the solutions are reused across penalties.
type system struct {
	knots []float64
	y     [2][]float64
	qa    []float64 // Q column j has qa[j], qb[j], qc[j] at rows j, j+1, j+2
	qb    []float64
	qc    []float64
	rDiag []float64
	rOff  []float64
	qty   [2]*mat.VecDense
	qtq   [3][]float64 // diagonals 0, 1, 2 of Q'Q

	a     *mat.SymBandDense
	chol  mat.BandCholesky
	gamma [2]mat.VecDense
}

func newSystem(knots []float64, points orb.LineString) *system {
	n := len(knots)
	m := n - 2

	sys := &system{
		knots: knots,
		qa:    make([]float64, m),
		qb:    make([]float64, m),
		qc:    make([]float64, m),
		rDiag: make([]float64, m),
		rOff:  make([]float64, m),
		a:     mat.NewSymBandDense(m, min(2, m-1), nil),
	}
	for d := 0; d < 2; d++ {
		sys.y[d] = make([]float64, n)
		for i, p := range points {
			sys.y[d][i] = p[d]
		}
	}

	for j := 0; j < m; j++ {
		h0 := knots[j+1] - knots[j]
		h1 := knots[j+2] - knots[j+1]
		sys.qa[j] = 1 / h0
		sys.qb[j] = -1/h0 - 1/h1
		sys.qc[j] = 1 / h1
		sys.rDiag[j] = (h0 + h1) / 3
		sys.rOff[j] = h1 / 6
	}

	for k := range sys.qtq {
		sys.qtq[k] = make([]float64, m)
	}
	for j := 0; j < m; j++ {
		sys.qtq[0][j] = sys.qa[j]*sys.qa[j] + sys.qb[j]*sys.qb[j] + sys.qc[j]*sys.qc[j]
		if j+1 < m {
			sys.qtq[1][j] = sys.qb[j]*sys.qa[j+1] + sys.qc[j]*sys.qb[j+1]
		}
		if j+2 < m {
			sys.qtq[2][j] = sys.qc[j] * sys.qa[j+2]
		}
	}

	for d := 0; d < 2; d++ {
		qty := make([]float64, m)
		y := sys.y[d]
		for j := 0; j < m; j++ {
			qty[j] = sys.qa[j]*y[j] + sys.qb[j]*y[j+1] + sys.qc[j]*y[j+2]
		}
		sys.qty[d] = mat.NewVecDense(m, qty)
	}
	return sys
}

// factor solves the system for both coordinates at a fixed penalty,
// leaving the second derivatives in sys.gamma.
func (sys *system) factor(lambda float64) error {
	m, k := sys.a.SymBand()
	for j := 0; j < m; j++ {
		sys.a.SetSymBand(j, j, sys.rDiag[j]+lambda*sys.qtq[0][j])
		if j+1 < m {
			sys.a.SetSymBand(j, j+1, sys.rOff[j]+lambda*sys.qtq[1][j])
		}
		if j+2 < m && k >= 2 {
			sys.a.SetSymBand(j, j+2, lambda*sys.qtq[2][j])
		}
	}

	if ok := sys.chol.Factorize(sys.a); !ok {
		return fmt.Errorf("%w: spline system is not positive definite (lambda=%g)", ErrFitting, lambda)
	}
	for d := 0; d < 2; d++ {
		if err := sys.chol.SolveVecTo(&sys.gamma[d], sys.qty[d]); err != nil {
			return fmt.Errorf("%w: solve spline system: %v", ErrFitting, err)
		}
	}
	return nil
}

// residual returns the total squared residual of the fit at lambda without
// building the spline.
func (sys *system) residual(lambda float64) (float64, error) {
	if err := sys.factor(lambda); err != nil {
		return 0, err
	}
	var sum float64
	for d := 0; d < 2; d++ {
		gamma := sys.gamma[d].RawVector().Data
		for i := range sys.knots {
			r := lambda * sys.qGamma(gamma, i)
			sum += r * r
		}
	}
	return sum, nil
}

// solve fits the spline for a fixed penalty.
func (sys *system) solve(lambda float64) (*Spline, error) {
	if err := sys.factor(lambda); err != nil {
		return nil, err
	}

	n := len(sys.knots)
	sp := &Spline{knots: sys.knots, lambda: lambda}
	for d := 0; d < 2; d++ {
		gamma := sys.gamma[d].RawVector().Data

		second := make([]float64, n)
		copy(second[1:n-1], gamma)

		values := make([]float64, n)
		copy(values, sys.y[d])
		if lambda > 0 {
			for i := 0; i < n; i++ {
				r := lambda * sys.qGamma(gamma, i)
				values[i] -= r
				sp.residual += r * r
			}
		}

		sp.values[d] = values
		sp.second[d] = second
	}
	return sp, nil
}

// qGamma returns row i of Q times gamma.
func (sys *system) qGamma(gamma []float64, i int) float64 {
	m := len(sys.qa)
	var v float64
	if i < m {
		v += sys.qa[i] * gamma[i]
	}
	if i-1 >= 0 && i-1 < m {
		v += sys.qb[i-1] * gamma[i-1]
	}
	if i-2 >= 0 && i-2 < m {
		v += sys.qc[i-2] * gamma[i-2]
	}
	return v
}

// searchLambda finds the largest penalty whose residual does not exceed s.
// The residual grows monotonically with lambda, from 0 (interpolation) to
// the residual of the least-squares straight line. The search stops once
// the residual is within residualTol of s.
func (sys *system) searchLambda(s float64) (float64, error) {
	residualAt := func(logLambda float64) (float64, error) {
		return sys.residual(math.Pow(10, logLambda))
	}

	hiRes, err := residualAt(maxLogLambda)
	if err != nil {
		return 0, err
	}
	if hiRes <= s {
		return math.Pow(10, maxLogLambda), nil
	}
	loRes, err := residualAt(minLogLambda)
	if err != nil {
		return 0, err
	}
	if loRes > s {
		return 0, nil
	}

	lo, hi := minLogLambda, maxLogLambda
	for i := 0; i < 200 && hi-lo > 1e-9; i++ {
		mid := (lo + hi) / 2
		r, err := residualAt(mid)
		if err != nil {
			return 0, err
		}
		if r > s {
			hi = mid
			continue
		}
		lo = mid
		if s-r <= residualTol*s {
			break
		}
	}
	return math.Pow(10, lo), nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
