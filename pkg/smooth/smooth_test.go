package smooth

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alvinye9/global-racetrajectory-optimization/pkg/geo"
)

// scenario is a short (lat, lon) track used across the smoother tests.
var scenario = orb.LineString{
	{47.0, 8.0},
	{47.001, 8.001},
	{47.002, 8.0005},
	{47.0015, 8.002},
}

// noisyOval samples an ellipse with jitter, roughly the shape of a small
// circuit in local meters.
func noisyOval(n int, jitter float64, seed uint64) orb.LineString {
	r := rand.New(rand.NewPCG(seed, seed+1))
	ls := make(orb.LineString, n)
	for i := range ls {
		a := 2 * math.Pi * float64(i) / float64(n)
		ls[i] = orb.Point{
			300*math.Cos(a) + jitter*(r.Float64()-0.5),
			120*math.Sin(a) + jitter*(r.Float64()-0.5),
		}
	}
	return ls
}

func TestSmoothInterpolatesWithZeroFactor(t *testing.T) {
	got, err := Smooth(scenario, Config{SmoothingFactor: 0, MaxLateralDeviation: DefaultMaxLateralDeviation})
	require.NoError(t, err)
	require.Len(t, got, len(scenario))

	for i := range scenario {
		assert.Equal(t, scenario[i], got[i], "point %d", i)
		assert.Zero(t, planar.Distance(scenario[i], got[i]))
	}
}

func TestSmoothZeroDeviationIsIdentity(t *testing.T) {
	in := noisyOval(50, 5, 7)
	got, err := Smooth(in, Config{SmoothingFactor: 1e4, MaxLateralDeviation: 0})
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestSmoothDeviationBound(t *testing.T) {
	configs := []Config{
		{SmoothingFactor: 0, MaxLateralDeviation: 0.1},
		{SmoothingFactor: 10, MaxLateralDeviation: 0.5},
		{SmoothingFactor: 500, MaxLateralDeviation: 0.5},
		{SmoothingFactor: 1e9, MaxLateralDeviation: 2},
		{SmoothingFactor: 1e9, MaxLateralDeviation: 1e-9},
	}

	for seed := uint64(1); seed <= 5; seed++ {
		in := noisyOval(20+int(seed)*17, 4, seed)
		for _, cfg := range configs {
			got, err := Smooth(in, cfg)
			require.NoError(t, err)
			require.Len(t, got, len(in))

			for i := range in {
				d := planar.Distance(in[i], got[i])
				assert.LessOrEqual(t, d, cfg.MaxLateralDeviation+1e-9, "seed %d cfg %+v point %d", seed, cfg, i)
			}
		}
	}
}

func TestSmoothDefaultsOnGeographicTrack(t *testing.T) {
	got, err := Smooth(scenario, DefaultConfig())
	require.NoError(t, err)

	dev, _ := MaxDeviation(scenario, got)
	assert.LessOrEqual(t, dev, DefaultMaxLateralDeviation+1e-12)
	// The default factor is enormous relative to degree-sized residuals, so
	// every point moves all the way to the deviation limit.
	assert.InDelta(t, DefaultMaxLateralDeviation, dev, 1e-12)
}

func TestSmoothReducesRoughness(t *testing.T) {
	in := noisyOval(200, 6, 42)
	got, err := Smooth(in, Config{SmoothingFactor: 200 * 3, MaxLateralDeviation: 10})
	require.NoError(t, err)

	assert.Less(t, roughness(got), roughness(in)/2)
}

// roughness sums squared second differences.
func roughness(ls orb.LineString) float64 {
	var sum float64
	for i := 1; i < len(ls)-1; i++ {
		for d := 0; d < 2; d++ {
			dd := ls[i-1][d] - 2*ls[i][d] + ls[i+1][d]
			sum += dd * dd
		}
	}
	return sum
}

func TestSmoothDoesNotModifyInput(t *testing.T) {
	in := noisyOval(30, 3, 3)
	orig := append(orb.LineString(nil), in...)

	_, err := Smooth(in, Config{SmoothingFactor: 50, MaxLateralDeviation: 1})
	require.NoError(t, err)
	assert.Equal(t, orig, in)
}

func TestSmoothErrors(t *testing.T) {
	tests := []struct {
		name    string
		in      orb.LineString
		cfg     Config
		wantErr error
	}{
		{name: "three points", in: scenario[:3], cfg: DefaultConfig(), wantErr: ErrFitting},
		{name: "empty", in: nil, cfg: DefaultConfig(), wantErr: ErrFitting},
		{name: "NaN coordinate", in: orb.LineString{{0, 0}, {1, math.NaN()}, {2, 0}, {3, 0}}, cfg: DefaultConfig(), wantErr: ErrFitting},
		{name: "negative factor", in: scenario, cfg: Config{SmoothingFactor: -1, MaxLateralDeviation: 1}, wantErr: geo.ErrValidation},
		{name: "negative deviation", in: scenario, cfg: Config{SmoothingFactor: 1, MaxLateralDeviation: -1}, wantErr: geo.ErrValidation},
		{name: "infinite deviation", in: scenario, cfg: Config{SmoothingFactor: 1, MaxLateralDeviation: math.Inf(1)}, wantErr: geo.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Smooth(tt.in, tt.cfg)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSmoothToleratesDuplicates(t *testing.T) {
	in := orb.LineString{{0, 0}, {0, 0}, {1, 1}, {1, 1}, {2, 0}, {3, 1}, {3, 1}}
	got, err := Smooth(in, Config{SmoothingFactor: 0.1, MaxLateralDeviation: 0.2})
	require.NoError(t, err)
	require.Len(t, got, len(in))

	dev, _ := MaxDeviation(in, got)
	assert.LessOrEqual(t, dev, 0.2+1e-12)
}

func TestClamp(t *testing.T) {
	orig := orb.Point{1, 1}

	assert.Equal(t, orb.Point{1.5, 1}, Clamp(orig, orb.Point{1.5, 1}, 1), "inside the circle")
	assert.Equal(t, orig, Clamp(orig, orig, 0), "zero displacement")

	got := Clamp(orig, orb.Point{4, 5}, 2) // 3-4-5 triangle
	if diff := cmp.Diff(orb.Point{1 + 1.2, 1 + 1.6}, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("Clamp mismatch (-want +got):\n%s", diff)
	}
}

func TestMaxDeviation(t *testing.T) {
	a := orb.LineString{{0, 0}, {1, 0}, {2, 0}}
	b := orb.LineString{{0, 0}, {1, 3}, {2, 1}}

	d, i := MaxDeviation(a, b)
	assert.Equal(t, 3.0, d)
	assert.Equal(t, 1, i)

	d, i = MaxDeviation(nil, nil)
	assert.Zero(t, d)
	assert.Equal(t, -1, i)
}

func BenchmarkSmooth(b *testing.B) {
	in := noisyOval(1000, 4, 1)
	cfg := Config{SmoothingFactor: 1000, MaxLateralDeviation: 1}
	for b.Loop() {
		Smooth(in, cfg)
	}
}
