package fit

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnkushinDaniil/lambertdecay/entity/mode"
	"github.com/AnkushinDaniil/lambertdecay/entity/parameters"
	"github.com/AnkushinDaniil/lambertdecay/model"
)

// Fitted lifetime of the reference erbium curve (r=0.5, n20=0.2). The
// closed form bounds it between b*tau*(1-a*n20/b) = 10.15 ms and
// b*tau = 10.27 ms.
const (
	referenceLifetime  = 10.211456
	referenceTolerance = 1e-4

	lifetimeLower = 10.15
	lifetimeUpper = 10.27
)

func TestExponentialRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		tau  float64
		want Result
	}{
		{"slow with offset", 10, Result{Amplitude: 2, Lifetime: 7, Offset: 0.3}},
		{"small amplitude", 10, Result{Amplitude: 0.05, Lifetime: 3, Offset: 0.001}},
		{"negative offset", 5, Result{Amplitude: 1, Lifetime: 12, Offset: -0.2}},
		{"guess equals truth", 4, Result{Amplitude: 1, Lifetime: 4, Offset: 0}},
	}

	grid := model.Linspace(0, 50, 200)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			y := Model(grid, tt.want)
			got, err := Exponential(context.Background(), grid, y, tt.tau)
			require.NoError(t, err)
			assert.InEpsilon(t, tt.want.Amplitude, got.Amplitude, 0.01)
			assert.InEpsilon(t, tt.want.Lifetime, got.Lifetime, 0.01)
			assert.InDelta(t, tt.want.Offset, got.Offset, 0.01*math.Abs(tt.want.Amplitude))
		})
	}
}

func TestExponentialReferenceCurve(t *testing.T) {
	p := parameters.Parameters{
		Regime:  mode.General,
		Tau:     10,
		Sigma12: 4.1,
		Sigma21: 5.0,
		N:       1,
		Rho:     0.217,
		D:       0.0245,
		R:       0.5,
		N20:     0.2,
	}
	grid := model.Linspace(0, 100, 100)
	curve, err := model.General(grid, p)
	require.NoError(t, err)

	got, err := Exponential(context.Background(), grid, curve, p.Tau)
	require.NoError(t, err)
	assert.InDelta(t, referenceLifetime, got.Lifetime, referenceTolerance)
	assert.Greater(t, got.Lifetime, lifetimeLower)
	assert.Less(t, got.Lifetime, lifetimeUpper)
	assert.InDelta(t, 0.2, got.Amplitude+got.Offset, 2e-3)
	assert.InDelta(t, 0, got.Offset, 1e-3)
}

func TestExponentialNotConverged(t *testing.T) {
	grid := model.Linspace(0, 50, 200)
	y := Model(grid, Result{Amplitude: 2, Lifetime: 7, Offset: 0.3})

	_, err := Exponential(context.Background(), grid, y, 30, WithMaxIterations(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotConverged)

	var cErr *ConvergenceError
	require.True(t, errors.As(err, &cErr))
	assert.Equal(t, 1, cErr.Iterations)
	assert.Greater(t, cErr.Last.Lifetime, 0.0)
	assert.Greater(t, cErr.SSE, 0.0)
}

func TestExponentialPerturbedGuess(t *testing.T) {
	grid := model.Linspace(0, 50, 200)
	want := Result{Amplitude: 2, Lifetime: 7, Offset: 0.3}
	y := Model(grid, want)

	got, err := Exponential(context.Background(), grid, y, 10, WithGuess(Result{Amplitude: 1, Lifetime: 3, Offset: 0.1}))
	require.NoError(t, err)
	assert.InEpsilon(t, want.Lifetime, got.Lifetime, 0.01)
}

func TestExponentialCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	grid := model.Linspace(0, 10, 20)
	_, err := Exponential(ctx, grid, Model(grid, Result{Amplitude: 1, Lifetime: 2}), 5)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExponentialBadInput(t *testing.T) {
	ctx := context.Background()

	_, err := Exponential(ctx, []float64{0, 1, 2}, []float64{1, 0.5}, 1)
	assert.ErrorIs(t, err, ErrBadInput)

	_, err = Exponential(ctx, []float64{0, 1}, []float64{1, 0.5}, 1)
	assert.ErrorIs(t, err, ErrBadInput)

	_, err = Exponential(ctx, []float64{0, 1, 2}, []float64{1, 0.5, 0.25}, 0)
	assert.ErrorIs(t, err, ErrBadInput)

	_, err = Exponential(ctx, []float64{0, 1, 2}, []float64{1, math.NaN(), 0.25}, 1)
	assert.ErrorIs(t, err, ErrBadInput)

	_, err = Exponential(ctx, []float64{0, 1, 2}, []float64{1, 0.5, 0.25}, 1, WithGuess(Result{Amplitude: 1, Lifetime: -1}))
	assert.ErrorIs(t, err, ErrBadInput)
}

func TestInitialGuess(t *testing.T) {
	g := InitialGuess([]float64{0.2, 0.1, 0.05}, 10)
	assert.InDelta(t, 0.15, g.Amplitude, 1e-15)
	assert.Equal(t, 10.0, g.Lifetime)
	assert.Zero(t, g.Offset)
}
