// Package fit reduces a decay curve to the mono-exponential
//
//	y(t) = Amplitude*exp(-t/Lifetime) + Offset
//
// by Levenberg-Marquardt least squares.
package fit

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	DefaultMaxIterations = 200
	DefaultTolerance     = 1e-12

	initialDamping = 1e-3
	maxDamping     = 1e16
)

var (
	// ErrNotConverged is matched by every *ConvergenceError.
	ErrNotConverged = errors.New("fit did not converge")
	ErrBadInput     = errors.New("invalid fit input")
)

// Result holds the fitted mono-exponential parameters. Lifetime has the
// time unit of the grid it was fitted on.
type Result struct {
	Amplitude float64
	Lifetime  float64
	Offset    float64
}

// At evaluates the mono-exponential at t.
func (r Result) At(t float64) float64 {
	return r.Amplitude*math.Exp(-t/r.Lifetime) + r.Offset
}

// Model evaluates r over every sample of t.
func Model(t []float64, r Result) []float64 {
	y := make([]float64, len(t))
	for i, ti := range t {
		y[i] = r.At(ti)
	}
	return y
}

// ConvergenceError carries the last iterate of a fit that ran out of
// iterations or damping.
type ConvergenceError struct {
	Iterations int
	Last       Result
	SSE        float64
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%v after %d iterations: last A=%g L=%g C=%g, sse=%g",
		ErrNotConverged, e.Iterations, e.Last.Amplitude, e.Last.Lifetime, e.Last.Offset, e.SSE)
}

func (e *ConvergenceError) Unwrap() error {
	return ErrNotConverged
}

type options struct {
	maxIterations int
	tolerance     float64
	guess         *Result
}

type Option func(*options)

func WithMaxIterations(n int) Option {
	return func(o *options) { o.maxIterations = n }
}

// WithTolerance sets the relative change of the sum of squared residuals
// and of every parameter below which the fit is considered converged.
func WithTolerance(tol float64) Option {
	return func(o *options) { o.tolerance = tol }
}

// WithGuess replaces the physical initial guess, e.g. to retry a failed
// fit from a perturbed starting point.
func WithGuess(g Result) Option {
	return func(o *options) { o.guess = &g }
}

// InitialGuess is the physically motivated starting point: the curve span
// bounds the amplitude and the radiative lifetime tau is the lifetime prior.
func InitialGuess(y []float64, tau float64) Result {
	return Result{
		Amplitude: floats.Max(y) - floats.Min(y),
		Lifetime:  tau,
		Offset:    0,
	}
}

// Exponential fits y(t) with the guess (max(y)-min(y), tau, 0).
func Exponential(ctx context.Context, t, y []float64, tau float64, opts ...Option) (Result, error) {
	o := options{maxIterations: DefaultMaxIterations, tolerance: DefaultTolerance}
	for _, opt := range opts {
		opt(&o)
	}
	if len(t) != len(y) {
		return Result{}, fmt.Errorf("%w: %d times, %d values", ErrBadInput, len(t), len(y))
	}
	if len(t) < 3 {
		return Result{}, fmt.Errorf("%w: need at least 3 samples, got %d", ErrBadInput, len(t))
	}
	if !(tau > 0) {
		return Result{}, fmt.Errorf("%w: tau must be positive, got %g", ErrBadInput, tau)
	}
	for i := range y {
		if math.IsNaN(y[i]) || math.IsInf(y[i], 0) || math.IsNaN(t[i]) || math.IsInf(t[i], 0) {
			return Result{}, fmt.Errorf("%w: non-finite sample %d", ErrBadInput, i)
		}
	}

	guess := InitialGuess(y, tau)
	if o.guess != nil {
		guess = *o.guess
	}
	s := newSolver(t, y)
	return s.run(ctx, guess, o)
}

type solver struct {
	t, y []float64

	jac   *mat.Dense
	res   *mat.VecDense
	jtj   *mat.SymDense
	jtr   *mat.VecDense
	aug   *mat.Dense
	step  *mat.VecDense
	trial []float64
}

func newSolver(t, y []float64) *solver {
	n := len(t)
	return &solver{
		t:     t,
		y:     y,
		jac:   mat.NewDense(n, 3, nil),
		res:   mat.NewVecDense(n, nil),
		jtj:   mat.NewSymDense(3, nil),
		jtr:   mat.NewVecDense(3, nil),
		aug:   mat.NewDense(3, 3, nil),
		step:  mat.NewVecDense(3, nil),
		trial: make([]float64, 3),
	}
}

func (s *solver) run(ctx context.Context, guess Result, o options) (Result, error) {
	p := []float64{guess.Amplitude, guess.Lifetime, guess.Offset}
	if !(p[1] > 0) {
		return Result{}, fmt.Errorf("%w: initial lifetime must be positive, got %g", ErrBadInput, p[1])
	}
	sse := s.sse(p)
	lambda := initialDamping

	for iter := 1; iter <= o.maxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return toResult(p), fmt.Errorf("fit interrupted after %d iterations: %w", iter-1, err)
		}
		if sse == 0 {
			return toResult(p), nil
		}
		s.linearize(p)

		accepted := false
		for !accepted && lambda <= maxDamping {
			if !s.solveStep(lambda) {
				lambda *= 10
				continue
			}
			for k := range s.trial {
				s.trial[k] = p[k] + s.step.AtVec(k)
			}
			if !(s.trial[1] > 0) {
				lambda *= 10
				continue
			}
			trialSSE := s.sse(s.trial)
			if !(trialSSE <= sse) {
				lambda *= 10
				continue
			}
			accepted = true
			converged := sse-trialSSE <= o.tolerance*sse && s.smallStep(p, o.tolerance)
			copy(p, s.trial)
			sse = trialSSE
			lambda = math.Max(lambda/10, 1e-12)
			if converged || sse == 0 {
				return toResult(p), nil
			}
		}
		if !accepted {
			return toResult(p), &ConvergenceError{Iterations: iter, Last: toResult(p), SSE: sse}
		}
	}
	return toResult(p), &ConvergenceError{Iterations: o.maxIterations, Last: toResult(p), SSE: sse}
}

// linearize fills the Jacobian, residuals, J^T J and J^T r at p.
func (s *solver) linearize(p []float64) {
	a, l, c := p[0], p[1], p[2]
	for i, ti := range s.t {
		e := math.Exp(-ti / l)
		s.jac.Set(i, 0, e)
		s.jac.Set(i, 1, a*e*ti/(l*l))
		s.jac.Set(i, 2, 1)
		s.res.SetVec(i, s.y[i]-(a*e+c))
	}
	s.jtj.SymOuterK(1, s.jac.T())
	s.jtr.MulVec(s.jac.T(), s.res)
}

// solveStep solves (J^T J + lambda*diag(J^T J)) step = J^T r.
func (s *solver) solveStep(lambda float64) bool {
	s.aug.Copy(s.jtj)
	for k := 0; k < 3; k++ {
		d := math.Max(s.jtj.At(k, k), 1e-12)
		s.aug.Set(k, k, s.jtj.At(k, k)+lambda*d)
	}
	if err := s.step.SolveVec(s.aug, s.jtr); err != nil {
		return false
	}
	for k := 0; k < 3; k++ {
		v := s.step.AtVec(k)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s *solver) smallStep(p []float64, tol float64) bool {
	for k := range p {
		if math.Abs(s.step.AtVec(k)) > math.Sqrt(tol)*(math.Abs(p[k])+math.Sqrt(tol)) {
			return false
		}
	}
	return true
}

func (s *solver) sse(p []float64) float64 {
	var sum float64
	for i, ti := range s.t {
		r := s.y[i] - (p[0]*math.Exp(-ti/p[1]) + p[2])
		sum += r * r
	}
	if math.IsNaN(sum) {
		return math.Inf(1)
	}
	return sum
}

func toResult(p []float64) Result {
	return Result{Amplitude: p[0], Lifetime: p[1], Offset: p[2]}
}
