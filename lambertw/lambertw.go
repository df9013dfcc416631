// Package lambertw evaluates the principal branch of the Lambert W function,
// the inverse of f(w) = w*exp(w).
package lambertw

import "math"

// BranchPoint is the smallest argument for which W0 is real.
const BranchPoint = -1 / math.E

const maxIterations = 32

// W0 returns the principal branch W0(x) for x >= -1/e and NaN otherwise.
// W0(-1/e) is exactly -1.
func W0(x float64) float64 {
	switch {
	case math.IsNaN(x) || x < BranchPoint:
		return math.NaN()
	case x == BranchPoint:
		return -1
	case x == 0:
		return 0
	case math.IsInf(x, 1):
		return x
	}

	// Near the branch point Halley's step loses precision because w+1 -> 0.
	p := math.Sqrt(math.Max(0, 2*(math.E*x+1)))
	if p < 1e-3 {
		return branchSeries(p)
	}

	w := initialGuess(x, p)
	for range maxIterations {
		ew := math.Exp(w)
		f := w*ew - x
		wp1 := w + 1
		step := f / (ew*wp1 - (w+2)*f/(2*wp1))
		w -= step
		if math.Abs(step) <= 1e-15*math.Abs(w) {
			break
		}
	}
	return w
}

func initialGuess(x, p float64) float64 {
	switch {
	case x < -0.25:
		return branchSeries(p)
	case x < 3:
		// Padé-like guess, good on the central interval.
		return x * (1 + 4.0/3*x) / (1 + 7.0/3*x + 5.0/6*x*x)
	default:
		l1 := math.Log(x)
		l2 := math.Log(l1)
		return l1 - l2 + l2/l1
	}
}

// branchSeries is the expansion of W0 around -1/e in p = sqrt(2(ex+1)).
func branchSeries(p float64) float64 {
	return -1 + p*(1+p*(-1.0/3+p*(11.0/72+p*(-43.0/540))))
}
