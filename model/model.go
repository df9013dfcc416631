// Package model evaluates the closed-form Lambert W solution of the
// two-level erbium rate equations and reduces the resulting curves.
//
// Two regimes are supported:
//
//   - General: feedback from a reflecting top layer couples re-absorption
//     into the rate equations through alpha = (1 + r/2)*rho*d.
//   - Inversion: population inversion with a directly supplied alpha.
//
// Every evaluation checks its Lambert W arguments first and fails with a
// *DomainError instead of producing a complex, unphysical curve.
package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/AnkushinDaniil/lambertdecay/entity/mode"
	"github.com/AnkushinDaniil/lambertdecay/entity/parameters"
	"github.com/AnkushinDaniil/lambertdecay/lambertw"
)

// Evaluate dispatches on p.Regime.
func Evaluate(t TimeGrid, p parameters.Parameters) (Curve, error) {
	if p.Regime == mode.Inversion {
		return Inversion(t, p)
	}
	return General(t, p)
}

// General evaluates the feedback regime:
//
//	curve(t) = -b * W0(-a*n20*exp(-t/(b*tau) - a*n20/b)/b) / a
func General(t TimeGrid, p parameters.Parameters) (Curve, error) {
	args, err := GeneralArguments(t, p)
	if err != nil {
		return nil, err
	}
	a, b := generalCoefficients(p)
	if a == 0 {
		// No coupling: the Lambert W solution degenerates to the pure
		// radiative decay it approaches as a -> 0.
		c := make(Curve, len(t))
		for i, ti := range t {
			c[i] = p.N20 * math.Exp(-ti/(b*p.Tau))
		}
		return c, nil
	}
	return lambertCurve(t, args, -b/a)
}

// Inversion evaluates the population-inversion regime:
//
//	curve(t) = -W0(-alpha*s21*n20*exp(-(t + alpha*s21*n20*tau)/tau)) / (alpha*s21)
func Inversion(t TimeGrid, p parameters.Parameters) (Curve, error) {
	args, err := InversionArguments(t, p)
	if err != nil {
		return nil, err
	}
	return lambertCurve(t, args, -1/(p.Alpha*p.Sigma21))
}

// GeneralArguments returns the Lambert W argument for every sample of t.
func GeneralArguments(t TimeGrid, p parameters.Parameters) ([]float64, error) {
	if err := check(t, p); err != nil {
		return nil, err
	}
	a, b := generalCoefficients(p)
	args := make([]float64, len(t))
	for i, ti := range t {
		x := ti/(b*p.Tau) + a*p.N20/b
		args[i] = -a * p.N20 * math.Exp(-x) / b
	}
	return args, nil
}

// InversionArguments returns the Lambert W argument for every sample of t.
func InversionArguments(t TimeGrid, p parameters.Parameters) ([]float64, error) {
	if err := check(t, p); err != nil {
		return nil, err
	}
	c := p.Alpha * p.Sigma21 * p.N20
	args := make([]float64, len(t))
	for i, ti := range t {
		args[i] = -c * math.Exp(-(ti+c*p.Tau)/p.Tau)
	}
	return args, nil
}

// MinArgument is the smallest Lambert W argument over t for the regime of p.
func MinArgument(t TimeGrid, p parameters.Parameters) (float64, error) {
	var (
		args []float64
		err  error
	)
	if p.Regime == mode.Inversion {
		args, err = InversionArguments(t, p)
	} else {
		args, err = GeneralArguments(t, p)
	}
	if err != nil {
		return 0, err
	}
	return floats.Min(args), nil
}

// ValidateArgument fails with a *DomainError when any argument lies below
// -1/e, where W0 has no real value. The branch point itself is accepted.
func ValidateArgument(t TimeGrid, args []float64) error {
	if len(args) == 0 {
		return nil
	}
	idx := floats.MinIdx(args)
	if lowest := args[idx]; lowest < lambertw.BranchPoint || math.IsNaN(lowest) {
		e := &DomainError{Min: lowest, Index: idx}
		if idx < len(t) {
			e.Time = t[idx]
		}
		return e
	}
	return nil
}

func generalCoefficients(p parameters.Parameters) (a, b float64) {
	alpha := p.FeedbackCoupling()
	a = alpha * (p.Sigma12 + p.Sigma21)
	b = 1 + alpha*p.Sigma12*p.N
	return a, b
}

func lambertCurve(t TimeGrid, args []float64, scale float64) (Curve, error) {
	if err := ValidateArgument(t, args); err != nil {
		return nil, err
	}
	c := make(Curve, len(args))
	for i, arg := range args {
		c[i] = scale * lambertw.W0(arg)
	}
	return c, nil
}

func check(t TimeGrid, p parameters.Parameters) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("failed to evaluate %s regime: %w", p.Regime, err)
	}
	return nil
}
