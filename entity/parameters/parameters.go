package parameters

import (
	"errors"
	"fmt"

	"github.com/AnkushinDaniil/lambertdecay/entity/axis"
	"github.com/AnkushinDaniil/lambertdecay/entity/mode"
)

var ErrInvalid = errors.New("invalid physical parameters")

// Parameters describes the erbium-doped medium. Cross-sections are in
// units of 1e-21 cm^2, Rho in 1e21 cm^-3, D in cm and Tau in ms.
type Parameters struct {
	Regime  mode.Regime
	Tau     float64
	Sigma12 float64
	Sigma21 float64
	N       float64
	Rho     float64
	D       float64
	R       float64
	N20     float64
	// Alpha is the coupling used by the inversion regime only.
	Alpha float64
}

func (p Parameters) Validate() error {
	switch {
	case !(p.Tau > 0):
		return fmt.Errorf("%w: tau must be positive, got %g", ErrInvalid, p.Tau)
	case !(p.Sigma12 > 0):
		return fmt.Errorf("%w: sigma_12 must be positive, got %g", ErrInvalid, p.Sigma12)
	case !(p.Sigma21 > 0):
		return fmt.Errorf("%w: sigma_21 must be positive, got %g", ErrInvalid, p.Sigma21)
	case !(p.N > 0):
		return fmt.Errorf("%w: n must be positive, got %g", ErrInvalid, p.N)
	case !(p.Rho >= 0):
		return fmt.Errorf("%w: rho must be non-negative, got %g", ErrInvalid, p.Rho)
	case !(p.D >= 0):
		return fmt.Errorf("%w: d must be non-negative, got %g", ErrInvalid, p.D)
	case !(p.R >= 0 && p.R <= 1):
		return fmt.Errorf("%w: r must be in [0, 1], got %g", ErrInvalid, p.R)
	case !(p.N20 >= 0 && p.N20 <= 1):
		return fmt.Errorf("%w: n20 must be in [0, 1], got %g", ErrInvalid, p.N20)
	case p.Regime == mode.Inversion && !(p.Alpha > 0):
		return fmt.Errorf("%w: alpha must be positive, got %g", ErrInvalid, p.Alpha)
	}
	return nil
}

// WithAxis returns a copy of p with the field behind a replaced by v.
func (p Parameters) WithAxis(a axis.Axis, v float64) Parameters {
	switch a {
	case axis.Reflectance:
		p.R = v
	case axis.InitialFraction:
		p.N20 = v
	case axis.Coupling:
		p.Alpha = v
	}
	return p
}

// Axis returns the value of the field behind a.
func (p Parameters) Axis(a axis.Axis) float64 {
	switch a {
	case axis.Reflectance:
		return p.R
	case axis.InitialFraction:
		return p.N20
	case axis.Coupling:
		return p.Alpha
	}
	return 0
}

// FeedbackCoupling is the reflectance dependent coupling (1 + r/2)*rho*d of
// the general regime.
func (p Parameters) FeedbackCoupling() float64 {
	return (1 + p.R/2) * p.Rho * p.D
}
