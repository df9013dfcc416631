package model

import (
	"errors"
	"fmt"

	"github.com/AnkushinDaniil/lambertdecay/lambertw"
)

var (
	// ErrDomain is matched by every *DomainError.
	ErrDomain = errors.New("lambert W argument outside the principal branch domain")

	// ErrThresholdNotReached is matched by every *ThresholdNotReachedError.
	ErrThresholdNotReached = errors.New("curve never drops below 1/e")

	ErrEmptyCurve   = errors.New("curve has no positive samples")
	ErrInvalidGrid  = errors.New("invalid time grid")
	ErrSizeMismatch = errors.New("time grid and curve lengths differ")
)

// DomainError reports the smallest Lambert W argument and where it occurred.
// The parameter set cannot produce a real-valued curve.
type DomainError struct {
	Min   float64
	Index int
	Time  float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%v: min argument %g < %g at t=%g (index %d)",
		ErrDomain, e.Min, lambertw.BranchPoint, e.Time, e.Index)
}

func (e *DomainError) Unwrap() error {
	return ErrDomain
}

// ThresholdNotReachedError carries the lowest normalized value the curve
// reached inside the time grid.
type ThresholdNotReachedError struct {
	Min       float64
	Threshold float64
	Span      float64
}

func (e *ThresholdNotReachedError) Error() string {
	return fmt.Sprintf("%v: normalized minimum %g >= %g within %g ms",
		ErrThresholdNotReached, e.Min, e.Threshold, e.Span)
}

func (e *ThresholdNotReachedError) Unwrap() error {
	return ErrThresholdNotReached
}
