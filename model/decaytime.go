package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Threshold is the normalized level that defines the decay time.
const Threshold = 1 / math.E

// DecayTime normalizes c by its maximum and returns the time of the first
// sample strictly below 1/e. The raw sample time is returned without
// interpolation, so the result resolution is the grid spacing.
func DecayTime(t TimeGrid, c Curve) (float64, error) {
	if len(t) != len(c) {
		return 0, fmt.Errorf("%w: %d samples, %d values", ErrSizeMismatch, len(t), len(c))
	}
	if len(c) == 0 || !(floats.Max(c) > 0) {
		return 0, ErrEmptyCurve
	}
	norm := c.Normalized()
	for i, v := range norm {
		if v < Threshold {
			return t[i], nil
		}
	}
	return 0, &ThresholdNotReachedError{
		Min:       floats.Min(norm),
		Threshold: Threshold,
		Span:      t[len(t)-1] - t[0],
	}
}
