package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// TimeGrid holds non-negative, strictly increasing time samples in ms.
type TimeGrid []float64

// Curve holds one population density value per TimeGrid sample.
type Curve []float64

// Linspace returns n evenly spaced samples over [start, stop].
func Linspace(start, stop float64, n int) TimeGrid {
	if n <= 0 {
		return TimeGrid{}
	}
	if n == 1 {
		return TimeGrid{start}
	}
	t := floats.Span(make([]float64, n), start, stop)
	// Span can overshoot stop by an ulp.
	t[n-1] = stop
	return t
}

func (t TimeGrid) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: no samples", ErrInvalidGrid)
	}
	for i, v := range t {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: sample %d is %g", ErrInvalidGrid, i, v)
		}
		if i > 0 && v <= t[i-1] {
			return fmt.Errorf("%w: sample %d (%g) does not follow %g", ErrInvalidGrid, i, v, t[i-1])
		}
	}
	return nil
}

// Normalized returns a copy of c divided by its maximum.
func (c Curve) Normalized() Curve {
	out := make(Curve, len(c))
	if len(c) == 0 {
		return out
	}
	return floats.ScaleTo(out, 1/floats.Max(c), c)
}
