package entity

import (
	"errors"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/floats"
)

// Curve is a named series sampled on a shared x axis, ready for charting.
type Curve struct {
	name   string
	x      []float64
	values []float64
}

func NewCurve(name string, x, values []float64) (*Curve, error) {
	if name == "" {
		return nil, errors.New("name is empty")
	}
	if len(x) != len(values) {
		return nil, fmt.Errorf("curve %s: %d x values, %d y values", name, len(x), len(values))
	}
	return &Curve{name: name, x: x, values: values}, nil
}

func (c *Curve) Name() string {
	return c.name
}

func (c *Curve) X() []float64 {
	return c.x
}

func (c *Curve) Values() []float64 {
	return c.values
}

// Normalized returns a copy scaled so that its maximum is 1. A curve with no
// positive maximum is returned unchanged.
func (c *Curve) Normalized() *Curve {
	values := append([]float64(nil), c.values...)
	if len(values) > 0 {
		if m := floats.Max(values); m > 0 {
			floats.Scale(1/m, values)
		}
	}
	return &Curve{name: c.name, x: c.x, values: values}
}

// Data converts the values into echarts line points.
func (c *Curve) Data() []opts.LineData {
	data := make([]opts.LineData, len(c.values))
	for i, v := range c.values {
		data[i] = opts.LineData{Value: v}
	}
	return data
}
