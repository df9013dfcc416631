package app

import (
	"io"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/AnkushinDaniil/lambertdecay/entity"
	"github.com/AnkushinDaniil/lambertdecay/entity/format"
	"github.com/AnkushinDaniil/lambertdecay/sweep"
)

// curvePlot is a set of curves sharing one x axis.
type curvePlot struct {
	Title        string
	XName, YName string
	Curves       []*entity.Curve
	LogY         bool
	// Guide draws a dashed horizontal line at this y value.
	Guide     float64
	ShowGuide bool
}

// logScale reports whether a log y axis can be used: every value must be
// positive.
func (p curvePlot) logScale() bool {
	if !p.LogY {
		return false
	}
	for _, c := range p.Curves {
		if len(c.Values()) == 0 || !(floats.Min(c.Values()) > 0) {
			return false
		}
	}
	return true
}

func (p curvePlot) writerFor(f format.Format) io.WriterTo {
	switch f {
	case format.Png:
		return writerFunc(p.writePNG)
	case format.Csv:
		return writerFunc(p.writeCSV)
	default:
		return writerFunc(p.writeHTML)
	}
}

// contourMap is a sweep result matrix, Z[row][col] at (X[col], Y[row]).
type contourMap struct {
	Title  string
	Grid   *sweep.Grid
	Z      [][]float64
	Label  string
	Levels int
}

// bounds returns the finite minimum and maximum of Z.
func (m contourMap) bounds() (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, row := range m.Z {
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
	}
	return lo, hi, lo <= hi
}

func (m contourMap) complete() bool {
	for _, row := range m.Z {
		for _, v := range row {
			if math.IsNaN(v) {
				return false
			}
		}
	}
	return true
}

func (m contourMap) writerFor(f format.Format) io.WriterTo {
	switch f {
	case format.Png:
		return writerFunc(m.writePNG)
	case format.Csv:
		return writerFunc(m.writeCSV)
	default:
		return writerFunc(m.writeHTML)
	}
}

type writerFunc func(io.Writer) error

func (f writerFunc) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	err := f(cw)
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
