package app

import (
	"fmt"
	"image/color"
	"io"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

const (
	pngWidth  = 6 * vg.Inch
	pngHeight = 4 * vg.Inch
	// Every fourth filled level also gets a black contour line.
	contourEvery = 4
)

func (p curvePlot) writePNG(w io.Writer) error {
	if len(p.Curves) == 0 {
		return fmt.Errorf("nothing to plot")
	}
	plt := plot.New()
	plt.Title.Text = p.Title
	plt.X.Label.Text = p.XName
	plt.Y.Label.Text = p.YName
	if p.logScale() {
		plt.Y.Scale = plot.LogScale{}
		plt.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}
	plt.Add(plotter.NewGrid())

	for i, c := range p.Curves {
		xys := make(plotter.XYs, len(c.X()))
		for j := range xys {
			xys[j].X = c.X()[j]
			xys[j].Y = c.Values()[j]
		}
		l, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("failed to plot %s: %w", c.Name(), err)
		}
		l.Color = plotutil.Color(i)
		plt.Add(l)
		plt.Legend.Add(c.Name(), l)
	}
	if p.ShowGuide {
		guide := plotter.NewFunction(func(float64) float64 { return p.Guide })
		guide.Color = color.Black
		guide.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		plt.Add(guide)
	}
	plt.Legend.Top = true

	wt, err := plt.WriterTo(pngWidth, pngHeight, "png")
	if err != nil {
		return fmt.Errorf("failed to render png: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}

func (p curvePlot) writeCSV(w io.Writer) error {
	if len(p.Curves) == 0 {
		return fmt.Errorf("nothing to export")
	}
	columns := []series.Series{series.New(p.Curves[0].X(), series.Float, p.XName)}
	for _, c := range p.Curves {
		columns = append(columns, series.New(c.Values(), series.Float, c.Name()))
	}
	df := dataframe.New(columns...)
	if df.Err != nil {
		return fmt.Errorf("failed to build table: %w", df.Err)
	}
	return df.WriteCSV(w)
}

// gridXYZ adapts a contour map to plotter.GridXYZ.
type gridXYZ struct {
	m contourMap
}

func (g gridXYZ) Dims() (c, r int)   { return len(g.m.Grid.X), len(g.m.Grid.Y) }
func (g gridXYZ) Z(c, r int) float64 { return g.m.Z[r][c] }
func (g gridXYZ) X(c int) float64    { return g.m.Grid.XAxis.Scale(g.m.Grid.X[c]) }
func (g gridXYZ) Y(r int) float64    { return g.m.Grid.YAxis.Scale(g.m.Grid.Y[r]) }

// black colours every contour line black.
type black struct{}

func (black) Colors() []color.Color { return []color.Color{color.Black} }

func (m contourMap) writePNG(w io.Writer) error {
	g := gridXYZ{m: m}
	if c, r := g.Dims(); c < 2 || r < 2 {
		return fmt.Errorf("contour map needs at least 2x2 cells, got %dx%d", c, r)
	}
	lo, hi, ok := m.bounds()
	if !ok {
		return fmt.Errorf("sweep produced no finite values")
	}
	levels := max(m.Levels, 2)

	plt := plot.New()
	plt.Title.Text = fmt.Sprintf("%s [%.3g, %.3g]", m.Title, lo, hi)
	plt.X.Label.Text = m.Grid.XAxis.Label()
	plt.Y.Label.Text = m.Grid.YAxis.Label()

	heat := plotter.NewHeatMap(g, palette.Heat(levels, 1))
	heat.NaN = color.Transparent
	if hi == lo {
		heat.Min, heat.Max = lo-0.5, hi+0.5
	}
	plt.Add(heat)

	if m.complete() && hi > lo {
		var lines []float64
		step := (hi - lo) / float64(levels)
		for i := contourEvery; i < levels; i += contourEvery {
			lines = append(lines, lo+step*float64(i))
		}
		if len(lines) > 0 {
			plt.Add(plotter.NewContour(g, lines, black{}))
		}
	}

	wt, err := plt.WriterTo(pngWidth, pngHeight, "png")
	if err != nil {
		return fmt.Errorf("failed to render png: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}

// writeCSV writes the map in long form: one row per cell.
func (m contourMap) writeCSV(w io.Writer) error {
	g := m.Grid
	n := len(g.X) * len(g.Y)
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	zs := make([]float64, 0, n)
	for i, row := range m.Z {
		for j, v := range row {
			xs = append(xs, g.X[j])
			ys = append(ys, g.Y[i])
			zs = append(zs, v)
		}
	}
	df := dataframe.New(
		series.New(xs, series.Float, g.XAxis.String()),
		series.New(ys, series.Float, g.YAxis.String()),
		series.New(zs, series.Float, g.Reduction.String()),
	)
	if df.Err != nil {
		return fmt.Errorf("failed to build table: %w", df.Err)
	}
	return df.WriteCSV(w)
}
