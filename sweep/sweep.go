// Package sweep evaluates the decay model over a 2D mesh of two physical
// parameters and stores one scalar per cell.
//
// Cells are independent, so they are spread over a bounded worker pool fed
// by a producer goroutine. Each worker writes only its own cells; the result
// does not depend on the number of workers or on the traversal order.
//
// By default a failing cell aborts the sweep. Cells already in flight may
// fail too before the cancellation reaches them; of those, the one with the
// lowest (row, col) is reported as a *CellError.
// With ContinueOnError every failure is collected, the failed
// cells hold NaN and Run returns the grid together with ErrPartial.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/AnkushinDaniil/lambertdecay/entity/axis"
	"github.com/AnkushinDaniil/lambertdecay/entity/mode"
	"github.com/AnkushinDaniil/lambertdecay/entity/parameters"
	"github.com/AnkushinDaniil/lambertdecay/entity/reduction"
	"github.com/AnkushinDaniil/lambertdecay/fit"
	"github.com/AnkushinDaniil/lambertdecay/model"
)

// Range is an evenly spaced set of values for one axis.
type Range struct {
	Axis  axis.Axis
	Start float64
	Stop  float64
	Steps int
}

// Values returns Steps evenly spaced values over [Start, Stop].
func (r Range) Values() []float64 {
	switch {
	case r.Steps <= 0:
		return nil
	case r.Steps == 1:
		return []float64{r.Start}
	}
	v := floats.Span(make([]float64, r.Steps), r.Start, r.Stop)
	// Span can overshoot Stop by an ulp, which pushes bounded axes such as
	// reflectance out of range.
	v[r.Steps-1] = r.Stop
	return v
}

type Config struct {
	// Base supplies every parameter that is not swept, including the regime.
	Base      parameters.Parameters
	Time      model.TimeGrid
	X, Y      Range
	Reduction reduction.Reduction

	// Workers defaults to GOMAXPROCS.
	Workers int
	// CellTimeout bounds a single cell evaluation; zero disables it.
	CellTimeout     time.Duration
	ContinueOnError bool
}

func (c Config) Validate() error {
	if c.X.Axis == c.Y.Axis {
		return fmt.Errorf("%w: both axes are %s", ErrConfig, c.X.Axis)
	}
	for _, r := range []Range{c.X, c.Y} {
		if r.Steps < 1 {
			return fmt.Errorf("%w: %s needs at least one step", ErrConfig, r.Axis)
		}
		if r.Axis == axis.Reflectance && c.Base.Regime != mode.General {
			return fmt.Errorf("%w: reflectance only applies to the general regime", ErrConfig)
		}
		if r.Axis == axis.Coupling && c.Base.Regime != mode.Inversion {
			return fmt.Errorf("%w: coupling only applies to the inversion regime", ErrConfig)
		}
	}
	if err := c.Time.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if c.Reduction.IsFit() && len(c.Time) < 3 {
		return fmt.Errorf("%w: fitting needs at least 3 time samples", ErrConfig)
	}
	return nil
}

// Grid is the result of a sweep. Row i holds Y[i], column j holds X[j].
type Grid struct {
	XAxis, YAxis axis.Axis
	X, Y         []float64
	Reduction    reduction.Reduction

	// Fits is filled for fit reductions, DecayTimes for reduction.DecayTime.
	Fits       [][]fit.Result
	DecayTimes [][]float64

	Failures []*CellError
}

type cell struct {
	row, col int
}

// Run evaluates every cell of the mesh X × Y.
func Run(ctx context.Context, cfg Config) (*Grid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	grid := newGrid(cfg)
	total := len(grid.X) * len(grid.Y)
	startTime := time.Now()
	log.WithFields(log.Fields{
		"x":         fmt.Sprintf("%s[%g..%g]x%d", cfg.X.Axis, cfg.X.Start, cfg.X.Stop, cfg.X.Steps),
		"y":         fmt.Sprintf("%s[%g..%g]x%d", cfg.Y.Axis, cfg.Y.Start, cfg.Y.Stop, cfg.Y.Steps),
		"regime":    cfg.Base.Regime,
		"reduction": cfg.Reduction,
		"workers":   workers,
	}).Debug("Sweep started")

	var (
		mu       sync.Mutex
		done     atomic.Int64
		failures []*CellError
		aborted  []*CellError
	)
	report := max(int64(total/10), 1)

	g, gctx := errgroup.WithContext(ctx)
	cells := make(chan cell, workers)

	g.Go(func() error {
		defer close(cells)
		for row := range grid.Y {
			for col := range grid.X {
				select {
				case cells <- cell{row: row, col: col}:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
		}
		return nil
	})

	for range workers {
		g.Go(func() error {
			for c := range cells {
				err := grid.evaluate(gctx, cfg, c)
				if err != nil {
					if gctx.Err() != nil && errors.Is(err, gctx.Err()) {
						return gctx.Err()
					}
					var cellErr *CellError
					errors.As(err, &cellErr)
					if !cfg.ContinueOnError {
						mu.Lock()
						aborted = append(aborted, cellErr)
						mu.Unlock()
						return err
					}
					log.WithFields(log.Fields{
						"row": c.row,
						"col": c.col,
						"x":   grid.X[c.col],
						"y":   grid.Y[c.row],
					}).WithError(cellErr.Err).Warn("Cell failed")
					mu.Lock()
					failures = append(failures, cellErr)
					mu.Unlock()
				}
				if n := done.Add(1); n%report == 0 {
					log.WithField("progress", fmt.Sprintf("%d/%d", n, total)).Debug("Sweep progress")
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if len(aborted) > 0 && ctx.Err() == nil {
			sortCells(aborted)
			err = aborted[0]
		}
		return nil, fmt.Errorf("failed to sweep %s x %s: %w", cfg.X.Axis, cfg.Y.Axis, err)
	}
	log.WithFields(log.Fields{
		"time":   time.Since(startTime),
		"cells":  total,
		"failed": len(failures),
	}).Debug("Sweep finished")

	if len(failures) == 0 {
		return grid, nil
	}
	sortCells(failures)
	grid.Failures = failures
	errs := make([]error, len(failures))
	for i, f := range failures {
		errs[i] = f
	}
	return grid, fmt.Errorf("%w: %d of %d cells: %w", ErrPartial, len(failures), total, errors.Join(errs...))
}

func newGrid(cfg Config) *Grid {
	grid := &Grid{
		XAxis:     cfg.X.Axis,
		YAxis:     cfg.Y.Axis,
		X:         cfg.X.Values(),
		Y:         cfg.Y.Values(),
		Reduction: cfg.Reduction,
	}
	if cfg.Reduction.IsFit() {
		grid.Fits = make([][]fit.Result, len(grid.Y))
		for i := range grid.Fits {
			grid.Fits[i] = make([]fit.Result, len(grid.X))
		}
	} else {
		grid.DecayTimes = make([][]float64, len(grid.Y))
		for i := range grid.DecayTimes {
			grid.DecayTimes[i] = make([]float64, len(grid.X))
		}
	}
	return grid
}

// params returns the parameter set of cell [row][col].
func (g *Grid) params(base parameters.Parameters, row, col int) parameters.Parameters {
	return base.WithAxis(g.XAxis, g.X[col]).WithAxis(g.YAxis, g.Y[row])
}

func (g *Grid) evaluate(ctx context.Context, cfg Config, c cell) error {
	p := g.params(cfg.Base, c.row, c.col)
	if cfg.CellTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.CellTimeout)
		defer cancel()
	}

	err := g.reduce(ctx, cfg, p, c)
	if err == nil {
		return nil
	}
	nan := math.NaN()
	if g.Fits != nil {
		g.Fits[c.row][c.col] = fit.Result{Amplitude: nan, Lifetime: nan, Offset: nan}
	} else {
		g.DecayTimes[c.row][c.col] = nan
	}
	return &CellError{
		Row:    c.row,
		Col:    c.col,
		XAxis:  g.XAxis,
		YAxis:  g.YAxis,
		X:      g.X[c.col],
		Y:      g.Y[c.row],
		Params: p,
		Err:    err,
	}
}

func (g *Grid) reduce(ctx context.Context, cfg Config, p parameters.Parameters, c cell) error {
	curve, err := model.Evaluate(cfg.Time, p)
	if err != nil {
		return err
	}
	if !cfg.Reduction.IsFit() {
		v, err := model.DecayTime(cfg.Time, curve)
		if err != nil {
			return err
		}
		g.DecayTimes[c.row][c.col] = v
		return nil
	}
	r, err := fit.Exponential(ctx, cfg.Time, curve, p.Tau)
	if err != nil {
		return err
	}
	g.Fits[c.row][c.col] = r
	return nil
}

// sortCells orders cell errors by row, then column.
func sortCells(errs []*CellError) {
	sort.Slice(errs, func(i, j int) bool {
		if errs[i].Row != errs[j].Row {
			return errs[i].Row < errs[j].Row
		}
		return errs[i].Col < errs[j].Col
	})
}

// Matrix returns the scalar selected by r for every cell, Z[row][col].
func (g *Grid) Matrix(r reduction.Reduction) ([][]float64, error) {
	if r.IsFit() != g.Reduction.IsFit() {
		return nil, fmt.Errorf("%w: grid holds %s, not %s", ErrConfig, g.Reduction, r)
	}
	z := make([][]float64, len(g.Y))
	for i := range z {
		if !r.IsFit() {
			z[i] = append([]float64(nil), g.DecayTimes[i]...)
			continue
		}
		z[i] = make([]float64, len(g.X))
		for j, f := range g.Fits[i] {
			switch r {
			case reduction.Amplitude:
				z[i][j] = f.Amplitude
			case reduction.Offset:
				z[i][j] = f.Offset
			default:
				z[i][j] = f.Lifetime
			}
		}
	}
	return z, nil
}
