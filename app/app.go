package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/AnkushinDaniil/lambertdecay/config"
	"github.com/AnkushinDaniil/lambertdecay/entity"
	"github.com/AnkushinDaniil/lambertdecay/entity/axis"
	"github.com/AnkushinDaniil/lambertdecay/entity/format"
	"github.com/AnkushinDaniil/lambertdecay/entity/mode"
	"github.com/AnkushinDaniil/lambertdecay/model"
	"github.com/AnkushinDaniil/lambertdecay/sweep"
)

const wargSamples = 100

type App struct {
	Output string
	Format format.Format
	Config *config.Config
}

func New(output string, f format.Format, cfg *config.Config) *App {
	return &App{
		Output: output,
		Format: f,
		Config: cfg,
	}
}

// Curves renders one decay curve per configured value of the varied
// parameter: reflectance in the general regime, alpha in the inversion regime.
func (a *App) Curves(ctx context.Context) (string, error) {
	appTime := time.Now()
	defer func() {
		log.WithField("time", time.Since(appTime)).Debug("Curves finished")
	}()
	cc := a.Config.Curves
	regime, err := mode.UnmarshalText(cc.Regime)
	if err != nil {
		return "", err
	}
	log.WithFields(log.Fields{
		"regime":    regime,
		"values":    cc.Values,
		"n20":       cc.N20,
		"normalize": cc.Normalize,
		"output":    a.Output,
	}).Debug("Curves started")

	grid := a.Config.Grid()
	varied, label := axis.Reflectance, "r"
	if regime == mode.Inversion {
		varied, label = axis.Coupling, "alpha"
	}

	curves := make([]*entity.Curve, 0, len(cc.Values))
	for _, v := range cc.Values {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p := a.Config.Parameters(regime, cc.R, cc.N20, cc.Alpha).WithAxis(varied, v)
		values, err := model.Evaluate(grid, p)
		if err != nil {
			return "", fmt.Errorf("failed to evaluate %s=%g: %w", label, v, err)
		}
		curve, err := entity.NewCurve(label+"="+strconv.FormatFloat(v, 'g', 4, 64), grid, values)
		if err != nil {
			return "", fmt.Errorf("failed to create curve: %w", err)
		}
		if cc.Normalize {
			curve = curve.Normalized()
		}
		log.WithField("name", curve.Name()).Debug("Curve created")
		curves = append(curves, curve)
	}
	if len(curves) == 0 {
		return "", fmt.Errorf("no curve values configured")
	}

	plot := curvePlot{
		Title:  fmt.Sprintf("Decay curves, %s regime", regime),
		XName:  "time (ms)",
		YName:  "n2",
		Curves: curves,
	}
	if cc.Normalize {
		plot.YName = "n2/max(n2)"
		plot.LogY = true
		plot.Guide, plot.ShowGuide = model.Threshold, true
	}
	return a.save(a.name("curves"), plot.writerFor(a.Format))
}

// Sweep runs the configured parameter sweep and renders the selected
// reduction as a contour map.
func (a *App) Sweep(ctx context.Context) (string, error) {
	cfg, err := a.Config.SweepConfig()
	if err != nil {
		return "", fmt.Errorf("failed to configure sweep: %w", err)
	}
	log.WithFields(log.Fields{
		"x":         cfg.X.Axis,
		"y":         cfg.Y.Axis,
		"cells":     cfg.X.Steps * cfg.Y.Steps,
		"reduction": cfg.Reduction,
		"output":    a.Output,
	}).Debug("Sweep requested")

	sweepTime := time.Now()
	grid, err := sweep.Run(ctx, cfg)
	if err != nil && grid == nil {
		return "", err
	}
	if err != nil {
		log.WithError(err).WithField("failed", len(grid.Failures)).Warn("Sweep finished with failed cells")
	}
	log.WithField("time", time.Since(sweepTime)).Info("Sweep computed")

	z, err := grid.Matrix(cfg.Reduction)
	if err != nil {
		return "", err
	}
	m := contourMap{
		Title:  fmt.Sprintf("%s, %s regime", cfg.Reduction.Label(), cfg.Base.Regime),
		Grid:   grid,
		Z:      z,
		Label:  cfg.Reduction.Label(),
		Levels: a.Config.Sweep.Levels,
	}
	return a.save(a.name("sweep_"+cfg.Reduction.String()), m.writerFor(a.Format))
}

// Warg plots the smallest Lambert W argument over the time grid against the
// initial excited fraction, together with the -1/e bound of the principal
// branch.
func (a *App) Warg(ctx context.Context) (string, error) {
	cc := a.Config.Curves
	regime, err := mode.UnmarshalText(cc.Regime)
	if err != nil {
		return "", err
	}
	grid := a.Config.Grid()
	fractions := sweep.Range{Start: 0, Stop: 1, Steps: wargSamples}.Values()
	args := make([]float64, len(fractions))
	for i, n20 := range fractions {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p := a.Config.Parameters(regime, cc.R, n20, cc.Alpha)
		args[i], err = model.MinArgument(grid, p)
		if err != nil {
			return "", fmt.Errorf("failed to evaluate n20=%g: %w", n20, err)
		}
	}
	curve, err := entity.NewCurve("min argument", fractions, args)
	if err != nil {
		return "", err
	}
	plot := curvePlot{
		Title:     fmt.Sprintf("Lambert W argument, %s regime", regime),
		XName:     "n2(0)",
		YName:     "min argument",
		Curves:    []*entity.Curve{curve},
		Guide:     -model.Threshold,
		ShowGuide: true,
	}
	return a.save(a.name("warg"), plot.writerFor(a.Format))
}

func (a *App) name(fallback string) string {
	if a.Config.Output.Name != "" {
		return a.Config.Output.Name
	}
	return fallback
}

func (a *App) save(name string, w io.WriterTo) (string, error) {
	if err := os.MkdirAll(a.Output, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(a.Output, name+a.Format.Ext())
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	renderTime := time.Now()
	if _, err := w.WriteTo(f); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", a.Format, err)
	}
	log.WithFields(log.Fields{
		"time": time.Since(renderTime),
		"path": path,
	}).Info("Chart rendered and saved")
	return path, nil
}
