package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnkushinDaniil/lambertdecay/entity/axis"
	"github.com/AnkushinDaniil/lambertdecay/entity/format"
	"github.com/AnkushinDaniil/lambertdecay/entity/mode"
	"github.com/AnkushinDaniil/lambertdecay/entity/reduction"
	"github.com/AnkushinDaniil/lambertdecay/sweep"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
material:
  sigma21: 1
time:
  stop: 100
  samples: 1000
sweep:
  regime: inversion
  reduction: decay_time
  x: {axis: coupling, start: 0.01, stop: 6, steps: 20}
  y: {axis: initial_fraction, start: 0.01, stop: 1, steps: 10}
  cell_timeout: 2s
  workers: 3
output:
  format: png
  dir: out
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1.0, cfg.Material.Sigma21)
	assert.Equal(t, 10.0, cfg.Material.Tau, "unset fields keep defaults")
	assert.Len(t, cfg.Grid(), 1000)

	f, err := cfg.Format()
	require.NoError(t, err)
	assert.Equal(t, format.Png, f)

	sc, err := cfg.SweepConfig()
	require.NoError(t, err)
	assert.Equal(t, mode.Inversion, sc.Base.Regime)
	assert.Equal(t, reduction.DecayTime, sc.Reduction)
	assert.Equal(t, axis.Coupling, sc.X.Axis)
	assert.Equal(t, 20, sc.X.Steps)
	assert.Equal(t, axis.InitialFraction, sc.Y.Axis)
	assert.Equal(t, 2*time.Second, sc.CellTimeout)
	assert.Equal(t, 3, sc.Workers)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("LAMBERT_MATERIAL_TAU", "12.5")
	t.Setenv("LAMBERT_SWEEP_X_STEPS", "7")
	t.Setenv("LAMBERT_CURVES_VALUES", "0.1,0.2")
	t.Setenv("LAMBERT_LOG_LEVEL", "debug")

	cfg, err := Load(writeConfig(t, "material:\n  tau: 8\n"))
	require.NoError(t, err)
	assert.Equal(t, 12.5, cfg.Material.Tau)
	assert.Equal(t, 7, cfg.Sweep.X.Steps)
	assert.Equal(t, []float64{0.1, 0.2}, cfg.Curves.Values)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadInvalid(t *testing.T) {
	tests := map[string]string{
		"bad yaml":      "material: [",
		"format":        "output:\n  format: gif\n",
		"regime":        "sweep:\n  regime: laser\n",
		"axis":          "sweep:\n  x: {axis: thickness, start: 0, stop: 1, steps: 2}\n",
		"no samples":    "time:\n  samples: 0\n",
		"reversed time": "time:\n  start: 10\n  stop: 0\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}

func TestLoadDefersSweepChecks(t *testing.T) {
	tests := map[string]string{
		"same axes":           "sweep:\n  y: {axis: reflectance, start: 0, stop: 1, steps: 2}\n",
		"too few to fit":      "time:\n  samples: 2\n",
		"coupling in general": "sweep:\n  x: {axis: coupling, start: 0.1, stop: 1, steps: 2}\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, content))
			require.NoError(t, err, "curves and warg runs do not use the sweep section")

			_, err = cfg.SweepConfig()
			assert.ErrorIs(t, err, sweep.ErrConfig)
		})
	}
}

func TestParameters(t *testing.T) {
	p := Default().Parameters(mode.General, 0.5, 0.2, 0)
	assert.InDelta(t, 0.0245, p.D, 1e-15)
	assert.Equal(t, 0.5, p.R)
	assert.Equal(t, 0.2, p.N20)
	require.NoError(t, p.Validate())
}
