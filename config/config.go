// Package config loads run configuration from a YAML file and lets
// LAMBERT_* environment variables override individual values.
//
// Example file:
//
//	material:
//	  tau: 10
//	  sigma12: 4.1
//	  sigma21: 5.0
//	  rho: 0.217
//	  d: 0.98e-4
//	  path_factor: 250
//	time:
//	  stop: 100
//	  samples: 100
//	sweep:
//	  regime: general
//	  reduction: lifetime
//	  x: {axis: reflectance, start: 1e-4, stop: 1, steps: 200}
//	  y: {axis: initial_fraction, start: 1e-4, stop: 0.15, steps: 200}
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/AnkushinDaniil/lambertdecay/entity/axis"
	"github.com/AnkushinDaniil/lambertdecay/entity/format"
	"github.com/AnkushinDaniil/lambertdecay/entity/mode"
	"github.com/AnkushinDaniil/lambertdecay/entity/parameters"
	"github.com/AnkushinDaniil/lambertdecay/entity/reduction"
	"github.com/AnkushinDaniil/lambertdecay/model"
	"github.com/AnkushinDaniil/lambertdecay/sweep"
)

const EnvPrefix = "LAMBERT_"

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Material Material `yaml:"material" envPrefix:"MATERIAL_"`
	Time     Time     `yaml:"time" envPrefix:"TIME_"`
	Curves   Curves   `yaml:"curves" envPrefix:"CURVES_"`
	Sweep    Sweep    `yaml:"sweep" envPrefix:"SWEEP_"`
	Output   Output   `yaml:"output" envPrefix:"OUTPUT_"`
	LogLevel string   `yaml:"log_level" env:"LOG_LEVEL"`
}

// Material holds the medium constants shared by every run. The effective
// slab thickness is D*PathFactor.
type Material struct {
	Tau        float64 `yaml:"tau" env:"TAU"`
	Sigma12    float64 `yaml:"sigma12" env:"SIGMA12"`
	Sigma21    float64 `yaml:"sigma21" env:"SIGMA21"`
	N          float64 `yaml:"n" env:"N"`
	Rho        float64 `yaml:"rho" env:"RHO"`
	D          float64 `yaml:"d" env:"D"`
	PathFactor float64 `yaml:"path_factor" env:"PATH_FACTOR"`
}

type Time struct {
	Start   float64 `yaml:"start" env:"START"`
	Stop    float64 `yaml:"stop" env:"STOP"`
	Samples int     `yaml:"samples" env:"SAMPLES"`
}

// Curves configures a family of decay curves: one per value of the varied
// parameter (reflectance in the general regime, alpha in the inversion regime).
type Curves struct {
	Regime    string    `yaml:"regime" env:"REGIME"`
	Values    []float64 `yaml:"values" env:"VALUES" envSeparator:","`
	N20       float64   `yaml:"n20" env:"N20"`
	R         float64   `yaml:"r" env:"R"`
	Alpha     float64   `yaml:"alpha" env:"ALPHA"`
	Normalize bool      `yaml:"normalize" env:"NORMALIZE"`
}

type Axis struct {
	Axis  string  `yaml:"axis" env:"AXIS"`
	Start float64 `yaml:"start" env:"START"`
	Stop  float64 `yaml:"stop" env:"STOP"`
	Steps int     `yaml:"steps" env:"STEPS"`
}

type Sweep struct {
	Regime          string        `yaml:"regime" env:"REGIME"`
	Reduction       string        `yaml:"reduction" env:"REDUCTION"`
	X               Axis          `yaml:"x" envPrefix:"X_"`
	Y               Axis          `yaml:"y" envPrefix:"Y_"`
	R               float64       `yaml:"r" env:"R"`
	N20             float64       `yaml:"n20" env:"N20"`
	Alpha           float64       `yaml:"alpha" env:"ALPHA"`
	Workers         int           `yaml:"workers" env:"WORKERS"`
	CellTimeout     time.Duration `yaml:"cell_timeout" env:"CELL_TIMEOUT"`
	ContinueOnError bool          `yaml:"continue_on_error" env:"CONTINUE_ON_ERROR"`
	Levels          int           `yaml:"levels" env:"LEVELS"`
}

type Output struct {
	Dir    string `yaml:"dir" env:"DIR"`
	Format string `yaml:"format" env:"FORMAT"`
	Name   string `yaml:"name" env:"NAME"`
}

// Default reproduces the erbium slab used for the published contour maps.
func Default() *Config {
	return &Config{
		Material: Material{
			Tau:        10,
			Sigma12:    4.1,
			Sigma21:    5.0,
			N:          1,
			Rho:        0.217,
			D:          0.98e-4,
			PathFactor: 250,
		},
		Time: Time{Start: 0, Stop: 100, Samples: 100},
		Curves: Curves{
			Regime: "general",
			Values: []float64{0.001, 0.5, 1},
			N20:    0.2,
			R:      0.5,
			Alpha:  1,
		},
		Sweep: Sweep{
			Regime:    "general",
			Reduction: "lifetime",
			X:         Axis{Axis: "reflectance", Start: 1e-4, Stop: 1, Steps: 200},
			Y:         Axis{Axis: "initial_fraction", Start: 1e-4, Stop: 0.15, Steps: 200},
			R:         0.5,
			N20:       0.2,
			Alpha:     1,
			Levels:    40,
		},
		Output:   Output{Dir: ".", Format: "html"},
		LogLevel: "info",
	}
}

// Load reads path over the defaults and applies environment overrides. An
// empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}
	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseEnv overrides target fields from LAMBERT_* environment variables.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Time.Samples < 1 {
		return fmt.Errorf("%w: time.samples must be positive, got %d", ErrInvalid, c.Time.Samples)
	}
	if err := c.Grid().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := c.Format(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := mode.UnmarshalText(c.Curves.Regime); err != nil {
		return fmt.Errorf("%w: curves: %w", ErrInvalid, err)
	}
	if err := c.Sweep.validateNames(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// validateNames checks that the sweep section parses. Range and sample
// constraints are checked by SweepConfig, only when a sweep runs.
func (s Sweep) validateNames() error {
	if _, err := mode.UnmarshalText(s.Regime); err != nil {
		return fmt.Errorf("sweep: %w", err)
	}
	if _, err := reduction.UnmarshalText(s.Reduction); err != nil {
		return fmt.Errorf("sweep: %w", err)
	}
	if _, err := s.X.Range(); err != nil {
		return fmt.Errorf("sweep.x: %w", err)
	}
	if _, err := s.Y.Range(); err != nil {
		return fmt.Errorf("sweep.y: %w", err)
	}
	return nil
}

// Grid returns the configured time grid.
func (c *Config) Grid() model.TimeGrid {
	return model.Linspace(c.Time.Start, c.Time.Stop, c.Time.Samples)
}

func (c *Config) Format() (format.Format, error) {
	return format.UnmarshalText(c.Output.Format)
}

// Parameters builds the physical parameter set for regime with the given
// reflectance, initial fraction and coupling.
func (c *Config) Parameters(regime mode.Regime, r, n20, alpha float64) parameters.Parameters {
	return parameters.Parameters{
		Regime:  regime,
		Tau:     c.Material.Tau,
		Sigma12: c.Material.Sigma12,
		Sigma21: c.Material.Sigma21,
		N:       c.Material.N,
		Rho:     c.Material.Rho,
		D:       c.Material.D * c.Material.PathFactor,
		R:       r,
		N20:     n20,
		Alpha:   alpha,
	}
}

// SweepConfig translates the sweep section into a sweep.Config.
func (c *Config) SweepConfig() (sweep.Config, error) {
	s := c.Sweep
	regime, err := mode.UnmarshalText(s.Regime)
	if err != nil {
		return sweep.Config{}, fmt.Errorf("sweep: %w", err)
	}
	red, err := reduction.UnmarshalText(s.Reduction)
	if err != nil {
		return sweep.Config{}, fmt.Errorf("sweep: %w", err)
	}
	x, err := s.X.Range()
	if err != nil {
		return sweep.Config{}, fmt.Errorf("sweep.x: %w", err)
	}
	y, err := s.Y.Range()
	if err != nil {
		return sweep.Config{}, fmt.Errorf("sweep.y: %w", err)
	}
	cfg := sweep.Config{
		Base:            c.Parameters(regime, s.R, s.N20, s.Alpha),
		Time:            c.Grid(),
		X:               x,
		Y:               y,
		Reduction:       red,
		Workers:         s.Workers,
		CellTimeout:     s.CellTimeout,
		ContinueOnError: s.ContinueOnError,
	}
	if err := cfg.Validate(); err != nil {
		return sweep.Config{}, err
	}
	return cfg, nil
}

func (a Axis) Range() (sweep.Range, error) {
	ax, err := axis.UnmarshalText(a.Axis)
	if err != nil {
		return sweep.Range{}, err
	}
	return sweep.Range{Axis: ax, Start: a.Start, Stop: a.Stop, Steps: a.Steps}, nil
}
