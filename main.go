// Package main is the lambertdecay command line: decay curve families,
// parameter sweeps and Lambert W argument plots for erbium-doped media.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/AnkushinDaniil/lambertdecay/app"
	"github.com/AnkushinDaniil/lambertdecay/config"
)

var version = "dev"

type flags struct {
	config   string
	output   string
	format   string
	logLevel string
}

func main() {
	var f flags
	rootCmd := &cobra.Command{
		Use:   "lambertdecay",
		Short: "Closed-form decay of excited erbium ions with optical feedback",
		Long: `lambertdecay evaluates the Lambert W solution of the erbium rate equation
in the general-feedback and population-inversion regimes, fits the curves
with a single exponential and sweeps the fitted lifetime or the 1/e decay
time over a two-parameter grid.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&f.config, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVarP(&f.output, "output-dir", "o", "", "Output directory (overrides output.dir)")
	rootCmd.PersistentFlags().StringVarP(&f.format, "format", "f", "", "Output format: html, png or csv (overrides output.format)")
	rootCmd.PersistentFlags().StringVar(&f.logLevel, "log-level", "", "Log level (overrides log_level)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lambertdecay %s\n", version)
		},
	})

	var regime string
	var normalize bool
	curvesCmd := &cobra.Command{
		Use:   "curves",
		Short: "Plot a family of decay curves",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f, func(cfg *config.Config) {
				if cmd.Flags().Changed("regime") {
					cfg.Curves.Regime = regime
				}
				if cmd.Flags().Changed("normalize") {
					cfg.Curves.Normalize = normalize
				}
			}, (*app.App).Curves)
		},
	}
	curvesCmd.Flags().StringVar(&regime, "regime", "general", "Regime: general or inversion")
	curvesCmd.Flags().BoolVar(&normalize, "normalize", false, "Normalize every curve to its maximum")
	rootCmd.AddCommand(curvesCmd)

	var workers int
	var continueOnError bool
	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "Sweep two parameters and plot the fitted lifetime or decay time",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f, func(cfg *config.Config) {
				if cmd.Flags().Changed("workers") {
					cfg.Sweep.Workers = workers
				}
				if cmd.Flags().Changed("continue-on-error") {
					cfg.Sweep.ContinueOnError = continueOnError
				}
			}, (*app.App).Sweep)
		},
	}
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "Worker count (0 uses GOMAXPROCS)")
	sweepCmd.Flags().BoolVar(&continueOnError, "continue-on-error", false, "Record failed cells as NaN instead of aborting")
	rootCmd.AddCommand(sweepCmd)

	wargCmd := &cobra.Command{
		Use:   "warg",
		Short: "Plot the smallest Lambert W argument against the initial excited fraction",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f, func(cfg *config.Config) {
				if cmd.Flags().Changed("regime") {
					cfg.Curves.Regime = regime
				}
			}, (*app.App).Warg)
		},
	}
	wargCmd.Flags().StringVar(&regime, "regime", "general", "Regime: general or inversion")
	rootCmd.AddCommand(wargCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, f flags, override func(*config.Config), action func(*app.App, context.Context) (string, error)) error {
	cfg, err := config.Load(f.config)
	if err != nil {
		return err
	}
	if f.output != "" {
		cfg.Output.Dir = f.output
	}
	if f.format != "" {
		cfg.Output.Format = f.format
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	override(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	format, err := cfg.Format()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	path, err := action(app.New(cfg.Output.Dir, format, cfg), ctx)
	if err != nil {
		log.WithError(err).Error("Command failed")
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
