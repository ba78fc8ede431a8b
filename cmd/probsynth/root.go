package main

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/probsynth/engine"
	"github.com/katalvlaran/probsynth/solver"
	"github.com/katalvlaran/probsynth/synthesis"
)

var errUsage = errors.New("probsynth: invalid arguments")

// app holds the state shared by all subcommands of one invocation.
type app struct {
	configPath  string
	verbose     bool
	quiet       bool
	metricsFile string

	logger   *zap.Logger
	env      engine.Environment
	registry *prometheus.Registry
	solver   *solver.Solver
}

func newRootCmd() *cobra.Command {
	return (&app{}).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "probsynth",
		Short: "Probabilistic model checking for synthesis tooling",
		Long: `probsynth verifies reachability and reward properties of DTMCs and MDPs.

Models are YAML files; results are printed as YAML. Solver settings come from
--config and PROBSYNTH_* environment variables.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.teardown()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Solver environment YAML file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "Turn solver logging off")
	root.PersistentFlags().StringVar(&a.metricsFile, "metrics-file", "", "Write solver metrics in Prometheus text format to this file")

	root.AddCommand(
		newCheckCmd(a),
		newVisitsCmd(a),
		newSelectCmd(a),
		newMultiplyCmd(a),
	)

	return root
}

func (a *app) setup(*cobra.Command, []string) error {
	config := zap.NewProductionConfig()
	if a.verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger

	a.env, err = engine.LoadEnvironment(a.configPath)
	if err != nil {
		return err
	}

	a.registry = prometheus.NewRegistry()
	a.solver = solver.New(solver.WithLogger(logger), solver.WithRegisterer(a.registry))
	if a.quiet {
		synthesis.SetLogLevelOff(a.solver)
	}
	a.logger.Debug("environment loaded",
		zap.Float64("precision", a.env.Precision),
		zap.Bool("relative", a.env.Relative),
		zap.Int("maxIterations", a.env.MaxIterations),
	)

	return nil
}

func (a *app) teardown() error {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if a.metricsFile == "" || a.registry == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(a.metricsFile, a.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}

	return nil
}

func writeYAML(cmd *cobra.Command, v any) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	return enc.Close()
}
