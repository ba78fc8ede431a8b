package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/probsynth/engine"
	"github.com/katalvlaran/probsynth/model"
	"github.com/katalvlaran/probsynth/synthesis"
)

type checkOutput struct {
	Formula    string    `yaml:"formula"`
	Direction  string    `yaml:"direction"`
	Values     []float64 `yaml:"values"`
	Scheduler  []int     `yaml:"scheduler,omitempty"`
	Iterations int       `yaml:"iterations"`
}

type checkFlags struct {
	target      string
	until       string
	reward      string
	maximize    bool
	initialOnly bool
	schedulers  bool
	hint        []float64
}

func newCheckCmd(a *app) *cobra.Command {
	var f checkFlags
	cmd := &cobra.Command{
		Use:   "check <model.yaml>",
		Short: "Verify a reachability or reward formula",
		Long: `Computes P=? [F target], P=? [constraint U target] or R{rm}=? [F target]
in every state. MDPs are minimized unless --max is given.

Example:
  probsynth check model.yaml --target goal --max --schedulers`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCheck(cmd, args[0], f)
		},
	}
	cmd.Flags().StringVar(&f.target, "target", "", "Target label")
	cmd.Flags().StringVar(&f.until, "until", "", "Constraint label for an until formula")
	cmd.Flags().StringVar(&f.reward, "reward", "", "Reward model for an expected reward formula")
	cmd.Flags().BoolVar(&f.maximize, "max", false, "Maximize over schedulers")
	cmd.Flags().BoolVar(&f.initialOnly, "initial-only", false, "Report initial states only")
	cmd.Flags().BoolVar(&f.schedulers, "schedulers", false, "Print an optimal scheduler")
	cmd.Flags().Float64SliceVar(&f.hint, "hint", nil, "Start vector, one value per state")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

func (f checkFlags) formula() (engine.Formula, error) {
	switch {
	case f.reward != "" && f.until != "":
		return engine.Formula{}, fmt.Errorf("--until and --reward are exclusive: %w", errUsage)
	case f.reward != "":
		return engine.Reward(f.reward, f.target), nil
	case f.until != "":
		return engine.Until(f.until, f.target), nil
	default:
		return engine.Probability(f.target), nil
	}
}

func (a *app) runCheck(cmd *cobra.Command, path string, f checkFlags) error {
	formula, err := f.formula()
	if err != nil {
		return err
	}
	m, err := model.LoadFile(path)
	if err != nil {
		return err
	}

	opts := []engine.TaskOption{engine.WithDirection(engine.Minimize)}
	if f.maximize {
		opts[0] = engine.WithDirection(engine.Maximize)
	}
	if f.initialOnly {
		opts = append(opts, engine.WithOnlyInitialStates())
	}
	if f.schedulers {
		opts = append(opts, engine.WithSchedulers())
	}
	task := engine.NewCheckTask(formula, opts...)

	var res *engine.CheckResult
	if cmd.Flags().Changed("hint") {
		res, err = synthesis.ModelCheckWithHint(a.solver, m, task, a.env, f.hint)
	} else {
		res, err = a.solver.Verify(a.env, m, task)
	}
	if err != nil {
		return err
	}

	return writeYAML(cmd, checkOutput{
		Formula:    formula.String(),
		Direction:  task.Direction().String(),
		Values:     res.Values(),
		Scheduler:  res.Scheduler(),
		Iterations: res.Iterations(),
	})
}
