package main

import (
	"github.com/spf13/cobra"

	"github.com/katalvlaran/probsynth/model"
	"github.com/katalvlaran/probsynth/synthesis"
)

type visitsOutput struct {
	Initial uint64    `yaml:"initial"`
	Visits  []float64 `yaml:"visits"`
}

func newVisitsCmd(a *app) *cobra.Command {
	var state uint64
	cmd := &cobra.Command{
		Use:   "visits <dtmc.yaml>",
		Short: "Expected number of visits of every state of a DTMC",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := model.LoadFile(args[0])
			if err != nil {
				return err
			}
			res, err := synthesis.ComputeExpectedNumberOfVisits(a.solver, a.env, m, state)
			if err != nil {
				return err
			}

			return writeYAML(cmd, visitsOutput{Initial: state, Visits: res.Values()})
		},
	}
	cmd.Flags().Uint64Var(&state, "state", 0, "Start state")

	return cmd
}
