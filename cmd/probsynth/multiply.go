package main

import (
	"github.com/spf13/cobra"

	"github.com/katalvlaran/probsynth/model"
	"github.com/katalvlaran/probsynth/synthesis"
)

type multiplyOutput struct {
	Rows []float64 `yaml:"rows"`
}

func newMultiplyCmd(*app) *cobra.Command {
	var vector []float64
	cmd := &cobra.Command{
		Use:   "multiply <model.yaml>",
		Short: "Multiply the transition matrix of a model with a state vector",
		Long: `Prints one value per choice: the expectation of --vector under that choice.

Example:
  probsynth multiply model.yaml --vector 0,1,0.5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := model.LoadFile(args[0])
			if err != nil {
				return err
			}
			rows, err := synthesis.MultiplyWithVector(m.Transitions(), vector)
			if err != nil {
				return err
			}

			return writeYAML(cmd, multiplyOutput{Rows: rows})
		},
	}
	cmd.Flags().Float64SliceVar(&vector, "vector", nil, "One value per state")

	return cmd
}
