package main

import (
	"github.com/spf13/cobra"

	"github.com/katalvlaran/probsynth/bitvector"
	"github.com/katalvlaran/probsynth/synthesis"
)

type selectOutput struct {
	Selection string `yaml:"selection"`
	Count     int    `yaml:"count"`
}

func newSelectCmd(*app) *cobra.Command {
	var (
		defaults string
		set      []uint
	)
	cmd := &cobra.Command{
		Use:   "select",
		Short: "Combine default action flags with selected actions",
		Long: `Prints the default flags with every --set index switched on.

Example:
  probsynth select --defaults 0011 --set 0,1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := bitvector.Parse(defaults)
			if err != nil {
				return err
			}
			selected := make([]uint64, len(set))
			for i, idx := range set {
				selected[i] = uint64(idx)
			}
			out, err := synthesis.ConstructSelection(d, selected)
			if err != nil {
				return err
			}

			return writeYAML(cmd, selectOutput{Selection: out.String(), Count: out.Count()})
		},
	}
	cmd.Flags().StringVar(&defaults, "defaults", "", "Default flags as a 0/1 string")
	cmd.Flags().UintSliceVar(&set, "set", nil, "Action indices to select")

	return cmd
}
