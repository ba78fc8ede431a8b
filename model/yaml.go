// SPDX-License-Identifier: MIT

package model

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/probsynth/bitvector"
	"github.com/katalvlaran/probsynth/sparse"
)

// fileModel mirrors the YAML model format:
//
//	kind: mdp            # dtmc | mdp; inferred when omitted
//	initial: [0]
//	states:
//	  - choices:
//	      - {1: 0.5, 2: 0.5}
//	      - {0: 1}
//	  - choices:
//	      - {1: 1}
//	labels:
//	  goal: [1]
//	rewards:
//	  steps:
//	    state: [1, 0]
//	    stateAction: [0, 2, 0]
type fileModel struct {
	Kind    string                `yaml:"kind"`
	Initial []int                 `yaml:"initial"`
	States  []fileState           `yaml:"states"`
	Labels  map[string][]int      `yaml:"labels"`
	Rewards map[string]fileReward `yaml:"rewards"`
}

type fileState struct {
	Choices []map[int]float64 `yaml:"choices"`
}

type fileReward struct {
	State       []float64 `yaml:"state"`
	StateAction []float64 `yaml:"stateAction"`
}

// LoadFile decodes the YAML model stored at path.
func LoadFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("model: open %s: %w", path, err)
	}
	defer f.Close()

	m, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return m, nil
}

// Decode reads one YAML model description from r. Unknown fields are rejected.
func Decode(r io.Reader) (*Model, error) {
	var fm fileModel
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	n := len(fm.States)
	b := sparse.NewBuilder(sparse.WithCustomRowGrouping(), sparse.WithDimensions(0, n))
	row := 0
	nondeterministic := false
	for s, st := range fm.States {
		if err := b.NewRowGroup(row); err != nil {
			return nil, fmt.Errorf("%w: state %d: %v", ErrDecode, s, err)
		}
		if len(st.Choices) > 1 {
			nondeterministic = true
		}
		for _, choice := range st.Choices {
			for _, t := range slices.Sorted(maps.Keys(choice)) {
				if err := b.AddNextValue(row, t, choice[t]); err != nil {
					return nil, fmt.Errorf("%w: state %d: %v", ErrDecode, s, err)
				}
			}
			row++
		}
	}
	tm, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	comps := Components{
		Transitions:  tm,
		Labels:       make(map[string]*bitvector.BitVector, len(fm.Labels)),
		RewardModels: make(map[string]RewardModel, len(fm.Rewards)),
	}
	if comps.InitialStates, err = bitvector.FromIndices(n, fm.Initial); err != nil {
		return nil, fmt.Errorf("%w: initial: %v", ErrDecode, err)
	}
	for name, states := range fm.Labels {
		if comps.Labels[name], err = bitvector.FromIndices(n, states); err != nil {
			return nil, fmt.Errorf("%w: label %q: %v", ErrDecode, name, err)
		}
	}
	for name, rw := range fm.Rewards {
		comps.RewardModels[name] = RewardModel{StateRewards: rw.State, StateActionRewards: rw.StateAction}
	}

	switch fm.Kind {
	case "dtmc":
		return NewDTMC(comps)
	case "mdp":
		return NewMDP(comps)
	case "":
		if nondeterministic {
			return NewMDP(comps)
		}

		return NewDTMC(comps)
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrDecode, fm.Kind)
	}
}
