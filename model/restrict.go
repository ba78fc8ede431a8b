// SPDX-License-Identifier: MIT

package model

import (
	"fmt"

	"github.com/katalvlaran/probsynth/bitvector"
	"github.com/katalvlaran/probsynth/sparse"
)

// Submodel is a model induced by a choice selection together with the maps
// back to the model it was derived from.
//   - StateMap[s'] is the original state of sub-state s'.
//   - ChoiceMap[c'] is the original choice of sub-choice c'.
type Submodel struct {
	Model     *Model
	StateMap  []int
	ChoiceMap []int
}

// Restrict builds the sub-model that keeps only the selected choices.
//
// Implementation:
//   - Stage 1: validate the selection length (one flag per choice).
//   - Stage 2: pick the kept states: all states, or, unless keepUnreachable,
//     the states reachable from the initial states through selected choices.
//   - Stage 3: renumber kept states in ascending order and copy the selected
//     rows, labels, initial states and rewards.
//
// The result keeps the receiver's kind; a DTMC stays a DTMC.
//
// Errors:
//   - ErrVectorLength when selection.Len() != ChoiceCount().
//   - ErrDeadlock when a kept state has no selected choice.
func (m *Model) Restrict(selection *bitvector.BitVector, keepUnreachable bool) (*Submodel, error) {
	if selection.Len() != m.ChoiceCount() {
		return nil, fmt.Errorf("Model.Restrict: selection len=%d choices=%d: %w",
			selection.Len(), m.ChoiceCount(), ErrVectorLength)
	}
	n := m.StateCount()
	tm := m.transitions
	groups := tm.RowGroupIndices()

	kept := make([]bool, n)
	if keepUnreachable {
		for s := range kept {
			kept[s] = true
		}
	} else {
		queue := m.initial.Indices()
		for _, s := range queue {
			kept[s] = true
		}
		for len(queue) > 0 {
			s := queue[0]
			queue = queue[1:]
			for r := groups[s]; r < groups[s+1]; r++ {
				if !selection.Test(r) {
					continue
				}
				cols, _, _ := tm.Row(r)
				for _, t := range cols {
					if !kept[t] {
						kept[t] = true
						queue = append(queue, t)
					}
				}
			}
		}
	}

	newIndex := make([]int, n)
	var stateMap []int
	for s := 0; s < n; s++ {
		newIndex[s] = -1
		if kept[s] {
			newIndex[s] = len(stateMap)
			stateMap = append(stateMap, s)
		}
	}

	b := sparse.NewBuilder(
		sparse.WithCustomRowGrouping(),
		sparse.WithDimensions(0, len(stateMap)),
	)
	var choiceMap []int
	for sNew, s := range stateMap {
		if err := b.NewRowGroup(len(choiceMap)); err != nil {
			return nil, fmt.Errorf("Model.Restrict: %w", err)
		}
		before := len(choiceMap)
		for r := groups[s]; r < groups[s+1]; r++ {
			if !selection.Test(r) {
				continue
			}
			row := len(choiceMap)
			cols, vals, _ := tm.Row(r)
			for k, t := range cols {
				if newIndex[t] < 0 {
					// only reachable with keepUnreachable=false, where successors are kept
					return nil, fmt.Errorf("Model.Restrict: successor %d of state %d dropped: %w", t, s, ErrDeadlock)
				}
				if err := b.AddNextValue(row, newIndex[t], vals[k]); err != nil {
					return nil, fmt.Errorf("Model.Restrict: %w", err)
				}
			}
			choiceMap = append(choiceMap, r)
		}
		if len(choiceMap) == before {
			return nil, fmt.Errorf("Model.Restrict: state %d (sub-state %d): %w", s, sNew, ErrDeadlock)
		}
	}
	sub, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("Model.Restrict: %w", err)
	}

	comps := Components{
		Transitions:   sub,
		Labels:        make(map[string]*bitvector.BitVector, len(m.labels)),
		InitialStates: project(m.initial, stateMap),
		RewardModels:  make(map[string]RewardModel, len(m.rewards)),
	}
	for name, bv := range m.labels {
		comps.Labels[name] = project(bv, stateMap)
	}
	for name, rm := range m.rewards {
		var out RewardModel
		if rm.StateRewards != nil {
			out.StateRewards = gather(rm.StateRewards, stateMap)
		}
		if rm.StateActionRewards != nil {
			out.StateActionRewards = gather(rm.StateActionRewards, choiceMap)
		}
		comps.RewardModels[name] = out
	}

	restricted, err := build(m.kind, comps)
	if err != nil {
		return nil, fmt.Errorf("Model.Restrict: %w", err)
	}

	return &Submodel{Model: restricted, StateMap: stateMap, ChoiceMap: choiceMap}, nil
}

// ToDTMC reinterprets an MDP whose states all have exactly one choice as a DTMC.
// A DTMC receiver is returned unchanged.
// Errors: ErrNotDTMC when some state still has several choices.
func (m *Model) ToDTMC() (*Model, error) {
	if m.kind == DTMC {
		return m, nil
	}
	if m.ChoiceCount() != m.StateCount() {
		return nil, fmt.Errorf("Model.ToDTMC: %d choices for %d states: %w",
			m.ChoiceCount(), m.StateCount(), ErrNotDTMC)
	}

	dtmc, err := build(DTMC, Components{
		Transitions:   m.transitions,
		Labels:        m.labels,
		InitialStates: m.initial,
		RewardModels:  m.rewards,
	})
	if err != nil {
		return nil, fmt.Errorf("Model.ToDTMC: %w", err)
	}

	return dtmc, nil
}

// project keeps the flags of the listed positions, in order.
func project(bv *bitvector.BitVector, positions []int) *bitvector.BitVector {
	flags := make([]bool, len(positions))
	for i, p := range positions {
		flags[i] = bv.Test(p)
	}

	return bitvector.FromBools(flags)
}

func gather(values []float64, positions []int) []float64 {
	out := make([]float64, len(positions))
	for i, p := range positions {
		out[i] = values[p]
	}

	return out
}
