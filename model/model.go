// SPDX-License-Identifier: MIT

package model

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/katalvlaran/probsynth/bitvector"
	"github.com/katalvlaran/probsynth/sparse"
)

// StochasticTolerance bounds |Σ row - 1| for every choice.
const StochasticTolerance = 1e-9

// Kind distinguishes Markov chains from decision processes.
type Kind int

const (
	// DTMC is a discrete-time Markov chain: exactly one choice per state.
	DTMC Kind = iota
	// MDP is a Markov decision process: one or more choices per state.
	MDP
)

// String returns "dtmc" or "mdp".
func (k Kind) String() string {
	switch k {
	case DTMC:
		return "dtmc"
	case MDP:
		return "mdp"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// RewardModel assigns rewards to states and/or choices. Either slice may be nil.
//   - StateRewards has one entry per state.
//   - StateActionRewards has one entry per choice (matrix row).
type RewardModel struct {
	StateRewards       []float64
	StateActionRewards []float64
}

// HasStateRewards reports whether state rewards are present.
func (r RewardModel) HasStateRewards() bool { return r.StateRewards != nil }

// HasStateActionRewards reports whether state-action rewards are present.
func (r RewardModel) HasStateActionRewards() bool { return r.StateActionRewards != nil }

// ChoiceReward returns the total reward collected when choice c of state s is taken.
func (r RewardModel) ChoiceReward(s, c int) float64 {
	var total float64
	if r.StateRewards != nil {
		total += r.StateRewards[s]
	}
	if r.StateActionRewards != nil {
		total += r.StateActionRewards[c]
	}

	return total
}

func (r RewardModel) clone() RewardModel {
	return RewardModel{
		StateRewards:       slices.Clone(r.StateRewards),
		StateActionRewards: slices.Clone(r.StateActionRewards),
	}
}

// Components bundles everything needed to construct a Model.
type Components struct {
	Transitions   *sparse.Matrix
	Labels        map[string]*bitvector.BitVector
	InitialStates *bitvector.BitVector
	RewardModels  map[string]RewardModel
}

// Model is an immutable DTMC or MDP.
type Model struct {
	kind        Kind
	transitions *sparse.Matrix
	labels      map[string]*bitvector.BitVector
	initial     *bitvector.BitVector
	rewards     map[string]RewardModel
	rowState    []int // owning state of each choice
}

// NewDTMC validates c and returns a Markov chain.
// Errors: everything NewMDP reports, plus ErrNotDTMC when a state has more than one choice.
func NewDTMC(c Components) (*Model, error) {
	m, err := build(DTMC, c)
	if err != nil {
		return nil, fmt.Errorf("NewDTMC: %w", err)
	}

	return m, nil
}

// NewMDP validates c and returns a decision process.
//
// Validation order: transitions nil → shape → deadlocks → stochasticity →
// initial states → labels → rewards.
func NewMDP(c Components) (*Model, error) {
	m, err := build(MDP, c)
	if err != nil {
		return nil, fmt.Errorf("NewMDP: %w", err)
	}

	return m, nil
}

func build(kind Kind, c Components) (*Model, error) {
	tm := c.Transitions
	if tm == nil {
		return nil, ErrNilTransitions
	}
	n := tm.RowGroupCount()
	if tm.ColumnCount() != n {
		return nil, fmt.Errorf("%d groups vs %d columns: %w", n, tm.ColumnCount(), ErrNotSquare)
	}

	groups := tm.RowGroupIndices()
	rowState := make([]int, tm.RowCount())
	for s := 0; s < n; s++ {
		if groups[s+1] == groups[s] {
			return nil, fmt.Errorf("state %d: %w", s, ErrDeadlock)
		}
		if kind == DTMC && groups[s+1]-groups[s] > 1 {
			return nil, fmt.Errorf("state %d: %w", s, ErrNotDTMC)
		}
		for r := groups[s]; r < groups[s+1]; r++ {
			rowState[r] = s
			if err := checkDistribution(tm, r); err != nil {
				return nil, err
			}
		}
	}

	if c.InitialStates == nil || c.InitialStates.Len() != n {
		return nil, fmt.Errorf("initial states len=%d states=%d: %w", c.InitialStates.Len(), n, ErrVectorLength)
	}
	if c.InitialStates.Empty() {
		return nil, ErrNoInitialState
	}

	labels := make(map[string]*bitvector.BitVector, len(c.Labels))
	for name, bv := range c.Labels {
		if bv.Len() != n {
			return nil, fmt.Errorf("label %q len=%d states=%d: %w", name, bv.Len(), n, ErrVectorLength)
		}
		labels[name] = bv.Clone()
	}

	rewards := make(map[string]RewardModel, len(c.RewardModels))
	for name, rm := range c.RewardModels {
		if rm.StateRewards != nil && len(rm.StateRewards) != n {
			return nil, fmt.Errorf("reward model %q state rewards: %w", name, ErrVectorLength)
		}
		if rm.StateActionRewards != nil && len(rm.StateActionRewards) != tm.RowCount() {
			return nil, fmt.Errorf("reward model %q state-action rewards: %w", name, ErrVectorLength)
		}
		rewards[name] = rm.clone()
	}

	return &Model{
		kind:        kind,
		transitions: tm,
		labels:      labels,
		initial:     c.InitialStates.Clone(),
		rewards:     rewards,
		rowState:    rowState,
	}, nil
}

// checkDistribution verifies that row r is a probability distribution.
func checkDistribution(tm *sparse.Matrix, r int) error {
	_, vals, err := tm.Row(r)
	if err != nil {
		return err
	}
	var sum float64
	for _, v := range vals {
		if v < 0 {
			return fmt.Errorf("choice %d has weight %g: %w", r, v, ErrNotStochastic)
		}
		sum += v
	}
	if math.Abs(sum-1) > StochasticTolerance {
		return fmt.Errorf("choice %d sums to %g: %w", r, sum, ErrNotStochastic)
	}

	return nil
}

// Kind returns DTMC or MDP.
func (m *Model) Kind() Kind { return m.kind }

// IsDTMC reports whether the model is a Markov chain.
func (m *Model) IsDTMC() bool { return m.kind == DTMC }

// StateCount returns the number of states.
func (m *Model) StateCount() int { return m.transitions.RowGroupCount() }

// ChoiceCount returns the number of choices (matrix rows).
func (m *Model) ChoiceCount() int { return m.transitions.RowCount() }

// Transitions returns the (immutable) transition matrix.
func (m *Model) Transitions() *sparse.Matrix { return m.transitions }

// Choices returns the half-open choice range [start, end) of state s.
func (m *Model) Choices(s int) (start, end int, err error) {
	return m.transitions.RowGroup(s)
}

// ChoiceState returns the state owning choice c.
func (m *Model) ChoiceState(c int) (int, error) {
	if c < 0 || c >= len(m.rowState) {
		return 0, fmt.Errorf("Model.ChoiceState(%d): %w", c, sparse.ErrOutOfRange)
	}

	return m.rowState[c], nil
}

// InitialStates returns a copy of the initial-state set.
func (m *Model) InitialStates() *bitvector.BitVector { return m.initial.Clone() }

// InitialStateIndices returns the initial states in ascending order.
func (m *Model) InitialStateIndices() []int { return m.initial.Indices() }

// HasLabel reports whether label name exists.
func (m *Model) HasLabel(name string) bool {
	_, ok := m.labels[name]

	return ok
}

// Label returns a copy of the states carrying label name.
func (m *Model) Label(name string) (*bitvector.BitVector, error) {
	bv, ok := m.labels[name]
	if !ok {
		return nil, fmt.Errorf("Model.Label(%q): %w", name, ErrUnknownLabel)
	}

	return bv.Clone(), nil
}

// LabelNames returns the label names in ascending order.
func (m *Model) LabelNames() []string {
	names := make([]string, 0, len(m.labels))
	for name := range m.labels {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// RewardModel returns a copy of reward model name.
func (m *Model) RewardModel(name string) (RewardModel, error) {
	rm, ok := m.rewards[name]
	if !ok {
		return RewardModel{}, fmt.Errorf("Model.RewardModel(%q): %w", name, ErrUnknownRewardModel)
	}

	return rm.clone(), nil
}

// RewardModelNames returns the reward model names in ascending order.
func (m *Model) RewardModelNames() []string {
	names := make([]string, 0, len(m.rewards))
	for name := range m.rewards {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// String summarizes the model, e.g. "mdp: 4 states, 6 choices, 9 transitions".
func (m *Model) String() string {
	return fmt.Sprintf("%s: %d states, %d choices, %d transitions",
		m.kind, m.StateCount(), m.ChoiceCount(), m.transitions.EntryCount())
}
