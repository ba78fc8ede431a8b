// SPDX-License-Identifier: MIT

package quotient

import (
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"

	"github.com/katalvlaran/probsynth/bitvector"
	"github.com/katalvlaran/probsynth/model"
	"github.com/katalvlaran/probsynth/synthesis"
)

// Quotient is an MDP whose choices are labelled with hole assignments.
// It is immutable and safe for concurrent use.
type Quotient struct {
	mdp        *model.Model
	actions    []Assignment
	defaults   *bitvector.BitVector
	stateHoles [][]int
	logger     *zap.Logger
}

// SubMDP is the quotient restricted to a family.
//   - StateMap and ChoiceMap (from the embedded Submodel) point into the quotient.
//   - SelectedActions are the non-default quotient choices the family kept.
//   - Hints are the parent's hints translated onto this state space.
type SubMDP struct {
	*model.Submodel
	Family          *Family
	SelectedActions []int
	Hints           map[string]HintPair
}

// ParentInfo packs what a split of s.Family has to remember.
// hints are indexed by quotient states, as returned by CollectHints.
func (s *SubMDP) ParentInfo(splitter int, hints map[string]HintPair) *ParentInfo {
	return &ParentInfo{
		SelectedActions: slices.Clone(s.SelectedActions),
		Splitter:        splitter,
		Hints:           hints,
	}
}

// New wraps mdp with the hole assignment of each of its choices.
// A choice whose assignment is empty is a default action.
//
// Errors:
//   - ErrNilModel when mdp is nil.
//   - ErrActionCount when len(actions) != mdp.ChoiceCount().
func New(mdp *model.Model, actions []Assignment, opts ...Option) (*Quotient, error) {
	if mdp == nil {
		return nil, fmt.Errorf("quotient.New: %w", ErrNilModel)
	}
	if len(actions) != mdp.ChoiceCount() {
		return nil, fmt.Errorf("quotient.New: %d assignments for %d choices: %w",
			len(actions), mdp.ChoiceCount(), ErrActionCount)
	}
	o := gatherOptions(opts...)

	q := &Quotient{
		mdp:        mdp,
		actions:    make([]Assignment, len(actions)),
		defaults:   bitvector.FromBools(make([]bool, len(actions))),
		stateHoles: make([][]int, mdp.StateCount()),
		logger:     o.logger.Named("quotient"),
	}
	for c, a := range actions {
		q.actions[c] = maps.Clone(a)
		if len(a) == 0 {
			_ = q.defaults.Set(c)
		}
	}
	for s := range q.stateHoles {
		start, end, _ := mdp.Choices(s)
		seen := make(map[int]bool)
		for c := start; c < end; c++ {
			for h := range actions[c] {
				seen[h] = true
			}
		}
		q.stateHoles[s] = slices.Sorted(maps.Keys(seen))
	}

	return q, nil
}

// Model returns the quotient MDP.
func (q *Quotient) Model() *model.Model { return q.mdp }

// DefaultActions returns a copy of the flags of the choices without hole options.
func (q *Quotient) DefaultActions() *bitvector.BitVector { return q.defaults.Clone() }

// Assignment returns a copy of the hole options of quotient choice c.
func (q *Quotient) Assignment(c int) Assignment { return maps.Clone(q.actions[c]) }

// StateHoles returns the holes that appear in some choice of quotient state s.
func (q *Quotient) StateHoles(s int) []int { return slices.Clone(q.stateHoles[s]) }

// SelectActions returns the non-default choices compatible with f and the
// choice selection (defaults plus those choices).
//
// A root family scans every non-default choice. A family produced by a split
// filters the parent's selection instead: only choices involving the splitter
// hole can have become incompatible.
func (q *Quotient) SelectActions(f *Family) ([]int, *bitvector.BitVector, error) {
	var selected []int
	if p := f.Parent(); p == nil {
		for c, a := range q.actions {
			if q.defaults.Test(c) {
				continue
			}
			if f.Includes(a) {
				selected = append(selected, c)
			}
		}
	} else {
		for _, c := range p.SelectedActions {
			a := q.actions[c]
			if _, ok := a[p.Splitter]; !ok || f.Includes(a) {
				selected = append(selected, c)
			}
		}
	}

	idx := make([]uint64, len(selected))
	for i, c := range selected {
		idx[i] = uint64(c)
	}
	bv, err := synthesis.ConstructSelection(q.defaults, idx)
	if err != nil {
		return nil, nil, fmt.Errorf("Quotient.SelectActions: %w", err)
	}

	return selected, bv, nil
}

// Build restricts the quotient to the choices of f and to the states
// reachable through them. Hints of f's parent are translated onto the
// resulting state space.
func (q *Quotient) Build(f *Family) (*SubMDP, error) {
	selected, bv, err := q.SelectActions(f)
	if err != nil {
		return nil, fmt.Errorf("Quotient.Build: %w", err)
	}
	sub, err := q.mdp.Restrict(bv, false)
	if err != nil {
		return nil, fmt.Errorf("Quotient.Build: %w", err)
	}

	out := &SubMDP{Submodel: sub, Family: f, SelectedActions: selected}
	if p := f.Parent(); p != nil && len(p.Hints) > 0 {
		out.Hints = make(map[string]HintPair, len(p.Hints))
		for key, pair := range p.Hints {
			var translated HintPair
			if translated.Primary, err = TranslateHint(sub, pair.Primary); err != nil {
				return nil, fmt.Errorf("Quotient.Build: hint %s: %w", key, err)
			}
			if translated.Secondary, err = TranslateHint(sub, pair.Secondary); err != nil {
				return nil, fmt.Errorf("Quotient.Build: hint %s: %w", key, err)
			}
			out.Hints[key] = translated
		}
	}
	q.logger.Debug("family built",
		zap.Stringer("family", f),
		zap.Int("states", sub.Model.StateCount()),
		zap.Int("choices", sub.Model.ChoiceCount()),
		zap.Int("hints", len(out.Hints)),
	)

	return out, nil
}

// BuildChain returns the DTMC of a singleton family.
// Errors: ErrNotSingleton when f.Size() != 1.
func (q *Quotient) BuildChain(f *Family) (*model.Submodel, error) {
	if size := f.Size(); size != 1 {
		return nil, fmt.Errorf("Quotient.BuildChain: size %d: %w", size, ErrNotSingleton)
	}
	_, bv, err := q.SelectActions(f)
	if err != nil {
		return nil, fmt.Errorf("Quotient.BuildChain: %w", err)
	}
	sub, err := q.mdp.Restrict(bv, false)
	if err != nil {
		return nil, fmt.Errorf("Quotient.BuildChain: %w", err)
	}
	dtmc, err := sub.Model.ToDTMC()
	if err != nil {
		return nil, fmt.Errorf("Quotient.BuildChain: %w", err)
	}

	return &model.Submodel{Model: dtmc, StateMap: sub.StateMap, ChoiceMap: sub.ChoiceMap}, nil
}

// SchedulerSelection returns, for every hole, the sorted options used by the
// choices scheduler picks in the states it reaches. A hole with no entry is
// never decided by the scheduler.
func (q *Quotient) SchedulerSelection(sub *SubMDP, scheduler []int) ([][]int, error) {
	induced, err := induce(sub.Submodel, scheduler)
	if err != nil {
		return nil, fmt.Errorf("Quotient.SchedulerSelection: %w", err)
	}

	holes := sub.Family.HoleCount()
	used := make([]map[int]bool, holes)
	for _, c := range induced.ChoiceMap {
		for h, opt := range q.actions[sub.ChoiceMap[c]] {
			if h >= holes {
				continue
			}
			if used[h] == nil {
				used[h] = make(map[int]bool)
			}
			used[h][opt] = true
		}
	}

	selection := make([][]int, holes)
	for h, opts := range used {
		selection[h] = slices.Sorted(maps.Keys(opts))
	}

	return selection, nil
}

// Consistent reports whether selection picks at most one option per hole.
func Consistent(selection [][]int) bool {
	for _, opts := range selection {
		if len(opts) > 1 {
			return false
		}
	}

	return true
}

// induce restricts sub to the choices of a memoryless deterministic scheduler
// given as local choice indices, keeping only reachable states.
func induce(sub *model.Submodel, scheduler []int) (*model.Submodel, error) {
	m := sub.Model
	if len(scheduler) != m.StateCount() {
		return nil, fmt.Errorf("scheduler len=%d states=%d: %w", len(scheduler), m.StateCount(), ErrInvalidScheduler)
	}
	support := bitvector.FromBools(make([]bool, m.ChoiceCount()))
	for s, local := range scheduler {
		start, end, _ := m.Choices(s)
		if local < 0 || start+local >= end {
			return nil, fmt.Errorf("state %d choice %d: %w", s, local, ErrInvalidScheduler)
		}
		_ = support.Set(start + local)
	}

	return m.Restrict(support, false)
}
