// SPDX-License-Identifier: MIT

package quotient

import (
	"fmt"
	"math"

	"github.com/katalvlaran/probsynth/engine"
	"github.com/katalvlaran/probsynth/model"
	"github.com/katalvlaran/probsynth/synthesis"
)

// MakeVectorDefined returns a copy of v in which every +Inf is replaced by
// the sum of the finite entries divided by len(v).
func MakeVectorDefined(v []float64) []float64 {
	out := make([]float64, len(v))
	if len(v) == 0 {
		return out
	}
	var sum float64
	for _, x := range v {
		if !math.IsInf(x, 1) {
			sum += x
		}
	}
	fill := sum / float64(len(v))
	for i, x := range v {
		if math.IsInf(x, 1) {
			x = fill
		}
		out[i] = x
	}

	return out
}

// ChoiceValues scores every choice of sub against the per-state values of a
// verification of f:
//
//	value(c) = Σ P(c, t)·values[t] + rew(c)
//
// where rew(c) is the state-action reward of c for reward formulas and 0
// otherwise. Infinite sums are made defined with MakeVectorDefined first.
//
// Errors:
//   - sparse.ErrDimensionMismatch when len(values) != states of sub.
//   - model.ErrUnknownRewardModel for a reward formula over a missing model.
//   - ErrUndefinedValue when a value is NaN, e.g. for a filtered result.
func ChoiceValues(sub *model.Submodel, f engine.Formula, values []float64) ([]float64, error) {
	product, err := synthesis.MultiplyWithVector(sub.Model.Transitions(), values)
	if err != nil {
		return nil, fmt.Errorf("ChoiceValues: %w", err)
	}
	out := MakeVectorDefined(product)

	if f.Kind == engine.ExpectedReward {
		rm, err := sub.Model.RewardModel(f.RewardModel)
		if err != nil {
			return nil, fmt.Errorf("ChoiceValues: %w", err)
		}
		if rm.HasStateActionRewards() {
			for c := range out {
				out[c] += rm.StateActionRewards[c]
			}
		}
	}

	for c, x := range out {
		if math.IsNaN(x) {
			return nil, fmt.Errorf("ChoiceValues: choice %d: %w", c, ErrUndefinedValue)
		}
	}

	return out, nil
}

// ExpectedVisits returns the expected number of visits of every state of sub
// in the chain induced by scheduler (local choice per state), started in the
// chain's first initial state.
//
// Infinite counts (recurrent states) become the mean of MakeVectorDefined
// when minimizing and 0 otherwise. States the scheduler never reaches get 0.
func ExpectedVisits(eng engine.Engine, env engine.Environment, sub *model.Submodel, scheduler []int, minimizing bool) ([]float64, error) {
	induced, err := induce(sub, scheduler)
	if err != nil {
		return nil, fmt.Errorf("ExpectedVisits: %w", err)
	}
	dtmc, err := induced.Model.ToDTMC()
	if err != nil {
		return nil, fmt.Errorf("ExpectedVisits: %w", err)
	}

	res, err := synthesis.ComputeExpectedNumberOfVisits(eng, env, dtmc, uint64(dtmc.InitialStateIndices()[0]))
	if err != nil {
		return nil, fmt.Errorf("ExpectedVisits: %w", err)
	}
	visits := res.Values()
	if minimizing {
		visits = MakeVectorDefined(visits)
	} else {
		for i, x := range visits {
			if math.IsInf(x, 1) {
				visits[i] = 0
			}
		}
	}

	out := make([]float64, sub.Model.StateCount())
	for s, x := range visits {
		out[induced.StateMap[s]] = x
	}

	return out, nil
}

// GeneralizeHint lifts per-state values of sub onto the quotient state space.
// Quotient states outside sub are NaN.
func (q *Quotient) GeneralizeHint(sub *model.Submodel, values []float64) ([]float64, error) {
	if len(values) != len(sub.StateMap) {
		return nil, fmt.Errorf("Quotient.GeneralizeHint: len=%d states=%d: %w",
			len(values), len(sub.StateMap), ErrVectorLength)
	}
	global := make([]float64, q.mdp.StateCount())
	for s := range global {
		global[s] = math.NaN()
	}
	for s, x := range values {
		global[sub.StateMap[s]] = x
	}

	return global, nil
}

// TranslateHint projects quotient-indexed values onto the states of sub.
// A nil hint stays nil; NaN entries become 0.
func TranslateHint(sub *model.Submodel, global []float64) ([]float64, error) {
	if global == nil {
		return nil, nil
	}
	local := make([]float64, len(sub.StateMap))
	for s, gs := range sub.StateMap {
		if gs >= len(global) {
			return nil, fmt.Errorf("TranslateHint: state %d of %d: %w", gs, len(global), ErrVectorLength)
		}
		x := global[gs]
		if math.IsNaN(x) {
			x = 0
		}
		local[s] = x
	}

	return local, nil
}

// CollectHints generalizes both results of a two-direction check of sub.
func (q *Quotient) CollectHints(sub *model.Submodel, res *Results) (HintPair, error) {
	var pair HintPair
	var err error
	if res.Primary != nil {
		if pair.Primary, err = q.GeneralizeHint(sub, res.Primary.Values()); err != nil {
			return HintPair{}, err
		}
	}
	if res.Secondary != nil {
		if pair.Secondary, err = q.GeneralizeHint(sub, res.Secondary.Values()); err != nil {
			return HintPair{}, err
		}
	}

	return pair, nil
}
