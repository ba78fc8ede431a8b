// SPDX-License-Identifier: MIT

package quotient

import (
	"fmt"
	"math"

	"github.com/katalvlaran/probsynth/engine"
	"github.com/katalvlaran/probsynth/model"
)

// DefaultComparePrecision is the tolerance under which two values count as equal.
const DefaultComparePrecision = 1e-10

// Decision is the verdict of a property over a whole family.
type Decision int

const (
	// Undecided means some members may satisfy the property and some may not.
	Undecided Decision = iota
	// Sat means every member satisfies the property.
	Sat
	// Unsat means no member satisfies the property.
	Unsat
)

func (d Decision) String() string {
	switch d {
	case Sat:
		return "sat"
	case Unsat:
		return "unsat"
	default:
		return "undecided"
	}
}

// PairProperty compares the value of Formula in two initial states:
//
//	value(init[StateQuant]) <= value(init[CompareState])   when Direction is Minimize
//	value(init[StateQuant]) >= value(init[CompareState])   when Direction is Maximize
//
// StateQuant and CompareState index the ascending list of initial states,
// which restriction to a family preserves.
type PairProperty struct {
	Formula      engine.Formula
	StateQuant   int
	CompareState int
	Direction    engine.Direction
	Precision    float64
}

// NewPairProperty returns the property with DefaultComparePrecision.
func NewPairProperty(f engine.Formula, quant, compare int, d engine.Direction) PairProperty {
	return PairProperty{
		Formula:      f,
		StateQuant:   quant,
		CompareState: compare,
		Direction:    d,
		Precision:    DefaultComparePrecision,
	}
}

// Double swaps the two states and the direction: the same relation read
// from the other side.
func (p PairProperty) Double() PairProperty {
	p.StateQuant, p.CompareState = p.CompareState, p.StateQuant
	p.Direction = p.Direction.Opposite()

	return p
}

func (p PairProperty) String() string {
	op := ">="
	if p.Direction == engine.Minimize {
		op = "<="
	}

	return fmt.Sprintf("%s %d %s %d", p.Formula, p.StateQuant, op, p.CompareState)
}

// Meets reports whether a relates to b as required. Values within Precision
// of each other always meet.
func (p PairProperty) Meets(a, b float64) bool {
	if math.Abs(a-b) <= p.Precision || a == b {
		return true
	}
	if p.Direction == engine.Minimize {
		return a <= b
	}

	return a >= b
}

// PairOutcome holds the compared values of both directions.
//   - Value and Threshold: primary result in StateQuant against the
//     opposite-direction result in CompareState.
//   - AltValue and AltThreshold: the same with the directions swapped.
type PairOutcome struct {
	Decision     Decision
	Value        float64
	Threshold    float64
	AltValue     float64
	AltThreshold float64
}

// Decide evaluates p on results of CheckBothDirections(…, p.Formula, p.Direction, …).
//
// The primary comparison is the most favourable one: if it fails, no member
// can satisfy p. The alternative comparison is the least favourable one: if it
// holds, every member does.
func (p PairProperty) Decide(m *model.Model, res *Results) (PairOutcome, error) {
	initial := m.InitialStateIndices()
	for _, pos := range []int{p.StateQuant, p.CompareState} {
		if pos < 0 || pos >= len(initial) {
			return PairOutcome{}, fmt.Errorf("PairProperty.Decide: position %d of %d: %w", pos, len(initial), ErrUnknownInitialState)
		}
	}
	sq, cs := initial[p.StateQuant], initial[p.CompareState]

	var out PairOutcome
	var err error
	if out.Value, err = res.Primary.At(sq); err != nil {
		return PairOutcome{}, fmt.Errorf("PairProperty.Decide: %w", err)
	}
	if out.Threshold, err = res.Secondary.At(cs); err != nil {
		return PairOutcome{}, fmt.Errorf("PairProperty.Decide: %w", err)
	}
	if out.AltValue, err = res.Secondary.At(sq); err != nil {
		return PairOutcome{}, fmt.Errorf("PairProperty.Decide: %w", err)
	}
	if out.AltThreshold, err = res.Primary.At(cs); err != nil {
		return PairOutcome{}, fmt.Errorf("PairProperty.Decide: %w", err)
	}

	switch {
	case !p.Meets(out.Value, out.Threshold):
		out.Decision = Unsat
	case p.Meets(out.AltValue, out.AltThreshold):
		out.Decision = Sat
	default:
		out.Decision = Undecided
	}

	return out, nil
}

// PropertyResult is one check of a PairProperty on a sub-MDP.
// Analysis is nil when the family was rejected.
type PropertyResult struct {
	Property PairProperty
	Results  *Results
	Outcome  PairOutcome
	Analysis *SchedulerAnalysis
}

// CheckProperty verifies p on sub in both directions, warm-started from
// sub.Hints[p.String()], decides it and, unless the family is rejected,
// analyses the primary scheduler.
func (q *Quotient) CheckProperty(eng engine.Engine, env engine.Environment, sub *SubMDP, p PairProperty) (*PropertyResult, error) {
	res, err := CheckBothDirections(eng, env, sub.Model, p.Formula, p.Direction, sub.Hints[p.String()])
	if err != nil {
		return nil, fmt.Errorf("Quotient.CheckProperty: %w", err)
	}
	outcome, err := p.Decide(sub.Model, res)
	if err != nil {
		return nil, fmt.Errorf("Quotient.CheckProperty: %w", err)
	}

	out := &PropertyResult{Property: p, Results: res, Outcome: outcome}
	if outcome.Decision == Unsat {
		return out, nil
	}
	out.Analysis, err = q.SchedulerConsistent(eng, env, sub, p.Formula, res.Primary, p.Direction == engine.Minimize)
	if err != nil {
		return nil, fmt.Errorf("Quotient.CheckProperty: %w", err)
	}

	return out, nil
}
