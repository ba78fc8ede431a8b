// SPDX-License-Identifier: MIT

package quotient

import (
	"fmt"
	"math"
	"slices"

	"go.uber.org/zap"

	"github.com/katalvlaran/probsynth/engine"
)

// SchedulerAnalysis describes how far a scheduler of a sub-MDP is from
// picking a single member of its family.
//   - Selection[h] lists the options of hole h the scheduler uses.
//   - Scores[h] estimates, for every inconsistent hole h, how much the value
//     depends on the choice between its used options. Scores, ChoiceValues
//     and Visits are nil when the selection is consistent.
type SchedulerAnalysis struct {
	Selection    [][]int
	ChoiceValues []float64
	Visits       []float64
	Scores       map[int]float64
	Consistent   bool
}

// SchedulerDifference scores the inconsistent holes of sub.
//
// In every state, the choices carrying an inconsistent option of hole h span
// a range [min, max] of choiceValues; the spread (max-min) is weighted by the
// expected visits of the state. The score of h is the mean weighted spread
// over the states where h was affected (0 when there is none).
func (q *Quotient) SchedulerDifference(sub *SubMDP, inconsistent map[int][]int, choiceValues, visits []float64) map[int]float64 {
	sum := make(map[int]float64, len(inconsistent))
	affected := make(map[int]int, len(inconsistent))
	m := sub.Model

	for s := 0; s < m.StateCount(); s++ {
		lo := make(map[int]float64)
		hi := make(map[int]float64)
		start, end, _ := m.Choices(s)
		for c := start; c < end; c++ {
			global := sub.ChoiceMap[c]
			if q.defaults.Test(global) {
				continue
			}
			v := choiceValues[c]
			for h, opt := range q.actions[global] {
				if !slices.Contains(inconsistent[h], opt) {
					continue
				}
				if cur, ok := lo[h]; !ok || v < cur {
					lo[h] = v
				}
				if cur, ok := hi[h]; !ok || v > cur {
					hi[h] = v
				}
			}
		}
		for h, low := range lo {
			sum[h] += (hi[h] - low) * visits[s]
			affected[h]++
		}
	}

	scores := make(map[int]float64, len(inconsistent))
	for h := range inconsistent {
		if affected[h] > 0 {
			scores[h] = sum[h] / float64(affected[h])
		} else {
			scores[h] = 0
		}
	}

	return scores
}

// SchedulerSelectionQuantitative is SchedulerSelection plus scores for the
// inconsistent holes. Choice values and visits are computed only when some
// hole is inconsistent.
func (q *Quotient) SchedulerSelectionQuantitative(eng engine.Engine, env engine.Environment, sub *SubMDP, f engine.Formula, res *engine.CheckResult, minimizing bool) (*SchedulerAnalysis, error) {
	scheduler := res.Scheduler()
	selection, err := q.SchedulerSelection(sub, scheduler)
	if err != nil {
		return nil, fmt.Errorf("Quotient.SchedulerSelectionQuantitative: %w", err)
	}
	inconsistent := make(map[int][]int)
	for h, opts := range selection {
		if len(opts) > 1 {
			inconsistent[h] = opts
		}
	}
	out := &SchedulerAnalysis{Selection: selection, Consistent: len(inconsistent) == 0}
	if out.Consistent {
		return out, nil
	}

	if out.ChoiceValues, err = ChoiceValues(sub.Submodel, f, res.Values()); err != nil {
		return nil, fmt.Errorf("Quotient.SchedulerSelectionQuantitative: %w", err)
	}
	if out.Visits, err = ExpectedVisits(eng, env, sub.Submodel, scheduler, minimizing); err != nil {
		return nil, fmt.Errorf("Quotient.SchedulerSelectionQuantitative: %w", err)
	}
	out.Scores = q.SchedulerDifference(sub, inconsistent, out.ChoiceValues, out.Visits)

	return out, nil
}

// SchedulerConsistent analyses the scheduler of res and fills the holes it
// never decides with their first allowed option. A sub-MDP with one choice
// per state is consistent by construction.
func (q *Quotient) SchedulerConsistent(eng engine.Engine, env engine.Environment, sub *SubMDP, f engine.Formula, res *engine.CheckResult, minimizing bool) (*SchedulerAnalysis, error) {
	fam := sub.Family
	if sub.Model.ChoiceCount() == sub.Model.StateCount() {
		selection := make([][]int, fam.HoleCount())
		for h := range selection {
			selection[h] = firstOption(fam, h)
		}

		return &SchedulerAnalysis{Selection: selection, Consistent: true}, nil
	}

	out, err := q.SchedulerSelectionQuantitative(eng, env, sub, f, res, minimizing)
	if err != nil {
		return nil, err
	}
	for h, opts := range out.Selection {
		if len(opts) == 0 {
			out.Selection[h] = firstOption(fam, h)
		}
	}

	return out, nil
}

// Split divides the family of sub along the hole with the highest score.
//
// When the scheduler used several options of that hole, each used option
// gets its own subfamily and the unused options share one more, listed
// first. Otherwise the hole's options are halved. Without scores every hole
// with two or more options scores 0; ties go to the lowest hole index.
// The subfamilies remember sub's selection and hints (quotient-indexed).
//
// Errors: ErrNotSplittable when no hole has two options.
func (q *Quotient) Split(sub *SubMDP, analysis *SchedulerAnalysis, hints map[string]HintPair) ([]*Family, error) {
	fam := sub.Family
	var scores map[int]float64
	if analysis != nil {
		scores = analysis.Scores
	}
	if scores == nil {
		scores = make(map[int]float64)
		for h := 0; h < fam.HoleCount(); h++ {
			if len(fam.Options(h)) > 1 {
				scores[h] = 0
			}
		}
	}

	splitter, best := -1, math.Inf(-1)
	for h := 0; h < fam.HoleCount(); h++ {
		if score, ok := scores[h]; ok && score > best {
			splitter, best = h, score
		}
	}
	if splitter < 0 {
		return nil, fmt.Errorf("Quotient.Split: %s: %w", fam, ErrNotSplittable)
	}
	parent := sub.ParentInfo(splitter, hints)

	var used []int
	if analysis != nil && splitter < len(analysis.Selection) {
		used = analysis.Selection[splitter]
	}

	var out []*Family
	var err error
	if len(used) < 2 {
		if out, err = fam.Split(splitter, parent); err != nil {
			return nil, fmt.Errorf("Quotient.Split: %w", err)
		}
	} else {
		var other []int
		for _, opt := range fam.Options(splitter) {
			if !slices.Contains(used, opt) {
				other = append(other, opt)
			}
		}
		parts := make([][]int, 0, len(used)+1)
		if len(other) > 0 {
			parts = append(parts, other)
		}
		for _, opt := range used {
			parts = append(parts, []int{opt})
		}
		for _, part := range parts {
			f, err := fam.Subfamily(splitter, part, parent)
			if err != nil {
				return nil, fmt.Errorf("Quotient.Split: %w", err)
			}
			out = append(out, f)
		}
	}
	q.logger.Debug("family split",
		zap.Stringer("family", fam),
		zap.Int("splitter", splitter),
		zap.Float64("score", best),
		zap.Int("parts", len(out)),
	)

	return out, nil
}

func firstOption(f *Family, h int) []int {
	opts := f.Options(h)
	if len(opts) > 1 {
		opts = opts[:1]
	}

	return opts
}
