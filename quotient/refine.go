// SPDX-License-Identifier: MIT

package quotient

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/katalvlaran/probsynth/engine"
)

// Report summarizes a refinement run.
//   - Satisfying families have only members satisfying the property.
//   - Rejected counts members proven to violate it.
//   - Undecided families could not be split any further.
type Report struct {
	Satisfying []*Family
	Rejected   int
	Undecided  []*Family
	Iterations int
}

// Refine decides p for every member of root by abstraction refinement.
//
// Implementation:
//   - Stage 1: pop a family, build its sub-MDP and check p in both directions.
//   - Stage 2: a decided family is recorded as satisfying or rejected.
//   - Stage 3: an undecided family is split along its best-scored hole; the
//     subfamilies inherit the selection and this check's values as hints.
//
// Families are explored depth first.
func (q *Quotient) Refine(eng engine.Engine, env engine.Environment, root *Family, p PairProperty) (*Report, error) {
	report := &Report{}
	stack := []*Family{root}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		report.Iterations++

		sub, err := q.Build(f)
		if err != nil {
			return nil, fmt.Errorf("Quotient.Refine: %w", err)
		}
		res, err := q.CheckProperty(eng, env, sub, p)
		if err != nil {
			return nil, fmt.Errorf("Quotient.Refine: %w", err)
		}
		q.logger.Debug("family checked",
			zap.Stringer("family", f),
			zap.Stringer("decision", res.Outcome.Decision),
			zap.Float64("value", res.Outcome.Value),
			zap.Float64("threshold", res.Outcome.Threshold),
		)

		switch res.Outcome.Decision {
		case Sat:
			report.Satisfying = append(report.Satisfying, f)
			continue
		case Unsat:
			report.Rejected += f.Size()
			continue
		}

		pair, err := q.CollectHints(sub.Submodel, res.Results)
		if err != nil {
			return nil, fmt.Errorf("Quotient.Refine: %w", err)
		}
		parts, err := q.Split(sub, res.Analysis, map[string]HintPair{p.String(): pair})
		if errors.Is(err, ErrNotSplittable) {
			report.Undecided = append(report.Undecided, f)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("Quotient.Refine: %w", err)
		}
		for i := len(parts) - 1; i >= 0; i-- {
			stack = append(stack, parts[i])
		}
	}

	return report, nil
}
