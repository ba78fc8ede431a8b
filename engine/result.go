// SPDX-License-Identifier: MIT

package engine

import (
	"fmt"
	"math"
	"slices"

	"github.com/katalvlaran/probsynth/bitvector"
)

// CheckResult holds one value per state and, optionally, a memoryless scheduler.
//
// When the result is filtered (see WithStateFilter) values of filtered-out
// states are NaN and At reports ErrStateNotInResult for them.
type CheckResult struct {
	values     []float64
	scheduler  []int
	iterations int
	filter     *bitvector.BitVector
}

// ResultOption configures a CheckResult.
type ResultOption func(*CheckResult)

// WithScheduler attaches a scheduler: scheduler[s] is the local choice offset
// chosen in state s (0 for states where any choice is optimal).
func WithScheduler(scheduler []int) ResultOption {
	return func(r *CheckResult) { r.scheduler = slices.Clone(scheduler) }
}

// WithIterations records the number of solver sweeps.
func WithIterations(n int) ResultOption {
	return func(r *CheckResult) { r.iterations = n }
}

// WithStateFilter restricts the result to the states in keep.
func WithStateFilter(keep *bitvector.BitVector) ResultOption {
	return func(r *CheckResult) { r.filter = keep.Clone() }
}

// NewCheckResult copies values and applies opts.
func NewCheckResult(values []float64, opts ...ResultOption) *CheckResult {
	r := &CheckResult{values: slices.Clone(values)}
	for _, opt := range opts {
		opt(r)
	}
	if r.filter != nil {
		for s := range r.values {
			if !r.filter.Test(s) {
				r.values[s] = math.NaN()
			}
		}
	}

	return r
}

// Len returns the number of states covered by the value vector.
func (r *CheckResult) Len() int { return len(r.values) }

// Values returns a copy of the value vector.
func (r *CheckResult) Values() []float64 { return slices.Clone(r.values) }

// At returns the value of state s.
func (r *CheckResult) At(s int) (float64, error) {
	if s < 0 || s >= len(r.values) {
		return 0, fmt.Errorf("CheckResult.At(%d) len=%d: %w", s, len(r.values), ErrStateOutOfRange)
	}
	if r.filter != nil && !r.filter.Test(s) {
		return 0, fmt.Errorf("CheckResult.At(%d): %w", s, ErrStateNotInResult)
	}

	return r.values[s], nil
}

// IsFiltered reports whether the result is restricted to a subset of states.
func (r *CheckResult) IsFiltered() bool { return r.filter != nil }

// HasScheduler reports whether a scheduler is attached.
func (r *CheckResult) HasScheduler() bool { return r.scheduler != nil }

// Scheduler returns a copy of the scheduler, or nil.
func (r *CheckResult) Scheduler() []int { return slices.Clone(r.scheduler) }

// Iterations returns the number of solver sweeps (0 when no iteration was needed).
func (r *CheckResult) Iterations() int { return r.iterations }
