// SPDX-License-Identifier: MIT

package engine

import (
	"slices"

	"github.com/katalvlaran/probsynth/bitvector"
)

// ExplicitHint carries a warm start for the fixed-point solver.
//
// Flags:
//   - ComputeOnlyMaybeStates: the solver trusts MaybeStates and takes the
//     values of all other states straight from the result hint.
//   - NoEndComponentsInMaybeStates: the caller asserts that the maybe states
//     contain no end components, so the solver may skip their detection.
//
// A zero ExplicitHint has neither flag set and no result hint.
type ExplicitHint struct {
	resultHint  []float64
	onlyMaybe   bool
	noEndComps  bool
	maybeStates *bitvector.BitVector
}

// NewExplicitHint returns an empty hint with both flags cleared.
func NewExplicitHint() *ExplicitHint { return &ExplicitHint{} }

// SetResultHint stores a copy of values.
func (h *ExplicitHint) SetResultHint(values []float64) {
	h.resultHint = slices.Clone(values)
}

// ResultHint returns the stored values. The slice is shared; treat it as read-only.
func (h *ExplicitHint) ResultHint() []float64 { return h.resultHint }

// HasResultHint reports whether a result hint was set.
func (h *ExplicitHint) HasResultHint() bool { return h.resultHint != nil }

// SetComputeOnlyMaybeStates sets the ComputeOnlyMaybeStates flag.
func (h *ExplicitHint) SetComputeOnlyMaybeStates(v bool) { h.onlyMaybe = v }

// ComputeOnlyMaybeStates reports the ComputeOnlyMaybeStates flag.
func (h *ExplicitHint) ComputeOnlyMaybeStates() bool { return h.onlyMaybe }

// SetNoEndComponentsInMaybeStates sets the NoEndComponentsInMaybeStates flag.
func (h *ExplicitHint) SetNoEndComponentsInMaybeStates(v bool) { h.noEndComps = v }

// NoEndComponentsInMaybeStates reports the NoEndComponentsInMaybeStates flag.
func (h *ExplicitHint) NoEndComponentsInMaybeStates() bool { return h.noEndComps }

// SetMaybeStates stores a copy of the maybe-state set.
func (h *ExplicitHint) SetMaybeStates(states *bitvector.BitVector) {
	h.maybeStates = states.Clone()
}

// MaybeStates returns the maybe-state set or nil.
func (h *ExplicitHint) MaybeStates() *bitvector.BitVector { return h.maybeStates }

// CheckTask couples a formula with solve options.
// Direction is ignored for DTMCs.
type CheckTask struct {
	formula           Formula
	direction         Direction
	onlyInitialStates bool
	produceSchedulers bool
	hint              *ExplicitHint
}

// TaskOption configures a CheckTask.
type TaskOption func(*CheckTask)

// WithDirection selects the optimization direction (default Minimize).
func WithDirection(d Direction) TaskOption {
	return func(t *CheckTask) { t.direction = d }
}

// WithOnlyInitialStates restricts the result to the initial states.
func WithOnlyInitialStates() TaskOption {
	return func(t *CheckTask) { t.onlyInitialStates = true }
}

// WithSchedulers requests an optimal memoryless scheduler alongside the values.
func WithSchedulers() TaskOption {
	return func(t *CheckTask) { t.produceSchedulers = true }
}

// NewCheckTask creates a task for f. The formula is validated by the engine.
func NewCheckTask(f Formula, opts ...TaskOption) *CheckTask {
	t := &CheckTask{formula: f}
	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Formula returns the property under check.
func (t *CheckTask) Formula() Formula { return t.formula }

// Direction returns the optimization direction.
func (t *CheckTask) Direction() Direction { return t.direction }

// OnlyInitialStates reports whether the result is filtered to initial states.
func (t *CheckTask) OnlyInitialStates() bool { return t.onlyInitialStates }

// ProduceSchedulers reports whether a scheduler is requested.
func (t *CheckTask) ProduceSchedulers() bool { return t.produceSchedulers }

// SetProduceSchedulers toggles scheduler extraction.
func (t *CheckTask) SetProduceSchedulers(v bool) { t.produceSchedulers = v }

// SetHint attaches h, replacing any previous hint. A nil h removes it.
func (t *CheckTask) SetHint(h *ExplicitHint) { t.hint = h }

// Hint returns the attached hint or nil.
func (t *CheckTask) Hint() *ExplicitHint { return t.hint }

// HasHint reports whether a hint with a result vector is attached.
func (t *CheckTask) HasHint() bool { return t.hint != nil && t.hint.HasResultHint() }

// ForDirection returns a copy of t optimizing in direction d. The hint is shared.
func (t *CheckTask) ForDirection(d Direction) *CheckTask {
	cp := *t
	cp.direction = d

	return &cp
}
