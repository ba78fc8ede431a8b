// SPDX-License-Identifier: MIT

package synthesis

import (
	"fmt"

	"github.com/katalvlaran/probsynth/bitvector"
	"github.com/katalvlaran/probsynth/engine"
	"github.com/katalvlaran/probsynth/model"
	"github.com/katalvlaran/probsynth/sparse"
)

// Hint policy of ModelCheckWithHint. The hint covers the full state space and
// end-component detection among maybe states always runs.
const (
	HintComputeOnlyMaybeStates       = false
	HintNoEndComponentsInMaybeStates = false
)

// SetLogLevelOff disables all logging of eng.
func SetLogLevelOff(eng engine.Engine) {
	eng.SetLogLevel(engine.LogLevelOff)
}

// MultiplyWithVector returns m·v. The result always has m.RowCount() entries;
// a vector of the wrong length is reported by the matrix as
// sparse.ErrDimensionMismatch.
func MultiplyWithVector(m *sparse.Matrix, v []float64) ([]float64, error) {
	if m == nil {
		return nil, fmt.Errorf("MultiplyWithVector: %w", sparse.ErrNilMatrix)
	}
	result := make([]float64, m.RowCount())
	if err := m.MultiplyWithVector(v, result); err != nil {
		return nil, fmt.Errorf("MultiplyWithVector: %w", err)
	}

	return result, nil
}

// ModelCheckWithHint verifies task on m with hint as the solver's start vector.
//
// The hint is attached to task (replacing any previous one) and stays attached
// after the call. Its length is not checked here; the engine reports a
// mismatch. The result equals unhinted verification within env's tolerance.
func ModelCheckWithHint(eng engine.Engine, m *model.Model, task *engine.CheckTask, env engine.Environment, hint []float64) (*engine.CheckResult, error) {
	if task == nil {
		return nil, fmt.Errorf("ModelCheckWithHint: %w", engine.ErrNilTask)
	}
	h := engine.NewExplicitHint()
	h.SetComputeOnlyMaybeStates(HintComputeOnlyMaybeStates)
	h.SetNoEndComponentsInMaybeStates(HintNoEndComponentsInMaybeStates)
	h.SetResultHint(hint)
	task.SetHint(h)

	res, err := eng.Verify(env, m, task)
	if err != nil {
		return nil, fmt.Errorf("ModelCheckWithHint: %w", err)
	}

	return res, nil
}

// ComputeExpectedNumberOfVisits returns the expected number of visits of every
// state of m when starting in initialState.
func ComputeExpectedNumberOfVisits(eng engine.Engine, env engine.Environment, m *model.Model, initialState uint64) (*engine.CheckResult, error) {
	res, err := eng.ExpectedVisitingTimes(env, m, initialState)
	if err != nil {
		return nil, fmt.Errorf("ComputeExpectedNumberOfVisits: %w", err)
	}

	return res, nil
}

// ConstructSelection returns a copy of defaults with every index of selected
// set. Duplicates and order in selected do not matter; set flags are never
// cleared. defaults is not modified and shares no storage with the result.
//
// Errors:
//   - bitvector.ErrNilVector when defaults is nil.
//   - bitvector.ErrOutOfRange when some index is >= defaults.Len(); no partial
//     result is returned.
func ConstructSelection(defaults *bitvector.BitVector, selected []uint64) (*bitvector.BitVector, error) {
	if defaults == nil {
		return nil, fmt.Errorf("ConstructSelection: %w", bitvector.ErrNilVector)
	}
	n := uint64(defaults.Len())
	for _, idx := range selected {
		if idx >= n {
			return nil, fmt.Errorf("ConstructSelection: action %d of %d: %w", idx, n, bitvector.ErrOutOfRange)
		}
	}

	out := defaults.Clone()
	for _, idx := range selected {
		if err := out.Set(int(idx)); err != nil {
			return nil, fmt.Errorf("ConstructSelection: %w", err)
		}
	}

	return out, nil
}
