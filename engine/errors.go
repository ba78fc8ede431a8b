// SPDX-License-Identifier: MIT

package engine

import "errors"

var (
	// ErrNilModel indicates that a nil model was passed to an engine.
	ErrNilModel = errors.New("engine: nil model")

	// ErrNilTask indicates that a nil check task was passed to an engine.
	ErrNilTask = errors.New("engine: nil check task")

	// ErrUnknownLabel indicates a formula referring to a label the model lacks.
	ErrUnknownLabel = errors.New("engine: unknown label")

	// ErrUnknownRewardModel indicates a formula referring to a missing reward model.
	ErrUnknownRewardModel = errors.New("engine: unknown reward model")

	// ErrInvalidEnvironment indicates nonsensical solver settings.
	ErrInvalidEnvironment = errors.New("engine: invalid environment")

	// ErrInvalidFormula indicates a formula the engine cannot interpret.
	ErrInvalidFormula = errors.New("engine: invalid formula")

	// ErrHintLength indicates a result hint whose length differs from the state count.
	ErrHintLength = errors.New("engine: hint length does not match state count")

	// ErrInvalidHint indicates an inconsistent hint (e.g. ComputeOnlyMaybeStates without maybe states).
	ErrInvalidHint = errors.New("engine: invalid hint")

	// ErrNoConvergence indicates that the iterative solver hit the iteration cap.
	ErrNoConvergence = errors.New("engine: solver did not converge")

	// ErrStateOutOfRange indicates a state index outside [0, StateCount()).
	ErrStateOutOfRange = errors.New("engine: state index out of range")

	// ErrUnsupportedModel indicates a query that is not defined for the model kind.
	ErrUnsupportedModel = errors.New("engine: unsupported model type")

	// ErrStateNotInResult indicates a lookup of a state filtered out of a result.
	ErrStateNotInResult = errors.New("engine: state not contained in result")
)
