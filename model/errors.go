// SPDX-License-Identifier: MIT

package model

import "errors"

var (
	// ErrNilTransitions is returned when Components carry no transition matrix.
	ErrNilTransitions = errors.New("model: nil transition matrix")

	// ErrNotSquare indicates that the number of row groups differs from the number of columns.
	ErrNotSquare = errors.New("model: row groups and columns differ")

	// ErrDeadlock indicates a state without any choice.
	ErrDeadlock = errors.New("model: state without choices")

	// ErrNotStochastic indicates a choice whose weights are negative or do not sum to 1.
	ErrNotStochastic = errors.New("model: choice is not a probability distribution")

	// ErrNotDTMC indicates that a DTMC was requested for a model with nondeterminism.
	ErrNotDTMC = errors.New("model: more than one choice in a state")

	// ErrNoInitialState indicates an empty initial-state set.
	ErrNoInitialState = errors.New("model: no initial state")

	// ErrVectorLength indicates a label, initial-state, reward or selection
	// vector whose length does not match the model.
	ErrVectorLength = errors.New("model: vector length mismatch")

	// ErrUnknownLabel indicates a lookup of a label that does not exist.
	ErrUnknownLabel = errors.New("model: unknown label")

	// ErrUnknownRewardModel indicates a lookup of a reward model that does not exist.
	ErrUnknownRewardModel = errors.New("model: unknown reward model")

	// ErrDecode wraps malformed model files.
	ErrDecode = errors.New("model: malformed model description")
)
