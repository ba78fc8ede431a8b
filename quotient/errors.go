// SPDX-License-Identifier: MIT

package quotient

import "errors"

var (
	// ErrNilModel is returned when the quotient MDP is missing.
	ErrNilModel = errors.New("quotient: nil model")

	// ErrActionCount indicates hole options that do not cover every choice of the quotient.
	ErrActionCount = errors.New("quotient: hole options do not match the choices")

	// ErrUnknownHole indicates a hole index outside the family.
	ErrUnknownHole = errors.New("quotient: unknown hole")

	// ErrUnknownOption indicates an option that the hole does not offer.
	ErrUnknownOption = errors.New("quotient: unknown hole option")

	// ErrNotSingleton indicates a chain request for a family with several members.
	ErrNotSingleton = errors.New("quotient: family is not a singleton")

	// ErrInvalidScheduler indicates a scheduler that does not fit the sub-MDP.
	ErrInvalidScheduler = errors.New("quotient: invalid scheduler")

	// ErrVectorLength indicates a value vector that does not fit the state space.
	ErrVectorLength = errors.New("quotient: vector length mismatch")

	// ErrUndefinedValue indicates a NaN among computed choice values.
	ErrUndefinedValue = errors.New("quotient: undefined choice value")

	// ErrNotSplittable indicates a family in which no hole has two options left.
	ErrNotSplittable = errors.New("quotient: family cannot be split")

	// ErrUnknownInitialState indicates a property position outside the initial states.
	ErrUnknownInitialState = errors.New("quotient: unknown initial state")
)
