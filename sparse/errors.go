// SPDX-License-Identifier: MIT
// Package sparse: sentinel error set.
// Every message is prefixed with "sparse: ..." so call sites can wrap with
// fmt.Errorf("ctx: %w", ErrX) and callers still match with errors.Is.

package sparse

import "errors"

var (
	// ErrOutOfRange indicates that a row, column or group index is outside valid bounds.
	ErrOutOfRange = errors.New("sparse: index out of range")

	// ErrDimensionMismatch indicates incompatible operand sizes, e.g. a vector whose
	// length differs from ColumnCount() in MultiplyWithVector.
	ErrDimensionMismatch = errors.New("sparse: dimension mismatch")

	// ErrOutOfOrder is returned by Builder when entries or row groups are not
	// supplied in strictly increasing (row, column) order.
	ErrOutOfOrder = errors.New("sparse: entries out of order")

	// ErrNaNInf signals a NaN or ±Inf value under the finite-value policy.
	ErrNaNInf = errors.New("sparse: NaN or Inf encountered")

	// ErrNilMatrix indicates that a nil *Matrix was used.
	ErrNilMatrix = errors.New("sparse: nil matrix")

	// ErrNilVector indicates a nil input or output vector.
	ErrNilVector = errors.New("sparse: nil vector")

	// ErrBuilderUsed is returned when a Builder is used after Build.
	ErrBuilderUsed = errors.New("sparse: builder already consumed")
)
