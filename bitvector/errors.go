// SPDX-License-Identifier: MIT

package bitvector

import "errors"

var (
	// ErrOutOfRange indicates that an index is outside [0, Len()).
	ErrOutOfRange = errors.New("bitvector: index out of range")

	// ErrInvalidLength is returned when a negative length is requested.
	ErrInvalidLength = errors.New("bitvector: length must be >= 0")

	// ErrLengthMismatch indicates incompatible lengths between operands.
	ErrLengthMismatch = errors.New("bitvector: length mismatch")

	// ErrNilVector indicates that a nil *BitVector was passed where a vector is required.
	ErrNilVector = errors.New("bitvector: nil vector")

	// ErrParse is returned by Parse for characters other than '0' and '1'.
	ErrParse = errors.New("bitvector: invalid flag character")
)
