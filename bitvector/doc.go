// Package bitvector provides a fixed-length vector of flags.
//
// A BitVector is the representation used across probsynth for state sets
// (labels, initial states, maybe states) and for action selections: one flag
// per choice index marking whether the choice belongs to the selection.
//
// Key properties:
//
//   - Fixed length: the length is chosen at construction and never grows.
//     Set/Get/Clear on an index outside [0, Len()) return ErrOutOfRange.
//   - Value semantics on demand: Clone returns a deep copy that shares no
//     storage with the receiver.
//   - Deterministic iteration: Indices reports set positions in ascending order.
//
// Complexity:
//
//   - Get/Set/Clear: O(1).
//   - Clone, Count, Indices, And, Or, Complement: O(n/64).
package bitvector
