// SPDX-License-Identifier: MIT

package bitvector

import (
	"fmt"
	"math/bits"
	"strings"
)

const wordBits = 64

// ---------- error context tags ----------

const (
	ctxGet   = "Get"
	ctxSet   = "Set"
	ctxClear = "Clear"
)

// bitErrorf wraps a sentinel with the method name and offending index.
func bitErrorf(method string, i, n int, err error) error {
	return fmt.Errorf("BitVector.%s(%d) len=%d: %w", method, i, n, err)
}

// BitVector is a fixed-length sequence of flags packed into 64-bit words.
//   - n is the number of addressable flags.
//   - words holds ceil(n/64) words; bits beyond n in the last word are always zero.
//
// The zero value is an empty vector of length 0.
type BitVector struct {
	n     int      // number of flags
	words []uint64 // packed storage, little-endian by bit position
}

var _ fmt.Stringer = (*BitVector)(nil)

// New returns a vector of length n with every flag set to fill.
// Returns ErrInvalidLength when n < 0.
func New(n int, fill bool) (*BitVector, error) {
	if n < 0 {
		return nil, ErrInvalidLength
	}
	b := &BitVector{n: n, words: make([]uint64, wordCount(n))}
	if fill {
		for w := range b.words {
			b.words[w] = ^uint64(0)
		}
		b.trim()
	}

	return b, nil
}

// FromBools builds a vector whose flag i equals flags[i].
func FromBools(flags []bool) *BitVector {
	b := &BitVector{n: len(flags), words: make([]uint64, wordCount(len(flags)))}
	for i, f := range flags {
		if f {
			b.words[i/wordBits] |= 1 << uint(i%wordBits)
		}
	}

	return b
}

// FromIndices builds a vector of length n with exactly the listed positions set.
// Any index outside [0, n) yields ErrOutOfRange.
func FromIndices(n int, indices []int) (*BitVector, error) {
	b, err := New(n, false)
	if err != nil {
		return nil, err
	}
	for _, i := range indices {
		if err = b.Set(i); err != nil {
			return nil, err
		}
	}

	return b, nil
}

// Parse reads a vector from a string of '0'/'1' characters, index 0 first.
// Whitespace and underscores are ignored so long vectors can be grouped.
func Parse(s string) (*BitVector, error) {
	flags := make([]bool, 0, len(s))
	for pos, r := range s {
		switch r {
		case '0':
			flags = append(flags, false)
		case '1':
			flags = append(flags, true)
		case ' ', '\t', '\n', '_':
			continue
		default:
			return nil, fmt.Errorf("Parse: %q at %d: %w", r, pos, ErrParse)
		}
	}

	return FromBools(flags), nil
}

// Len returns the number of flags.
func (b *BitVector) Len() int {
	if b == nil {
		return 0
	}

	return b.n
}

// Get reports the flag at position i.
func (b *BitVector) Get(i int) (bool, error) {
	if i < 0 || i >= b.Len() {
		return false, bitErrorf(ctxGet, i, b.Len(), ErrOutOfRange)
	}

	return b.words[i/wordBits]&(1<<uint(i%wordBits)) != 0, nil
}

// Test reports the flag at position i, treating out-of-range positions as unset.
// Intended for hot loops that already iterate within [0, Len()).
func (b *BitVector) Test(i int) bool {
	if i < 0 || i >= b.Len() {
		return false
	}

	return b.words[i/wordBits]&(1<<uint(i%wordBits)) != 0
}

// Set marks position i as selected. Setting an already-set flag is a no-op.
// The vector never grows: i >= Len() returns ErrOutOfRange.
func (b *BitVector) Set(i int) error {
	if i < 0 || i >= b.Len() {
		return bitErrorf(ctxSet, i, b.Len(), ErrOutOfRange)
	}
	b.words[i/wordBits] |= 1 << uint(i%wordBits)

	return nil
}

// Clear unsets position i.
func (b *BitVector) Clear(i int) error {
	if i < 0 || i >= b.Len() {
		return bitErrorf(ctxClear, i, b.Len(), ErrOutOfRange)
	}
	b.words[i/wordBits] &^= 1 << uint(i%wordBits)

	return nil
}

// Clone returns a deep copy; mutations on either side are never observed by the other.
func (b *BitVector) Clone() *BitVector {
	if b == nil {
		return nil
	}
	words := make([]uint64, len(b.words))
	copy(words, b.words)

	return &BitVector{n: b.n, words: words}
}

// Count returns the number of set flags.
func (b *BitVector) Count() int {
	if b == nil {
		return 0
	}
	total := 0
	for _, w := range b.words {
		total += bits.OnesCount64(w)
	}

	return total
}

// Empty reports whether no flag is set.
func (b *BitVector) Empty() bool { return b.Count() == 0 }

// Full reports whether every flag is set.
func (b *BitVector) Full() bool { return b.Count() == b.Len() }

// Indices returns the set positions in ascending order.
func (b *BitVector) Indices() []int {
	out := make([]int, 0, b.Count())
	if b == nil {
		return out
	}
	for w, word := range b.words {
		for word != 0 {
			tz := bits.TrailingZeros64(word)
			out = append(out, w*wordBits+tz)
			word &= word - 1
		}
	}

	return out
}

// Bools expands the vector into a fresh []bool.
func (b *BitVector) Bools() []bool {
	out := make([]bool, b.Len())
	for i := range out {
		out[i] = b.Test(i)
	}

	return out
}

// Equal reports whether both vectors have the same length and flags.
func (b *BitVector) Equal(o *BitVector) bool {
	if b.Len() != o.Len() {
		return false
	}
	for w := range wordCount(b.Len()) {
		if b.words[w] != o.words[w] {
			return false
		}
	}

	return true
}

// Complement returns a new vector with every flag inverted.
func (b *BitVector) Complement() *BitVector {
	out := &BitVector{n: b.Len(), words: make([]uint64, wordCount(b.Len()))}
	for w := range out.words {
		out.words[w] = ^b.words[w]
	}
	out.trim()

	return out
}

// And returns the element-wise conjunction of b and o.
func (b *BitVector) And(o *BitVector) (*BitVector, error) {
	if b.Len() != o.Len() {
		return nil, fmt.Errorf("BitVector.And: %d vs %d: %w", b.Len(), o.Len(), ErrLengthMismatch)
	}
	out := &BitVector{n: b.Len(), words: make([]uint64, wordCount(b.Len()))}
	for w := range out.words {
		out.words[w] = b.words[w] & o.words[w]
	}

	return out, nil
}

// Or returns the element-wise disjunction of b and o.
func (b *BitVector) Or(o *BitVector) (*BitVector, error) {
	if b.Len() != o.Len() {
		return nil, fmt.Errorf("BitVector.Or: %d vs %d: %w", b.Len(), o.Len(), ErrLengthMismatch)
	}
	out := &BitVector{n: b.Len(), words: make([]uint64, wordCount(b.Len()))}
	for w := range out.words {
		out.words[w] = b.words[w] | o.words[w]
	}

	return out, nil
}

// String renders the vector as '0'/'1' characters, index 0 first.
func (b *BitVector) String() string {
	var sb strings.Builder
	sb.Grow(b.Len())
	for i := range b.Len() {
		if b.Test(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}

	return sb.String()
}

// trim zeroes the unused tail bits of the last word.
func (b *BitVector) trim() {
	if rem := b.n % wordBits; rem != 0 && len(b.words) > 0 {
		b.words[len(b.words)-1] &= (uint64(1) << uint(rem)) - 1
	}
}

func wordCount(n int) int { return (n + wordBits - 1) / wordBits }
