// SPDX-License-Identifier: MIT

package quotient

import (
	"fmt"
	"slices"
)

// Assignment maps hole indices to options. The assignment of a default
// choice is empty.
type Assignment map[int]int

// HintPair holds the quotient-indexed values of the primary and the
// alternative direction of one formula. Either side may be nil.
type HintPair struct {
	Primary   []float64
	Secondary []float64
}

// ParentInfo is what a family remembers from the family it was split from.
type ParentInfo struct {
	// SelectedActions are the parent's non-default quotient choices.
	SelectedActions []int
	// Splitter is the hole whose options were divided.
	Splitter int
	// Hints are keyed by Formula.String().
	Hints map[string]HintPair
}

// Family is a design space: for every hole the options still allowed.
type Family struct {
	holes  [][]int
	parent *ParentInfo
}

// NewFamily returns the family allowing holes[h] for every hole h.
// The slices are copied.
func NewFamily(holes [][]int) *Family {
	f := &Family{holes: make([][]int, len(holes))}
	for h, opts := range holes {
		f.holes[h] = slices.Clone(opts)
	}

	return f
}

// HoleCount returns the number of holes.
func (f *Family) HoleCount() int { return len(f.holes) }

// Options returns a copy of the options allowed for hole h, or nil when h is unknown.
func (f *Family) Options(h int) []int {
	if h < 0 || h >= len(f.holes) {
		return nil
	}

	return slices.Clone(f.holes[h])
}

// Size is the number of hole assignments in the family.
func (f *Family) Size() int {
	size := 1
	for _, opts := range f.holes {
		size *= len(opts)
	}

	return size
}

// Parent returns the split information, nil for a root family.
func (f *Family) Parent() *ParentInfo { return f.parent }

// Includes reports whether every hole of a is assigned an option the family allows.
// Holes outside the family are never included.
func (f *Family) Includes(a Assignment) bool {
	for h, opt := range a {
		if h < 0 || h >= len(f.holes) || !slices.Contains(f.holes[h], opt) {
			return false
		}
	}

	return true
}

// Subfamily returns a copy of f in which hole h allows only options.
// The other holes share storage with f; they are never modified in place.
//
// Errors:
//   - ErrUnknownHole when h is outside the family.
//   - ErrUnknownOption when some option is not allowed by f.
func (f *Family) Subfamily(h int, options []int, parent *ParentInfo) (*Family, error) {
	if h < 0 || h >= len(f.holes) {
		return nil, fmt.Errorf("Family.Subfamily: hole %d of %d: %w", h, len(f.holes), ErrUnknownHole)
	}
	for _, opt := range options {
		if !slices.Contains(f.holes[h], opt) {
			return nil, fmt.Errorf("Family.Subfamily: hole %d option %d: %w", h, opt, ErrUnknownOption)
		}
	}

	holes := slices.Clone(f.holes)
	holes[h] = slices.Clone(options)

	return &Family{holes: holes, parent: parent}, nil
}

// Split divides the options of hole h into halves and returns both subfamilies.
// A hole with a single option yields f's copy alone.
func (f *Family) Split(h int, parent *ParentInfo) ([]*Family, error) {
	if h < 0 || h >= len(f.holes) {
		return nil, fmt.Errorf("Family.Split: hole %d of %d: %w", h, len(f.holes), ErrUnknownHole)
	}
	opts := f.holes[h]
	if len(opts) < 2 {
		sub, err := f.Subfamily(h, opts, parent)
		if err != nil {
			return nil, err
		}

		return []*Family{sub}, nil
	}

	half := len(opts) / 2
	out := make([]*Family, 0, 2)
	for _, part := range [][]int{opts[:half], opts[half:]} {
		sub, err := f.Subfamily(h, part, parent)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}

	return out, nil
}

func (f *Family) String() string {
	return fmt.Sprint(f.holes)
}
