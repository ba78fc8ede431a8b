// SPDX-License-Identifier: MIT

package solver

import (
	"github.com/katalvlaran/probsynth/model"
	"github.com/katalvlaran/probsynth/sparse"
)

// graph is the structural view of a model used by the qualitative
// precomputations. Sets of states are plain []bool of length n.
type graph struct {
	n      int
	tm     *sparse.Matrix
	groups []int          // row-group offsets, len n+1
	owner  []int          // owning state of each choice
	pred   *sparse.Matrix // row t lists the states with a choice reaching t
}

func newGraph(m *model.Model) *graph {
	tm := m.Transitions()
	groups := tm.RowGroupIndices()
	owner := make([]int, tm.RowCount())
	for s := 0; s+1 < len(groups); s++ {
		for r := groups[s]; r < groups[s+1]; r++ {
			owner[r] = s
		}
	}

	return &graph{
		n:      m.StateCount(),
		tm:     tm,
		groups: groups,
		owner:  owner,
		pred:   tm.Transpose(true),
	}
}

// successors returns a no-copy view of choice r.
func (g *graph) successors(r int) ([]int, []float64) {
	cols, vals, _ := g.tm.Row(r)

	return cols, vals
}

func (g *graph) predecessors(t int) []int {
	cols, _, _ := g.pred.Row(t)

	return cols
}

// anySuccessorIn reports whether choice r reaches some state of set.
func (g *graph) anySuccessorIn(r int, set []bool) bool {
	cols, _ := g.successors(r)
	for _, t := range cols {
		if set[t] {
			return true
		}
	}

	return false
}

// allSuccessorsIn reports whether every successor of choice r lies in set.
func (g *graph) allSuccessorsIn(r int, set []bool) bool {
	cols, _ := g.successors(r)
	for _, t := range cols {
		if !set[t] {
			return false
		}
	}

	return true
}

// backwardReach returns the states that reach from through states of through.
// States of from are always included.
func (g *graph) backwardReach(from, through []bool) []bool {
	reached := make([]bool, g.n)
	queue := make([]int, 0, g.n)
	for s, ok := range from {
		if ok {
			reached[s] = true
			queue = append(queue, s)
		}
	}
	for len(queue) > 0 {
		t := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		for _, p := range g.predecessors(t) {
			if !reached[p] && through[p] {
				reached[p] = true
				queue = append(queue, p)
			}
		}
	}

	return reached
}

// prob0A returns the states where every scheduler reaches psi via phi-paths
// with probability 0 (max probability is 0).
func (g *graph) prob0A(phi, psi []bool) []bool {
	return complement(g.backwardReach(psi, phi))
}

// prob0E returns the states where some scheduler reaches psi via phi-paths
// with probability 0 (min probability is 0).
//
// Implementation:
//   - Stage 1: seed the attractor with psi.
//   - Stage 2: add a phi-state once every one of its choices has a successor
//     in the attractor; re-examine predecessors of each added state.
//   - Stage 3: the complement of the attractor is the result.
func (g *graph) prob0E(phi, psi []bool) []bool {
	attr := g.attractor(psi, func(p int, attr []bool) bool {
		if !phi[p] {
			return false
		}
		for r := g.groups[p]; r < g.groups[p+1]; r++ {
			if !g.anySuccessorIn(r, attr) {
				return false
			}
		}

		return true
	})

	return complement(attr)
}

// prob1A returns the states where every scheduler reaches psi via phi-paths
// with probability 1 (min probability is 1).
func (g *graph) prob1A(phi, psi []bool) []bool {
	zero := g.prob0E(phi, psi)
	through := make([]bool, g.n)
	for s := range through {
		through[s] = phi[s] && !psi[s]
	}

	return complement(g.backwardReach(zero, through))
}

// prob1E returns the states where some scheduler reaches psi via phi-paths
// with probability 1 (max probability is 1).
//
// Implementation: greatest fixed point over the candidate set U of the least
// fixed point R ⊆ U of states with a choice that stays in U and moves into R.
func (g *graph) prob1E(phi, psi []bool) []bool {
	u := make([]bool, g.n)
	for s := range u {
		u[s] = true
	}
	for {
		r := g.attractor(psi, func(p int, r []bool) bool {
			if !phi[p] || !u[p] {
				return false
			}
			for c := g.groups[p]; c < g.groups[p+1]; c++ {
				if g.allSuccessorsIn(c, u) && g.anySuccessorIn(c, r) {
					return true
				}
			}

			return false
		})
		if equalSets(r, u) {
			return u
		}
		u = r
	}
}

// attractor grows seed backwards: a predecessor p of a newly added state is
// added when admit(p, current) holds. admit may only depend on successors.
func (g *graph) attractor(seed []bool, admit func(p int, current []bool) bool) []bool {
	attr := make([]bool, g.n)
	queue := make([]int, 0, g.n)
	for s, ok := range seed {
		if ok {
			attr[s] = true
			queue = append(queue, s)
		}
	}
	for len(queue) > 0 {
		t := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		for _, p := range g.predecessors(t) {
			if !attr[p] && admit(p, attr) {
				attr[p] = true
				queue = append(queue, p)
			}
		}
	}

	return attr
}

// forwardReach returns the states reachable from start.
func (g *graph) forwardReach(start int) []bool {
	reached := make([]bool, g.n)
	reached[start] = true
	queue := []int{start}
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		for r := g.groups[s]; r < g.groups[s+1]; r++ {
			cols, _ := g.successors(r)
			for _, t := range cols {
				if !reached[t] {
					reached[t] = true
					queue = append(queue, t)
				}
			}
		}
	}

	return reached
}

func complement(set []bool) []bool {
	out := make([]bool, len(set))
	for i, ok := range set {
		out[i] = !ok
	}

	return out
}

func equalSets(a, b []bool) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

func countSet(set []bool) int {
	n := 0
	for _, ok := range set {
		if ok {
			n++
		}
	}

	return n
}
