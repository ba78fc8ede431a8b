// SPDX-License-Identifier: MIT

package solver

import (
	"fmt"
	"math"

	"github.com/katalvlaran/probsynth/engine"
)

// row is one candidate choice of a variable: b + Σ coeffs[k]·x[vars[k]].
type row struct {
	origin int // model choice
	b      float64
	vars   []int
	coeffs []float64
}

// system is the Bellman equation system over the maybe states. Each end
// component passed to buildSystem is collapsed into a single variable.
type system struct {
	varOf   []int   // state -> variable, -1 for states with a fixed value
	members [][]int // variable -> states
	rows    [][]row // variable -> candidate choices
	ecOf    []int   // variable -> index into ecs, -1 when not collapsed
	ecs     []endComponent
}

// buildSystem assembles the equations.
//   - fixed holds the values of all non-maybe states.
//   - reward(r) is the reward collected by choice r (nil for probabilities).
//   - Internal choices of collapsed end components are dropped.
func buildSystem(g *graph, maybe []bool, fixed []float64, reward func(r int) float64, ecs []endComponent) *system {
	sys := &system{varOf: make([]int, g.n), ecs: ecs}
	for s := range sys.varOf {
		sys.varOf[s] = -1
	}
	for i, ec := range ecs {
		v := len(sys.members)
		sys.members = append(sys.members, ec.states)
		sys.ecOf = append(sys.ecOf, i)
		for _, s := range ec.states {
			sys.varOf[s] = v
		}
	}
	for s := 0; s < g.n; s++ {
		if maybe[s] && sys.varOf[s] < 0 {
			sys.varOf[s] = len(sys.members)
			sys.members = append(sys.members, []int{s})
			sys.ecOf = append(sys.ecOf, -1)
		}
	}

	sys.rows = make([][]row, len(sys.members))
	for v, states := range sys.members {
		var ec *endComponent
		if i := sys.ecOf[v]; i >= 0 {
			ec = &sys.ecs[i]
		}
		for _, s := range states {
			for r := g.groups[s]; r < g.groups[s+1]; r++ {
				if ec != nil && ec.contains(s, r) {
					continue
				}
				sys.rows[v] = append(sys.rows[v], sys.assemble(g, r, fixed, reward))
			}
		}
	}

	return sys
}

func (sys *system) assemble(g *graph, r int, fixed []float64, reward func(r int) float64) row {
	out := row{origin: r}
	if reward != nil {
		out.b = reward(r)
	}
	cols, vals := g.successors(r)
	for k, t := range cols {
		p := vals[k]
		if p == 0 {
			continue
		}
		v := sys.varOf[t]
		if v < 0 {
			out.b += p * fixed[t]
			continue
		}
		merged := false
		for i, w := range out.vars {
			if w == v {
				out.coeffs[i] += p
				merged = true
				break
			}
		}
		if !merged {
			out.vars = append(out.vars, v)
			out.coeffs = append(out.coeffs, p)
		}
	}

	return out
}

// size returns the number of variables.
func (sys *system) size() int { return len(sys.members) }

// initial returns the start vector: zero, or the hint values where given.
// A collapsed variable starts at the largest finite hint among its members.
// Non-finite hint values are ignored.
func (sys *system) initial(hint []float64) []float64 {
	x := make([]float64, sys.size())
	if hint == nil {
		return x
	}
	for v, states := range sys.members {
		first := true
		for _, s := range states {
			h := hint[s]
			if math.IsNaN(h) || math.IsInf(h, 0) {
				continue
			}
			if first || h > x[v] {
				x[v] = h
				first = false
			}
		}
	}

	return x
}

// value evaluates row rw under x.
func (rw *row) value(x []float64) float64 {
	sum := rw.b
	for k, v := range rw.vars {
		sum += rw.coeffs[k] * x[v]
	}

	return sum
}

// better reports whether candidate improves on best in direction maximize.
func better(candidate, best float64, maximize bool) bool {
	if maximize {
		return candidate > best
	}

	return candidate < best
}

// best returns the optimal value of variable v under x and the index of the
// row attaining it (first on ties). A variable without rows never leaves its
// component and collects nothing: (0, -1).
func (sys *system) best(v int, x []float64, maximize bool) (float64, int) {
	rows := sys.rows[v]
	if len(rows) == 0 {
		return 0, -1
	}
	opt, arg := rows[0].value(x), 0
	for i := 1; i < len(rows); i++ {
		if val := rows[i].value(x); better(val, opt, maximize) {
			opt, arg = val, i
		}
	}

	return opt, arg
}

// solve runs value iteration from x in place and returns the sweep count.
//
// Errors: engine.ErrNoConvergence after env.MaxIterations sweeps.
func (sys *system) solve(env engine.Environment, x []float64, maximize bool) (int, error) {
	if sys.size() == 0 {
		return 0, nil
	}
	next := make([]float64, len(x))
	for it := 1; it <= env.MaxIterations; it++ {
		converged := true
		for v := range sys.rows {
			next[v], _ = sys.best(v, x, maximize)
			if converged && !env.Converged(x[v], next[v]) {
				converged = false
			}
		}
		copy(x, next)
		if converged {
			return it, nil
		}
	}

	return env.MaxIterations, fmt.Errorf("value iteration: %d sweeps at precision %g: %w",
		env.MaxIterations, env.Precision, engine.ErrNoConvergence)
}

// schedule writes the optimal local choice of every maybe state into sched.
// Inside a collapsed component the member owning the best exit takes it and
// every other member moves towards that member along internal choices.
func (sys *system) schedule(g *graph, x []float64, maximize bool, sched []int) {
	for v := range sys.rows {
		_, arg := sys.best(v, x, maximize)
		if arg < 0 {
			continue
		}
		r := sys.rows[v][arg].origin
		exit := g.owner[r]
		sched[exit] = r - g.groups[exit]
		if sys.ecOf[v] < 0 {
			continue
		}

		ec := &sys.ecs[sys.ecOf[v]]
		reached := make([]bool, g.n)
		reached[exit] = true
		for progress := true; progress; {
			progress = false
			for _, s := range ec.states {
				if reached[s] {
					continue
				}
				for _, c := range ec.internal[s] {
					if g.anySuccessorIn(c, reached) {
						sched[s] = c - g.groups[s]
						reached[s] = true
						progress = true
						break
					}
				}
			}
		}
	}
}
