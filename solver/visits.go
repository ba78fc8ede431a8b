// SPDX-License-Identifier: MIT

package solver

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/probsynth/engine"
	"github.com/katalvlaran/probsynth/model"
)

// ExpectedVisitingTimes returns, for every state of the DTMC m, the expected
// number of visits when the chain starts in initialState.
//
// Values:
//   - 0 for states unreachable from initialState.
//   - +Inf for reachable states inside a bottom strongly connected component.
//   - the solution of x = e_init + Pᵀx restricted to the transient reachable
//     states otherwise (computed by value iteration from zero).
//
// Errors: engine.ErrNilModel, engine.ErrInvalidEnvironment,
// engine.ErrUnsupportedModel (MDP), engine.ErrStateOutOfRange,
// engine.ErrNoConvergence.
func (s *Solver) ExpectedVisitingTimes(env engine.Environment, m *model.Model, initialState uint64) (*engine.CheckResult, error) {
	res, err := s.expectedVisits(env, m, initialState)
	if err != nil {
		s.metrics.failures.WithLabelValues("visits").Inc()
		s.logger.Warn("expected visiting times failed", zap.Error(err))

		return nil, fmt.Errorf("Solver.ExpectedVisitingTimes(%d): %w", initialState, err)
	}

	return res, nil
}

func (s *Solver) expectedVisits(env engine.Environment, m *model.Model, initialState uint64) (*engine.CheckResult, error) {
	start := time.Now()

	// 1. Validate
	if m == nil {
		return nil, engine.ErrNilModel
	}
	if err := env.Validate(); err != nil {
		return nil, err
	}
	if !m.IsDTMC() {
		return nil, fmt.Errorf("%s: %w", m.Kind(), engine.ErrUnsupportedModel)
	}
	g := newGraph(m)
	if initialState >= uint64(g.n) {
		return nil, fmt.Errorf("states=%d: %w", g.n, engine.ErrStateOutOfRange)
	}
	origin := int(initialState)

	// 2. Classify reachable states into recurrent (bottom SCC) and transient
	reach := g.forwardReach(origin)
	recurrent := g.bottomComponents(reach)
	transient := make([]bool, g.n)
	for st := range transient {
		transient[st] = reach[st] && !recurrent[st]
	}

	// 3. Solve the transient part
	values := make([]float64, g.n)
	for st := range values {
		if recurrent[st] {
			values[st] = math.Inf(1)
		}
	}
	iterations, err := g.transientVisits(env, origin, transient, values)
	if err != nil {
		return nil, err
	}

	s.metrics.visits.Inc()
	s.metrics.iterations.Observe(float64(iterations))
	s.logger.Debug("expected visiting times",
		zap.Stringer("model", m),
		zap.Uint64("initialState", initialState),
		zap.Int("transient", countSet(transient)),
		zap.Int("recurrent", countSet(recurrent)),
		zap.Int("iterations", iterations),
		zap.Duration("elapsed", time.Since(start)),
	)

	return engine.NewCheckResult(values, engine.WithIterations(iterations)), nil
}

// bottomComponents returns the states of within that belong to an SCC no
// edge leaves. within must be closed under successors.
func (g *graph) bottomComponents(within []bool) []bool {
	choices := make([][]int, g.n)
	for st := 0; st < g.n; st++ {
		if !within[st] {
			continue
		}
		for r := g.groups[st]; r < g.groups[st+1]; r++ {
			choices[st] = append(choices[st], r)
		}
	}
	comp, count := tarjan(g.n, within, g.adjacency(within, choices))

	leaves := make([]bool, count)
	for st := 0; st < g.n; st++ {
		if !within[st] {
			continue
		}
		for _, r := range choices[st] {
			if !g.staysIn(r, comp, comp[st]) {
				leaves[comp[st]] = true
			}
		}
	}

	bottom := make([]bool, g.n)
	for st := 0; st < g.n; st++ {
		bottom[st] = within[st] && !leaves[comp[st]]
	}

	return bottom
}

// transientVisits iterates x_t = [t = origin] + Σ_u P(u,t)·x_u over transient
// states u, t and writes the result into values.
func (g *graph) transientVisits(env engine.Environment, origin int, transient []bool, values []float64) (int, error) {
	if countSet(transient) == 0 {
		return 0, nil
	}
	x := make([]float64, g.n)
	next := make([]float64, g.n)
	for it := 1; it <= env.MaxIterations; it++ {
		converged := true
		for t := 0; t < g.n; t++ {
			if !transient[t] {
				continue
			}
			sum := 0.0
			if t == origin {
				sum = 1
			}
			cols, vals, _ := g.pred.Row(t)
			for k, u := range cols {
				if transient[u] {
					sum += vals[k] * x[u]
				}
			}
			next[t] = sum
			if converged && !env.Converged(x[t], sum) {
				converged = false
			}
		}
		x, next = next, x
		if converged {
			for t := range values {
				if transient[t] {
					values[t] = x[t]
				}
			}

			return it, nil
		}
	}

	return env.MaxIterations, fmt.Errorf("expected visits: %d sweeps at precision %g: %w",
		env.MaxIterations, env.Precision, engine.ErrNoConvergence)
}
