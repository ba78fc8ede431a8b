// SPDX-License-Identifier: MIT

package solver

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/probsynth/engine"
	"github.com/katalvlaran/probsynth/model"
)

// Solver is the reference sparse engine. It is safe for concurrent use.
type Solver struct {
	logger  *zap.Logger
	level   zap.AtomicLevel
	metrics *metrics
}

var _ engine.Engine = (*Solver)(nil)

// New creates a Solver. Without options it logs nothing and exports no metrics.
func New(opts ...Option) *Solver {
	o := gatherOptions(opts...)
	level := zap.NewAtomicLevelAt(o.logger.Level())

	return &Solver{
		logger:  o.logger.Named("solver").WithOptions(zap.IncreaseLevel(level)),
		level:   level,
		metrics: newMetrics(o.namespace, o.registerer),
	}
}

// SetLogLevel changes the minimum level of the solver's log entries.
// It can only make the configured logger quieter, never chattier.
func (s *Solver) SetLogLevel(level zapcore.Level) { s.level.SetLevel(level) }

// LogLevel returns the current gate level.
func (s *Solver) LogLevel() zapcore.Level { return s.level.Level() }

// query is a validated Verify request.
type query struct {
	g        *graph
	formula  engine.Formula
	maximize bool
	phi, psi []bool
	reward   func(r int) float64 // nil for probabilities
	hint     *engine.ExplicitHint
}

// Verify computes the value of task's formula in every state of m.
//
// Implementation:
//   - Stage 1: validate inputs and resolve labels, reward model and hint.
//   - Stage 2: qualitative precomputation fixes the states whose value is
//     0, 1 or +Inf; the rest are maybe states. With ComputeOnlyMaybeStates
//     the hint's maybe states and values are used instead.
//   - Stage 3: for MDP max-probability and min-reward queries, maximal end
//     components among maybe states are collapsed unless the hint asserts
//     there are none.
//   - Stage 4: value iteration from zero or from the hint.
//   - Stage 5: optional scheduler extraction and initial-state filtering.
//
// Errors: engine.ErrNilModel, engine.ErrNilTask, engine.ErrInvalidEnvironment,
// engine.ErrInvalidFormula, engine.ErrUnknownLabel, engine.ErrUnknownRewardModel,
// engine.ErrHintLength, engine.ErrInvalidHint, engine.ErrNoConvergence.
func (s *Solver) Verify(env engine.Environment, m *model.Model, task *engine.CheckTask) (*engine.CheckResult, error) {
	res, err := s.verify(env, m, task)
	if err != nil {
		s.metrics.failures.WithLabelValues("verify").Inc()
		s.logger.Warn("verification failed", zap.Error(err))

		return nil, fmt.Errorf("Solver.Verify: %w", err)
	}

	return res, nil
}

func (s *Solver) verify(env engine.Environment, m *model.Model, task *engine.CheckTask) (*engine.CheckResult, error) {
	start := time.Now()

	// 1. Validate and resolve
	q, err := resolve(env, m, task)
	if err != nil {
		return nil, err
	}
	n := q.g.n

	// 2. Qualitative precomputation
	maybe, fixed := q.qualitative()

	// 3. End components
	var ecs []endComponent
	if q.needsCollapse(m) {
		allowed := func(int) bool { return true }
		if q.reward != nil {
			allowed = func(r int) bool { return q.reward(r) == 0 }
		}
		ecs = q.g.maximalEndComponents(maybe, allowed)
	}

	// 4. Value iteration
	sys := buildSystem(q.g, maybe, fixed, q.reward, ecs)
	var warm []float64
	if task.HasHint() {
		warm = q.hint.ResultHint()
	}
	x := sys.initial(warm)
	iterations, err := sys.solve(env, x, q.maximize)
	if err != nil {
		return nil, err
	}
	values := fixed
	for st := 0; st < n; st++ {
		if v := sys.varOf[st]; v >= 0 {
			values[st] = x[v]
		}
	}

	// 5. Scheduler and filtering
	opts := []engine.ResultOption{engine.WithIterations(iterations)}
	if task.ProduceSchedulers() {
		sched := q.qualitativeScheduler(maybe)
		sys.schedule(q.g, x, q.maximize, sched)
		opts = append(opts, engine.WithScheduler(sched))
	}
	if task.OnlyInitialStates() {
		opts = append(opts, engine.WithStateFilter(m.InitialStates()))
	}

	s.metrics.observeCheck(q.formula.KindName(), task.HasHint(), iterations, len(ecs))
	s.logger.Debug("verified",
		zap.Stringer("formula", q.formula),
		zap.Stringer("direction", task.Direction()),
		zap.Stringer("model", m),
		zap.Int("maybeStates", countSet(maybe)),
		zap.Int("endComponents", len(ecs)),
		zap.Bool("hinted", task.HasHint()),
		zap.Int("iterations", iterations),
		zap.Duration("elapsed", time.Since(start)),
	)

	return engine.NewCheckResult(values, opts...), nil
}

func resolve(env engine.Environment, m *model.Model, task *engine.CheckTask) (*query, error) {
	if m == nil {
		return nil, engine.ErrNilModel
	}
	if task == nil {
		return nil, engine.ErrNilTask
	}
	if err := env.Validate(); err != nil {
		return nil, err
	}
	f := task.Formula()
	if err := f.Validate(); err != nil {
		return nil, err
	}

	g := newGraph(m)
	q := &query{
		g:        g,
		formula:  f,
		maximize: task.Direction() == engine.Maximize,
		hint:     task.Hint(),
	}

	var err error
	if q.psi, err = labelSet(m, f.Target); err != nil {
		return nil, err
	}
	if f.Constraint != "" {
		if q.phi, err = labelSet(m, f.Constraint); err != nil {
			return nil, err
		}
	} else {
		q.phi = make([]bool, g.n)
		for st := range q.phi {
			q.phi[st] = true
		}
	}

	if f.Kind == engine.ExpectedReward {
		rm, err := m.RewardModel(f.RewardModel)
		if err != nil {
			return nil, fmt.Errorf("reward model %q: %w", f.RewardModel, engine.ErrUnknownRewardModel)
		}
		q.reward = func(r int) float64 { return rm.ChoiceReward(g.owner[r], r) }
	}

	if task.HasHint() {
		if got := len(q.hint.ResultHint()); got != g.n {
			return nil, fmt.Errorf("hint len=%d states=%d: %w", got, g.n, engine.ErrHintLength)
		}
	}
	if q.hint != nil && q.hint.ComputeOnlyMaybeStates() {
		if !task.HasHint() {
			return nil, fmt.Errorf("ComputeOnlyMaybeStates without result hint: %w", engine.ErrInvalidHint)
		}
		if ms := q.hint.MaybeStates(); ms.Len() != g.n {
			return nil, fmt.Errorf("maybe states len=%d states=%d: %w", ms.Len(), g.n, engine.ErrInvalidHint)
		}
	}

	return q, nil
}

func labelSet(m *model.Model, name string) ([]bool, error) {
	bv, err := m.Label(name)
	if err != nil {
		return nil, fmt.Errorf("label %q: %w", name, engine.ErrUnknownLabel)
	}

	return bv.Bools(), nil
}

// qualitative returns the maybe states and the values of all other states.
func (q *query) qualitative() (maybe []bool, fixed []float64) {
	n := q.g.n
	fixed = make([]float64, n)
	if q.hint != nil && q.hint.ComputeOnlyMaybeStates() {
		maybe = q.hint.MaybeStates().Bools()
		hint := q.hint.ResultHint()
		for s := range fixed {
			if !maybe[s] {
				fixed[s] = hint[s]
			}
		}

		return maybe, fixed
	}

	maybe = make([]bool, n)
	if q.reward == nil {
		var zero []bool
		if q.maximize {
			zero = q.g.prob0A(q.phi, q.psi)
		} else {
			zero = q.g.prob0E(q.phi, q.psi)
		}
		for s := 0; s < n; s++ {
			switch {
			case q.psi[s]:
				fixed[s] = 1
			case zero[s]:
				fixed[s] = 0
			default:
				maybe[s] = true
			}
		}

		return maybe, fixed
	}

	var finite []bool
	if q.maximize {
		finite = q.g.prob1A(q.phi, q.psi)
	} else {
		finite = q.g.prob1E(q.phi, q.psi)
	}
	for s := 0; s < n; s++ {
		switch {
		case q.psi[s]:
			fixed[s] = 0
		case !finite[s]:
			fixed[s] = math.Inf(1)
		default:
			maybe[s] = true
		}
	}

	return maybe, fixed
}

// needsCollapse reports whether end components among maybe states can make
// the fixed point ambiguous.
func (q *query) needsCollapse(m *model.Model) bool {
	if m.IsDTMC() {
		return false
	}
	if q.hint != nil && q.hint.NoEndComponentsInMaybeStates() {
		return false
	}
	if q.reward == nil {
		return q.maximize
	}

	return !q.maximize
}

// qualitativeScheduler picks choices for states outside the equation system:
// for min-probability zero states a choice that keeps the probability at 0,
// elsewhere the first choice.
func (q *query) qualitativeScheduler(maybe []bool) []int {
	g := q.g
	sched := make([]int, g.n)
	if q.reward != nil || q.maximize {
		return sched
	}
	zero := make([]bool, g.n)
	for s := range zero {
		zero[s] = !maybe[s] && !q.psi[s]
	}
	for s := 0; s < g.n; s++ {
		if !zero[s] {
			continue
		}
		for r := g.groups[s]; r < g.groups[s+1]; r++ {
			if g.allSuccessorsIn(r, zero) {
				sched[s] = r - g.groups[s]
				break
			}
		}
	}

	return sched
}
