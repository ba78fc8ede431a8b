package quotient_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/probsynth/engine"
	"github.com/katalvlaran/probsynth/model"
	"github.com/katalvlaran/probsynth/quotient"
	"github.com/katalvlaran/probsynth/solver"
)

// sharedYAML reuses hole x in states 0 and 1, so a scheduler may pick
// different options of x in different states. Hole y labels no choice.
//
//	0: c0 -> 2 (0.9), 1 (0.1) [x=0]   c1 -> 2 (0.2), 1 (0.8) [x=1]
//	1: c2 -> 2 (0.1), 3 (0.9) [x=0]   c3 -> 2 (0.7), 3 (0.3) [x=1]   c4 -> 3 [x=2]
//	2: c5 goal,  3: c6 sink
const sharedYAML = `
kind: mdp
initial: [0]
states:
  - choices: [{2: 0.9, 1: 0.1}, {2: 0.2, 1: 0.8}]
  - choices: [{2: 0.1, 3: 0.9}, {2: 0.7, 3: 0.3}, {3: 1}]
  - choices: [{2: 1}]
  - choices: [{3: 1}]
labels:
  goal: [2]
`

var sharedActions = []quotient.Assignment{
	{0: 0}, {0: 1},
	{0: 0}, {0: 1}, {0: 2},
	nil, nil,
}

// pairYAML has two initial states. From 0 the goal is reached with 0.3
// (x=0) or 0.6 (x=1), from 1 always with 0.5.
const pairYAML = `
kind: mdp
initial: [0, 1]
states:
  - choices: [{2: 0.3, 3: 0.7}, {2: 0.6, 3: 0.4}]
  - choices: [{2: 0.5, 3: 0.5}]
  - choices: [{2: 1}]
  - choices: [{3: 1}]
labels:
  goal: [2]
`

var pairActions = []quotient.Assignment{{0: 0}, {0: 1}, nil, nil, nil}

func newQuotient(t *testing.T, src string, actions []quotient.Assignment) *quotient.Quotient {
	t.Helper()
	m, err := model.Decode(strings.NewReader(src))
	require.NoError(t, err)
	q, err := quotient.New(m, actions)
	require.NoError(t, err)

	return q
}

func sharedFamily() *quotient.Family {
	return quotient.NewFamily([][]int{{0, 1, 2}, {0, 1}})
}

func TestSchedulerDifference(t *testing.T) {
	q := newQuotient(t, sharedYAML, sharedActions)
	sub, err := q.Build(sharedFamily())
	require.NoError(t, err)
	choiceValues := []float64{0.97, 0.76, 0.1, 0.7, 0, 1, 0}
	inconsistent := map[int][]int{0: {0, 1}}

	scores := q.SchedulerDifference(sub, inconsistent, choiceValues, []float64{1, 1, 0, 0})
	require.Len(t, scores, 1)
	assert.InDelta(t, (0.21+0.6)/2, scores[0], tol)

	scores = q.SchedulerDifference(sub, inconsistent, choiceValues, []float64{1, 0.1, 0, 0})
	assert.InDelta(t, (0.21+0.06)/2, scores[0], tol)

	// State 0 offers only option 0 of {0, 2}: affected with no spread.
	scores = q.SchedulerDifference(sub, map[int][]int{0: {0, 2}}, choiceValues, []float64{1, 1, 0, 0})
	assert.InDelta(t, 0.05, scores[0], tol)

	scores = q.SchedulerDifference(sub, map[int][]int{1: {0, 1}}, choiceValues, []float64{1, 1, 0, 0})
	require.Equal(t, map[int]float64{1: 0}, scores)
}

func TestSchedulerSelectionQuantitative(t *testing.T) {
	q := newQuotient(t, sharedYAML, sharedActions)
	eng := solver.New()
	formula := engine.Probability("goal")
	sub, err := q.Build(sharedFamily())
	require.NoError(t, err)

	res, err := eng.Verify(precise(), sub.Model, engine.NewCheckTask(formula, engine.WithDirection(engine.Maximize), engine.WithSchedulers()))
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 0, 0}, res.Scheduler())

	got, err := q.SchedulerSelectionQuantitative(eng, precise(), sub, formula, res, false)
	require.NoError(t, err)
	require.False(t, got.Consistent)
	require.Equal(t, []int{0, 1}, got.Selection[0])
	require.Empty(t, got.Selection[1])
	assert.InDeltaSlice(t, []float64{0.97, 0.76, 0.1, 0.7, 0, 1, 0}, got.ChoiceValues, tol)
	assert.InDeltaSlice(t, []float64{1, 0.1, 0, 0}, got.Visits, tol)
	require.Len(t, got.Scores, 1)
	assert.InDelta(t, 0.135, got.Scores[0], tol)

	analysis, err := q.SchedulerConsistent(eng, precise(), sub, formula, res, false)
	require.NoError(t, err)
	require.False(t, analysis.Consistent)
	require.Equal(t, []int{0}, analysis.Selection[1], "undecided hole takes its first option")

	// A consistent scheduler skips the quantitative part.
	oneX := engine.NewCheckResult(res.Values(), engine.WithScheduler([]int{1, 1, 0, 0}))
	got, err = q.SchedulerSelectionQuantitative(eng, precise(), sub, formula, oneX, false)
	require.NoError(t, err)
	require.True(t, got.Consistent)
	require.Nil(t, got.Scores)
	require.Nil(t, got.ChoiceValues)
	require.Nil(t, got.Visits)
}

func TestSchedulerConsistentOnChainShapedFamily(t *testing.T) {
	q := newQuotient(t, sharedYAML, sharedActions)
	f, err := sharedFamily().Subfamily(0, []int{0}, nil)
	require.NoError(t, err)
	sub, err := q.Build(f)
	require.NoError(t, err)
	require.Equal(t, sub.Model.StateCount(), sub.Model.ChoiceCount())

	got, err := q.SchedulerConsistent(solver.New(), precise(), sub, engine.Probability("goal"), nil, false)
	require.NoError(t, err)
	require.True(t, got.Consistent)
	require.Equal(t, [][]int{{0}, {0}}, got.Selection)
}

func TestSplitByScore(t *testing.T) {
	q := newQuotient(t, sharedYAML, sharedActions)
	sub, err := q.Build(sharedFamily())
	require.NoError(t, err)
	hints := map[string]quotient.HintPair{"k": {Primary: []float64{1, 2, 3, 4}}}

	analysis := &quotient.SchedulerAnalysis{
		Selection: [][]int{{0, 1}, {0}},
		Scores:    map[int]float64{0: 0.135},
	}
	parts, err := q.Split(sub, analysis, hints)
	require.NoError(t, err)
	require.Len(t, parts, 3)
	require.Equal(t, []int{2}, parts[0].Options(0), "unused options come first")
	require.Equal(t, []int{0}, parts[1].Options(0))
	require.Equal(t, []int{1}, parts[2].Options(0))
	for _, p := range parts {
		require.Equal(t, []int{0, 1}, p.Options(1))
		require.Equal(t, 0, p.Parent().Splitter)
		require.Equal(t, []int{0, 1, 2, 3, 4}, p.Parent().SelectedActions)
		require.Equal(t, hints, p.Parent().Hints)
	}
}

func TestSplitHighestScoreWins(t *testing.T) {
	q := newQuotient(t, sharedYAML, sharedActions)
	sub, err := q.Build(sharedFamily())
	require.NoError(t, err)

	analysis := &quotient.SchedulerAnalysis{
		Selection: [][]int{{0, 1}, {0, 1}},
		Scores:    map[int]float64{0: 0.1, 1: 0.3},
	}
	parts, err := q.Split(sub, analysis, nil)
	require.NoError(t, err)
	require.Len(t, parts, 2, "every option of y was used")
	require.Equal(t, []int{0}, parts[0].Options(1))
	require.Equal(t, []int{1}, parts[1].Options(1))
	require.Equal(t, 1, parts[0].Parent().Splitter)
}

func TestSplitFallsBackToHalving(t *testing.T) {
	q := newQuotient(t, sharedYAML, sharedActions)

	sub, err := q.Build(sharedFamily())
	require.NoError(t, err)
	parts, err := q.Split(sub, nil, nil)
	require.NoError(t, err)
	require.Len(t, parts, 2)
	require.Equal(t, []int{0}, parts[0].Options(0))
	require.Equal(t, []int{1, 2}, parts[1].Options(0))

	f := quotient.NewFamily([][]int{{0}, {0, 1}})
	sub, err = q.Build(f)
	require.NoError(t, err)
	parts, err = q.Split(sub, &quotient.SchedulerAnalysis{Selection: [][]int{{0}, {0}}, Consistent: true}, nil)
	require.NoError(t, err)
	require.Len(t, parts, 2)
	require.Equal(t, []int{0}, parts[0].Options(1))
	require.Equal(t, []int{1}, parts[1].Options(1))

	sub, err = q.Build(quotient.NewFamily([][]int{{0}, {1}}))
	require.NoError(t, err)
	_, err = q.Split(sub, nil, nil)
	require.ErrorIs(t, err, quotient.ErrNotSplittable)
}

func TestPairProperty(t *testing.T) {
	p := quotient.NewPairProperty(engine.Probability("goal"), 0, 1, engine.Minimize)
	require.Equal(t, `P=? [F "goal"] 0 <= 1`, p.String())
	require.True(t, p.Meets(0.3, 0.5))
	require.False(t, p.Meets(0.6, 0.5))
	require.True(t, p.Meets(0.5+1e-12, 0.5), "within precision")

	d := p.Double()
	require.Equal(t, 1, d.StateQuant)
	require.Equal(t, 0, d.CompareState)
	require.Equal(t, engine.Maximize, d.Direction)
	require.Equal(t, `P=? [F "goal"] 1 >= 0`, d.String())
	require.True(t, d.Meets(0.6, 0.5))
	require.Equal(t, p, d.Double())
}

func TestDecide(t *testing.T) {
	q := newQuotient(t, pairYAML, pairActions)
	eng := solver.New()
	p := quotient.NewPairProperty(engine.Probability("goal"), 0, 1, engine.Minimize)

	cases := map[string]struct {
		options  []int
		decision quotient.Decision
	}{
		"whole family": {[]int{0, 1}, quotient.Undecided},
		"x=0":          {[]int{0}, quotient.Sat},
		"x=1":          {[]int{1}, quotient.Unsat},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			for _, prop := range []quotient.PairProperty{p, p.Double()} {
				sub, err := q.Build(quotient.NewFamily([][]int{tc.options}))
				require.NoError(t, err)
				res, err := quotient.CheckBothDirections(eng, precise(), sub.Model, prop.Formula, prop.Direction, quotient.HintPair{})
				require.NoError(t, err)

				out, err := prop.Decide(sub.Model, res)
				require.NoError(t, err)
				require.Equal(t, tc.decision, out.Decision, "%s", prop)
			}
		})
	}

	sub, err := q.Build(quotient.NewFamily([][]int{{0, 1}}))
	require.NoError(t, err)
	res, err := quotient.CheckBothDirections(eng, precise(), sub.Model, p.Formula, p.Direction, quotient.HintPair{})
	require.NoError(t, err)
	out, err := p.Decide(sub.Model, res)
	require.NoError(t, err)
	assert.InDelta(t, 0.3, out.Value, tol)
	assert.InDelta(t, 0.5, out.Threshold, tol)
	assert.InDelta(t, 0.6, out.AltValue, tol)
	assert.InDelta(t, 0.5, out.AltThreshold, tol)

	_, err = quotient.NewPairProperty(p.Formula, 0, 2, engine.Minimize).Decide(sub.Model, res)
	require.ErrorIs(t, err, quotient.ErrUnknownInitialState)
}

func TestCheckPropertyAnalysesUndecidedFamilies(t *testing.T) {
	q := newQuotient(t, pairYAML, pairActions)
	eng := solver.New()
	p := quotient.NewPairProperty(engine.Probability("goal"), 0, 1, engine.Minimize)

	sub, err := q.Build(quotient.NewFamily([][]int{{0, 1}}))
	require.NoError(t, err)
	res, err := q.CheckProperty(eng, precise(), sub, p)
	require.NoError(t, err)
	require.Equal(t, quotient.Undecided, res.Outcome.Decision)
	require.NotNil(t, res.Analysis)
	require.True(t, res.Analysis.Consistent)
	require.Equal(t, [][]int{{0}}, res.Analysis.Selection, "the minimizing scheduler picks x=0")

	sub, err = q.Build(quotient.NewFamily([][]int{{1}}))
	require.NoError(t, err)
	res, err = q.CheckProperty(eng, precise(), sub, p)
	require.NoError(t, err)
	require.Equal(t, quotient.Unsat, res.Outcome.Decision)
	require.Nil(t, res.Analysis)
}

func TestRefine(t *testing.T) {
	q := newQuotient(t, pairYAML, pairActions)
	eng := solver.New()
	p := quotient.NewPairProperty(engine.Probability("goal"), 0, 1, engine.Minimize)

	for _, prop := range []quotient.PairProperty{p, p.Double()} {
		report, err := q.Refine(eng, precise(), quotient.NewFamily([][]int{{0, 1}}), prop)
		require.NoError(t, err)
		require.Equal(t, 3, report.Iterations, "%s", prop)
		require.Equal(t, 1, report.Rejected)
		require.Empty(t, report.Undecided)
		require.Len(t, report.Satisfying, 1)
		require.Equal(t, []int{0}, report.Satisfying[0].Options(0))
		require.NotNil(t, report.Satisfying[0].Parent(), "subfamilies carry their parent's hints")
		require.Contains(t, report.Satisfying[0].Parent().Hints, prop.String())
	}
}

func TestRefineKeepsUndecidedSingletons(t *testing.T) {
	// Default choices with different outcomes keep a singleton family undecided.
	const src = `
kind: mdp
initial: [0, 1]
states:
  - choices: [{2: 0.3, 3: 0.7}, {2: 0.6, 3: 0.4}]
  - choices: [{2: 0.5, 3: 0.5}]
  - choices: [{2: 1}]
  - choices: [{3: 1}]
labels:
  goal: [2]
`
	q := newQuotient(t, src, []quotient.Assignment{nil, nil, nil, nil, nil})
	p := quotient.NewPairProperty(engine.Probability("goal"), 0, 1, engine.Minimize)

	report, err := q.Refine(solver.New(), precise(), quotient.NewFamily(nil), p)
	require.NoError(t, err)
	require.Equal(t, 1, report.Iterations)
	require.Len(t, report.Undecided, 1)
	require.Empty(t, report.Satisfying)
}
