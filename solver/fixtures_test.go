package solver_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/katalvlaran/probsynth/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// chainYAML: from 0 a fair coin goes to the goal 1 or to 2; 2 returns to 0
// or falls into the sink 3. P(F goal) = 2/3 from 0 and 1/3 from 2.
const chainYAML = `
kind: dtmc
initial: [0]
states:
  - choices: [{1: 0.5, 2: 0.5}]
  - choices: [{1: 1}]
  - choices: [{0: 0.5, 3: 0.5}]
  - choices: [{3: 1}]
labels:
  goal: [1]
  done: [1, 3]
  safe: [0, 1]
rewards:
  steps:
    state: [1, 1, 1, 1]
`

// ecMDP: states 0 and 1 form an end component (choice a moves between them);
// choice b leaves it towards the goal 2 or the sink 3.
//
//	0: a -> 1          b -> 2 (0.5), 3 (0.5)   cost a=0 b=2
//	1: a -> 0          b -> 2 (0.3), 3 (0.7)   cost a=0 b=1
const ecMDP = `
kind: mdp
initial: [0]
states:
  - choices: [{1: 1}, {2: 0.5, 3: 0.5}]
  - choices: [{0: 1}, {2: 0.3, 3: 0.7}]
  - choices: [{2: 1}]
  - choices: [{3: 1}]
labels:
  goal: [2]
  done: [2, 3]
rewards:
  cost:
    stateAction: [0, 2, 0, 1, 0, 0]
`

func decode(t testing.TB, src string) *model.Model {
	t.Helper()
	m, err := model.Decode(strings.NewReader(src))
	require.NoError(t, err)

	return m
}

func states(n int, members ...int) []bool {
	set := make([]bool, n)
	for _, s := range members {
		set[s] = true
	}

	return set
}
