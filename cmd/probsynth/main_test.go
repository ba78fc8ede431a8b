package main

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/probsynth/bitvector"
	"github.com/katalvlaran/probsynth/engine"
	"github.com/katalvlaran/probsynth/sparse"
)

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
  safe: [0, 1]
rewards:
  steps:
    state: [1, 1, 1, 1]
`

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
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

// run executes the CLI with args and returns its standard output.
func run(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	root := a.rootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append(args, "--quiet"))
	err := root.Execute()

	return out.String(), err
}

func TestCheckCommand(t *testing.T) {
	chain := writeFile(t, "chain.yaml", chainYAML)
	mdp := writeFile(t, "mdp.yaml", ecMDP)

	cases := map[string]struct {
		args      []string
		formula   string
		values    []float64
		scheduler []int
	}{
		"dtmc reachability": {
			args:    []string{"check", chain, "--target", "goal"},
			formula: `P=? [F "goal"]`,
			values:  []float64{2.0 / 3, 1, 1.0 / 3, 0},
		},
		"dtmc until": {
			args:    []string{"check", chain, "--target", "goal", "--until", "safe"},
			formula: `P=? ["safe" U "goal"]`,
			values:  []float64{0.5, 1, 0, 0},
		},
		"mdp max with scheduler": {
			args:      []string{"check", mdp, "--target", "goal", "--max", "--schedulers"},
			formula:   `P=? [F "goal"]`,
			values:    []float64{0.5, 0.5, 1, 0},
			scheduler: []int{1, 0, 0, 0},
		},
		"mdp max with hint": {
			args:    []string{"check", mdp, "--target", "goal", "--max", "--hint", "1,1,1,1"},
			formula: `P=? [F "goal"]`,
			values:  []float64{0.5, 0.5, 1, 0},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("PROBSYNTH_PRECISION", "1e-9")
			out, err := run(t, &app{}, tc.args...)
			require.NoError(t, err)

			var got checkOutput
			require.NoError(t, yaml.Unmarshal([]byte(out), &got))
			require.Equal(t, tc.formula, got.Formula)
			assert.InDeltaSlice(t, tc.values, got.Values, 1e-6)
			require.Equal(t, tc.scheduler, got.Scheduler)
		})
	}
}

func TestCheckCommandInfiniteReward(t *testing.T) {
	chain := writeFile(t, "chain.yaml", chainYAML)
	out, err := run(t, &app{}, "check", chain, "--target", "goal", "--reward", "steps")
	require.NoError(t, err)
	require.Contains(t, out, ".inf")

	var got checkOutput
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	require.True(t, math.IsInf(got.Values[3], 1))
}

func TestCheckCommandErrors(t *testing.T) {
	chain := writeFile(t, "chain.yaml", chainYAML)

	_, err := run(t, &app{}, "check", chain, "--target", "goal", "--until", "safe", "--reward", "steps")
	require.ErrorIs(t, err, errUsage)

	_, err = run(t, &app{}, "check", chain, "--target", "missing")
	require.ErrorIs(t, err, engine.ErrUnknownLabel)

	_, err = run(t, &app{}, "check", chain, "--target", "goal", "--hint", "0.5")
	require.ErrorIs(t, err, engine.ErrHintLength)

	_, err = run(t, &app{}, "check", filepath.Join(t.TempDir(), "none.yaml"), "--target", "goal")
	require.ErrorIs(t, err, os.ErrNotExist)

	config := writeFile(t, "env.yaml", "precision: -1\n")
	_, err = run(t, &app{}, "--config", config, "check", chain, "--target", "goal")
	require.ErrorIs(t, err, engine.ErrInvalidEnvironment)
}

func TestVisitsCommand(t *testing.T) {
	chain := writeFile(t, "chain.yaml", chainYAML)
	t.Setenv("PROBSYNTH_PRECISION", "1e-9")
	out, err := run(t, &app{}, "visits", chain, "--state", "0")
	require.NoError(t, err)

	var got visitsOutput
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	require.Len(t, got.Visits, 4)
	assert.InDelta(t, 4.0/3, got.Visits[0], 1e-6)
	assert.True(t, math.IsInf(got.Visits[1], 1))
	assert.InDelta(t, 2.0/3, got.Visits[2], 1e-6)

	mdp := writeFile(t, "mdp.yaml", ecMDP)
	_, err = run(t, &app{}, "visits", mdp)
	require.ErrorIs(t, err, engine.ErrUnsupportedModel)
}

func TestSelectCommand(t *testing.T) {
	out, err := run(t, &app{}, "select", "--defaults", "0011", "--set", "0,1")
	require.NoError(t, err)

	var got selectOutput
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	require.Equal(t, selectOutput{Selection: "1111", Count: 4}, got)

	_, err = run(t, &app{}, "select", "--defaults", "01", "--set", "2")
	require.ErrorIs(t, err, bitvector.ErrOutOfRange)
}

func TestMultiplyCommand(t *testing.T) {
	mdp := writeFile(t, "mdp.yaml", ecMDP)
	out, err := run(t, &app{}, "multiply", mdp, "--vector", "0,0,1,0")
	require.NoError(t, err)

	var got multiplyOutput
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.InDeltaSlice(t, []float64{0, 0.5, 0, 0.3, 1, 0}, got.Rows, 1e-12)

	_, err = run(t, &app{}, "multiply", mdp, "--vector", "1")
	require.ErrorIs(t, err, sparse.ErrDimensionMismatch)
}

func TestQuietAndMetricsFile(t *testing.T) {
	chain := writeFile(t, "chain.yaml", chainYAML)
	metrics := filepath.Join(t.TempDir(), "metrics.prom")

	a := &app{}
	_, err := run(t, a, "--metrics-file", metrics, "check", chain, "--target", "goal")
	require.NoError(t, err)
	require.Equal(t, engine.LogLevelOff, a.solver.LogLevel())

	raw, err := os.ReadFile(metrics)
	require.NoError(t, err)
	text := string(raw)
	require.True(t, strings.Contains(text, "probsynth_solver_checks_total"), text)
	require.Contains(t, text, `kind="probability"`)
}
