package solver_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/probsynth/solver"
)

func TestQualitativeSets(t *testing.T) {
	m := decode(t, ecMDP)
	all := states(4, 0, 1, 2, 3)
	goal := states(4, 2)

	require.Equal(t, states(4, 3), solver.Prob0A(m, all, goal))
	require.Equal(t, states(4, 0, 1, 3), solver.Prob0E(m, all, goal))
	require.Equal(t, states(4, 2), solver.Prob1A(m, all, goal))
	require.Equal(t, states(4, 2), solver.Prob1E(m, all, goal))

	done := states(4, 2, 3)
	require.Equal(t, states(4, 2, 3), solver.Prob1A(m, all, done))
	require.Equal(t, all, solver.Prob1E(m, all, done))
}

func TestQualitativeSetsRespectConstraint(t *testing.T) {
	m := decode(t, chainYAML)
	safe := states(4, 0, 1)
	goal := states(4, 1)

	// 2 is not safe, so it cannot continue towards the goal.
	require.Equal(t, states(4, 2, 3), solver.Prob0A(m, safe, goal))
	require.Equal(t, states(4, 1), solver.Prob1E(m, safe, goal))
}

func TestMaximalEndComponents(t *testing.T) {
	m := decode(t, ecMDP)

	got := solver.MaximalEndComponents(m, states(4, 0, 1))
	if diff := cmp.Diff([][]int{{0, 1}}, got); diff != "" {
		t.Fatalf("MECs within maybe states (-want +got):\n%s", diff)
	}

	got = solver.MaximalEndComponents(m, states(4, 0, 1, 2, 3))
	if diff := cmp.Diff([][]int{{0, 1}, {2}, {3}}, got); diff != "" {
		t.Fatalf("MECs of the full model (-want +got):\n%s", diff)
	}

	// Without 1 the self-contained part of 0 vanishes.
	require.Empty(t, solver.MaximalEndComponents(m, states(4, 0)))
}
