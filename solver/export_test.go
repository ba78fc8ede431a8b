package solver

import "github.com/katalvlaran/probsynth/model"

// Test-only bridges to the graph precomputations.

func Prob0A(m *model.Model, phi, psi []bool) []bool { return newGraph(m).prob0A(phi, psi) }
func Prob0E(m *model.Model, phi, psi []bool) []bool { return newGraph(m).prob0E(phi, psi) }
func Prob1A(m *model.Model, phi, psi []bool) []bool { return newGraph(m).prob1A(phi, psi) }
func Prob1E(m *model.Model, phi, psi []bool) []bool { return newGraph(m).prob1E(phi, psi) }

// MaximalEndComponents returns the member states of each MEC inside within.
func MaximalEndComponents(m *model.Model, within []bool) [][]int {
	ecs := newGraph(m).maximalEndComponents(within, func(int) bool { return true })
	out := make([][]int, len(ecs))
	for i, ec := range ecs {
		out[i] = ec.states
	}

	return out
}
