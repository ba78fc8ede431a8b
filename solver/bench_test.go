package solver_test

import (
	"fmt"
	"testing"

	"github.com/katalvlaran/probsynth/bitvector"
	"github.com/katalvlaran/probsynth/engine"
	"github.com/katalvlaran/probsynth/model"
	"github.com/katalvlaran/probsynth/solver"
	"github.com/katalvlaran/probsynth/sparse"
)

// sink to defeat dead-code elimination
var sinkResult *engine.CheckResult

// gamblersRuin is a fair random walk on 0..n-1 absorbed at both ends.
// P(F n-1) from i is i/(n-1).
func gamblersRuin(b *testing.B, n int) *model.Model {
	b.Helper()
	bld := sparse.NewBuilder(sparse.WithDimensions(n, n))
	for s := 0; s < n; s++ {
		var err error
		if s == 0 || s == n-1 {
			err = bld.AddNextValue(s, s, 1)
		} else if err = bld.AddNextValue(s, s-1, 0.5); err == nil {
			err = bld.AddNextValue(s, s+1, 0.5)
		}
		if err != nil {
			b.Fatal(err)
		}
	}
	tm, err := bld.Build()
	if err != nil {
		b.Fatal(err)
	}
	goal, _ := bitvector.FromIndices(n, []int{n - 1})
	initial, _ := bitvector.FromIndices(n, []int{n / 2})
	m, err := model.NewDTMC(model.Components{
		Transitions:   tm,
		Labels:        map[string]*bitvector.BitVector{"goal": goal},
		InitialStates: initial,
	})
	if err != nil {
		b.Fatal(err)
	}

	return m
}

func BenchmarkVerifyHinted(b *testing.B) {
	for _, n := range []int{16, 64} {
		m := gamblersRuin(b, n)
		exact := make([]float64, n)
		for s := range exact {
			exact[s] = float64(s) / float64(n-1)
		}
		s := solver.New()
		env := engine.DefaultEnvironment()

		b.Run(fmt.Sprintf("n=%d/cold", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				res, err := s.Verify(env, m, engine.NewCheckTask(engine.Probability("goal")))
				if err != nil {
					b.Fatal(err)
				}
				sinkResult = res
			}
		})
		b.Run(fmt.Sprintf("n=%d/warm", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				task := engine.NewCheckTask(engine.Probability("goal"))
				h := engine.NewExplicitHint()
				h.SetResultHint(exact)
				task.SetHint(h)
				res, err := s.Verify(env, m, task)
				if err != nil {
					b.Fatal(err)
				}
				sinkResult = res
			}
		})
	}
}
