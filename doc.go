// Package probsynth is a sparse probabilistic model checker with the call
// surface that program-synthesis loops need.
//
// What is inside?
//
//   - bitvector/  packed flag vectors for state and choice sets
//   - sparse/     row-grouped CSR matrices (one group per state, one row per choice)
//   - model/      immutable DTMCs and MDPs, YAML loading, restriction to a choice selection
//   - engine/     environment, formulas, check tasks with hints, results; the Engine contract
//   - solver/     the reference Engine: graph precomputation, end components, value iteration
//   - synthesis/  SetLogLevelOff, MultiplyWithVector, ModelCheckWithHint,
//     ComputeExpectedNumberOfVisits, ConstructSelection
//   - quotient/   families of chains folded into one MDP: action selection,
//     choice values, expected visits, hint transfer between subfamilies
//
// The probsynth command (cmd/probsynth) exposes checks, visits, selections and
// matrix products on YAML models.
//
// Quick example:
//
//	m, err := model.LoadFile("coin.yaml")
//	if err != nil {
//		return err
//	}
//	prev := []float64{0.5, 1, 0.25, 0} // values of an earlier, similar check
//	task := engine.NewCheckTask(engine.Probability("goal"), engine.WithDirection(engine.Maximize))
//	res, err := synthesis.ModelCheckWithHint(solver.New(), m, task, engine.DefaultEnvironment(), prev)
//	if err != nil {
//		return err
//	}
//	fmt.Println(res.Values())
//
//	go get github.com/katalvlaran/probsynth
package probsynth
