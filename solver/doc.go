// Package solver is the reference sparse engine behind engine.Engine.
//
// Verify handles unbounded reachability probabilities (P [phi U psi]) and
// expected rewards until reaching a target (R [F psi]) on DTMCs and MDPs:
//
//   - Qualitative precomputation on the backward relation (Prob0A, Prob0E,
//     Prob1A, Prob1E) fixes the states with value 0, 1 or +Inf.
//   - Maximal end components among the remaining (maybe) states are collapsed
//     for MDP max-probability and min-reward queries, so the Bellman system has
//     a unique fixed point and any warm start converges to the right values.
//   - Value iteration (Jacobi sweeps) runs from zero or from the hint.
//
// ExpectedVisitingTimes computes expected visit counts on DTMCs.
//
// Logging goes through zap; SetLogLevel adjusts a gate at run time.
// Metrics are prometheus collectors registered via WithRegisterer.
package solver
