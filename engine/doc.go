// Package engine defines the contract between callers and a probabilistic
// model-checking engine.
//
// The package holds no algorithms. It describes:
//
//   - Environment: numerical solver settings (precision, relative/absolute
//     convergence, iteration cap), loadable from YAML and environment variables.
//   - Formula and CheckTask: the property to verify plus solve options
//     (optimization direction, initial-state filtering, scheduler extraction)
//     and an optional ExplicitHint.
//   - ExplicitHint: a warm-start vector for the fixed-point solver together
//     with the policy flags that govern how much the solver may trust it.
//   - CheckResult: per-state values and an optional memoryless scheduler.
//   - Engine: the interface implemented by concrete engines (see package solver).
//
// All sentinel errors engines report live here so callers can match them with
// errors.Is regardless of the engine implementation.
package engine
