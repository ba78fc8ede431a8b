// Package synthesis is the call surface that synthesis tooling uses to drive a
// model-checking engine.
//
// Operations:
//
//   - SetLogLevelOff(eng): silence the engine's logger.
//   - MultiplyWithVector(m, v): result = m·v with len(result) = m.RowCount().
//   - ModelCheckWithHint(eng, m, task, env, hint): verification warm-started
//     from a full-state-space result hint.
//   - ComputeExpectedNumberOfVisits(eng, env, m, s0): expected visiting times.
//   - ConstructSelection(defaults, selected): default action flags plus
//     forced selections, as a fresh vector.
//
// The package holds no state between calls and never solves anything itself;
// every engine failure is returned unchanged (wrapped with call context, so
// errors.Is keeps matching the engine's sentinels).
package synthesis
