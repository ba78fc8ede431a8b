// Package model defines explicit discrete-time probabilistic models.
//
// A Model is either a DTMC (one choice per state) or an MDP (one or more
// nondeterministic choices per state). Its transition structure is a
// row-grouped sparse.Matrix: row group s holds the choices of state s and each
// row is a probability distribution over successor states.
//
// Besides transitions a Model carries:
//
//   - state labels (named bitvector.BitVector sets, e.g. "goal"),
//   - the set of initial states,
//   - named reward models with state and/or state-action rewards.
//
// Models are immutable after construction; every accessor returns copies.
// Derived models are produced by Restrict (sub-model induced by a choice
// selection, with state and choice maps back to the original) and ToDTMC
// (an MDP whose states all have exactly one choice).
//
// Models can be decoded from YAML (see Decode for the format).
package model
