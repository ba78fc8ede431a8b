// Package quotient works with families of Markov chains folded into one
// quotient MDP.
//
// Every choice of the quotient carries a (possibly empty) assignment of
// options to holes. A Family restricts each hole to a subset of its options;
// the MDP of a family keeps the default choices (no hole involved) and the
// choices whose assignment the family includes.
//
// Building blocks:
//
//   - SelectActions and Build restrict the quotient to a family, reusing the
//     parent's selection when the family came from a split.
//   - BuildChain yields the DTMC of a singleton family.
//   - ChoiceValues and ExpectedVisits score the choices of a sub-MDP against
//     a verification result and its scheduler.
//   - GeneralizeHint and TranslateHint move results between the state spaces
//     of a sub-MDP and the quotient, so a subfamily can warm-start from its
//     parent's values.
//   - CheckBothDirections verifies a formula in both optimization directions
//     at once.
//   - SchedulerConsistent scores the holes a scheduler decides inconsistently,
//     and Split divides a family along the best-scored hole.
//   - PairProperty compares a value in two initial states; Refine splits
//     families until each is decided or cannot be split.
package quotient
