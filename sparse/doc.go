// Package sparse implements a row-grouped compressed sparse row (CSR) matrix.
//
// The matrix stores the transition structure of probabilistic models:
//
//   - Rows are choices. Consecutive rows are partitioned into row groups, one
//     group per state; a Markov chain has the trivial grouping (one row per group).
//   - Columns are successor states; values are transition weights.
//
// Construction goes through Builder, which accepts entries in row-major order
// (AddNextValue) and optional row-group boundaries (NewRowGroup). Once built a
// Matrix is immutable and safe for concurrent readers.
//
// The central primitive is MultiplyWithVector(x, result): result[r] = Σ_c A[r,c]·x[c]
// for every row r. Callers allocate result with exactly RowCount() entries.
//
// Errors are package-level sentinels (errors.go) wrapped with call-site context;
// match them with errors.Is.
//
// Complexity:
//
//   - Build: O(rows + nnz). MultiplyWithVector: O(rows + nnz).
//   - At: O(log k) for a row with k entries. Transpose: O(rows + cols + nnz).
package sparse
