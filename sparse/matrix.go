// SPDX-License-Identifier: MIT

// Package sparse - CSR storage & safe accessors.
//
// Purpose:
//   - Flat CSR buffers (rowStart, columns, values) with the row range
//     [rowStart[r], rowStart[r+1]).
//   - Row groups (groupStart) partition rows; group g owns rows
//     [groupStart[g], groupStart[g+1]).
//   - Public accessors return errors instead of panicking.
//   - Deterministic loops (row-major, ascending columns).

package sparse

import (
	"fmt"
	"sort"
	"strings"
)

// ---------- error context tags ----------

const (
	ctxAt       = "At"
	ctxRow      = "Row"
	ctxRowGroup = "RowGroup"
	ctxMulVec   = "MultiplyWithVector"
)

func matrixErrorf(method string, err error) error {
	return fmt.Errorf("Matrix.%s: %w", method, err)
}

// Entry is a single stored element of a row.
type Entry struct {
	Column int
	Value  float64
}

// Matrix is an immutable row-grouped CSR matrix.
type Matrix struct {
	rows, cols int
	rowStart   []int     // len rows+1
	columns    []int     // len nnz, ascending within each row
	values     []float64 // len nnz
	groupStart []int     // len groups+1, non-decreasing, last == rows
	trivial    bool      // every group holds exactly one row
}

var _ fmt.Stringer = (*Matrix)(nil)

// RowCount returns the number of rows (choices).
func (m *Matrix) RowCount() int { return m.rows }

// ColumnCount returns the number of columns (states).
func (m *Matrix) ColumnCount() int { return m.cols }

// EntryCount returns the number of stored entries.
func (m *Matrix) EntryCount() int { return len(m.values) }

// RowGroupCount returns the number of row groups.
func (m *Matrix) RowGroupCount() int { return len(m.groupStart) - 1 }

// HasTrivialRowGrouping reports whether each row forms its own group.
func (m *Matrix) HasTrivialRowGrouping() bool { return m.trivial }

// RowGroupIndices returns a copy of the group boundaries (len RowGroupCount()+1).
func (m *Matrix) RowGroupIndices() []int {
	out := make([]int, len(m.groupStart))
	copy(out, m.groupStart)

	return out
}

// RowGroup returns the half-open row range [start, end) of group g.
func (m *Matrix) RowGroup(g int) (start, end int, err error) {
	if g < 0 || g >= m.RowGroupCount() {
		return 0, 0, matrixErrorf(ctxRowGroup, fmt.Errorf("group %d: %w", g, ErrOutOfRange))
	}

	return m.groupStart[g], m.groupStart[g+1], nil
}

// Row returns a no-copy view of row r: its columns (ascending) and values.
// The slices alias the matrix storage and MUST NOT be modified.
func (m *Matrix) Row(r int) (cols []int, vals []float64, err error) {
	if r < 0 || r >= m.rows {
		return nil, nil, matrixErrorf(ctxRow, fmt.Errorf("row %d: %w", r, ErrOutOfRange))
	}
	lo, hi := m.rowStart[r], m.rowStart[r+1]

	return m.columns[lo:hi:hi], m.values[lo:hi:hi], nil
}

// RowEntries returns a copy of row r as entries.
func (m *Matrix) RowEntries(r int) ([]Entry, error) {
	cols, vals, err := m.Row(r)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, len(cols))
	for k := range cols {
		out[k] = Entry{Column: cols[k], Value: vals[k]}
	}

	return out, nil
}

// RowSum returns Σ_c A[r,c].
func (m *Matrix) RowSum(r int) (float64, error) {
	_, vals, err := m.Row(r)
	if err != nil {
		return 0, err
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}

	return sum, nil
}

// At returns A[r,c], zero for entries that are not stored.
func (m *Matrix) At(r, c int) (float64, error) {
	if r < 0 || r >= m.rows || c < 0 || c >= m.cols {
		return 0, matrixErrorf(ctxAt, fmt.Errorf("(%d,%d): %w", r, c, ErrOutOfRange))
	}
	lo, hi := m.rowStart[r], m.rowStart[r+1]
	k := lo + sort.SearchInts(m.columns[lo:hi], c)
	if k < hi && m.columns[k] == c {
		return m.values[k], nil
	}

	return 0, nil
}

// MultiplyWithVector computes result = A·x.
//
// Contract:
//   - len(x) == ColumnCount(); len(result) == RowCount().
//   - result is overwritten; x is read-only. x and result must not overlap.
//
// Errors: ErrNilVector, ErrDimensionMismatch.
// Determinism: fixed row-major loop order.
// Complexity: Time O(rows + nnz), Space O(1).
func (m *Matrix) MultiplyWithVector(x, result []float64) error {
	if x == nil || result == nil {
		return matrixErrorf(ctxMulVec, ErrNilVector)
	}
	if len(x) != m.cols {
		return matrixErrorf(ctxMulVec, fmt.Errorf("len(x)=%d cols=%d: %w", len(x), m.cols, ErrDimensionMismatch))
	}
	if len(result) != m.rows {
		return matrixErrorf(ctxMulVec, fmt.Errorf("len(result)=%d rows=%d: %w", len(result), m.rows, ErrDimensionMismatch))
	}

	var acc float64
	for r := 0; r < m.rows; r++ {
		acc = 0
		for k := m.rowStart[r]; k < m.rowStart[r+1]; k++ {
			acc += m.values[k] * x[m.columns[k]]
		}
		result[r] = acc
	}

	return nil
}

// Transpose returns Aᵀ with trivial grouping.
//
// With joinGroups=false the result is ColumnCount()×RowCount().
// With joinGroups=true each row index is replaced by its group index, giving a
// ColumnCount()×RowGroupCount() matrix whose entries sum the values of all
// rows in the group; for a transition matrix this is the state-level
// predecessor relation.
//
// Complexity: Time O(rows + cols + nnz), Space O(cols + nnz).
func (m *Matrix) Transpose(joinGroups bool) *Matrix {
	outCols := m.rows
	owner := func(r int) int { return r }
	if joinGroups {
		outCols = m.RowGroupCount()
		rowGroup := make([]int, m.rows)
		for g := 0; g < outCols; g++ {
			for r := m.groupStart[g]; r < m.groupStart[g+1]; r++ {
				rowGroup[r] = g
			}
		}
		owner = func(r int) int { return rowGroup[r] }
	}

	// Stage 1: count entries per output row (= input column), upper bound when joining.
	counts := make([]int, m.cols+1)
	for _, c := range m.columns {
		counts[c+1]++
	}
	for c := 0; c < m.cols; c++ {
		counts[c+1] += counts[c]
	}

	// Stage 2: scatter in input row order so each output row is ascending.
	fill := make([]int, m.cols)
	copy(fill, counts[:m.cols])
	cols := make([]int, len(m.columns))
	vals := make([]float64, len(m.values))
	lengths := make([]int, m.cols)
	for r := 0; r < m.rows; r++ {
		o := owner(r)
		for k := m.rowStart[r]; k < m.rowStart[r+1]; k++ {
			c := m.columns[k]
			if lengths[c] > 0 && cols[fill[c]-1] == o {
				vals[fill[c]-1] += m.values[k]
				continue
			}
			cols[fill[c]] = o
			vals[fill[c]] = m.values[k]
			fill[c]++
			lengths[c]++
		}
	}

	// Stage 3: compact away the slack left by merged entries.
	rowStart := make([]int, m.cols+1)
	w := 0
	for c := 0; c < m.cols; c++ {
		rowStart[c] = w
		for k := counts[c]; k < counts[c]+lengths[c]; k++ {
			cols[w] = cols[k]
			vals[w] = vals[k]
			w++
		}
	}
	rowStart[m.cols] = w

	groupStart := make([]int, m.cols+1)
	for r := range groupStart {
		groupStart[r] = r
	}

	return &Matrix{
		rows:       m.cols,
		cols:       outCols,
		rowStart:   rowStart,
		columns:    cols[:w:w],
		values:     vals[:w:w],
		groupStart: groupStart,
		trivial:    true,
	}
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	return &Matrix{
		rows:       m.rows,
		cols:       m.cols,
		rowStart:   append([]int(nil), m.rowStart...),
		columns:    append([]int(nil), m.columns...),
		values:     append([]float64(nil), m.values...),
		groupStart: append([]int(nil), m.groupStart...),
		trivial:    m.trivial,
	}
}

// String renders one line per row: "r: c=v c=v", with a "--" separator
// before each non-trivial group.
func (m *Matrix) String() string {
	var sb strings.Builder
	g := 0
	for r := 0; r < m.rows; r++ {
		for !m.trivial && g < m.RowGroupCount() && m.groupStart[g] == r {
			fmt.Fprintf(&sb, "-- group %d\n", g)
			g++
		}
		fmt.Fprintf(&sb, "%d:", r)
		for k := m.rowStart[r]; k < m.rowStart[r+1]; k++ {
			fmt.Fprintf(&sb, " %d=%g", m.columns[k], m.values[k])
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}
