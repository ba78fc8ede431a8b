// SPDX-License-Identifier: MIT

package sparse

import (
	"fmt"
	"math"
)

// Builder accumulates entries in row-major order and produces an immutable Matrix.
//
// Contract:
//   - Rows are non-decreasing across calls; within a row columns are strictly increasing.
//   - Skipped rows become empty rows.
//   - With WithCustomRowGrouping, NewRowGroup(start) opens a group at row start;
//     group starts must be non-decreasing.
//
// A Builder is single-use: after Build every method returns ErrBuilderUsed.
type Builder struct {
	opts Options

	curRow  int // last row that received an entry or was opened; -1 initially
	lastCol int // last column written in curRow; -1 when the row is empty
	maxCol  int // largest column seen; -1 initially

	rowStart   []int // rowStart[r] = offset of row r's first entry (r <= curRow)
	columns    []int
	values     []float64
	groupStart []int

	done bool
}

// NewBuilder creates an empty builder configured by opts.
func NewBuilder(opts ...Option) *Builder {
	return &Builder{
		opts:    gatherOptions(opts...),
		curRow:  -1,
		lastCol: -1,
		maxCol:  -1,
	}
}

// AddNextValue appends A[row, col] = v.
//
// Errors:
//   - ErrOutOfRange for negative indices or indices beyond declared dimensions.
//   - ErrOutOfOrder if (row, col) does not follow the previous entry.
//   - ErrNaNInf when v is not finite and validation is on.
func (b *Builder) AddNextValue(row, col int, v float64) error {
	if b.done {
		return ErrBuilderUsed
	}
	if row < 0 || col < 0 ||
		(b.opts.rows > 0 && row >= b.opts.rows) ||
		(b.opts.cols > 0 && col >= b.opts.cols) {
		return fmt.Errorf("Builder.AddNextValue(%d,%d): %w", row, col, ErrOutOfRange)
	}
	if b.opts.validateNaNInf && (math.IsNaN(v) || math.IsInf(v, 0)) {
		return fmt.Errorf("Builder.AddNextValue(%d,%d): %w", row, col, ErrNaNInf)
	}
	if row < b.curRow || (row == b.curRow && col <= b.lastCol) {
		return fmt.Errorf("Builder.AddNextValue(%d,%d) after (%d,%d): %w",
			row, col, b.curRow, b.lastCol, ErrOutOfOrder)
	}

	b.openRowsThrough(row)
	b.columns = append(b.columns, col)
	b.values = append(b.values, v)
	b.lastCol = col
	if col > b.maxCol {
		b.maxCol = col
	}

	return nil
}

// NewRowGroup starts a new row group at startRow. Only meaningful with
// WithCustomRowGrouping; otherwise it is ignored.
func (b *Builder) NewRowGroup(startRow int) error {
	if b.done {
		return ErrBuilderUsed
	}
	if !b.opts.customGrouping {
		return nil
	}
	if startRow < 0 || (b.opts.rows > 0 && startRow > b.opts.rows) {
		return fmt.Errorf("Builder.NewRowGroup(%d): %w", startRow, ErrOutOfRange)
	}
	if n := len(b.groupStart); n > 0 && startRow < b.groupStart[n-1] {
		return fmt.Errorf("Builder.NewRowGroup(%d) after %d: %w", startRow, b.groupStart[n-1], ErrOutOfOrder)
	}
	if startRow < b.curRow {
		return fmt.Errorf("Builder.NewRowGroup(%d) behind row %d: %w", startRow, b.curRow, ErrOutOfOrder)
	}
	b.groupStart = append(b.groupStart, startRow)

	return nil
}

// Build finalizes the matrix.
//
// Implementation:
//   - Stage 1: resolve dimensions (declared or inferred).
//   - Stage 2: close trailing empty rows in rowStart.
//   - Stage 3: resolve row grouping (trivial, or custom closed by the row count).
//
// Errors: ErrDimensionMismatch when custom groups start beyond the final row count.
func (b *Builder) Build() (*Matrix, error) {
	if b.done {
		return nil, ErrBuilderUsed
	}
	b.done = true

	rows := b.curRow + 1
	if b.opts.rows > 0 {
		rows = b.opts.rows
	}
	if n := len(b.groupStart); b.opts.rows == 0 && b.opts.customGrouping && n > 0 && b.groupStart[n-1] > rows {
		rows = b.groupStart[n-1]
	}
	cols := b.maxCol + 1
	if b.opts.cols > 0 {
		cols = b.opts.cols
	}

	rowStart := b.rowStart
	for len(rowStart) < rows+1 {
		rowStart = append(rowStart, len(b.columns))
	}

	var groupStart []int
	if b.opts.customGrouping {
		groupStart = append(groupStart, b.groupStart...)
		if len(groupStart) == 0 || groupStart[0] != 0 {
			groupStart = append([]int{0}, groupStart...)
		}
		if groupStart[len(groupStart)-1] > rows {
			return nil, fmt.Errorf("Builder.Build: group start %d > rows %d: %w",
				groupStart[len(groupStart)-1], rows, ErrDimensionMismatch)
		}
		groupStart = append(groupStart, rows)
	} else {
		groupStart = make([]int, rows+1)
		for r := range groupStart {
			groupStart[r] = r
		}
	}

	return &Matrix{
		rows:       rows,
		cols:       cols,
		rowStart:   rowStart,
		columns:    b.columns,
		values:     b.values,
		groupStart: groupStart,
		trivial:    isTrivialGrouping(groupStart),
	}, nil
}

// openRowsThrough records row offsets up to and including row.
func (b *Builder) openRowsThrough(row int) {
	for b.curRow < row {
		b.curRow++
		b.rowStart = append(b.rowStart, len(b.columns))
		b.lastCol = -1
	}
}

// isTrivialGrouping reports whether every group holds exactly one row.
func isTrivialGrouping(groupStart []int) bool {
	for g := 0; g+1 < len(groupStart); g++ {
		if groupStart[g+1]-groupStart[g] != 1 {
			return false
		}
	}

	return true
}
