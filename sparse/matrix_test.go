// Package sparse_test contains unit tests for the CSR Matrix and its Builder.
package sparse_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/probsynth/sparse"
)

// mustMDP builds the 3-state, 4-choice matrix used across tests:
//
//	group 0: row 0 → {1: 0.5, 2: 0.5}; row 1 → {0: 1}
//	group 1: row 2 → {1: 1}
//	group 2: row 3 → {0: 0.25, 2: 0.75}
func mustMDP(t testing.TB) *sparse.Matrix {
	t.Helper()
	b := sparse.NewBuilder(sparse.WithCustomRowGrouping())
	require.NoError(t, b.NewRowGroup(0))
	require.NoError(t, b.AddNextValue(0, 1, 0.5))
	require.NoError(t, b.AddNextValue(0, 2, 0.5))
	require.NoError(t, b.AddNextValue(1, 0, 1))
	require.NoError(t, b.NewRowGroup(2))
	require.NoError(t, b.AddNextValue(2, 1, 1))
	require.NoError(t, b.NewRowGroup(3))
	require.NoError(t, b.AddNextValue(3, 0, 0.25))
	require.NoError(t, b.AddNextValue(3, 2, 0.75))
	m, err := b.Build()
	require.NoError(t, err)

	return m
}

func TestBuildShapeAndGroups(t *testing.T) {
	m := mustMDP(t)
	require.Equal(t, 4, m.RowCount())
	require.Equal(t, 3, m.ColumnCount())
	require.Equal(t, 6, m.EntryCount())
	require.Equal(t, 3, m.RowGroupCount())
	require.Equal(t, []int{0, 2, 3, 4}, m.RowGroupIndices())
	require.False(t, m.HasTrivialRowGrouping())

	start, end, err := m.RowGroup(0)
	require.NoError(t, err)
	require.Equal(t, [2]int{0, 2}, [2]int{start, end})

	_, _, err = m.RowGroup(3)
	require.ErrorIs(t, err, sparse.ErrOutOfRange)
}

func TestBuilderTrivialGroupingAndEmptyRows(t *testing.T) {
	b := sparse.NewBuilder(sparse.WithDimensions(4, 4))
	require.NoError(t, b.AddNextValue(0, 0, 1))
	require.NoError(t, b.AddNextValue(2, 3, 1)) // row 1 left empty
	m, err := b.Build()
	require.NoError(t, err)

	require.Equal(t, 4, m.RowCount())
	require.True(t, m.HasTrivialRowGrouping())
	cols, vals, err := m.Row(1)
	require.NoError(t, err)
	require.Empty(t, cols)
	require.Empty(t, vals)
	cols, _, err = m.Row(3)
	require.NoError(t, err)
	require.Empty(t, cols)
}

func TestBuilderRejects(t *testing.T) {
	b := sparse.NewBuilder(sparse.WithDimensions(2, 2))
	require.ErrorIs(t, b.AddNextValue(2, 0, 1), sparse.ErrOutOfRange)
	require.ErrorIs(t, b.AddNextValue(0, -1, 1), sparse.ErrOutOfRange)
	require.NoError(t, b.AddNextValue(1, 1, 1))
	require.ErrorIs(t, b.AddNextValue(1, 0, 1), sparse.ErrOutOfOrder)
	require.ErrorIs(t, b.AddNextValue(0, 0, 1), sparse.ErrOutOfOrder)

	nb := sparse.NewBuilder()
	require.ErrorIs(t, nb.AddNextValue(0, 0, nan()), sparse.ErrNaNInf)

	g := sparse.NewBuilder(sparse.WithCustomRowGrouping())
	require.NoError(t, g.NewRowGroup(0))
	require.NoError(t, g.AddNextValue(3, 0, 1))
	require.ErrorIs(t, g.NewRowGroup(2), sparse.ErrOutOfOrder)

	_, err := g.Build()
	require.NoError(t, err)
	_, err = g.Build()
	require.ErrorIs(t, err, sparse.ErrBuilderUsed)
}

func TestWithDimensionsPanicsOnNegative(t *testing.T) {
	require.Panics(t, func() { sparse.WithDimensions(-1, 0) })
}

func TestAtAndRowSum(t *testing.T) {
	m := mustMDP(t)
	v, err := m.At(3, 2)
	require.NoError(t, err)
	require.Equal(t, 0.75, v)

	v, err = m.At(2, 0)
	require.NoError(t, err)
	require.Zero(t, v)

	_, err = m.At(4, 0)
	require.ErrorIs(t, err, sparse.ErrOutOfRange)

	for r := 0; r < m.RowCount(); r++ {
		s, err := m.RowSum(r)
		require.NoError(t, err)
		require.InDelta(t, 1.0, s, 1e-12)
	}
}

// TestMultiplyWithVector verifies result = A·x and the length contract.
func TestMultiplyWithVector(t *testing.T) {
	m := mustMDP(t)
	x := []float64{1, 2, 4}
	res := make([]float64, m.RowCount())
	require.NoError(t, m.MultiplyWithVector(x, res))
	require.Equal(t, []float64{3, 1, 2, 3.25}, res)

	require.ErrorIs(t, m.MultiplyWithVector([]float64{1}, res), sparse.ErrDimensionMismatch)
	require.ErrorIs(t, m.MultiplyWithVector(x, make([]float64, 3)), sparse.ErrDimensionMismatch)
	require.ErrorIs(t, m.MultiplyWithVector(nil, res), sparse.ErrNilVector)
}

// TestTransposeJoinGroups checks the predecessor relation and merged values.
func TestTransposeJoinGroups(t *testing.T) {
	b := sparse.NewBuilder(sparse.WithCustomRowGrouping())
	require.NoError(t, b.NewRowGroup(0))
	require.NoError(t, b.AddNextValue(0, 1, 1))
	require.NoError(t, b.AddNextValue(1, 0, 0.5))
	require.NoError(t, b.AddNextValue(1, 1, 0.5))
	require.NoError(t, b.NewRowGroup(2))
	require.NoError(t, b.AddNextValue(2, 0, 1))
	m, err := b.Build()
	require.NoError(t, err)

	tr := m.Transpose(true)
	require.Equal(t, 2, tr.RowCount())
	require.Equal(t, 2, tr.ColumnCount())
	// column 1 is reached from rows 0 and 1, both in group 0: merged to 1.5
	entries, err := tr.RowEntries(1)
	require.NoError(t, err)
	require.Equal(t, []sparse.Entry{{Column: 0, Value: 1.5}}, entries)
	entries, err = tr.RowEntries(0)
	require.NoError(t, err)
	require.Equal(t, []sparse.Entry{{Column: 0, Value: 0.5}, {Column: 1, Value: 1}}, entries)

	plain := m.Transpose(false)
	require.Equal(t, 3, plain.ColumnCount())
	require.Equal(t, 4, plain.EntryCount())
}

func TestCloneIndependence(t *testing.T) {
	m := mustMDP(t)
	c := m.Clone()
	require.Equal(t, m.String(), c.String())
	require.Contains(t, m.String(), "-- group 1")
}

func nan() float64 { return math.NaN() }
