package bitvector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/probsynth/bitvector"
)

// TestNewInvalidLength ensures New rejects negative lengths.
func TestNewInvalidLength(t *testing.T) {
	_, err := bitvector.New(-1, false)
	require.ErrorIs(t, err, bitvector.ErrInvalidLength)
}

// TestNewFilled verifies fill=true sets exactly Len() flags, including across word boundaries.
func TestNewFilled(t *testing.T) {
	for _, n := range []int{0, 1, 63, 64, 65, 130} {
		b, err := bitvector.New(n, true)
		require.NoError(t, err)
		require.Equal(t, n, b.Len())
		require.Equal(t, n, b.Count(), "n=%d", n)
		require.True(t, b.Full())
	}
}

// TestSetGetClear covers the basic accessors and their bounds checks.
func TestSetGetClear(t *testing.T) {
	b, err := bitvector.New(70, false)
	require.NoError(t, err)

	require.NoError(t, b.Set(0))
	require.NoError(t, b.Set(69))
	require.NoError(t, b.Set(69)) // idempotent

	v, err := b.Get(69)
	require.NoError(t, err)
	require.True(t, v)
	require.Equal(t, 2, b.Count())

	require.NoError(t, b.Clear(0))
	v, err = b.Get(0)
	require.NoError(t, err)
	require.False(t, v)

	require.ErrorIs(t, b.Set(70), bitvector.ErrOutOfRange)
	require.ErrorIs(t, b.Set(-1), bitvector.ErrOutOfRange)
	require.ErrorIs(t, b.Clear(70), bitvector.ErrOutOfRange)
	_, err = b.Get(100)
	require.ErrorIs(t, err, bitvector.ErrOutOfRange)
	require.Equal(t, 70, b.Len(), "Set out of range must not grow the vector")
	require.False(t, b.Test(100))
}

// TestCloneIndependence ensures Clone shares no storage with the original.
func TestCloneIndependence(t *testing.T) {
	b := bitvector.FromBools([]bool{true, false, false})
	c := b.Clone()
	require.NoError(t, c.Set(2))
	require.NoError(t, c.Clear(0))

	assert.Equal(t, "100", b.String())
	assert.Equal(t, "001", c.String())
}

func TestIndicesAndBools(t *testing.T) {
	b, err := bitvector.FromIndices(130, []int{129, 3, 64, 3})
	require.NoError(t, err)
	require.Equal(t, []int{3, 64, 129}, b.Indices())
	require.Len(t, b.Bools(), 130)
	require.True(t, b.Bools()[64])

	_, err = bitvector.FromIndices(4, []int{4})
	require.ErrorIs(t, err, bitvector.ErrOutOfRange)
}

func TestSetAlgebra(t *testing.T) {
	a := bitvector.FromBools([]bool{true, true, false, false})
	b := bitvector.FromBools([]bool{true, false, true, false})

	and, err := a.And(b)
	require.NoError(t, err)
	require.Equal(t, "1000", and.String())

	or, err := a.Or(b)
	require.NoError(t, err)
	require.Equal(t, "1110", or.String())

	require.Equal(t, "0011", a.Complement().String())
	require.Equal(t, 2, a.Complement().Count(), "complement must not leak tail bits")

	_, err = a.And(bitvector.FromBools([]bool{true}))
	require.ErrorIs(t, err, bitvector.ErrLengthMismatch)
}

func TestEqual(t *testing.T) {
	a := bitvector.FromBools([]bool{true, false})
	require.True(t, a.Equal(a.Clone()))
	require.False(t, a.Equal(bitvector.FromBools([]bool{true, true})))
	require.False(t, a.Equal(bitvector.FromBools([]bool{true, false, false})))
}

func TestParse(t *testing.T) {
	b, err := bitvector.Parse("0101_1")
	require.NoError(t, err)
	require.Equal(t, "01011", b.String())
	require.Equal(t, []int{1, 3, 4}, b.Indices())

	_, err = bitvector.Parse("01x")
	require.ErrorIs(t, err, bitvector.ErrParse)
}
