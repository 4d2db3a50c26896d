package mdegree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleGeneratorTraversal(t *testing.T) {
	tbl, err := NewTable(Vector{3})
	require.NoError(t, err)

	assert.EqualValues(t, 3, tbl.TargetDegree())

	n1 := tbl.FirstTypeDegree(1)
	require.NotEqual(t, NoName, n1)
	assert.Equal(t, Vector{1}, tbl.NameToVector(n1))
	assert.Equal(t, NoName, tbl.NextTypeSameDegree(n1))

	n2 := tbl.FirstTypeDegree(2)
	assert.Equal(t, Vector{2}, tbl.NameToVector(n2))

	n3 := tbl.FirstTypeDegree(3)
	assert.Equal(t, Vector{3}, tbl.NameToVector(n3))
}

func TestTwoGeneratorDegreeTwoHasThreeTypes(t *testing.T) {
	tbl, err := NewTable(Vector{2, 2})
	require.NoError(t, err)

	var names []Name
	for n := tbl.FirstTypeDegree(2); n != NoName; n = tbl.NextTypeSameDegree(n) {
		names = append(names, n)
	}

	require.Len(t, names, 3)

	var vectors []Vector
	for _, n := range names {
		vectors = append(vectors, tbl.NameToVector(n))
	}
	assert.Contains(t, vectors, Vector{2, 0})
	assert.Contains(t, vectors, Vector{1, 1})
	assert.Contains(t, vectors, Vector{0, 2})
}

func TestTypeToNameRoundTrip(t *testing.T) {
	tbl, err := NewTable(Vector{2, 2})
	require.NoError(t, err)

	n, ok := tbl.TypeToName(Vector{1, 1})
	require.True(t, ok)
	assert.EqualValues(t, 2, tbl.DegreeOfName(n))

	_, ok = tbl.TypeToName(Vector{3, 1}) // exceeds the target in slot 0, never interned.
	assert.False(t, ok)
}

func TestUpdateAndReadBasisRange(t *testing.T) {
	tbl, err := NewTable(Vector{2})
	require.NoError(t, err)

	n := tbl.FirstTypeDegree(2)
	_, _, ok := tbl.BasisRange(n)
	assert.False(t, ok)

	tbl.UpdateTypeTable(n, 2, 3)
	begin, end, ok := tbl.BasisRange(n)
	require.True(t, ok)
	assert.EqualValues(t, 2, begin)
	assert.EqualValues(t, 3, end)
}

func TestTooManyGenerators(t *testing.T) {
	_, err := NewTable(make(Vector, MaxGenerators+1))
	assert.ErrorIs(t, err, ErrTooManyGenerators)
}

func TestVectorLessEq(t *testing.T) {
	assert.True(t, Vector{1, 0}.LessEq(Vector{2, 2}))
	assert.False(t, Vector{1, 3}.LessEq(Vector{2, 2}))
	assert.False(t, Vector{1}.LessEq(Vector{2, 2}))
}
