package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spatial() IndexRange { return NewIndexRange(1, 3) }

func idx(names ...string) Indices {
	out := make(Indices, 0, len(names))
	for _, n := range names {
		out = append(out, NewIndex(n, spatial()))
	}
	return out
}

func TestIndexRange(t *testing.T) {
	r := NewIndexRange(0, 3)
	assert.Equal(t, 4, r.Size())
	assert.True(t, r.Contains(0))
	assert.True(t, r.Contains(3))
	assert.False(t, r.Contains(4))

	require.PanicsWithValue(t, panicBadRange, func() { NewIndexRange(2, 1) })
	require.PanicsWithValue(t, panicBadRange, func() { NewIndexRange(-1, 1) })
}

func TestIndex_EqualityIgnoresVariance(t *testing.T) {
	a := NewIndex("a", spatial())
	up := a
	up.Contravariant = true

	assert.True(t, a.Equal(up))
	assert.False(t, a.Equal(NewIndex("a", NewIndexRange(0, 3))))
	assert.False(t, a.Equal(NewIndex("b", spatial())))
}

func TestIndices_Ordered(t *testing.T) {
	unordered := idx("c", "a", "b")
	assert.Equal(t, idx("a", "b", "c"), unordered.Ordered())
	// original untouched
	assert.Equal(t, idx("c", "a", "b"), unordered)
}

func TestIndices_Contract_DisjointConcatenates(t *testing.T) {
	out, err := idx("a", "b").Contract(idx("c", "d"))
	require.NoError(t, err)
	assert.Equal(t, idx("a", "b", "c", "d"), out)
}

func TestIndices_Contract_DropsRepeatedNames(t *testing.T) {
	out, err := idx("a", "b").Contract(idx("b", "c"))
	require.NoError(t, err)
	assert.Equal(t, idx("a", "c"), out)
}

func TestIndices_Contract_RangeMismatch(t *testing.T) {
	other := Indices{NewIndex("b", NewIndexRange(0, 3))}
	_, err := idx("a", "b").Contract(other)
	require.ErrorIs(t, err, ErrCannotContract)
}

func TestIndices_Shuffle(t *testing.T) {
	mapping := map[string]Index{"a": NewIndex("x", spatial())}
	assert.Equal(t, idx("x", "b"), idx("a", "b").Shuffle(mapping))
}

func TestIndices_Partial(t *testing.T) {
	assert.Equal(t, idx("b", "c"), idx("a", "b", "c", "d").Partial(1, 2))
}

func TestIndices_IsPermutationOf(t *testing.T) {
	assert.True(t, idx("a", "b", "c").IsPermutationOf(idx("c", "a", "b")))
	assert.False(t, idx("a", "b").IsPermutationOf(idx("a", "c")))
	assert.False(t, idx("a").IsPermutationOf(idx("a", "a")))
}

func TestIndices_ContainsContractions(t *testing.T) {
	assert.False(t, idx("a", "b").ContainsContractions())
	assert.True(t, idx("a", "b", "a").ContainsContractions())
}

func TestIndices_AllCombinations(t *testing.T) {
	combos := idx("a", "b").AllCombinations()
	require.Len(t, combos, 9)
	assert.Equal(t, []int{1, 1}, combos[0])
	assert.Equal(t, []int{1, 2}, combos[1])
	assert.Equal(t, []int{3, 3}, combos[8])

	// Rank 0 evaluates once over the empty combination.
	empty := Indices{}.AllCombinations()
	require.Len(t, empty, 1)
	assert.Empty(t, empty[0])
}

func TestSeries(t *testing.T) {
	roman := RomanSeries(3, spatial(), 0)
	assert.Equal(t, idx("a", "b", "c"), roman)

	shifted := RomanSeries(2, spatial(), 2)
	assert.Equal(t, idx("c", "d"), shifted)

	greek := GreekSeries(2, NewIndexRange(0, 3), 0)
	require.Len(t, greek, 2)
	assert.Equal(t, "mu", greek[0].Name)
	assert.Equal(t, "nu", greek[1].Name)
}

func TestIndexAssignments_Apply(t *testing.T) {
	a := IndexAssignments{"a": 1, "b": 3}

	args, err := a.Apply(idx("b", "a"))
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1}, args)

	_, err = a.Apply(idx("a", "c"))
	require.ErrorIs(t, err, ErrIncompleteAssignment)
}
