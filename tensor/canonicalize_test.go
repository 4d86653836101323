package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonasschneidercgg/construct/scalar"
)

// requireSameComponents checks pointwise equality over every named index
// assignment. Comparisons go through the name-keyed protocol because
// transforms such as Canonicalize may reorder the declared positions.
func requireSameComponents(t *testing.T, a, b Tensor) {
	t.Helper()
	indices := a.Indices()
	require.True(t, indices.IsPermutationOf(b.Indices()), "index sets differ")

	for _, combo := range a.AllIndexCombinations() {
		assignment := make(IndexAssignments, len(indices))
		for k, x := range indices {
			assignment[x.Name] = combo[k]
		}

		va, err := a.EvaluateWith(assignment)
		require.NoError(t, err)
		vb, err := b.EvaluateWith(assignment)
		require.NoError(t, err)
		require.True(t, va.Equal(vb), "components differ at %v: %s vs %s", assignment, va, vb)
	}
}

func TestCanonicalize_DeltaIdentity(t *testing.T) {
	d := Delta(idx("b", "a"))
	c := d.Canonicalize()

	assert.True(t, c.IsDelta())
	assert.Equal(t, d.Indices(), c.Indices())
}

func TestCanonicalize_EpsilonSortsWithSign(t *testing.T) {
	e := Epsilon(idx("b", "a", "c"))
	c := e.Canonicalize()

	require.True(t, c.IsScaled())
	sc, base := c.SeparateScaleFactor()
	assert.True(t, sc.Equal(scalar.FromInt(-1)))
	assert.True(t, base.IsEpsilon())
	assert.Equal(t, idx("a", "b", "c"), base.Indices())

	requireSameComponents(t, e, c)
}

func TestCanonicalize_EpsilonEvenPermutationNoSign(t *testing.T) {
	e := Epsilon(idx("c", "a", "b"))
	c := e.Canonicalize()

	assert.True(t, c.IsEpsilon())
	assert.Equal(t, idx("a", "b", "c"), c.Indices())
	requireSameComponents(t, e, c)
}

func TestCanonicalize_GammaSortsFreely(t *testing.T) {
	g := Gamma(idx("b", "a"))
	c := g.Canonicalize()

	assert.True(t, c.IsGamma())
	assert.Equal(t, idx("a", "b"), c.Indices())
	requireSameComponents(t, g, c)
}

func TestCanonicalize_EpsilonGammaOrdersBlocks(t *testing.T) {
	// epsilon block unsorted (one swap: sign -1), gamma pairs unsorted and
	// out of order between themselves.
	eg := EpsilonGamma(1, 2, idx("b", "a", "c", "f", "e", "d", "g"))
	c := eg.Canonicalize()

	require.True(t, c.IsScaled())
	sc, base := c.SeparateScaleFactor()
	assert.True(t, sc.Equal(scalar.FromInt(-1)))
	require.True(t, base.IsEpsilonGamma())

	// epsilon triple sorted, then gamma pairs each sorted and ordered by
	// their first index: (d,g) before (e,f).
	assert.Equal(t, idx("a", "b", "c", "d", "g", "e", "f"), base.Indices())

	requireSameComponents(t, eg, c)
}

func TestCanonicalize_ScaledCollapses(t *testing.T) {
	e := Epsilon(idx("b", "a", "c")).Scale(scalar.FromInt(2))
	c := e.Canonicalize()

	require.True(t, c.IsScaled())
	sc, base := c.SeparateScaleFactor()
	assert.True(t, sc.Equal(scalar.FromInt(-2)))
	assert.True(t, base.IsEpsilon())
}

func TestCanonicalize_Idempotent(t *testing.T) {
	cases := []Tensor{
		Epsilon(idx("c", "b", "a")),
		Gamma(idx("b", "a")),
		EpsilonGamma(1, 1, idx("c", "a", "b", "e", "d")),
		Epsilon(idx("b", "a", "c")).Scale(scalar.New(1, 2)),
	}

	for _, tensor := range cases {
		once := tensor.Canonicalize()
		twice := once.Canonicalize()

		s1, b1 := once.SeparateScaleFactor()
		s2, b2 := twice.SeparateScaleFactor()
		assert.True(t, s1.Equal(s2), "scales differ for %s", tensor)
		assert.Equal(t, b1.Indices(), b2.Indices())
		assert.Equal(t, b1.Kind(), b2.Kind())

		requireSameComponents(t, tensor, twice)
	}
}

func TestCanonicalize_SumCanonicalizesSummands(t *testing.T) {
	sum, err := Epsilon(idx("b", "a", "c")).Add(Epsilon(idx("a", "b", "c")))
	require.NoError(t, err)

	c := sum.Canonicalize()
	require.True(t, c.IsAdded())

	requireSameComponents(t, sum, c)

	// Both summands cancel: the canonical sum is pointwise zero.
	zero, err := c.IsZero()
	require.NoError(t, err)
	assert.True(t, zero)
}

func TestCanonicalize_ProductPullsScalesOut(t *testing.T) {
	product, err := Epsilon(idx("b", "a", "c")).Mul(Gamma(idx("e", "d")))
	require.NoError(t, err)

	c := product.Canonicalize()
	require.True(t, c.IsScaled())

	sc, base := c.SeparateScaleFactor()
	assert.True(t, sc.Equal(scalar.FromInt(-1)))
	assert.True(t, base.IsMultiplied())

	requireSameComponents(t, product, c)
}
