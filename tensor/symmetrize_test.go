package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonasschneidercgg/construct/scalar"
)

func TestEnumerateSubsetPermutations(t *testing.T) {
	all := idx("a", "b", "c")

	perms, err := enumerateSubsetPermutations(all, idx("a", "b"))
	require.NoError(t, err)
	require.Len(t, perms, 2)
	assert.Equal(t, idx("a", "b", "c"), perms[0])
	assert.Equal(t, idx("b", "a", "c"), perms[1])

	full, err := enumerateSubsetPermutations(all, all)
	require.NoError(t, err)
	assert.Len(t, full, 6)

	_, err = enumerateSubsetPermutations(all, idx("x"))
	require.ErrorIs(t, err, ErrNotPermutation)
}

func TestSymmetrize_EpsilonVanishes(t *testing.T) {
	e := Epsilon(idx("a", "b", "c"))

	sym, err := e.Symmetrize(idx("a", "b", "c"))
	require.NoError(t, err)
	assert.True(t, sym.IsZeroTensor())
}

func TestAntiSymmetrize_EpsilonIsFixedPoint(t *testing.T) {
	e := Epsilon(idx("a", "b", "c"))

	anti, err := e.AntiSymmetrize(idx("a", "b", "c"))
	require.NoError(t, err)

	requireSameComponents(t, e, anti)
}

func TestSymmetrize_GammaIsFixedPoint(t *testing.T) {
	g := Gamma(idx("a", "b"))

	sym, err := g.Symmetrize(idx("a", "b"))
	require.NoError(t, err)

	requireSameComponents(t, g, sym)
}

func TestAntiSymmetrize_GammaVanishes(t *testing.T) {
	g := Gamma(idx("a", "b"))

	anti, err := g.AntiSymmetrize(idx("a", "b"))
	require.NoError(t, err)
	assert.True(t, anti.IsZeroTensor())
}

func TestSymmetrize_InvarianceUnderSubsetPermutation(t *testing.T) {
	// Property: the symmetrised tensor agrees on argument vectors that
	// differ by a permutation of the symmetrised positions. The argument
	// vectors range over the input's indices: a result that vanishes is the
	// rank-0 zero tensor and has no index combinations of its own.
	e := Epsilon(idx("a", "b", "c"))

	sym, err := e.Symmetrize(idx("a", "b"))
	require.NoError(t, err)

	for _, combo := range e.AllIndexCombinations() {
		swapped := []int{combo[1], combo[0], combo[2]}

		assignment := make(IndexAssignments, 3)
		swappedAssignment := make(IndexAssignments, 3)
		for k, x := range e.Indices() {
			assignment[x.Name] = combo[k]
			swappedAssignment[x.Name] = swapped[k]
		}

		va, err := sym.EvaluateWith(assignment)
		require.NoError(t, err)
		vb, err := sym.EvaluateWith(swappedAssignment)
		require.NoError(t, err)
		require.True(t, va.Equal(vb), "asymmetry at %v", combo)
	}
}

func TestAntiSymmetrize_SignUnderSubsetTransposition(t *testing.T) {
	// The product is already antisymmetric in (c, d), so the result stays
	// nonzero and must flip sign under that transposition.
	g := Gamma(idx("a", "b"))
	product, err := g.Mul(Epsilon(idx("c", "d", "e")))
	require.NoError(t, err)

	anti, err := product.AntiSymmetrize(idx("c", "d"))
	require.NoError(t, err)

	isZero, err := anti.IsZero()
	require.NoError(t, err)
	require.False(t, isZero)

	for _, combo := range anti.AllIndexCombinations() {
		swapped := []int{combo[0], combo[1], combo[3], combo[2], combo[4]}

		assignment := make(IndexAssignments, 5)
		swappedAssignment := make(IndexAssignments, 5)
		for k, x := range anti.Indices() {
			assignment[x.Name] = combo[k]
			swappedAssignment[x.Name] = swapped[k]
		}

		va, err := anti.EvaluateWith(assignment)
		require.NoError(t, err)
		vb, err := anti.EvaluateWith(swappedAssignment)
		require.NoError(t, err)
		require.True(t, va.Equal(vb.Neg()) || (va.IsZero() && vb.IsZero()),
			"sign violation at %v: %s vs %s", combo, va, vb)
	}
}

func TestSymmetrize_DistributesOverScale(t *testing.T) {
	g := Gamma(idx("a", "b")).Scale(scalar.FromInt(3))

	sym, err := g.Symmetrize(idx("a", "b"))
	require.NoError(t, err)

	requireSameComponents(t, g, sym)
}

func TestSymmetrize_ZeroPassesThrough(t *testing.T) {
	sym, err := Zero().Symmetrize(Indices{})
	require.NoError(t, err)
	assert.True(t, sym.IsZeroTensor())
}

func TestSymmetrize_SumCollectsLikeTerms(t *testing.T) {
	// gamma_ab + gamma_ba symmetrised over (a,b) stays the symmetric sum.
	sum, err := Gamma(idx("a", "b")).Add(Gamma(idx("b", "a")))
	require.NoError(t, err)

	sym, err := sum.Symmetrize(idx("a", "b"))
	require.NoError(t, err)

	requireSameComponents(t, sum, sym)
}

func TestExchangeSymmetrize_SymmetricPair(t *testing.T) {
	// Exchanging (a, b) on the metric is the identity: the canonical
	// forms agree and the scales average to one.
	g := Gamma(idx("a", "b"))

	ex, err := g.ExchangeSymmetrize(idx("a", "b"), idx("b", "a"))
	require.NoError(t, err)

	requireSameComponents(t, g, ex)
}

func TestExchangeSymmetrize_AntisymmetricPairCancels(t *testing.T) {
	// Exchanging two epsilon slots flips the sign; the exchange average
	// therefore vanishes pointwise.
	e := Epsilon(idx("a", "b", "c"))

	ex, err := e.ExchangeSymmetrize(idx("a", "b", "c"), idx("b", "a", "c"))
	require.NoError(t, err)

	zero, err := ex.IsZero()
	require.NoError(t, err)
	assert.True(t, zero)
}

func TestExchangeSymmetrize_RejectsNonPermutation(t *testing.T) {
	g := Gamma(idx("a", "b"))

	_, err := g.ExchangeSymmetrize(idx("a", "b"), idx("a", "c"))
	require.ErrorIs(t, err, ErrNotPermutation)
}

func TestExchangeSymmetrize_SumDistributes(t *testing.T) {
	sum, err := Gamma(idx("a", "b")).Add(Gamma(idx("b", "a")))
	require.NoError(t, err)

	ex, err := sum.ExchangeSymmetrize(idx("a", "b"), idx("b", "a"))
	require.NoError(t, err)

	requireSameComponents(t, sum, ex)
}
