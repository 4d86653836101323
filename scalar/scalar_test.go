package scalar

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalar_ZeroValueIsZero(t *testing.T) {
	var s Scalar
	require.True(t, s.IsZero())
	require.True(t, s.IsNumeric())

	f, err := s.Float64()
	require.NoError(t, err)
	require.Equal(t, 0.0, f)
}

func TestScalar_NumericFolding(t *testing.T) {
	sum := New(1, 2).Add(New(1, 3))
	require.True(t, sum.Equal(New(5, 6)))

	product := New(2, 3).Mul(New(3, 4))
	require.True(t, product.Equal(New(1, 2)))
}

func TestScalar_AddIdentities(t *testing.T) {
	x := Var("x", 1)

	require.True(t, Zero().Add(x).Equal(x))
	require.True(t, x.Add(Zero()).Equal(x))
}

func TestScalar_MulIdentities(t *testing.T) {
	x := Var("x", 1)

	require.True(t, One().Mul(x).Equal(x))
	require.True(t, x.Mul(One()).Equal(x))
	require.True(t, Zero().Mul(x).IsZero())
	require.True(t, x.Mul(Zero()).IsZero())
}

func TestScalar_SumFlattening(t *testing.T) {
	x, y, z := Var("x", 1), Var("y", 1), Var("z", 1)

	sum := x.Add(y).Add(z)
	require.Len(t, sum.Summands(), 3)
}

func TestScalar_SymbolicSumKeepsStructure(t *testing.T) {
	s := FromInt(3).Add(Var("a", 0))
	require.True(t, s.IsAdded())
	require.False(t, s.IsNumeric())

	_, err := s.Float64()
	require.ErrorIs(t, err, ErrNotNumeric)
}

func TestScalar_Equality(t *testing.T) {
	require.True(t, Var("x", 1).Equal(Var("x", 1)))
	require.False(t, Var("x", 1).Equal(Var("x", 2)))
	require.False(t, Var("x", 1).Equal(Var("y", 1)))

	a := Var("x", 1).Add(FromInt(2))
	b := Var("x", 1).Add(FromInt(2))
	require.True(t, a.Equal(b))
}

func TestScalar_Substitute(t *testing.T) {
	x := Var("x", 1)
	s := x.Mul(FromInt(2)).Add(FromInt(1))

	replaced := s.Substitute(x, FromInt(3))
	f, err := replaced.Float64()
	require.NoError(t, err)
	assert.Equal(t, 7.0, f)
}

func TestSeparateVariablesFromRest_Linear(t *testing.T) {
	x, y := Var("x", 1), Var("y", 1)

	// 2x + y*3 + 5
	s := FromInt(2).Mul(x).Add(y.Mul(FromInt(3))).Add(FromInt(5))

	terms, rest, err := s.SeparateVariablesFromRest()
	require.NoError(t, err)
	require.Len(t, terms, 2)

	require.True(t, terms[0].Variable.Equal(x))
	require.True(t, terms[0].Coefficient.Equal(FromInt(2)))
	require.True(t, terms[1].Variable.Equal(y))
	require.True(t, terms[1].Coefficient.Equal(FromInt(3)))
	require.True(t, rest.Equal(FromInt(5)))
}

func TestSeparateVariablesFromRest_CollectsRepeatedVariable(t *testing.T) {
	x := Var("x", 1)
	s := x.Add(FromInt(2).Mul(x))

	terms, rest, err := s.SeparateVariablesFromRest()
	require.NoError(t, err)
	require.Len(t, terms, 1)
	require.True(t, terms[0].Coefficient.Equal(FromInt(3)))
	require.True(t, rest.IsZero())
}

func TestSeparateVariablesFromRest_RejectsQuadratic(t *testing.T) {
	x, y := Var("x", 1), Var("y", 1)

	_, _, err := x.Mul(y).SeparateVariablesFromRest()
	require.ErrorIs(t, err, ErrQuadraticVariables)
}

func TestScalar_String(t *testing.T) {
	assert.Equal(t, "x_1", Var("x", 1).String())
	assert.Equal(t, "x", Var("x", 0).String())
	assert.Equal(t, "1/2", New(1, 2).String())

	s := FromInt(3).Add(Var("a", 0)).Mul(Var("b", 0))
	assert.Equal(t, "(3 + a) * b", s.String())
}

func TestScalar_CodecRoundTrip(t *testing.T) {
	cases := []Scalar{
		Zero(),
		FromInt(-7),
		New(3, 4),
		Var("e", 12),
		Var("x", 1).Add(New(1, 2)),
		FromInt(3).Add(Var("a", 0)).Mul(Var("b", 2)),
	}

	for _, original := range cases {
		var buf bytes.Buffer
		require.NoError(t, original.Encode(&buf))

		decoded, err := Decode(&buf)
		require.NoError(t, err)
		require.True(t, decoded.Equal(original), "round trip of %s", original)
	}
}

func TestScalar_DecodeWrongFormat(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte{0xff}))
	require.ErrorIs(t, err, ErrWrongFormat)

	_, err = Decode(bytes.NewReader(nil))
	require.ErrorIs(t, err, ErrWrongFormat)
}
