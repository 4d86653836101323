package matrix

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func fill(t *testing.T, rows [][]float64) *Dense {
	t.Helper()
	m, err := NewDense(len(rows), len(rows[0]))
	require.NoError(t, err)
	for i, row := range rows {
		for j, v := range row {
			require.NoError(t, m.Set(i, j, v))
		}
	}
	return m
}

func requireMatrix(t *testing.T, m *Dense, want [][]float64) {
	t.Helper()
	for i, row := range want {
		for j, expected := range row {
			v, err := m.At(i, j)
			require.NoError(t, err)
			require.InDelta(t, expected, v, 1e-9, "entry (%d,%d)", i, j)
		}
	}
}

func TestToRowEchelonForm_Identity(t *testing.T) {
	m := fill(t, [][]float64{{2, 0}, {0, 3}})

	rank, err := m.ToRowEchelonForm(0)
	require.NoError(t, err)
	require.Equal(t, 2, rank)
	requireMatrix(t, m, [][]float64{{1, 0}, {0, 1}})
}

func TestToRowEchelonForm_DependentColumns(t *testing.T) {
	// Second column equals the first: rank 1, reduced row [1, 1].
	m := fill(t, [][]float64{{1, 1}, {1, 1}, {-1, -1}})

	rank, err := m.ToRowEchelonForm(0)
	require.NoError(t, err)
	require.Equal(t, 1, rank)
	requireMatrix(t, m, [][]float64{{1, 1}, {0, 0}, {0, 0}})
}

func TestToRowEchelonForm_General(t *testing.T) {
	m := fill(t, [][]float64{
		{1, 2, 3},
		{2, 4, 7},
		{1, 1, 1},
	})

	rank, err := m.ToRowEchelonForm(0)
	require.NoError(t, err)
	require.Equal(t, 3, rank)
	requireMatrix(t, m, [][]float64{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	})
}

func TestToRowEchelonForm_FractionalPivots(t *testing.T) {
	// Row reduction of [[2, 1], [4, 3]] yields the identity; with a
	// singular variant the dependent ratio must survive exactly.
	m := fill(t, [][]float64{{2, 1}, {4, 2}})

	rank, err := m.ToRowEchelonForm(0)
	require.NoError(t, err)
	require.Equal(t, 1, rank)
	requireMatrix(t, m, [][]float64{{1, 0.5}, {0, 0}})
}

func TestToRowEchelonForm_RejectsBadTolerance(t *testing.T) {
	m := fill(t, [][]float64{{1}})

	_, err := m.ToRowEchelonForm(math.NaN())
	require.ErrorIs(t, err, ErrBadTolerance)
}

func TestToRowEchelonForm_FlushesResiduals(t *testing.T) {
	m := fill(t, [][]float64{{1, 1e-12}, {0, 1e-12}})

	rank, err := m.ToRowEchelonForm(1e-9)
	require.NoError(t, err)
	require.Equal(t, 1, rank)
	requireMatrix(t, m, [][]float64{{1, 0}, {0, 0}})
}
