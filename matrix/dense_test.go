package matrix

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDense_RejectsBadShape(t *testing.T) {
	_, err := NewDense(0, 3)
	require.ErrorIs(t, err, ErrBadShape)

	_, err = NewDense(3, -1)
	require.ErrorIs(t, err, ErrBadShape)
}

func TestDense_SetAt(t *testing.T) {
	m, err := NewDense(2, 3)
	require.NoError(t, err)
	require.Equal(t, 2, m.Rows())
	require.Equal(t, 3, m.Cols())

	require.NoError(t, m.Set(1, 2, 4.5))
	v, err := m.At(1, 2)
	require.NoError(t, err)
	require.Equal(t, 4.5, v)

	v, err = m.At(0, 0)
	require.NoError(t, err)
	require.Equal(t, 0.0, v)
}

func TestDense_BoundsChecked(t *testing.T) {
	m, err := NewDense(2, 2)
	require.NoError(t, err)

	_, err = m.At(2, 0)
	require.ErrorIs(t, err, ErrOutOfRange)
	require.ErrorIs(t, m.Set(0, -1, 1), ErrOutOfRange)
}

func TestDense_CloneIsIndependent(t *testing.T) {
	m, err := NewDense(2, 2)
	require.NoError(t, err)
	require.NoError(t, m.Set(0, 0, 1))

	c := m.Clone()
	require.NoError(t, c.Set(0, 0, 7))

	v, err := m.At(0, 0)
	require.NoError(t, err)
	require.Equal(t, 1.0, v)
}
