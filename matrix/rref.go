// SPDX-License-Identifier: MIT
// Package matrix: in-place reduction to reduced row-echelon form.

package matrix

import (
	"fmt"
	"math"
)

// DefaultEpsilon is the pivot tolerance used when callers pass a
// non-positive value to ToRowEchelonForm. Entries with |x| <= eps are
// treated as zero and flushed to exactly zero during reduction.
const DefaultEpsilon = 1e-9

// ToRowEchelonForm reduces the matrix in place to reduced row-echelon form
// using Gauss-Jordan elimination with partial pivoting. It returns the rank
// (the number of nonzero rows after reduction).
//
// Stage 1 (Validate): check the tolerance.
// Stage 2 (Execute): for each column, pick the largest-magnitude pivot in
// the remaining rows, swap it up, normalize the pivot row to a unit pivot,
// and eliminate the column everywhere else.
// Stage 3 (Finalize): flush sub-tolerance residuals to zero.
//
// On exact ±1/0 component inputs the reduction stays exact up to the
// rounding of the pivot divisions; eps absorbs the residue.
// Complexity: O(r·c·min(r,c)).
func (m *Dense) ToRowEchelonForm(eps float64) (int, error) {
	if math.IsNaN(eps) || math.IsInf(eps, 0) {
		return 0, fmt.Errorf("ToRowEchelonForm: %w", ErrBadTolerance)
	}
	if eps <= 0 {
		eps = DefaultEpsilon
	}

	rank := 0
	for col := 0; col < m.c && rank < m.r; col++ {
		// Partial pivoting: largest magnitude below the current rank row.
		pivot := rank
		for i := rank + 1; i < m.r; i++ {
			if math.Abs(m.at(i, col)) > math.Abs(m.at(pivot, col)) {
				pivot = i
			}
		}
		if math.Abs(m.at(pivot, col)) <= eps {
			continue
		}
		m.swapRows(rank, pivot)

		// Normalize the pivot row to a unit pivot.
		p := m.at(rank, col)
		for j := col; j < m.c; j++ {
			m.set(rank, j, m.at(rank, j)/p)
		}
		m.set(rank, col, 1)

		// Eliminate the column in every other row.
		for i := 0; i < m.r; i++ {
			if i == rank {
				continue
			}
			f := m.at(i, col)
			if math.Abs(f) <= eps {
				continue
			}
			for j := col; j < m.c; j++ {
				m.set(i, j, m.at(i, j)-f*m.at(rank, j))
			}
			m.set(i, col, 0)
		}

		rank++
	}

	// Flush residuals so callers can compare against 0 and 1 directly.
	for i := range m.data {
		if math.Abs(m.data[i]) <= eps {
			m.data[i] = 0
		}
	}

	return rank, nil
}

// swapRows exchanges two rows in place.
func (m *Dense) swapRows(a, b int) {
	if a == b {
		return
	}
	ra := m.data[a*m.c : (a+1)*m.c]
	rb := m.data[b*m.c : (b+1)*m.c]
	for j := 0; j < m.c; j++ {
		ra[j], rb[j] = rb[j], ra[j]
	}
}
