// SPDX-License-Identifier: MIT

// Package tensor: Simplify — factorisation of an additive expression over
// its linearly independent component vectors.
// The summands' numeric parts are evaluated over every index combination
// into a dense component matrix, the matrix is reduced to row-echelon
// form, and each nonzero row yields one basis tensor with the scales of
// the dependent columns folded into its coefficient.

package tensor

import (
	"fmt"
	"math"
	"sync"

	"github.com/jonasschneidercgg/construct/matrix"
	"github.com/jonasschneidercgg/construct/scalar"
	"github.com/jonasschneidercgg/construct/taskpool"
)

// Simplify factorises the expression into a sum of linearly independent
// tensors. Relations that are numerical facts of the component values
// (rather than obvious identities) are eliminated too; two tensors with
// equal components in one frame are equal.
//
// Stage 1 (Distribute): scaled and multiplied expressions simplify their
// parts and recombine; only sums reach the matrix.
// Stage 2 (Evaluate): build the D×m component matrix in parallel, one
// task per summand writing one column.
// Stage 3 (Reduce): row-echelon form, then collect basis tensors row by
// row and coalesce equal coefficients.
func (t Tensor) Simplify(opts ...Option) (Tensor, error) {
	o := gatherOptions(opts...)

	switch n := t.inner().(type) {
	case *scaledNode:
		sc, base := t.SeparateScaleFactor()
		simplified, err := base.Simplify(opts...)
		if err != nil {
			return Tensor{}, err
		}
		return simplified.Scale(sc), nil

	case *multipliedNode:
		left, err := (Tensor{n: n.a.clone()}).Simplify(opts...)
		if err != nil {
			return Tensor{}, err
		}
		right, err := (Tensor{n: n.b.clone()}).Simplify(opts...)
		if err != nil {
			return Tensor{}, err
		}
		return left.Mul(right)

	case *addedNode:
		return simplifySum(n, o)

	default:
		return t.Clone(), nil
	}
}

// simplifySum implements the matrix stage for a sum node.
func simplifySum(n *addedNode, o Options) (Tensor, error) {
	summands := make([]Tensor, len(n.summands))
	for i, s := range n.summands {
		summands[i] = Tensor{n: s.clone()}
	}

	indices := n.indices
	combinations := indices.AllCombinations()
	dimension := len(combinations)

	m, err := matrix.NewDense(dimension, len(summands))
	if err != nil {
		return Tensor{}, fmt.Errorf("Simplify: %w", err)
	}

	// Fill the matrix in parallel, one task per summand. The matrix is the
	// only shared resource; writes are mutex-guarded and only taken for
	// nonzero values to keep contention low.
	var (
		mu       sync.Mutex
		firstErr error
	)
	pool := taskpool.New(taskpool.WithWorkers(o.workers))
	for i := range summands {
		i := i
		_, numeric := summands[i].SeparateScaleFactor()
		pool.Enqueue(func() {
			for j, combo := range combinations {
				assignment := make(IndexAssignments, len(indices))
				for k, x := range indices {
					assignment[x.Name] = combo[k]
				}

				value, err := numeric.EvaluateWith(assignment)
				if err == nil {
					var f float64
					f, err = value.Float64()
					if err == nil && f != 0 {
						mu.Lock()
						err = m.Set(j, i, f)
						mu.Unlock()
					}
				}
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					return
				}
			}
		})
	}
	pool.Wait()
	if firstErr != nil {
		return Tensor{}, fmt.Errorf("Simplify: %w", firstErr)
	}

	if _, err := m.ToRowEchelonForm(o.eps); err != nil {
		return Tensor{}, fmt.Errorf("Simplify: %w", err)
	}

	return collectBasis(m, summands, o)
}

// collectBasis walks the reduced rows: the pivot column provides the basis
// tensor, later nonzero entries fold the dependent summands' scales into
// its coefficient. Rows of zeros end the walk; a leading entry that is not
// a unit pivot violates the reduction contract and is surfaced as
// ErrSimplify.
func collectBasis(m *matrix.Dense, summands []Tensor, o Options) (Tensor, error) {
	max := m.Rows()
	if len(summands) < max {
		max = len(summands)
	}

	var (
		scales  []scalar.Scalar
		tensors []Tensor
	)

	k := 0
	for row := 0; row < max; row++ {
		rowScale := scalar.Zero()
		rowTensor := Zero()
		foundBase := false
		empty := true

		for i := k; i < len(summands); i++ {
			v, err := m.At(row, i)
			if err != nil {
				return Tensor{}, fmt.Errorf("Simplify: %w", err)
			}
			if v == 0 {
				continue
			}
			empty = false

			if !foundBase {
				if math.Abs(v-1) > o.eps {
					return Tensor{}, fmt.Errorf("Simplify: row %d column %d has leading entry %g: %w",
						row, i, v, ErrSimplify)
				}
				foundBase = true
				k = i + 1
				rowScale, rowTensor = summands[i].SeparateScaleFactor()
				continue
			}

			// Dependent column: fold its scale, weighted by the reduced
			// entry, into the basis coefficient. Integral entries are kept
			// exact; residuals are reconstructed rationally.
			depScale, _ := summands[i].SeparateScaleFactor()
			weight := scalar.FromFloat64(v, o.eps)
			rowScale = rowScale.Add(depScale.Mul(weight))
		}

		if empty {
			// All remaining rows are zero in row-echelon form.
			break
		}
		if !foundBase {
			return Tensor{}, fmt.Errorf("Simplify: row %d has no pivot: %w", row, ErrSimplify)
		}

		// Coalesce rows with identical coefficients by adding their bases.
		merged := false
		for i := range scales {
			if scales[i].Equal(rowScale) {
				sum, err := tensors[i].Add(rowTensor)
				if err != nil {
					return Tensor{}, fmt.Errorf("Simplify: %w", err)
				}
				tensors[i] = sum
				merged = true
				break
			}
		}
		if !merged {
			scales = append(scales, rowScale)
			tensors = append(tensors, rowTensor)
		}
	}

	result := Zero()
	for i := range scales {
		sum, err := result.Add(tensors[i].Scale(scales[i]))
		if err != nil {
			return Tensor{}, fmt.Errorf("Simplify: %w", err)
		}
		result = sum
	}

	return result, nil
}
