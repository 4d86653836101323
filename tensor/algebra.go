// SPDX-License-Identifier: MIT

// Package tensor: factory builders for sums, products and scalings.
// The factories take ownership of their node arguments and apply the
// algebraic identities (zero/one elision, sum absorption, scale merging,
// delta contraction) before falling back to a generic composite node.

package tensor

import (
	"fmt"

	"github.com/jonasschneidercgg/construct/scalar"
)

// addNodes builds a + b. Zero is the identity; an existing sum absorbs the
// other operand on its side; two sums merge. Summands must carry
// permutation-equivalent index sets (ErrCannotAdd).
func addNodes(a, b node) (node, error) {
	if a.kind() == KindZero {
		return b, nil
	}
	if b.kind() == KindZero {
		return a, nil
	}

	if !a.headerRef().indices.IsPermutationOf(b.headerRef().indices) {
		return nil, fmt.Errorf("Add: %v vs %v: %w",
			a.headerRef().indices, b.headerRef().indices, ErrCannotAdd)
	}

	aAdded, aOk := a.(*addedNode)
	bAdded, bOk := b.(*addedNode)

	switch {
	case aOk && !bOk:
		aAdded.summands = append(aAdded.summands, b)
		return aAdded, nil
	case !aOk && bOk:
		bAdded.summands = append([]node{a}, bAdded.summands...)
		// Keep the left operand's declared order, as a fresh sum would.
		bAdded.indices = a.headerRef().indices.Clone()
		return bAdded, nil
	case aOk && bOk:
		aAdded.summands = append(aAdded.summands, bAdded.summands...)
		return aAdded, nil
	default:
		return newAddedNode([]node{a, b}, a.headerRef().indices), nil
	}
}

// multiplyNodes builds a * b. The delta contraction heuristic runs first;
// zero annihilates; otherwise a generic product node carries the
// contracted free index sequence.
func multiplyNodes(a, b node) (node, error) {
	if err := validateProduct(a, b); err != nil {
		return nil, err
	}

	if contracted := tryContract(a, b); contracted != nil {
		return contracted, nil
	}
	if contracted := tryContract(b, a); contracted != nil {
		return contracted, nil
	}

	if a.kind() == KindZero || b.kind() == KindZero {
		return newZeroNode(), nil
	}

	return newMultipliedNode(a, b), nil
}

// validateProduct enforces the index contract of a product: a name may
// occur at most twice across the concatenated operand sequences (one
// contraction pair), always over a single range.
func validateProduct(a, b node) error {
	idxA := a.headerRef().indices
	idxB := b.headerRef().indices

	count := make(map[string]int, len(idxA)+len(idxB))
	for _, x := range idxA {
		count[x.Name]++
	}
	for _, x := range idxB {
		count[x.Name]++
	}
	for name, c := range count {
		if c > 2 {
			return fmt.Errorf("Multiply: index %s occurs %d times: %w", name, c, ErrCannotMultiply)
		}
	}

	if _, err := idxA.Contract(idxB); err != nil {
		return err
	}

	return nil
}

// tryContract applies the Kronecker delta contraction heuristic: when
// exactly one delta index is shared with the other tensor and the partner
// index is fresh, the shared name is substituted in place, i.e.
//
//	delta^a_b T_{...b...} = T_{...a...}
//
// Returns nil when the heuristic does not apply.
func tryContract(a, b node) node {
	d, ok := a.(*deltaNode)
	if !ok {
		return nil
	}

	other := b.headerRef().indices
	shared, partner := -1, -1
	for i, x := range d.indices {
		if other.ContainsName(x.Name) {
			if shared >= 0 {
				return nil // full trace; the generic product sums it
			}
			shared = i
		} else {
			partner = i
		}
	}
	if shared < 0 || partner < 0 {
		return nil
	}

	renamed := other.Clone()
	for i := range renamed {
		if renamed[i].Name == d.indices[shared].Name {
			renamed[i].Name = d.indices[partner].Name
			renamed[i].Range = d.indices[partner].Range
		}
	}

	out := b.clone()
	out.setIndices(renamed)
	return out
}

// scaleNode builds c * a. One elides, numeric zero collapses to the zero
// tensor, nested scales merge, and a scale pushes through a substitution.
func scaleNode(a node, c scalar.Scalar) node {
	if c.IsOne() {
		return a
	}
	if c.IsZero() || a.kind() == KindZero {
		return newZeroNode()
	}

	if sc, ok := a.(*scaledNode); ok {
		sc.scale = sc.scale.Mul(c)
		return sc
	}
	if sub, ok := a.(*substituteNode); ok {
		sub.child = scaleNode(sub.child, c)
		return sub
	}

	return newScaledNode(a, c)
}

// separateScale splits a node into its leading scale and base: a scaled
// node yields its payload, a substitution recurses and rewraps, anything
// else is its own base with scale one. The returned base is a fresh clone.
func separateScale(n node) (scalar.Scalar, node) {
	switch t := n.(type) {
	case *scaledNode:
		return t.scale.Clone(), t.child.clone()
	case *substituteNode:
		sc, base := separateScale(t.child)
		wrapped, err := newSubstituteNode(base, t.indices)
		if err != nil {
			panic(err) // separation preserves the index set
		}
		return sc, wrapped
	default:
		return scalar.One(), n.clone()
	}
}

// summandsOf splits a sum into clones of its summands; any other node
// yields a single clone of itself.
func summandsOf(n node) []node {
	if a, ok := n.(*addedNode); ok {
		out := make([]node, len(a.summands))
		for i, s := range a.summands {
			out[i] = s.clone()
		}
		return out
	}
	return []node{n.clone()}
}
