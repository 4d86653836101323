// SPDX-License-Identifier: MIT

// Package tensor: canonicalisation of index orderings.
// Each atom sorts its indices into the unique representative allowed by
// its symmetry group: full antisymmetry for epsilon (sign accounting),
// full symmetry for gamma, and commutativity between the gamma pairs of an
// epsilon-gamma product. Algebra nodes recurse and flatten scales.

package tensor

import "github.com/jonasschneidercgg/construct/scalar"

// Identity for atoms without a nontrivial symmetry group.

func (n *zeroNode) canonicalize() node   { return n.clone() }
func (n *scalarNode) canonicalize() node { return n.clone() }
func (n *deltaNode) canonicalize() node  { return n.clone() }
func (n *customNode) canonicalize() node { return n.clone() }

// epsilon: sort the indices and account for the permutation sign.
func (n *epsilonNode) canonicalize() node {
	sorted := n.indices.Ordered()

	p, err := PermutationBetween(n.indices, sorted)
	if err != nil {
		panic(err) // Ordered is a permutation by construction
	}

	out := newEpsilonNode(sorted)
	if p.Sign() < 0 {
		return newScaledNode(out, scalar.FromInt(-1))
	}
	return out
}

// gamma: the metric is symmetric, sorting costs no sign.
func (n *gammaNode) canonicalize() node {
	return newGammaNode(n.indices.Ordered(), n.p, n.q)
}

// epsilongamma: sort the epsilon triple with sign accounting, sort each
// gamma pair, then sort the pair list by first index (gammas commute).
func (n *epsilonGammaNode) canonicalize() node {
	sign := 1
	pos := 0
	newIndices := make(Indices, 0, len(n.indices))

	if n.numEpsilon == 1 {
		triple := n.indices.Partial(0, 2)
		sorted := triple.Ordered()
		p, err := PermutationBetween(triple, sorted)
		if err != nil {
			panic(err)
		}
		sign = p.Sign()
		newIndices = append(newIndices, sorted...)
		pos += 3
	}

	pairs := make([]Indices, 0, n.numGamma)
	for i := 0; i < n.numGamma; i++ {
		pairs = append(pairs, n.indices.Partial(pos, pos+1).Ordered())
		pos += 2
	}
	sortGammaPairs(pairs)
	for _, pair := range pairs {
		newIndices = append(newIndices, pair...)
	}

	out := newEpsilonGammaNode(n.numEpsilon, n.numGamma, newIndices)
	if sign < 0 {
		return newScaledNode(out, scalar.FromInt(-1))
	}
	return out
}

// scaled: canonicalise the child and collapse nested scales.
func (n *scaledNode) canonicalize() node {
	child := n.child.canonicalize()
	if sc, ok := child.(*scaledNode); ok {
		sc.scale = sc.scale.Mul(n.scale)
		return sc
	}
	return newScaledNode(child, n.scale.Clone())
}

// added: canonicalise each summand.
func (n *addedNode) canonicalize() node {
	out := make([]node, len(n.summands))
	for i, s := range n.summands {
		out[i] = s.canonicalize()
	}
	return newAddedNode(out, n.indices)
}

// multiplied: canonicalise both children and pull their scales out front.
func (n *multipliedNode) canonicalize() node {
	a := n.a.canonicalize()
	b := n.b.canonicalize()

	scale := scalar.One()
	if sc, ok := a.(*scaledNode); ok {
		scale = scale.Mul(sc.scale)
		a = sc.child
	}
	if sc, ok := b.(*scaledNode); ok {
		scale = scale.Mul(sc.scale)
		b = sc.child
	}

	product := newMultipliedNode(a, b)
	if scale.IsOne() {
		return product
	}
	return newScaledNode(product, scale)
}

// substitute: canonicalise the child; a scale moving to the front of the
// child escapes the wrapper.
func (n *substituteNode) canonicalize() node {
	child := n.child.canonicalize()

	scale := scalar.One()
	if sc, ok := child.(*scaledNode); ok {
		scale = sc.scale
		child = sc.child
	}

	wrapped, err := newSubstituteNode(child, n.indices)
	if err != nil {
		panic(err) // canonicalisation preserves the index set
	}
	if scale.IsOne() {
		return wrapped
	}
	return newScaledNode(wrapped, scale)
}
