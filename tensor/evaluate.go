// SPDX-License-Identifier: MIT

// Package tensor: the component evaluator.
// Atoms evaluate in closed form; algebra nodes compose child evaluations
// through the named IndexAssignments protocol, which is what makes sums of
// differently ordered summands and contraction sums in products work.

package tensor

import (
	"fmt"

	"github.com/jonasschneidercgg/construct/scalar"
)

// evaluateThrough re-positions a named assignment into a child's own index
// order and evaluates it there.
func evaluateThrough(n node, a IndexAssignments) (scalar.Scalar, error) {
	args, err := a.Apply(n.headerRef().indices)
	if err != nil {
		return scalar.Scalar{}, err
	}
	return n.evaluate(args)
}

// zero: every component vanishes.
func (n *zeroNode) evaluate(args []int) (scalar.Scalar, error) {
	return scalar.Zero(), nil
}

// scalar: the rank-0 component is the stored value.
func (n *scalarNode) evaluate(args []int) (scalar.Scalar, error) {
	return n.value.Clone(), nil
}

// delta: 1 on the diagonal, 0 off it.
func (n *deltaNode) evaluate(args []int) (scalar.Scalar, error) {
	if len(args) != 2 {
		return scalar.Scalar{}, fmt.Errorf("Delta: got %d args: %w", len(args), ErrIncompleteAssignment)
	}
	if args[0] == args[1] {
		return scalar.One(), nil
	}
	return scalar.Zero(), nil
}

// epsilonComponent evaluates the closed form
//
//	epsilon_{a1...an} = Π_{p<q} (a_q - a_p) / (q - p)
//
// exactly over the integers: a repeated value zeroes the product, and on
// distinct values the magnitude is 1, so only the inversion parity of the
// numerator survives.
func epsilonComponent(args []int) int {
	sign := 1
	for p := 0; p < len(args); p++ {
		for q := p + 1; q < len(args); q++ {
			d := args[q] - args[p]
			if d == 0 {
				return 0
			}
			if d < 0 {
				sign = -sign
			}
		}
	}
	return sign
}

func (n *epsilonNode) evaluate(args []int) (scalar.Scalar, error) {
	if len(args) != len(n.indices) {
		return scalar.Scalar{}, fmt.Errorf("Epsilon: got %d args: %w", len(args), ErrIncompleteAssignment)
	}
	return scalar.FromInt(int64(epsilonComponent(args))), nil
}

// gammaComponent evaluates the flat metric with signature (p, q): zero off
// the diagonal, -1 for the first p diagonal values of the range, +1 after.
func gammaComponent(args []int, from, p int) int {
	if args[0] != args[1] {
		return 0
	}
	if args[0]-from < p {
		return -1
	}
	return 1
}

func (n *gammaNode) evaluate(args []int) (scalar.Scalar, error) {
	if len(args) != 2 {
		return scalar.Scalar{}, fmt.Errorf("Gamma: got %d args: %w", len(args), ErrIncompleteAssignment)
	}
	return scalar.FromInt(int64(gammaComponent(args, n.indices[0].Range.From, n.p))), nil
}

// epsilongamma: slice the arguments into the epsilon triple and the gamma
// pairs, multiply the atomic evaluations, and short-circuit on the first
// zero factor.
func (n *epsilonGammaNode) evaluate(args []int) (scalar.Scalar, error) {
	if len(args) != len(n.indices) {
		return scalar.Scalar{}, fmt.Errorf("EpsilonGamma: got %d args: %w", len(args), ErrIncompleteAssignment)
	}

	result := 1
	pos := 0

	if n.numEpsilon == 1 {
		result = epsilonComponent(args[pos : pos+3])
		if result == 0 {
			return scalar.Zero(), nil
		}
		pos += 3
	}

	for i := 0; i < n.numGamma; i++ {
		pair := args[pos : pos+2]
		result *= gammaComponent(pair, n.indices[pos].Range.From, 0)
		if result == 0 {
			return scalar.Zero(), nil
		}
		pos += 2
	}

	return scalar.FromInt(int64(result)), nil
}

// scaled: the child component times the stored scale.
func (n *scaledNode) evaluate(args []int) (scalar.Scalar, error) {
	v, err := n.child.evaluate(args)
	if err != nil {
		return scalar.Scalar{}, err
	}
	return v.Mul(n.scale), nil
}

// added: build the named assignment from the declared order, then let each
// summand re-position it through its own order.
func (n *addedNode) evaluate(args []int) (scalar.Scalar, error) {
	assignment, err := assignmentFor(n.indices, args)
	if err != nil {
		return scalar.Scalar{}, err
	}

	result := scalar.Zero()
	for _, s := range n.summands {
		v, err := evaluateThrough(s, assignment)
		if err != nil {
			return scalar.Scalar{}, err
		}
		result = result.Add(v)
	}
	return result, nil
}

// multiplied: split the declared assignment by name membership, enumerate
// the contracted indices over their ranges, and sum the products.
func (n *multipliedNode) evaluate(args []int) (scalar.Scalar, error) {
	if len(args) != len(n.indices) {
		return scalar.Scalar{}, fmt.Errorf("Multiplied: got %d args: %w", len(args), ErrIncompleteAssignment)
	}

	idxA := n.a.headerRef().indices
	idxB := n.b.headerRef().indices

	// Contracted indices are the child indices absent from the declared
	// free sequence, collected from both children (a repeated name may
	// pair across the product or within one child) and deduplicated.
	var contracted Indices
	for _, x := range append(idxA.Clone(), idxB...) {
		if !n.indices.ContainsName(x.Name) && !contracted.ContainsName(x.Name) {
			contracted = append(contracted, x)
		}
	}

	combos := contracted.AllCombinations()

	result := scalar.Zero()
	for _, combo := range combos {
		assignA := make(IndexAssignments, len(idxA))
		assignB := make(IndexAssignments, len(idxB))

		for i, x := range contracted {
			assignA[x.Name] = combo[i]
			assignB[x.Name] = combo[i]
		}
		for i, x := range n.indices {
			if idxA.Contains(x) {
				assignA[x.Name] = args[i]
			}
			if idxB.Contains(x) {
				assignB[x.Name] = args[i]
			}
		}

		va, err := evaluateThrough(n.a, assignA)
		if err != nil {
			return scalar.Scalar{}, err
		}
		vb, err := evaluateThrough(n.b, assignB)
		if err != nil {
			return scalar.Scalar{}, err
		}
		result = result.Add(va.Mul(vb))
	}

	return result, nil
}

// substitute: evaluate the child through the renaming from target
// positions back to child positions.
func (n *substituteNode) evaluate(args []int) (scalar.Scalar, error) {
	assignment, err := assignmentFor(n.indices, args)
	if err != nil {
		return scalar.Scalar{}, err
	}
	return evaluateThrough(n.child, assignment)
}

// custom placeholders have no components.
func (n *customNode) evaluate(args []int) (scalar.Scalar, error) {
	return scalar.Zero(), nil
}
