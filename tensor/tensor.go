// SPDX-License-Identifier: MIT

// Package tensor: the value-typed facade over the expression variant.
// A Tensor is a handle to a uniquely owned expression tree. Arithmetic and
// transforms never alias their operands: inputs are deep-copied into the
// result, so every handle keeps exclusive ownership of its tree.

package tensor

import (
	"fmt"

	"github.com/jonasschneidercgg/construct/scalar"
)

// Tensor is the uniform handle over the expression variant.
type Tensor struct {
	n node
}

// inner normalizes the zero value of the handle to the zero tensor.
func (t Tensor) inner() node {
	if t.n == nil {
		return newZeroNode()
	}
	return t.n
}

// ------------------------------------------------------------ factories --

// Zero returns the zero tensor.
func Zero() Tensor { return Tensor{n: newZeroNode()} }

// One returns the rank-0 unit tensor.
func One() Tensor { return Tensor{n: newScalarNode(scalar.One())} }

// FromScalar wraps a scalar value as a rank-0 tensor.
func FromScalar(value scalar.Scalar) Tensor { return Tensor{n: newScalarNode(value)} }

// Delta builds the Kronecker delta. It requires exactly two indices; the
// first is made contravariant, the second covariant. Panics on a wrong
// index count (programmer error).
func Delta(indices Indices) Tensor { return Tensor{n: newDeltaNode(indices)} }

// Epsilon builds the totally antisymmetric Levi-Civita symbol. The index
// count must equal the range size. Panics otherwise (programmer error).
func Epsilon(indices Indices) Tensor { return Tensor{n: newEpsilonNode(indices)} }

// SpaceTimeEpsilon returns the Levi-Civita symbol in 3+1 dimensional
// spacetime, with Greek indices starting offset letters after mu.
func SpaceTimeEpsilon(offset int) Tensor {
	return Epsilon(GreekSeries(4, NewIndexRange(0, 3), offset))
}

// SpaceEpsilon returns the Levi-Civita symbol on a spatial slice, with
// Roman indices starting offset letters into the alphabet.
func SpaceEpsilon(offset int) Tensor {
	return Epsilon(RomanSeries(3, NewIndexRange(1, 3), offset))
}

// Gamma builds the flat spatial metric with signature (0, 3). Exactly two
// indices are required (panic on violation).
func Gamma(indices Indices) Tensor { return Tensor{n: newGammaNode(indices, 0, 3)} }

// GammaWithSignature builds a flat metric with signature (p, q).
func GammaWithSignature(indices Indices, p, q int) Tensor {
	return Tensor{n: newGammaNode(indices, p, q)}
}

// EuclideanGamma returns a metric with signature (0, 4) on Greek indices.
func EuclideanGamma(offset int) Tensor {
	return GammaWithSignature(GreekSeries(2, NewIndexRange(0, 3), offset), 0, 4)
}

// MinkowskianGamma returns a metric with signature (1, 3) on Greek indices.
func MinkowskianGamma(offset int) Tensor {
	return GammaWithSignature(GreekSeries(2, NewIndexRange(0, 3), offset), 1, 3)
}

// SpatialGamma returns a metric with signature (0, 3) on Roman indices
// over the spatial range.
func SpatialGamma(offset int) Tensor {
	return GammaWithSignature(RomanSeries(2, NewIndexRange(1, 3), offset), 0, 3)
}

// EpsilonGamma builds the fused product of numEpsilon (0 or 1) epsilon
// blocks and numGamma metric pairs over the given index layout. Panics
// when 3*numEpsilon + 2*numGamma does not match the index count.
func EpsilonGamma(numEpsilon, numGamma int, indices Indices) Tensor {
	return Tensor{n: newEpsilonGammaNode(numEpsilon, numGamma, indices)}
}

// Substitute wraps the tensor so that it presents the target index order.
// The target must be a permutation of the tensor's indices. Sums
// distribute through the wrapper. A scale ends up on the wrapped child, so
// the result is a Substitute node whose leading scale SeparateScaleFactor
// still returns.
func Substitute(t Tensor, target Indices) (Tensor, error) {
	n := t.inner()

	if a, ok := n.(*addedNode); ok {
		result := Zero()
		for _, s := range a.summands {
			sub, err := Substitute(Tensor{n: s.clone()}, target)
			if err != nil {
				return Tensor{}, err
			}
			result, err = result.Add(sub)
			if err != nil {
				return Tensor{}, err
			}
		}
		return result, nil
	}

	if sc, ok := n.(*scaledNode); ok {
		sub, err := Substitute(Tensor{n: sc.child.clone()}, target)
		if err != nil {
			return Tensor{}, err
		}
		return sub.Scale(sc.scale), nil
	}

	wrapped, err := newSubstituteNode(n.clone(), target)
	if err != nil {
		return Tensor{}, err
	}
	return Tensor{n: wrapped}, nil
}

// Contraction renames the tensor onto the target indices; when the target
// carries repeated names the result is routed through a product with one,
// whose evaluator performs the contraction sum.
func Contraction(t Tensor, target Indices) (Tensor, error) {
	clone := t.inner().clone()
	if len(clone.headerRef().indices) != len(target) {
		return Tensor{}, fmt.Errorf("Contraction: %w", ErrCannotContract)
	}
	clone.setIndices(target)

	if !target.ContainsContractions() {
		return Tensor{n: clone}, nil
	}

	return One().Mul(Tensor{n: clone})
}

// ----------------------------------------------------------- predicates --

// Kind returns the variant tag.
func (t Tensor) Kind() Kind { return t.inner().kind() }

// IsAdded reports whether the tensor is a sum.
func (t Tensor) IsAdded() bool { return t.Kind() == KindAdded }

// IsMultiplied reports whether the tensor is a product.
func (t Tensor) IsMultiplied() bool { return t.Kind() == KindMultiplied }

// IsScaled reports whether the tensor is a scaled expression.
func (t Tensor) IsScaled() bool { return t.Kind() == KindScaled }

// IsZeroTensor reports whether the tensor is structurally the zero tensor.
func (t Tensor) IsZeroTensor() bool { return t.Kind() == KindZero }

// IsScalar reports whether the tensor is a rank-0 scalar wrapper.
func (t Tensor) IsScalar() bool { return t.Kind() == KindScalar }

// IsSubstitute reports whether the tensor is an index substitution.
func (t Tensor) IsSubstitute() bool { return t.Kind() == KindSubstitute }

// IsEpsilon reports whether the tensor is a Levi-Civita atom.
func (t Tensor) IsEpsilon() bool { return t.Kind() == KindEpsilon }

// IsGamma reports whether the tensor is a metric atom.
func (t Tensor) IsGamma() bool { return t.Kind() == KindGamma }

// IsEpsilonGamma reports whether the tensor is a fused epsilon-gamma atom.
func (t Tensor) IsEpsilonGamma() bool { return t.Kind() == KindEpsilonGamma }

// IsDelta reports whether the tensor is a Kronecker delta atom.
func (t Tensor) IsDelta() bool { return t.Kind() == KindDelta }

// IsCustom reports whether the tensor is a decoder placeholder.
func (t Tensor) IsCustom() bool { return t.Kind() == KindCustom }

// ------------------------------------------------------------ accessors --

// Indices returns a copy of the declared index sequence.
func (t Tensor) Indices() Indices { return t.inner().headerRef().indices.Clone() }

// Name returns the atom name.
func (t Tensor) Name() string { return t.inner().headerRef().name }

// Clone returns a deep copy of the tensor.
func (t Tensor) Clone() Tensor { return Tensor{n: t.inner().clone()} }

// SetIndices renames the tensor's index positions and propagates the
// renaming into every descendant. The new sequence must match the rank.
func (t *Tensor) SetIndices(idx Indices) error {
	n := t.inner()
	if len(idx) != len(n.headerRef().indices) {
		return fmt.Errorf("SetIndices: got %d indices for rank %d: %w",
			len(idx), len(n.headerRef().indices), ErrNotPermutation)
	}
	n.setIndices(idx)
	t.n = n

	return nil
}

// String renders the expression for diagnostics.
func (t Tensor) String() string { return t.inner().render() }

// ----------------------------------------------------------- evaluation --

// Evaluate returns the component at the positional index assignment.
func (t Tensor) Evaluate(args []int) (scalar.Scalar, error) {
	return t.inner().evaluate(args)
}

// EvaluateWith resolves a name-keyed assignment against the declared index
// order and evaluates there.
func (t Tensor) EvaluateWith(a IndexAssignments) (scalar.Scalar, error) {
	args, err := a.Apply(t.inner().headerRef().indices)
	if err != nil {
		return scalar.Scalar{}, err
	}
	return t.Evaluate(args)
}

// At is the bounds-checked variadic evaluator: every argument is validated
// against its index range before evaluation.
func (t Tensor) At(args ...int) (scalar.Scalar, error) {
	idx := t.inner().headerRef().indices
	if len(args) != len(idx) {
		return scalar.Scalar{}, fmt.Errorf("At: got %d args for rank %d: %w",
			len(args), len(idx), ErrIncompleteAssignment)
	}
	for i, v := range args {
		if !idx[i].Range.Contains(v) {
			return scalar.Scalar{}, fmt.Errorf("At: position %d value %d outside [%d,%d]: %w",
				i, v, idx[i].Range.From, idx[i].Range.To, ErrOutOfRange)
		}
	}

	return t.Evaluate(args)
}

// ----------------------------------------------------------- arithmetic --

// Add returns t + o.
func (t Tensor) Add(o Tensor) (Tensor, error) {
	n, err := addNodes(t.inner().clone(), o.inner().clone())
	if err != nil {
		return Tensor{}, err
	}
	return Tensor{n: n}, nil
}

// Sub returns t - o.
func (t Tensor) Sub(o Tensor) (Tensor, error) {
	return t.Add(o.Neg())
}

// Neg returns -t.
func (t Tensor) Neg() Tensor { return t.Scale(scalar.FromInt(-1)) }

// Mul returns the tensor product t * o; repeated index names across the
// operands are contracted by the evaluator.
func (t Tensor) Mul(o Tensor) (Tensor, error) {
	n, err := multiplyNodes(t.inner().clone(), o.inner().clone())
	if err != nil {
		return Tensor{}, err
	}
	return Tensor{n: n}, nil
}

// Scale returns c * t.
func (t Tensor) Scale(c scalar.Scalar) Tensor {
	return Tensor{n: scaleNode(t.inner().clone(), c)}
}

// -------------------------------------------------------------- queries --

// AllIndexCombinations enumerates the Cartesian product of the declared
// index ranges.
func (t Tensor) AllIndexCombinations() [][]int {
	return t.inner().headerRef().indices.AllCombinations()
}

// AllRangesEqual reports whether every declared index spans the same
// range.
func (t Tensor) AllRangesEqual() bool {
	idx := t.inner().headerRef().indices
	for _, x := range idx {
		if x.Range != idx[0].Range {
			return false
		}
	}
	return true
}

// HasVariables reports whether any symbolic variable occurs in the
// expression's scales or scalar leaves.
func (t Tensor) HasVariables() bool { return nodeHasVariables(t.inner()) }

func nodeHasVariables(n node) bool {
	switch x := n.(type) {
	case *scalarNode:
		return x.value.HasVariables()
	case *scaledNode:
		return x.scale.HasVariables() || nodeHasVariables(x.child)
	case *addedNode:
		for _, s := range x.summands {
			if nodeHasVariables(s) {
				return true
			}
		}
		return false
	case *multipliedNode:
		return nodeHasVariables(x.a) || nodeHasVariables(x.b)
	case *substituteNode:
		return nodeHasVariables(x.child)
	default:
		return false
	}
}

// IsZero checks whether every component vanishes. Any remaining variable
// makes the tensor potentially nonzero.
func (t Tensor) IsZero() (bool, error) {
	for _, combo := range t.AllIndexCombinations() {
		v, err := t.Evaluate(combo)
		if err != nil {
			return false, err
		}
		if v.HasVariables() {
			return false, nil
		}
		f, err := v.Float64()
		if err != nil {
			return false, err
		}
		if f != 0 {
			return false, nil
		}
	}
	return true, nil
}

// IsEqual reports pointwise component equality. Tensors with different
// index sequences are never equal.
func (t Tensor) IsEqual(o Tensor) (bool, error) {
	a := t.inner().headerRef().indices
	b := o.inner().headerRef().indices
	if len(a) != len(b) {
		return false, nil
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false, nil
		}
	}

	for _, combo := range t.AllIndexCombinations() {
		va, err := t.Evaluate(combo)
		if err != nil {
			return false, err
		}
		vb, err := o.Evaluate(combo)
		if err != nil {
			return false, err
		}
		if !va.Equal(vb) {
			return false, nil
		}
	}
	return true, nil
}

// ------------------------------------------------------------ transforms --

// Canonicalize returns the expression with every atom in canonical index
// order and signs flattened into scales.
func (t Tensor) Canonicalize() Tensor { return Tensor{n: t.inner().canonicalize()} }

// SeparateScaleFactor splits the tensor into its leading scale and base.
func (t Tensor) SeparateScaleFactor() (scalar.Scalar, Tensor) {
	sc, base := separateScale(t.inner())
	return sc, Tensor{n: base}
}

// Summands splits a sum into its summands; any other tensor yields itself.
func (t Tensor) Summands() []Tensor {
	nodes := summandsOf(t.inner())
	out := make([]Tensor, len(nodes))
	for i, n := range nodes {
		out[i] = Tensor{n: n}
	}
	return out
}

// Expand distributes products over sums and scales over summands, while
// keeping scalar brackets intact:
//
//	(Gamma(a b) + Gamma(b a)) * Epsilon(c d e)
//
// expands into two product summands, but (3 + x) * Gamma(b c) keeps its
// scalar sum unexpanded.
func (t Tensor) Expand() (Tensor, error) {
	switch n := t.inner().(type) {
	case *addedNode:
		result := Zero()
		for _, s := range n.summands {
			expanded, err := (Tensor{n: s.clone()}).Expand()
			if err != nil {
				return Tensor{}, err
			}
			result, err = result.Add(expanded)
			if err != nil {
				return Tensor{}, err
			}
		}
		return result, nil

	case *scaledNode:
		expanded, err := (Tensor{n: n.child.clone()}).Expand()
		if err != nil {
			return Tensor{}, err
		}
		result := Zero()
		for _, s := range expanded.Summands() {
			result, err = result.Add(s.Scale(n.scale))
			if err != nil {
				return Tensor{}, err
			}
		}
		return result, nil

	case *multipliedNode:
		left, err := (Tensor{n: n.a.clone()}).Expand()
		if err != nil {
			return Tensor{}, err
		}
		right, err := (Tensor{n: n.b.clone()}).Expand()
		if err != nil {
			return Tensor{}, err
		}

		result := Zero()
		for _, a := range left.Summands() {
			for _, b := range right.Summands() {
				product, err := a.Mul(b)
				if err != nil {
					return Tensor{}, err
				}
				result, err = result.Add(product)
				if err != nil {
					return Tensor{}, err
				}
			}
		}
		return result, nil

	default:
		return t.Clone(), nil
	}
}
