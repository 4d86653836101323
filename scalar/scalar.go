// SPDX-License-Identifier: MIT

// Package scalar: the scalar variant and its value facade.
// A Scalar wraps one of four variants: a Fraction, a Variable, a sum of
// scalars, or a binary product of scalars. Arithmetic constructors fold
// numeric operands eagerly and keep symbolic structure otherwise; no
// distribution of products over sums is performed here.

package scalar

import (
	"fmt"
	"strings"
)

// Kind tags the variants of the scalar sum type.
type Kind uint8

// Variant tags. The numeric values are part of the binary codec.
const (
	KindFraction   Kind = 1
	KindVariable   Kind = 2
	KindAdded      Kind = 3
	KindMultiplied Kind = 4
)

// node is the internal variant. All implementations are immutable.
type node interface {
	kind() Kind
	clone() node
	hasVariables() bool
	float64() (float64, error)
	equal(o node) bool
	render() string
}

// Variable is a symbolic scalar identified by a name and an integer suffix.
// The suffix is used by variable redefinition to generate fresh families.
type Variable struct {
	Name  string
	Index int
}

func (v Variable) kind() Kind         { return KindVariable }
func (v Variable) clone() node        { return v }
func (v Variable) hasVariables() bool { return true }

func (v Variable) float64() (float64, error) {
	return 0, fmt.Errorf("variable %s: %w", v.render(), ErrNotNumeric)
}

func (v Variable) equal(o node) bool {
	w, ok := o.(Variable)
	return ok && v.Name == w.Name && v.Index == w.Index
}

func (v Variable) render() string {
	if v.Index == 0 {
		return v.Name
	}
	return fmt.Sprintf("%s_%d", v.Name, v.Index)
}

// Fraction variant plumbing.

func (f Fraction) kind() Kind         { return KindFraction }
func (f Fraction) clone() node        { return f }
func (f Fraction) hasVariables() bool { return false }

func (f Fraction) float64() (float64, error) { return f.Float64(), nil }

func (f Fraction) equal(o node) bool {
	g, ok := o.(Fraction)
	return ok && f.Equal(g)
}

func (f Fraction) render() string { return f.String() }

// added is a flattened sum of scalars.
type added struct {
	summands []node
}

func (a added) kind() Kind { return KindAdded }

func (a added) clone() node {
	out := make([]node, len(a.summands))
	for i, s := range a.summands {
		out[i] = s.clone()
	}
	return added{summands: out}
}

func (a added) hasVariables() bool {
	for _, s := range a.summands {
		if s.hasVariables() {
			return true
		}
	}
	return false
}

func (a added) float64() (float64, error) {
	var sum float64
	for _, s := range a.summands {
		v, err := s.float64()
		if err != nil {
			return 0, err
		}
		sum += v
	}
	return sum, nil
}

func (a added) equal(o node) bool {
	b, ok := o.(added)
	if !ok || len(a.summands) != len(b.summands) {
		return false
	}
	for i := range a.summands {
		if !a.summands[i].equal(b.summands[i]) {
			return false
		}
	}
	return true
}

func (a added) render() string {
	var sb strings.Builder
	for i, s := range a.summands {
		if i > 0 {
			sb.WriteString(" + ")
		}
		sb.WriteString(s.render())
	}
	return sb.String()
}

// multiplied is a binary product of scalars.
type multiplied struct {
	left, right node
}

func (m multiplied) kind() Kind { return KindMultiplied }

func (m multiplied) clone() node {
	return multiplied{left: m.left.clone(), right: m.right.clone()}
}

func (m multiplied) hasVariables() bool {
	return m.left.hasVariables() || m.right.hasVariables()
}

func (m multiplied) float64() (float64, error) {
	l, err := m.left.float64()
	if err != nil {
		return 0, err
	}
	r, err := m.right.float64()
	if err != nil {
		return 0, err
	}
	return l * r, nil
}

func (m multiplied) equal(o node) bool {
	n, ok := o.(multiplied)
	return ok && m.left.equal(n.left) && m.right.equal(n.right)
}

func (m multiplied) render() string {
	l, r := m.left.render(), m.right.render()
	if m.left.kind() == KindAdded {
		l = "(" + l + ")"
	}
	if m.right.kind() == KindAdded {
		r = "(" + r + ")"
	}
	return l + " * " + r
}

// Scalar is the value facade over the variant. The zero value is the
// numeric zero.
type Scalar struct {
	n node
}

// node access with zero-value normalization.
func (s Scalar) inner() node {
	if s.n == nil {
		return Fraction{num: 0, den: 1}
	}
	return s.n
}

// Zero returns the numeric zero.
func Zero() Scalar { return Scalar{} }

// One returns the numeric one.
func One() Scalar { return FromInt(1) }

// FromInt builds an integer-valued scalar.
func FromInt(n int64) Scalar { return Scalar{n: Fraction{num: n, den: 1}} }

// New builds the rational num/den. Panics on a zero denominator
// (programmer error).
func New(num, den int64) Scalar { return Scalar{n: newFraction(num, den)} }

// FromFraction wraps an existing fraction.
func FromFraction(f Fraction) Scalar { return Scalar{n: newFraction(f.num, f.den)} }

// FromFloat64 reconstructs a rational scalar from a float using a bounded
// continued-fraction expansion with tolerance eps.
func FromFloat64(v, eps float64) Scalar { return Scalar{n: fractionFromFloat(v, eps)} }

// Var builds the symbolic variable name_index.
func Var(name string, index int) Scalar { return Scalar{n: Variable{Name: name, Index: index}} }

// Kind returns the variant tag.
func (s Scalar) Kind() Kind { return s.inner().kind() }

// IsNumeric reports whether the scalar is free of variables.
func (s Scalar) IsNumeric() bool { return !s.inner().hasVariables() }

// IsVariable reports whether the scalar is a bare variable.
func (s Scalar) IsVariable() bool { return s.inner().kind() == KindVariable }

// IsAdded reports whether the scalar is a sum.
func (s Scalar) IsAdded() bool { return s.inner().kind() == KindAdded }

// IsMultiplied reports whether the scalar is a product.
func (s Scalar) IsMultiplied() bool { return s.inner().kind() == KindMultiplied }

// HasVariables reports whether any variable occurs in the scalar tree.
func (s Scalar) HasVariables() bool { return s.inner().hasVariables() }

// IsZero reports whether the scalar is the numeric zero.
func (s Scalar) IsZero() bool {
	f, ok := s.inner().(Fraction)
	return ok && f.IsZero()
}

// IsOne reports whether the scalar is the numeric one.
func (s Scalar) IsOne() bool {
	f, ok := s.inner().(Fraction)
	return ok && f.num == f.den
}

// AsVariable returns the variable payload; ok is false for other variants.
func (s Scalar) AsVariable() (Variable, bool) {
	v, ok := s.inner().(Variable)
	return v, ok
}

// AsFraction returns the fraction payload; ok is false for other variants.
func (s Scalar) AsFraction() (Fraction, bool) {
	f, ok := s.inner().(Fraction)
	return f, ok
}

// Float64 returns the numeric value, or ErrNotNumeric if variables remain.
func (s Scalar) Float64() (float64, error) { return s.inner().float64() }

// Clone returns a deep copy. Scalars are immutable, so callers rarely need
// this; it exists for symmetry with the tensor facade.
func (s Scalar) Clone() Scalar { return Scalar{n: s.inner().clone()} }

// Equal performs structural comparison; rationals compare by
// cross-multiplication.
func (s Scalar) Equal(o Scalar) bool { return s.inner().equal(o.inner()) }

// Add returns s + o. Numeric operands fold into a single fraction; sums
// flatten; zero is the identity.
func (s Scalar) Add(o Scalar) Scalar {
	a, b := s.inner(), o.inner()

	if fa, ok := a.(Fraction); ok {
		if fa.IsZero() {
			return Scalar{n: b.clone()}
		}
		if fb, ok := b.(Fraction); ok {
			return Scalar{n: fa.Add(fb)}
		}
	}
	if fb, ok := b.(Fraction); ok && fb.IsZero() {
		return Scalar{n: a.clone()}
	}

	// Flatten sums so a long collection stays a single level deep.
	var summands []node
	if aa, ok := a.(added); ok {
		summands = append(summands, aa.clone().(added).summands...)
	} else {
		summands = append(summands, a.clone())
	}
	if ba, ok := b.(added); ok {
		summands = append(summands, ba.clone().(added).summands...)
	} else {
		summands = append(summands, b.clone())
	}

	return Scalar{n: added{summands: summands}}
}

// Sub returns s - o.
func (s Scalar) Sub(o Scalar) Scalar { return s.Add(o.Neg()) }

// Neg returns -s.
func (s Scalar) Neg() Scalar { return s.Mul(FromInt(-1)) }

// Mul returns s * o. Numeric operands fold; zero annihilates; one is the
// identity. Products are otherwise kept as binary nodes without
// distribution over sums.
func (s Scalar) Mul(o Scalar) Scalar {
	a, b := s.inner(), o.inner()

	if fa, ok := a.(Fraction); ok {
		if fa.IsZero() {
			return Zero()
		}
		if fa.num == fa.den {
			return Scalar{n: b.clone()}
		}
		if fb, ok := b.(Fraction); ok {
			return Scalar{n: fa.Mul(fb)}
		}
	}
	if fb, ok := b.(Fraction); ok {
		if fb.IsZero() {
			return Zero()
		}
		if fb.num == fb.den {
			return Scalar{n: a.clone()}
		}
	}

	return Scalar{n: multiplied{left: a.clone(), right: b.clone()}}
}

// Summands splits a sum into its summands; any other variant yields itself.
func (s Scalar) Summands() []Scalar {
	if a, ok := s.inner().(added); ok {
		out := make([]Scalar, len(a.summands))
		for i, n := range a.summands {
			out[i] = Scalar{n: n.clone()}
		}
		return out
	}
	return []Scalar{s.Clone()}
}

// Factors splits a product into its two factors; ok is false otherwise.
func (s Scalar) Factors() (Scalar, Scalar, bool) {
	if m, ok := s.inner().(multiplied); ok {
		return Scalar{n: m.left.clone()}, Scalar{n: m.right.clone()}, true
	}
	return Scalar{}, Scalar{}, false
}

// Substitute replaces every occurrence of the given variable by the
// replacement expression. Non-variable targets are matched structurally.
func (s Scalar) Substitute(variable, replacement Scalar) Scalar {
	return Scalar{n: substituteNode(s.inner(), variable.inner(), replacement.inner())}
}

func substituteNode(n, target, replacement node) node {
	if n.equal(target) {
		return replacement.clone()
	}
	switch t := n.(type) {
	case added:
		out := make([]node, len(t.summands))
		for i, s := range t.summands {
			out[i] = substituteNode(s, target, replacement)
		}
		return added{summands: out}
	case multiplied:
		return multiplied{
			left:  substituteNode(t.left, target, replacement),
			right: substituteNode(t.right, target, replacement),
		}
	default:
		return n.clone()
	}
}

// VariableTerm pairs a variable with its collected coefficient.
type VariableTerm struct {
	Variable    Scalar
	Coefficient Scalar
}

// SeparateVariablesFromRest decomposes the scalar into a list of
// (variable, coefficient) pairs and a purely numeric rest, so that
//
//	s == rest + Σ coefficient_i · variable_i
//
// Products of two variable-carrying factors are rejected with
// ErrQuadraticVariables; the engine only handles linear systems.
func (s Scalar) SeparateVariablesFromRest() ([]VariableTerm, Scalar, error) {
	var terms []VariableTerm
	rest := Zero()

	var walk func(n node, coeff Scalar) error
	walk = func(n node, coeff Scalar) error {
		switch t := n.(type) {
		case Fraction:
			rest = rest.Add(coeff.Mul(Scalar{n: t}))
			return nil
		case Variable:
			appendTerm(&terms, Scalar{n: t}, coeff)
			return nil
		case added:
			for _, sm := range t.summands {
				if err := walk(sm, coeff); err != nil {
					return err
				}
			}
			return nil
		case multiplied:
			lv, rv := t.left.hasVariables(), t.right.hasVariables()
			if lv && rv {
				return fmt.Errorf("SeparateVariablesFromRest: %w", ErrQuadraticVariables)
			}
			if lv {
				return walk(t.left, coeff.Mul(Scalar{n: t.right.clone()}))
			}
			if rv {
				return walk(t.right, coeff.Mul(Scalar{n: t.left.clone()}))
			}
			rest = rest.Add(coeff.Mul(Scalar{n: t.clone()}))
			return nil
		default:
			return fmt.Errorf("SeparateVariablesFromRest: unknown variant: %w", ErrWrongFormat)
		}
	}

	if err := walk(s.inner(), One()); err != nil {
		return nil, Zero(), err
	}
	return terms, rest, nil
}

func appendTerm(terms *[]VariableTerm, variable, coeff Scalar) {
	for i := range *terms {
		if (*terms)[i].Variable.Equal(variable) {
			(*terms)[i].Coefficient = (*terms)[i].Coefficient.Add(coeff)
			return
		}
	}
	*terms = append(*terms, VariableTerm{Variable: variable, Coefficient: coeff})
}

// String renders the scalar for diagnostics.
func (s Scalar) String() string { return s.inner().render() }
