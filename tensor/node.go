// SPDX-License-Identifier: MIT

// Package tensor: the expression variant.
// Every node carries the shared header (name, printable text, index
// sequence) plus per-variant payload. Children are uniquely owned by their
// parent; clone is the only way to duplicate. Apart from the factory
// builders, which may reuse and extend the nodes they are handed,
// setIndices is the only mutation; it renames positions and propagates
// through descendants.

package tensor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonasschneidercgg/construct/scalar"
)

// Kind tags the variants of the expression sum type. The numeric values
// are part of the binary codec.
type Kind int32

const (
	KindAdded        Kind = 1
	KindMultiplied   Kind = 2
	KindScaled       Kind = 3
	KindZero         Kind = 4
	KindScalar       Kind = 101
	KindEpsilon      Kind = 201
	KindGamma        Kind = 202
	KindEpsilonGamma Kind = 203
	KindDelta        Kind = 204
	KindSubstitute   Kind = 301
	KindCustom       Kind = -1
)

// String names the variant for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindAdded:
		return "Addition"
	case KindMultiplied:
		return "Multiplication"
	case KindScaled:
		return "Scaled"
	case KindZero:
		return "Zero"
	case KindScalar:
		return "Scalar"
	case KindEpsilon:
		return "Epsilon"
	case KindGamma:
		return "Gamma"
	case KindEpsilonGamma:
		return "EpsilonGamma"
	case KindDelta:
		return "Delta"
	case KindSubstitute:
		return "Substitute"
	default:
		return "Custom"
	}
}

// header is the shared per-node state.
type header struct {
	name      string
	printable string
	indices   Indices
}

func (h *header) headerRef() *header { return h }

// node is the internal expression variant.
type node interface {
	kind() Kind
	headerRef() *header
	clone() node
	evaluate(args []int) (scalar.Scalar, error)
	canonicalize() node
	setIndices(idx Indices)
	render() string
}

// positionMapping builds the old-name → new-index mapping a positional
// rename induces, for propagation into children.
func positionMapping(oldIdx, newIdx Indices) map[string]Index {
	m := make(map[string]Index, len(oldIdx))
	for i := range oldIdx {
		m[oldIdx[i].Name] = newIdx[i]
	}
	return m
}

// ---------------------------------------------------------------- zero --

type zeroNode struct {
	header
}

func newZeroNode() *zeroNode {
	return &zeroNode{header: header{name: "0", printable: "0"}}
}

func (n *zeroNode) kind() Kind { return KindZero }

func (n *zeroNode) clone() node {
	return &zeroNode{header: header{name: n.name, printable: n.printable, indices: n.indices.Clone()}}
}

func (n *zeroNode) setIndices(idx Indices) { n.indices = idx.Clone() }

func (n *zeroNode) render() string { return "0" }

// -------------------------------------------------------------- scalar --

type scalarNode struct {
	header
	value scalar.Scalar
}

func newScalarNode(value scalar.Scalar) *scalarNode {
	text := value.String()
	return &scalarNode{header: header{name: text, printable: text}, value: value}
}

func (n *scalarNode) kind() Kind { return KindScalar }

func (n *scalarNode) clone() node {
	return &scalarNode{
		header: header{name: n.name, printable: n.printable, indices: n.indices.Clone()},
		value:  n.value.Clone(),
	}
}

func (n *scalarNode) setIndices(idx Indices) { n.indices = idx.Clone() }

func (n *scalarNode) render() string { return n.printable }

// --------------------------------------------------------------- delta --

type deltaNode struct {
	header
}

// newDeltaNode normalizes the variance: first index up, second down.
func newDeltaNode(indices Indices) *deltaNode {
	if len(indices) != 2 {
		panic(panicDeltaRank)
	}
	idx := indices.Clone()
	idx[0].Contravariant = true
	idx[1].Contravariant = false

	return &deltaNode{header: header{indices: idx}}
}

func (n *deltaNode) kind() Kind { return KindDelta }

func (n *deltaNode) clone() node {
	return &deltaNode{header: header{name: n.name, printable: n.printable, indices: n.indices.Clone()}}
}

func (n *deltaNode) setIndices(idx Indices) {
	renamed := idx.Clone()
	renamed[0].Contravariant = true
	renamed[1].Contravariant = false
	n.indices = renamed
}

func (n *deltaNode) render() string { return "\\delta" + n.indices.String() }

// ------------------------------------------------------------- epsilon --

type epsilonNode struct {
	header
}

func newEpsilonNode(indices Indices) *epsilonNode {
	if len(indices) == 0 || indices[0].Range.Size() != len(indices) {
		panic(panicEpsilonRank)
	}

	return &epsilonNode{header: header{name: "epsilon", printable: "\\epsilon", indices: indices.Clone()}}
}

func (n *epsilonNode) kind() Kind { return KindEpsilon }

func (n *epsilonNode) clone() node {
	return &epsilonNode{header: header{name: n.name, printable: n.printable, indices: n.indices.Clone()}}
}

func (n *epsilonNode) setIndices(idx Indices) { n.indices = idx.Clone() }

func (n *epsilonNode) render() string { return n.printable + n.indices.String() }

// --------------------------------------------------------------- gamma --

type gammaNode struct {
	header
	p, q int
}

func newGammaNode(indices Indices, p, q int) *gammaNode {
	if len(indices) != 2 {
		panic(panicGammaRank)
	}

	return &gammaNode{
		header: header{name: "gamma", printable: "\\gamma", indices: indices.Clone()},
		p:      p, q: q,
	}
}

func (n *gammaNode) kind() Kind { return KindGamma }

func (n *gammaNode) clone() node {
	return &gammaNode{
		header: header{name: n.name, printable: n.printable, indices: n.indices.Clone()},
		p:      n.p, q: n.q,
	}
}

func (n *gammaNode) setIndices(idx Indices) { n.indices = idx.Clone() }

func (n *gammaNode) render() string { return n.printable + n.indices.String() }

// -------------------------------------------------------- epsilongamma --

// epsilonGammaNode is the fused product of at most one epsilon and any
// number of gammas, with index layout [e1 e2 e3, g11 g12, g21 g22, ...].
type epsilonGammaNode struct {
	header
	numEpsilon int // 0 or 1
	numGamma   int
}

func newEpsilonGammaNode(numEpsilon, numGamma int, indices Indices) *epsilonGammaNode {
	if numEpsilon < 0 || numEpsilon > 1 || numGamma < 0 ||
		3*numEpsilon+2*numGamma != len(indices) {
		panic(panicEpsilonGammaRank)
	}

	return &epsilonGammaNode{
		header:     header{indices: indices.Clone()},
		numEpsilon: numEpsilon,
		numGamma:   numGamma,
	}
}

func (n *epsilonGammaNode) kind() Kind { return KindEpsilonGamma }

func (n *epsilonGammaNode) clone() node {
	return &epsilonGammaNode{
		header:     header{name: n.name, printable: n.printable, indices: n.indices.Clone()},
		numEpsilon: n.numEpsilon,
		numGamma:   n.numGamma,
	}
}

func (n *epsilonGammaNode) setIndices(idx Indices) { n.indices = idx.Clone() }

func (n *epsilonGammaNode) render() string {
	var sb strings.Builder
	pos := 0
	for i := 0; i < n.numEpsilon; i++ {
		sb.WriteString("\\epsilon")
		sb.WriteString(n.indices.Partial(pos, pos+2).String())
		pos += 3
	}
	for i := 0; i < n.numGamma; i++ {
		sb.WriteString("\\gamma")
		sb.WriteString(n.indices.Partial(pos, pos+1).String())
		pos += 2
	}
	return sb.String()
}

// -------------------------------------------------------------- scaled --

type scaledNode struct {
	header
	child node
	scale scalar.Scalar
}

func newScaledNode(child node, scale scalar.Scalar) *scaledNode {
	return &scaledNode{
		header: header{indices: child.headerRef().indices.Clone()},
		child:  child,
		scale:  scale,
	}
}

func (n *scaledNode) kind() Kind { return KindScaled }

func (n *scaledNode) clone() node {
	return &scaledNode{
		header: header{name: n.name, printable: n.printable, indices: n.indices.Clone()},
		child:  n.child.clone(),
		scale:  n.scale.Clone(),
	}
}

func (n *scaledNode) setIndices(idx Indices) {
	n.indices = idx.Clone()
	n.child.setIndices(idx)
}

func (n *scaledNode) render() string {
	var sb strings.Builder

	switch {
	case n.scale.IsOne():
		// elide the factor
	case n.scale.IsNumeric() && n.scale.Equal(scalar.FromInt(-1)):
		sb.WriteString("-")
	case n.scale.IsAdded():
		sb.WriteString("(" + n.scale.String() + ") * ")
	default:
		sb.WriteString(n.scale.String() + " * ")
	}

	if n.child.kind() == KindAdded {
		sb.WriteString("(" + n.child.render() + ")")
	} else {
		sb.WriteString(n.child.render())
	}

	return sb.String()
}

// --------------------------------------------------------------- added --

type addedNode struct {
	header
	summands []node
}

func newAddedNode(summands []node, indices Indices) *addedNode {
	return &addedNode{header: header{indices: indices.Clone()}, summands: summands}
}

func (n *addedNode) kind() Kind { return KindAdded }

func (n *addedNode) clone() node {
	out := make([]node, len(n.summands))
	for i, s := range n.summands {
		out[i] = s.clone()
	}
	return &addedNode{
		header:   header{name: n.name, printable: n.printable, indices: n.indices.Clone()},
		summands: out,
	}
}

// setIndices renames the declared order and shuffles every summand's own
// order through the induced name mapping, so differently ordered summands
// stay consistent.
func (n *addedNode) setIndices(idx Indices) {
	m := positionMapping(n.indices, idx)
	n.indices = idx.Clone()
	for _, s := range n.summands {
		s.setIndices(s.headerRef().indices.Shuffle(m))
	}
}

func (n *addedNode) render() string {
	if len(n.summands) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(n.summands[0].render())
	for _, s := range n.summands[1:] {
		if sc, ok := s.(*scaledNode); ok && sc.scale.Equal(scalar.FromInt(-1)) {
			sb.WriteString(" - " + sc.child.render())
			continue
		}
		sb.WriteString(" + " + s.render())
	}
	return sb.String()
}

// ---------------------------------------------------------- multiplied --

type multipliedNode struct {
	header
	a, b node
}

// newMultipliedNode derives the free index sequence by contraction of the
// children's sequences. Callers must have validated contractability.
func newMultipliedNode(a, b node) *multipliedNode {
	free, err := a.headerRef().indices.Contract(b.headerRef().indices)
	if err != nil {
		// Validated by the Multiply factory; reaching this is a bug.
		panic(err)
	}

	return &multipliedNode{header: header{indices: free}, a: a, b: b}
}

func (n *multipliedNode) kind() Kind { return KindMultiplied }

func (n *multipliedNode) clone() node {
	return &multipliedNode{
		header: header{name: n.name, printable: n.printable, indices: n.indices.Clone()},
		a:      n.a.clone(),
		b:      n.b.clone(),
	}
}

func (n *multipliedNode) setIndices(idx Indices) {
	m := positionMapping(n.indices, idx)
	n.indices = idx.Clone()
	n.a.setIndices(n.a.headerRef().indices.Shuffle(m))
	n.b.setIndices(n.b.headerRef().indices.Shuffle(m))
}

func (n *multipliedNode) render() string { return n.a.render() + " " + n.b.render() }

// ---------------------------------------------------------- substitute --

// substituteNode changes only the index structure: its header order is a
// permutation of the child's order, and evaluation routes arguments by
// name back into the child.
type substituteNode struct {
	header
	child node
}

func newSubstituteNode(child node, target Indices) (*substituteNode, error) {
	if !target.IsPermutationOf(child.headerRef().indices) {
		return nil, fmt.Errorf("Substitute: %w", ErrNotPermutation)
	}

	return &substituteNode{header: header{indices: target.Clone()}, child: child}, nil
}

func (n *substituteNode) kind() Kind { return KindSubstitute }

func (n *substituteNode) clone() node {
	return &substituteNode{
		header: header{name: n.name, printable: n.printable, indices: n.indices.Clone()},
		child:  n.child.clone(),
	}
}

func (n *substituteNode) setIndices(idx Indices) {
	// Carry the child along the same relative permutation.
	p, err := PermutationBetween(n.indices, n.child.headerRef().indices)
	if err != nil {
		panic(err) // construction guarantees the permutation invariant
	}
	n.indices = idx.Clone()
	n.child.setIndices(p.Apply(idx))
}

func (n *substituteNode) render() string { return n.child.render() }

// -------------------------------------------------------------- custom --

// customNode is the header-only placeholder the decoder produces for
// unknown tags. It evaluates to zero, mirroring the base-tensor fallback
// of the wire format's first implementation.
type customNode struct {
	header
}

func (n *customNode) kind() Kind { return KindCustom }

func (n *customNode) clone() node {
	return &customNode{header: header{name: n.name, printable: n.printable, indices: n.indices.Clone()}}
}

func (n *customNode) setIndices(idx Indices) { n.indices = idx.Clone() }

func (n *customNode) render() string { return n.printable + n.indices.String() }

// sortGammaPairs orders gamma index pairs by their first index, which
// encodes that gammas commute inside an epsilon-gamma product.
func sortGammaPairs(pairs []Indices) {
	sort.SliceStable(pairs, func(a, b int) bool {
		return pairs[a][0].Less(pairs[b][0])
	})
}
