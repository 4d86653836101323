// SPDX-License-Identifier: MIT

// Package tensor: (anti-)symmetrisation and exchange symmetrisation.
// All three routines share the same shape: enumerate index permutations,
// canonicalise the permuted clones in parallel, then reduce the stack by
// collecting terms whose canonical form (variant tag and index sequence)
// coincides. The reduction is order-independent, so the parallel stage
// needs no ordering guarantees beyond Map's input-order outputs.

package tensor

import (
	"fmt"

	"github.com/jonasschneidercgg/construct/scalar"
	"github.com/jonasschneidercgg/construct/taskpool"
)

// scaledTerm pairs a collected coefficient with its canonical base.
type scaledTerm struct {
	scale scalar.Scalar
	base  Tensor
}

// tensorResult carries a parallel transform's outcome per summand.
type tensorResult struct {
	scale scalar.Scalar
	base  Tensor
	err   error
}

// Symmetrize symmetrises the tensor over the given subset of its indices:
// the average of the tensor over every permutation of the subset
// positions, with like canonical terms collected.
func (t Tensor) Symmetrize(subset Indices, opts ...Option) (Tensor, error) {
	return t.symmetrize(subset, false, gatherOptions(opts...))
}

// AntiSymmetrize antisymmetrises the tensor over the given subset of its
// indices; each permuted clone is weighted by the permutation sign.
func (t Tensor) AntiSymmetrize(subset Indices, opts ...Option) (Tensor, error) {
	return t.symmetrize(subset, true, gatherOptions(opts...))
}

func (t Tensor) symmetrize(subset Indices, anti bool, o Options) (Tensor, error) {
	switch n := t.inner().(type) {
	case *addedNode:
		return symmetrizeSum(n, subset, anti, o)

	case *scaledNode:
		sc, base := t.SeparateScaleFactor()
		result, err := base.symmetrize(subset, anti, o)
		if err != nil {
			return Tensor{}, err
		}
		if result.IsZeroTensor() {
			return result, nil
		}
		return result.Scale(sc), nil

	case *zeroNode:
		return t.Clone(), nil

	default:
		return symmetrizeTerm(t, subset, anti, o)
	}
}

// symmetrizeTerm handles a single non-compound term: enumerate the subset
// permutations, canonicalise the permuted clones in parallel, reduce, and
// divide by the permutation count.
func symmetrizeTerm(t Tensor, subset Indices, anti bool, o Options) (Tensor, error) {
	original := t.Indices()

	perms, err := enumerateSubsetPermutations(original, subset)
	if err != nil {
		return Tensor{}, err
	}

	stack := taskpool.Map(perms, func(p Indices) tensorResult {
		clone := t.Clone()
		if err := clone.SetIndices(p); err != nil {
			return tensorResult{err: err}
		}
		if anti {
			perm, err := PermutationBetween(original, p)
			if err != nil {
				return tensorResult{err: err}
			}
			if perm.Sign() < 0 {
				clone = clone.Neg()
			}
		}
		return tensorResult{base: clone.Canonicalize()}
	}, taskpool.WithWorkers(o.workers))

	tensors := make([]Tensor, len(stack))
	for i, r := range stack {
		if r.err != nil {
			return Tensor{}, r.err
		}
		tensors[i] = r.base
	}

	terms, err := reduceStack(tensors)
	if err != nil {
		return Tensor{}, err
	}

	result := Zero()
	for _, term := range terms {
		result, err = result.Add(term.base.Scale(term.scale))
		if err != nil {
			return Tensor{}, err
		}
	}

	if !result.IsZeroTensor() {
		result = result.Scale(scalar.New(1, int64(len(perms))))
	}

	return result, nil
}

// symmetrizeSum transforms each summand in parallel, then attempts a
// collection pass: when every summand came back with the same prefactor
// (same up to sign, for antisymmetrisation) the summand stacks flatten
// into one reduction; otherwise the prefactor·term pairs are summed as
// they are.
func symmetrizeSum(n *addedNode, subset Indices, anti bool, o Options) (Tensor, error) {
	summands := make([]Tensor, len(n.summands))
	for i, s := range n.summands {
		summands[i] = Tensor{n: s.clone()}
	}

	results := taskpool.Map(summands, func(s Tensor) tensorResult {
		transformed, err := s.symmetrize(subset, anti, o)
		if err != nil {
			return tensorResult{err: err}
		}
		sc, base := transformed.SeparateScaleFactor()
		return tensorResult{scale: sc, base: base}
	}, taskpool.WithWorkers(o.workers))

	for _, r := range results {
		if r.err != nil {
			return Tensor{}, r.err
		}
	}

	return collectTransformed(results, anti)
}

// collectTransformed reduces per-summand (prefactor, term) pairs, shared
// by the symmetrisation routines and exchange symmetrisation. signTolerant
// treats -prefactor as matching, with the flipped summand stacks negated.
func collectTransformed(results []tensorResult, signTolerant bool) (Tensor, error) {
	overall := results[0].scale
	hasSame := true
	for _, r := range results {
		if scalesMatch(overall, r.scale, signTolerant) {
			continue
		}
		hasSame = false
		break
	}

	if !hasSame {
		result := Zero()
		for _, r := range results {
			sum, err := result.Add(r.base.Scale(r.scale))
			if err != nil {
				return Tensor{}, err
			}
			result = sum
		}
		return result, nil
	}

	// Same prefactor everywhere: flatten the summand stacks into one
	// reduction, negating flipped stacks in the sign-tolerant mode.
	var stack []Tensor
	for _, r := range results {
		flipped := signTolerant && !overall.Equal(r.scale)
		for _, s := range r.base.Summands() {
			if flipped {
				s = s.Neg()
			}
			stack = append(stack, s)
		}
	}

	terms, err := reduceStack(stack)
	if err != nil {
		return Tensor{}, err
	}

	// A second chance to factor: when every collected term carries the
	// same coefficient (up to sign where tolerated), pull it out front.
	allSame := true
	var last scalar.Scalar
	for i, term := range terms {
		if i == 0 {
			last = term.scale
			continue
		}
		if !scalesMatch(last, term.scale, signTolerant) {
			allSame = false
			break
		}
	}

	result := Zero()
	for _, term := range terms {
		summand := term.base
		if allSame {
			if signTolerant && !last.Equal(term.scale) {
				summand = summand.Neg()
			}
		} else {
			summand = summand.Scale(term.scale)
		}
		sum, err := result.Add(summand)
		if err != nil {
			return Tensor{}, err
		}
		result = sum
	}
	if allSame && len(terms) > 0 {
		result = result.Scale(last)
	}

	return result.Scale(overall), nil
}

func scalesMatch(a, b scalar.Scalar, signTolerant bool) bool {
	if a.Equal(b) {
		return true
	}
	return signTolerant && a.Neg().Equal(b)
}

// reduceStack pops the first term, sums in every later term whose
// canonical form (variant tag and index sequence) matches, and drops
// collected terms whose coefficient vanished.
func reduceStack(stack []Tensor) ([]scaledTerm, error) {
	var out []scaledTerm

	for len(stack) > 0 {
		scale, current := stack[0].SeparateScaleFactor()
		stack = stack[1:]

		for i := 0; i < len(stack); i++ {
			sc, base := stack[i].SeparateScaleFactor()
			if base.Kind() == current.Kind() && indicesEqual(base.Indices(), current.Indices()) {
				scale = scale.Add(sc)
				stack = append(stack[:i], stack[i+1:]...)
				i--
			}
		}

		if scale.IsNumeric() {
			f, err := scale.Float64()
			if err != nil {
				return nil, err
			}
			if f == 0 {
				continue
			}
		}
		out = append(out, scaledTerm{scale: scale, base: current})
	}

	return out, nil
}

// indicesEqual compares index sequences exactly, order included.
func indicesEqual(a, b Indices) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// enumerateSubsetPermutations lists every arrangement of the full index
// sequence that permutes only the positions of the subset; positions
// outside the subset stay fixed. The subset indices must occur in the full
// sequence. Complexity: O(|subset|!) results.
func enumerateSubsetPermutations(all Indices, subset Indices) ([]Indices, error) {
	positions := make([]int, 0, len(subset))
	member := make(map[int]bool, len(subset))
	for _, s := range subset {
		pos := all.IndexOf(s)
		if pos < 0 {
			return nil, fmt.Errorf("symmetrize: index %s not among tensor indices: %w",
				s.Name, ErrNotPermutation)
		}
		positions = append(positions, pos)
		member[pos] = true
	}

	var out []Indices

	var rec func(i int, used Indices, unused Indices)
	rec = func(i int, used Indices, unused Indices) {
		if len(unused) == 0 {
			out = append(out, used.Clone())
			return
		}

		if !member[i] {
			// Fixed position: keep the original index here.
			next := used.Clone()
			next = append(next, all[i])
			rec(i+1, next, removeIndex(unused, all[i]))
			return
		}

		// Permuted position: try every subset index still unused.
		for _, pos := range positions {
			candidate := all[pos]
			if !unused.Contains(candidate) {
				continue
			}
			next := used.Clone()
			next = append(next, candidate)
			rec(i+1, next, removeIndex(unused, candidate))
		}
	}
	rec(0, Indices{}, all.Clone())

	return out, nil
}

// removeIndex drops the first equal index from a copy of the sequence.
func removeIndex(idx Indices, x Index) Indices {
	out := make(Indices, 0, len(idx))
	removed := false
	for _, i := range idx {
		if !removed && i.Equal(x) {
			removed = true
			continue
		}
		out = append(out, i)
	}
	return out
}

// ExchangeSymmetrize symmetrises the tensor under the exchange taking the
// from-sequence into the to-sequence; both must be permutations of the
// tensor's declared indices. The result is ½·(T + C(T|to)), collapsed
// into a single term when both canonical forms coincide modulo scale.
func (t Tensor) ExchangeSymmetrize(from, to Indices, opts ...Option) (Tensor, error) {
	o := gatherOptions(opts...)

	declared := t.Indices()
	if len(from) != len(to) || !from.IsPermutationOf(declared) || !to.IsPermutationOf(declared) {
		return Tensor{}, fmt.Errorf("ExchangeSymmetrize: %w", ErrNotPermutation)
	}

	return t.exchangeSymmetrize(from, to, o)
}

func (t Tensor) exchangeSymmetrize(from, to Indices, o Options) (Tensor, error) {
	switch n := t.inner().(type) {
	case *addedNode:
		mapping := make(map[string]Index, len(from))
		for i := range from {
			mapping[from[i].Name] = to[i]
		}

		summands := make([]Tensor, len(n.summands))
		for i, s := range n.summands {
			summands[i] = Tensor{n: s.clone()}
		}

		results := taskpool.Map(summands, func(s Tensor) tensorResult {
			own := s.Indices()
			transformed, err := s.exchangeSymmetrize(own, own.Shuffle(mapping), o)
			if err != nil {
				return tensorResult{err: err}
			}
			sc, base := transformed.SeparateScaleFactor()
			return tensorResult{scale: sc, base: base}
		}, taskpool.WithWorkers(o.workers))

		for _, r := range results {
			if r.err != nil {
				return Tensor{}, r.err
			}
		}

		return collectTransformed(results, true)

	case *scaledNode:
		sc, base := t.SeparateScaleFactor()
		result, err := base.exchangeSymmetrize(from, to, o)
		if err != nil {
			return Tensor{}, err
		}
		return result.Scale(sc), nil

	case *zeroNode:
		return t.Clone(), nil

	default:
		return exchangeTerm(t, from, to)
	}
}

// exchangeTerm handles a single non-compound term.
func exchangeTerm(t Tensor, from, to Indices) (Tensor, error) {
	mapping := make(map[string]Index, len(from))
	for i := range from {
		mapping[from[i].Name] = to[i]
	}

	exchanged := t.Clone()
	if err := exchanged.SetIndices(t.Indices().Shuffle(mapping)); err != nil {
		return Tensor{}, err
	}
	exchanged = exchanged.Canonicalize()

	canonical := t.Canonicalize()
	s1, b1 := canonical.SeparateScaleFactor()
	s2, b2 := exchanged.SeparateScaleFactor()

	half := scalar.New(1, 2)

	if b1.Kind() == b2.Kind() && indicesEqual(b1.Indices(), b2.Indices()) {
		return b1.Scale(half.Mul(s1.Add(s2))), nil
	}

	sum, err := t.Add(exchanged)
	if err != nil {
		return Tensor{}, err
	}
	return sum.Scale(half), nil
}
