// SPDX-License-Identifier: MIT

// Package tensor: typed finite-range symbolic indices.
// Index equality deliberately ignores contravariance: two indices are the
// same slot name over the same range regardless of their position. Ordering
// is lexicographic by name, which is what canonicalisation sorts by.

package tensor

import (
	"fmt"
	"sort"
	"strings"
)

// IndexRange is an inclusive pair (From, To) of non-negative integers.
type IndexRange struct {
	From int
	To   int
}

// NewIndexRange validates and builds an inclusive range.
// Panics on a malformed pair (programmer error).
func NewIndexRange(from, to int) IndexRange {
	if from < 0 || to < from {
		panic(panicBadRange)
	}

	return IndexRange{From: from, To: to}
}

// Size returns the number of values in the range.
func (r IndexRange) Size() int { return r.To - r.From + 1 }

// Contains reports whether v lies inside the range.
func (r IndexRange) Contains(v int) bool { return v >= r.From && v <= r.To }

// Index is a named symbolic index over a finite range. Contravariant marks
// an upper index; only the Kronecker delta carries one in this engine.
type Index struct {
	Name          string
	Range         IndexRange
	Contravariant bool
}

// NewIndex builds a covariant index.
func NewIndex(name string, r IndexRange) Index {
	return Index{Name: name, Range: r}
}

// Equal reports name and range equality; variance does not participate.
func (i Index) Equal(o Index) bool {
	return i.Name == o.Name && i.Range == o.Range
}

// Less orders indices lexicographically by name.
func (i Index) Less(o Index) bool { return i.Name < o.Name }

// String renders "_name" for covariant and "^name" for contravariant
// indices.
func (i Index) String() string {
	if i.Contravariant {
		return "^" + i.Name
	}
	return "_" + i.Name
}

// Indices is an ordered sequence of indices. Within a single atom the free
// index names are unique; products may carry repeated names, which denote
// contractions.
type Indices []Index

// Clone returns an independent copy of the sequence.
func (idx Indices) Clone() Indices {
	out := make(Indices, len(idx))
	copy(out, idx)
	return out
}

// Ordered returns a stable name-sorted copy of the sequence.
func (idx Indices) Ordered() Indices {
	out := idx.Clone()
	sort.SliceStable(out, func(a, b int) bool { return out[a].Less(out[b]) })
	return out
}

// Contains reports whether an equal index occurs in the sequence.
func (idx Indices) Contains(i Index) bool {
	for _, x := range idx {
		if x.Equal(i) {
			return true
		}
	}
	return false
}

// ContainsName reports whether an index with the given name occurs.
func (idx Indices) ContainsName(name string) bool {
	for _, x := range idx {
		if x.Name == name {
			return true
		}
	}
	return false
}

// IndexOf returns the position of the first equal index, or -1.
func (idx Indices) IndexOf(i Index) int {
	for pos, x := range idx {
		if x.Equal(i) {
			return pos
		}
	}
	return -1
}

// Contract concatenates both sequences and drops every name that appears
// more than once in the concatenation, preserving left-to-right order
// (left's uniques first). The result is the free index sequence of a
// product; dropped names are the contracted ones. It fails with
// ErrCannotContract when a repeated name spans two different ranges.
func (idx Indices) Contract(other Indices) (Indices, error) {
	concat := make(Indices, 0, len(idx)+len(other))
	concat = append(concat, idx...)
	concat = append(concat, other...)

	count := make(map[string]int, len(concat))
	ranges := make(map[string]IndexRange, len(concat))
	for _, x := range concat {
		count[x.Name]++
		if r, ok := ranges[x.Name]; ok && r != x.Range {
			return nil, fmt.Errorf("Contract: index %s: %w", x.Name, ErrCannotContract)
		}
		ranges[x.Name] = x.Range
	}

	out := make(Indices, 0, len(concat))
	for _, x := range concat {
		if count[x.Name] == 1 {
			out = append(out, x)
		}
	}

	return out, nil
}

// Shuffle substitutes indices by the name-keyed mapping; indices without a
// mapping entry are kept.
func (idx Indices) Shuffle(m map[string]Index) Indices {
	out := make(Indices, len(idx))
	for i, x := range idx {
		if repl, ok := m[x.Name]; ok {
			out[i] = repl
		} else {
			out[i] = x
		}
	}
	return out
}

// Partial slices the inclusive position range [from, to].
func (idx Indices) Partial(from, to int) Indices {
	return idx[from : to+1].Clone()
}

// IsPermutationOf reports whether both sequences contain the same indices,
// order aside.
func (idx Indices) IsPermutationOf(other Indices) bool {
	if len(idx) != len(other) {
		return false
	}
	used := make([]bool, len(other))
outer:
	for _, a := range idx {
		for j, b := range other {
			if !used[j] && a.Equal(b) {
				used[j] = true
				continue outer
			}
		}
		return false
	}
	return true
}

// ContainsContractions reports whether any name occurs more than once.
func (idx Indices) ContainsContractions() bool {
	seen := make(map[string]struct{}, len(idx))
	for _, x := range idx {
		if _, ok := seen[x.Name]; ok {
			return true
		}
		seen[x.Name] = struct{}{}
	}
	return false
}

// AllCombinations enumerates the Cartesian product of the index ranges,
// fixing values left to right. For an empty sequence it yields a single
// empty combination (the rank-0 evaluation).
// Complexity: O(Π range sizes) combinations.
func (idx Indices) AllCombinations() [][]int {
	if len(idx) == 0 {
		return [][]int{{}}
	}

	total := 1
	for _, x := range idx {
		total *= x.Range.Size()
	}

	out := make([][]int, 0, total)
	current := make([]int, len(idx))

	var rec func(pos int)
	rec = func(pos int) {
		if pos == len(idx) {
			combo := make([]int, len(current))
			copy(combo, current)
			out = append(out, combo)
			return
		}
		for v := idx[pos].Range.From; v <= idx[pos].Range.To; v++ {
			current[pos] = v
			rec(pos + 1)
		}
	}
	rec(0)

	return out
}

// String renders the sequence as its concatenated indices.
func (idx Indices) String() string {
	var sb strings.Builder
	for _, x := range idx {
		sb.WriteString(x.String())
	}
	return sb.String()
}

// romanAlphabet supplies single-letter Roman index names.
const romanAlphabet = "abcdefghijklmnopqrstuvwxyz"

// greekAlphabet supplies Greek index names in alphabet order.
var greekAlphabet = []string{
	"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "eta", "theta",
	"iota", "kappa", "lambda", "mu", "nu", "xi", "omicron", "pi", "rho",
	"sigma", "tau", "upsilon", "phi", "chi", "psi", "omega",
}

// RomanSeries builds n covariant indices a, b, c, ... over the given
// range, starting offset letters into the alphabet.
func RomanSeries(n int, r IndexRange, offset int) Indices {
	out := make(Indices, 0, n)
	for i := 0; i < n; i++ {
		name := string(romanAlphabet[(offset+i)%len(romanAlphabet)])
		out = append(out, NewIndex(name, r))
	}
	return out
}

// GreekSeries builds n covariant indices mu, nu, ... over the given range,
// starting offset letters into the Greek alphabet at mu.
func GreekSeries(n int, r IndexRange, offset int) Indices {
	const muPosition = 11
	out := make(Indices, 0, n)
	for i := 0; i < n; i++ {
		name := greekAlphabet[(muPosition+offset+i)%len(greekAlphabet)]
		out = append(out, NewIndex(name, r))
	}
	return out
}

// IndexAssignments maps index names to values. Applying an assignment to
// an index sequence yields the positional argument vector Evaluate
// expects, which is what makes sums over differently ordered summands
// well-defined.
type IndexAssignments map[string]int

// Apply resolves the assignment against the given index order. A missing
// name yields ErrIncompleteAssignment.
func (a IndexAssignments) Apply(idx Indices) ([]int, error) {
	out := make([]int, len(idx))
	for i, x := range idx {
		v, ok := a[x.Name]
		if !ok {
			return nil, fmt.Errorf("Apply: missing index %q: %w", x.Name, ErrIncompleteAssignment)
		}
		out[i] = v
	}
	return out, nil
}

// assignmentFor zips an index order with a positional argument vector.
func assignmentFor(idx Indices, args []int) (IndexAssignments, error) {
	if len(args) != len(idx) {
		return nil, fmt.Errorf("Evaluate: got %d args for %d indices: %w",
			len(args), len(idx), ErrIncompleteAssignment)
	}
	a := make(IndexAssignments, len(idx))
	for i, x := range idx {
		a[x.Name] = args[i]
	}
	return a, nil
}
