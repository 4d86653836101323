// SPDX-License-Identifier: MIT
// Package tensor: sentinel error set (unified, consistent).
// This file defines ONLY package-level sentinel errors used across the
// tensor package. All operations return these sentinels and tests check
// them via errors.Is. Panics are reserved for programmer errors (atom rank
// arithmetic violated by internal factories).

package tensor

import "errors"

var (
	// ErrCannotAdd is returned when summands have index sets that are not
	// permutations of each other.
	ErrCannotAdd = errors.New("tensor: cannot add tensors due to incompatible indices")

	// ErrCannotMultiply is returned when a product would violate the index
	// contract (an index name occurring more than twice).
	ErrCannotMultiply = errors.New("tensor: cannot multiply tensors due to incompatible indices")

	// ErrCannotContract is returned when a repeated index name spans two
	// different ranges, so the contraction sum is ill-defined.
	ErrCannotContract = errors.New("tensor: cannot contract tensors due to incompatible indices")

	// ErrIncompleteAssignment is returned when Evaluate receives the wrong
	// argument count or an IndexAssignments misses an index name.
	ErrIncompleteAssignment = errors.New("tensor: incomplete index assignment")

	// ErrNotPermutation is returned when target indices are not a
	// permutation of the source indices.
	ErrNotPermutation = errors.New("tensor: indices are not a permutation of each other")

	// ErrOutOfRange is returned by the bounds-checked evaluator when an
	// argument lies outside its index range.
	ErrOutOfRange = errors.New("tensor: index value out of range")

	// ErrWrongFormat indicates that a byte stream does not match the
	// expression codec schema.
	ErrWrongFormat = errors.New("tensor: wrong format")

	// ErrSimplify reports an unexpected row pattern in the reduced
	// component matrix. The original implementation silently returned zero
	// here; the failure is surfaced instead so callers can observe it.
	ErrSimplify = errors.New("tensor: unexpected row pattern in reduced component matrix")
)

// panic messages for programmer errors (stable, no magic strings).
const (
	panicDeltaRank        = "tensor: Delta: exactly two indices required"
	panicEpsilonRank      = "tensor: Epsilon: index count must equal the range size"
	panicEpsilonGammaRank = "tensor: EpsilonGamma: 3*numEpsilon + 2*numGamma must equal the index count"
	panicGammaRank        = "tensor: Gamma: exactly two indices required"
	panicBadRange         = "tensor: NewIndexRange: require 0 <= from <= to"
)
