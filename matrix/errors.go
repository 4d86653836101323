// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// All public operations return these sentinels, wrapped with context via
// fmt.Errorf("Op: %w", ErrX) where useful; callers match with errors.Is.
// Panics are reserved for programmer errors.

package matrix

import "errors"

var (
	// ErrBadShape is returned when requested dimensions are non-positive.
	ErrBadShape = errors.New("matrix: dimensions must be > 0")

	// ErrOutOfRange indicates that a row or column index is outside valid
	// bounds. Public indexers (At/Set) return this, they do not panic.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrBadTolerance indicates a negative or non-finite pivot tolerance.
	ErrBadTolerance = errors.New("matrix: invalid pivot tolerance")
)
