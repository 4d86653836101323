// SPDX-License-Identifier: MIT
// Package scalar: sentinel error set.
// All public operations return these sentinels (possibly wrapped with
// fmt.Errorf("...: %w", ErrX)); tests and callers match via errors.Is.
// Panics are reserved for programmer errors in constructors.

package scalar

import "errors"

var (
	// ErrNotNumeric is returned by Float64 when the scalar still contains
	// symbolic variables and therefore has no numeric value.
	ErrNotNumeric = errors.New("scalar: not numeric")

	// ErrQuadraticVariables is returned by SeparateVariablesFromRest when a
	// product of two variable-carrying factors is encountered. The engine
	// only supports expressions linear in the variables.
	ErrQuadraticVariables = errors.New("scalar: product of variables is not linear")

	// ErrWrongFormat indicates that a byte stream does not match the scalar
	// codec schema.
	ErrWrongFormat = errors.New("scalar: wrong format")
)

// panic messages for programmer errors (stable, no magic strings).
const (
	panicZeroDenominator = "scalar: New: denominator must be non-zero"
)
