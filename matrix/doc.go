// Package matrix provides the dense linear-algebra kernel consumed by the
// tensor engine.
//
// The matrix package provides:
//
//   - Dense, a row-major float64 matrix with O(1) element access.
//   - ToRowEchelonForm, an in-place reduction to reduced row-echelon form
//     with partial pivoting and a configurable pivot tolerance.
//
// The engine builds component matrices from tensor evaluations and reads
// the reduced rows back as factorisation coefficients; nothing here knows
// about tensors.
package matrix
