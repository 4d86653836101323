// Package scalar implements the exact-rational and symbolic scalar
// sub-language of the tensor engine.
//
// The scalar package provides:
//
//   - Fraction: an exact rational with signed numerator and positive
//     denominator, reduced after every operation.
//   - Variable: a symbolic scalar identified by a (name, integer-suffix)
//     pair, used to carry free coefficients through tensorial equations.
//   - Sums and binary products of scalars with structural equality.
//   - SeparateVariablesFromRest, the decomposition consumed by the tensor
//     package when extracting linear systems from tensorial expressions.
//
// Scalars are immutable values; all arithmetic returns fresh results.
// Numeric results stay rational as long as both operands are rational;
// anything involving a Variable stays symbolic until substitution.
package scalar
