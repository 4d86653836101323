// Package construct is a symbolic engine for covariant tensor expressions
// over finite index ranges.
//
// 🚀 What is construct?
//
//	A pure-Go library for building, evaluating and simplifying tensorial
//	expressions:
//		• Atoms: Kronecker delta, Levi-Civita epsilon, flat metrics and the
//		  fused epsilon-gamma product
//		• Algebra: sums, products with index contraction, scalar scaling
//		  and index substitution — all preserving the index contract
//		• Evaluation: exact pointwise components through a name-keyed
//		  assignment protocol, with symbolic variables flowing through
//		• Simplify: factorisation over linearly independent component
//		  vectors via dense row reduction
//		• Symmetrisation: Symmetrize, AntiSymmetrize, ExchangeSymmetrize
//		  with parallel permutation fan-out
//		• A portable tagged binary codec for every expression variant
//
// Everything is organized under four subpackages:
//
//	scalar/   — exact rationals, symbolic variables, sums & products
//	tensor/   — indices, atoms, algebra, evaluator and the transforms
//	matrix/   — dense float64 matrices with in-place row-echelon reduction
//	taskpool/ — fork-join pool and order-preserving parallel map
package construct
