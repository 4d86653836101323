// Package tensor implements a symbolic engine for covariant tensor
// expressions over finite index ranges.
//
// The tensor package provides:
//
//   - Typed finite-range symbolic indices, permutations and their signs.
//   - Primitive atoms: Kronecker delta, Levi-Civita epsilon, flat metric
//     gamma, a fused epsilon-gamma product, scalar constants and zero.
//   - Algebraic composition (addition, multiplication, scalar scaling,
//     index substitution) preserving the tensor-index contract.
//   - Pointwise component evaluation over the Cartesian product of index
//     ranges, including summation over contracted indices in products.
//   - Canonicalisation of index orderings under permutation signs.
//   - Simplify: factorisation of additive expressions over their linearly
//     independent component vectors via row reduction.
//   - Symmetrize, AntiSymmetrize and ExchangeSymmetrize with parallel
//     enumeration of index permutations and collection of like terms.
//   - A tagged binary codec for every expression variant.
//
// Expressions form a tree of uniquely owned nodes; Clone deep-copies, and
// transforms return fresh trees. Evaluation yields scalar.Scalar values,
// so symbolic variables flow through components unharmed.
package tensor
