// SPDX-License-Identifier: MIT

// Package tensor: symbolic variable handling over tensorial sums.
// Scales carry the variables; these routines detach each summand's scale,
// decompose it linearly, and regroup the expression by variable. Products
// of variables are rejected — the engine only drives linear systems.

package tensor

import (
	"fmt"

	"github.com/jonasschneidercgg/construct/matrix"
	"github.com/jonasschneidercgg/construct/scalar"
)

// VariableTerm pairs a variable with its collected tensorial coefficient.
type VariableTerm struct {
	Variable scalar.Scalar
	Tensor   Tensor
}

// ExtractVariables walks the summands and collects, for every variable in
// a scale, the tensors it multiplies:
//
//	x·T1 + 2x·T2 + y·T3 + T4  ⇒  [(x, T1 + 2·T2), (y, T3)]
//
// Purely numeric summands are accumulated into inhomogeneous when non-nil
// and dropped otherwise. Quadratic variable products are rejected with an
// error matching scalar.ErrQuadraticVariables.
func (t Tensor) ExtractVariables(inhomogeneous *Tensor) ([]VariableTerm, error) {
	var terms []VariableTerm

	for _, summand := range t.Summands() {
		sc, base := summand.SeparateScaleFactor()

		pairs, rest, err := sc.SeparateVariablesFromRest()
		if err != nil {
			return nil, fmt.Errorf("ExtractVariables: %w", err)
		}

		for _, pair := range pairs {
			contribution := base.Scale(pair.Coefficient)
			if err := appendVariableTerm(&terms, pair.Variable, contribution); err != nil {
				return nil, err
			}
		}

		if inhomogeneous != nil && !rest.IsZero() {
			sum, err := inhomogeneous.Add(base.Scale(rest))
			if err != nil {
				return nil, fmt.Errorf("ExtractVariables: %w", err)
			}
			*inhomogeneous = sum
		}
	}

	return terms, nil
}

func appendVariableTerm(terms *[]VariableTerm, variable scalar.Scalar, contribution Tensor) error {
	for i := range *terms {
		if (*terms)[i].Variable.Equal(variable) {
			sum, err := (*terms)[i].Tensor.Add(contribution)
			if err != nil {
				return fmt.Errorf("ExtractVariables: %w", err)
			}
			(*terms)[i].Tensor = sum
			return nil
		}
	}
	*terms = append(*terms, VariableTerm{Variable: variable, Tensor: contribution})
	return nil
}

// CollectByVariables expands the expression and regroups it as
// Σ variable_i · (collected tensors) plus the variable-free rest.
func (t Tensor) CollectByVariables() (Tensor, error) {
	expanded, err := t.Expand()
	if err != nil {
		return Tensor{}, err
	}

	rest := Zero()
	terms, err := expanded.ExtractVariables(&rest)
	if err != nil {
		return Tensor{}, err
	}

	result := Zero()
	for _, term := range terms {
		result, err = result.Add(term.Tensor.Scale(term.Variable))
		if err != nil {
			return Tensor{}, err
		}
	}

	return result.Add(rest)
}

// SubstituteVariable replaces one variable by a scalar expression in every
// summand's scale.
func (t Tensor) SubstituteVariable(variable, replacement scalar.Scalar) (Tensor, error) {
	result := Zero()
	for _, summand := range t.Summands() {
		sc, base := summand.SeparateScaleFactor()
		sum, err := result.Add(base.Scale(sc.Substitute(variable, replacement)))
		if err != nil {
			return Tensor{}, err
		}
		result = sum
	}
	return result, nil
}

// VariableSubstitution names one replacement for SubstituteVariables.
type VariableSubstitution struct {
	Variable    scalar.Scalar
	Replacement scalar.Scalar
}

// SubstituteVariables applies the substitutions in order and collects the
// result by its remaining variables.
func (t Tensor) SubstituteVariables(subs []VariableSubstitution) (Tensor, error) {
	result := t.Clone()
	for _, sub := range subs {
		next, err := result.SubstituteVariable(sub.Variable, sub.Replacement)
		if err != nil {
			return Tensor{}, err
		}
		result = next
	}
	return result.CollectByVariables()
}

// RedefineVariables replaces the free variable in front of each
// variable-carrying summand with a fresh member of the named family,
// numbering from offset+1. Summands without variables pass through.
func (t Tensor) RedefineVariables(name string, offset int) (Tensor, error) {
	result := Zero()
	count := offset + 1

	for _, summand := range t.Summands() {
		replaced, next, err := redefineSummand(summand, name, count)
		if err != nil {
			return Tensor{}, err
		}
		count = next

		sum, err := result.Add(replaced)
		if err != nil {
			return Tensor{}, err
		}
		result = sum
	}

	return result, nil
}

func redefineSummand(summand Tensor, name string, count int) (Tensor, int, error) {
	switch n := summand.inner().(type) {
	case *scaledNode:
		if !n.scale.HasVariables() {
			return summand.Clone(), count, nil
		}
		fresh := scalar.Var(name, count)
		return (Tensor{n: n.child.clone()}).Scale(fresh), count + 1, nil

	case *multipliedNode:
		scA, baseA := (Tensor{n: n.a.clone()}).SeparateScaleFactor()
		scB, baseB := (Tensor{n: n.b.clone()}).SeparateScaleFactor()
		product, err := baseA.Mul(baseB)
		if err != nil {
			return Tensor{}, count, err
		}
		if scA.HasVariables() || scB.HasVariables() {
			return product.Scale(scalar.Var(name, count)), count + 1, nil
		}
		return product.Scale(scA.Mul(scB)), count, nil

	default:
		return summand.Clone(), count, nil
	}
}

// ToHomogeneousLinearSystem materialises the variable extraction as a
// dense real matrix M with M[j][i] = tensor_i(combination_j) for variable
// v_i and index combination j, returned with the ordered variable list.
func (t Tensor) ToHomogeneousLinearSystem(opts ...Option) (*matrix.Dense, []scalar.Scalar, error) {
	terms, err := t.ExtractVariables(nil)
	if err != nil {
		return nil, nil, err
	}
	indices := t.Indices()
	combinations := indices.AllCombinations()

	m, err := matrix.NewDense(len(combinations), len(terms))
	if err != nil {
		return nil, nil, fmt.Errorf("ToHomogeneousLinearSystem: %w", err)
	}

	variables := make([]scalar.Scalar, len(terms))
	for i, term := range terms {
		variables[i] = term.Variable

		for j, combo := range combinations {
			assignment := make(IndexAssignments, len(indices))
			for k, x := range indices {
				assignment[x.Name] = combo[k]
			}

			value, err := term.Tensor.EvaluateWith(assignment)
			if err != nil {
				return nil, nil, fmt.Errorf("ToHomogeneousLinearSystem: %w", err)
			}
			f, err := value.Float64()
			if err != nil {
				return nil, nil, fmt.Errorf("ToHomogeneousLinearSystem: %w", err)
			}
			if f != 0 {
				if err := m.Set(j, i, f); err != nil {
					return nil, nil, fmt.Errorf("ToHomogeneousLinearSystem: %w", err)
				}
			}
		}
	}

	return m, variables, nil
}
