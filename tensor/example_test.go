package tensor_test

import (
	"fmt"

	"github.com/jonasschneidercgg/construct/scalar"
	"github.com/jonasschneidercgg/construct/tensor"
)

// spatialPair builds two covariant indices over the spatial slice {1..3}.
func spatialPair(a, b string) tensor.Indices {
	r := tensor.NewIndexRange(1, 3)
	return tensor.Indices{tensor.NewIndex(a, r), tensor.NewIndex(b, r)}
}

// ExampleTensor_Simplify factorises a symmetric metric sum.
func ExampleTensor_Simplify() {
	sum, _ := tensor.Gamma(spatialPair("a", "b")).Add(tensor.Gamma(spatialPair("b", "a")))

	simplified, _ := sum.Simplify()
	fmt.Println(simplified)
	// Output: 2 * \gamma_a_b
}

// ExampleTensor_At evaluates Levi-Civita components.
func ExampleTensor_At() {
	r := tensor.NewIndexRange(1, 3)
	e := tensor.Epsilon(tensor.Indices{
		tensor.NewIndex("a", r), tensor.NewIndex("b", r), tensor.NewIndex("c", r),
	})

	even, _ := e.At(1, 2, 3)
	odd, _ := e.At(2, 1, 3)
	degenerate, _ := e.At(1, 1, 3)
	fmt.Println(even, odd, degenerate)
	// Output: 1 -1 0
}

// ExampleTensor_Symmetrize shows that symmetrising the antisymmetric
// symbol annihilates it.
func ExampleTensor_Symmetrize() {
	r := tensor.NewIndexRange(1, 3)
	indices := tensor.Indices{
		tensor.NewIndex("a", r), tensor.NewIndex("b", r), tensor.NewIndex("c", r),
	}

	sym, _ := tensor.Epsilon(indices).Symmetrize(indices)
	fmt.Println(sym)
	// Output: 0
}

// ExampleTensor_Scale attaches a symbolic coefficient.
func ExampleTensor_Scale() {
	g := tensor.Gamma(spatialPair("a", "b")).Scale(scalar.Var("x", 1))
	fmt.Println(g)
	// Output: x_1 * \gamma_a_b
}
