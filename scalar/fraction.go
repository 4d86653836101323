// SPDX-License-Identifier: MIT
// Package scalar: exact rational numbers.
// Fraction is the numeric leaf of the scalar variant. The denominator is
// kept strictly positive and the pair reduced after every operation, so a
// Fraction is always in canonical form.

package scalar

import (
	"fmt"
	"math"
)

// Fraction is an exact rational with signed numerator and positive
// denominator.
type Fraction struct {
	num int64
	den int64 // > 0
}

// gcd64 returns the greatest common divisor of |a| and |b|.
// Complexity: O(log min(a,b)).
func gcd64(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for a > 0 {
		a, b = b%a, a
	}
	return b
}

// newFraction builds the reduced, positive-denominator canonical form.
func newFraction(num, den int64) Fraction {
	if den == 0 {
		panic(panicZeroDenominator)
	}
	if den < 0 {
		num, den = -num, -den
	}
	if g := gcd64(num, den); g > 1 {
		num /= g
		den /= g
	}
	return Fraction{num: num, den: den}
}

// Num returns the (reduced) numerator.
func (f Fraction) Num() int64 { return f.num }

// Den returns the (reduced, positive) denominator.
func (f Fraction) Den() int64 { return f.den }

// Add returns f + o.
func (f Fraction) Add(o Fraction) Fraction {
	return newFraction(f.num*o.den+o.num*f.den, f.den*o.den)
}

// Sub returns f - o.
func (f Fraction) Sub(o Fraction) Fraction {
	return newFraction(f.num*o.den-o.num*f.den, f.den*o.den)
}

// Mul returns f * o.
func (f Fraction) Mul(o Fraction) Fraction {
	return newFraction(f.num*o.num, f.den*o.den)
}

// Div returns f / o. Division by zero panics (programmer error).
func (f Fraction) Div(o Fraction) Fraction {
	return newFraction(f.num*o.den, f.den*o.num)
}

// Neg returns -f.
func (f Fraction) Neg() Fraction { return Fraction{num: -f.num, den: f.den} }

// Equal compares by cross-multiplication, so unreduced inputs from other
// sources still compare correctly.
func (f Fraction) Equal(o Fraction) bool {
	return f.num*o.den == o.num*f.den
}

// Less orders fractions by cross-multiplication.
func (f Fraction) Less(o Fraction) bool {
	return f.num*o.den < o.num*f.den
}

// IsZero reports whether the fraction equals zero.
func (f Fraction) IsZero() bool { return f.num == 0 }

// Float64 returns the rational as a float64.
func (f Fraction) Float64() float64 {
	return float64(f.num) / float64(f.den)
}

// String renders "n" for integers and "n/d" otherwise.
func (f Fraction) String() string {
	if f.num == 0 {
		return "0"
	}
	if f.den == 1 {
		return fmt.Sprintf("%d", f.num)
	}
	return fmt.Sprintf("%d/%d", f.num, f.den)
}

// fractionFromFloat reconstructs a rational from a float by a bounded
// continued-fraction expansion. Used when collecting row-echelon residuals
// back into exact coefficients; entries produced from small integer
// component matrices have modest denominators, so the bound is generous.
func fractionFromFloat(v float64, eps float64) Fraction {
	const maxDen = 1 << 20

	if math.Abs(v-math.Round(v)) <= eps {
		return Fraction{num: int64(math.Round(v)), den: 1}
	}

	sign := int64(1)
	if v < 0 {
		sign = -1
		v = -v
	}

	// Continued fraction convergents h/k.
	var (
		h0, k0 = int64(0), int64(1)
		h1, k1 = int64(1), int64(0)
		x      = v
	)
	for i := 0; i < 64; i++ {
		a := int64(math.Floor(x))
		h0, h1 = h1, a*h1+h0
		k0, k1 = k1, a*k1+k0
		if k1 > maxDen {
			break
		}
		if math.Abs(float64(h1)/float64(k1)-v) <= eps {
			return newFraction(sign*h1, k1)
		}
		frac := x - float64(a)
		if frac == 0 {
			break
		}
		x = 1 / frac
	}

	return newFraction(sign*h1, k1)
}
