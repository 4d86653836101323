// SPDX-License-Identifier: MIT

// Package tensor: functional configuration for the numeric policy and the
// parallel regions. Defaults are documented constants (single source of
// truth); WithX constructors validate strictly and panic on nonsensical
// values (programmer error).

package tensor

import "math"

// Numeric and concurrency policy defaults.
const (
	// DefaultEpsilon is the tolerance used when comparing row-echelon
	// entries against 0 and 1 and when reconstructing rational
	// coefficients from floating-point residuals.
	DefaultEpsilon = 1e-9

	// DefaultWorkers is the fan-out of the fork-join regions in Simplify
	// and the symmetrisation routines.
	DefaultWorkers = 8
)

// Internal panic messages (no magic strings).
const (
	panicEpsilonInvalid = "tensor: WithEpsilon: eps must be finite, non-negative"
	panicWorkersInvalid = "tensor: WithWorkers: n must be > 0"
)

// Option mutates internal options. Safe to apply repeatedly.
type Option func(*Options)

// Options stores the effective configuration after applying Option
// setters. Public entry points accept ...Option and resolve them via
// gatherOptions.
type Options struct {
	eps     float64
	workers int
}

// WithEpsilon sets the numeric tolerance used by Simplify.
// ToHomogeneousLinearSystem accepts options but does not read them.
// Panics on NaN, infinite or negative eps.
func WithEpsilon(eps float64) Option {
	if math.IsNaN(eps) || math.IsInf(eps, 0) || eps < 0 {
		panic(panicEpsilonInvalid)
	}

	return func(o *Options) { o.eps = eps }
}

// WithWorkers sets the worker count of the parallel regions. Panics on
// non-positive n.
func WithWorkers(n int) Option {
	if n <= 0 {
		panic(panicWorkersInvalid)
	}

	return func(o *Options) { o.workers = n }
}

// gatherOptions applies setters on top of the documented defaults
// (last-writer-wins).
func gatherOptions(opts ...Option) Options {
	o := Options{eps: DefaultEpsilon, workers: DefaultWorkers}
	for _, set := range opts {
		set(&o)
	}

	return o
}
