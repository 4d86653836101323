// SPDX-License-Identifier: MIT

package taskpool

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the worker count used when no option overrides it,
// capped at GOMAXPROCS.
const DefaultWorkers = 8

// panic message for programmer errors (stable, no magic strings).
const panicWorkersInvalid = "taskpool: WithWorkers: n must be > 0"

// Option mutates pool configuration. Safe to apply repeatedly.
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
type Options struct {
	workers int
}

// WithWorkers sets the maximum number of concurrently running jobs.
// Panics on non-positive n (programmer error).
func WithWorkers(n int) Option {
	if n <= 0 {
		panic(panicWorkersInvalid)
	}

	return func(o *Options) { o.workers = n }
}

// gatherOptions resolves setters against the documented defaults.
func gatherOptions(opts ...Option) Options {
	o := Options{workers: DefaultWorkers}
	for _, set := range opts {
		set(&o)
	}
	if max := runtime.GOMAXPROCS(0); o.workers > max {
		o.workers = max
	}

	return o
}

// Pool is a fork-join region. Create one, enqueue jobs, call Wait exactly
// once, then discard it.
type Pool struct {
	g *errgroup.Group
}

// New creates a pool with the configured concurrency limit.
func New(opts ...Option) *Pool {
	o := gatherOptions(opts...)

	g := &errgroup.Group{}
	g.SetLimit(o.workers)

	return &Pool{g: g}
}

// Enqueue schedules a job. Jobs run to completion and must not panic.
func (p *Pool) Enqueue(job func()) {
	p.g.Go(func() error {
		job()
		return nil
	})
}

// Wait blocks until every enqueued job has finished.
func (p *Pool) Wait() {
	// Jobs never return errors; the join itself cannot fail.
	_ = p.g.Wait()
}

// Map applies fn to every element of in concurrently and returns the
// results in input order. It is the engine's only data-parallel primitive;
// the per-index output slot makes order preservation trivial.
func Map[In, Out any](in []In, fn func(In) Out, opts ...Option) []Out {
	out := make([]Out, len(in))

	p := New(opts...)
	for i := range in {
		i := i
		p.Enqueue(func() { out[i] = fn(in[i]) })
	}
	p.Wait()

	return out
}
