// Package taskpool provides the fork-join primitives used by the tensor
// engine's parallel regions.
//
// The taskpool package provides:
//
//   - Pool with Enqueue and Wait, for regions that fan out heterogeneous
//     jobs and join once.
//   - Map, an order-preserving parallel map: output i is the result of
//     input i regardless of scheduling.
//
// Every parallel region in the engine is an isolated fork-join: a pool is
// created, jobs are enqueued, Wait joins, and a sequential reduction
// follows. Jobs run to completion; there is no cancellation.
package taskpool
