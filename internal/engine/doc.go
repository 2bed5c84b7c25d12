// Package engine implements the filter and aggregation engine of the quote
// database: given the full record set and a FilterCriteria, it produces the
// matching ItemGroups with price statistics.
//
// ARCHITECTURE:
//
// Pure Core:
// BuildGroups and ApplyFilters are referentially transparent - no shared
// mutable state, identical output for identical input. This is what makes
// the two execution strategies interchangeable.
//
// Execution Strategies:
// The Engine offloads ApplyFilters to a dedicated worker goroutine reached
// only through typed request/response envelopes over a channel. The worker
// surface is fixed at exactly two operations: ApplyFilters and Ping.
// At construction the Engine probes the worker once with Ping; if the probe
// fails, the Engine logs a warning and selects the inline strategy instead.
// A per-call round-trip error likewise falls back to inline re-execution.
// Callers never observe either failure.
//
// Calls are not pipelined: issuing a second filter call before the first
// resolves is the caller's responsibility to avoid. There is no internal
// request queue or backpressure.
package engine
