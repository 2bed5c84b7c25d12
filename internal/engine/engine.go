package engine

import (
	"context"
	"log/slog"

	"github.com/quotelens/quotedb/internal/record"
)

// Engine answers filter/aggregation queries against pre-built ItemGroups.
//
// At construction the Engine tries to adopt the offloaded (worker) strategy
// and probes it once with Ping. The probe result is inspected explicitly:
// on failure the Engine logs a warning and selects the inline strategy.
// This initialization outcome is fixed for the Engine's lifetime - there is
// no silent per-call strategy drift, only the documented per-call fallback
// when an offloaded round trip errors.
//
// Query calls never surface execution-strategy failures to the caller.
type Engine struct {
	exec    Executor
	inline  inlineExecutor
	worker  *workerExecutor // nil when running inline-only
	offload bool
}

// Option configures Engine construction.
type Option func(*options)

type options struct {
	exec       Executor
	inlineOnly bool
}

// WithExecutor substitutes the offloaded executor. Used by tests to inject
// failing or instrumented strategies.
func WithExecutor(exec Executor) Option {
	return func(o *options) {
		o.exec = exec
	}
}

// WithInlineOnly skips worker creation entirely and runs every call on the
// calling goroutine.
func WithInlineOnly() Option {
	return func(o *options) {
		o.inlineOnly = true
	}
}

// New constructs an Engine, selecting the execution strategy once.
//
// The worker is created lazily here (not at package init) and reused for
// the session. If worker creation or its liveness probe fails, the Engine
// recovers by selecting inline execution; the failure is logged as a
// warning and never surfaced to callers.
func New(ctx context.Context, opts ...Option) *Engine {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	e := &Engine{}

	if o.inlineOnly {
		slog.Debug("engine running inline only")
		return e
	}

	exec := o.exec
	if exec == nil {
		w := newWorkerExecutor()
		e.worker = w
		exec = w
	}

	// Liveness probe, run exactly once at startup. An executor that cannot
	// answer Ping is discarded in favor of inline execution.
	if _, err := exec.Ping(ctx); err != nil {
		slog.Warn("filter worker unavailable, falling back to inline execution", "error", err)
		e.closeWorker()
		return e
	}

	e.exec = exec
	e.offload = true
	slog.Debug("engine offloading filter calls to worker")
	return e
}

// Offloaded reports whether the Engine adopted the worker strategy.
func (e *Engine) Offloaded() bool {
	return e.offload
}

// ApplyFilters produces the ItemGroups matching criteria.
//
// The offloaded strategy is attempted first when available; a round-trip
// error is logged and the identical pure function is re-executed inline.
// Both paths return identical output for identical input, so the caller
// cannot tell which one served the call.
func (e *Engine) ApplyFilters(ctx context.Context, groups []record.ItemGroup, criteria record.FilterCriteria) []record.ItemGroup {
	if e.offload {
		result, err := e.exec.ApplyFilters(ctx, groups, criteria)
		if err == nil {
			return result
		}
		slog.Warn("offloaded filter call failed, re-executing inline", "error", err)
	}

	result, _ := e.inline.ApplyFilters(ctx, groups, criteria)
	return result
}

// Close releases the worker goroutine, if any. Safe to call on an
// inline-only Engine.
func (e *Engine) Close() {
	e.closeWorker()
}

func (e *Engine) closeWorker() {
	if e.worker != nil {
		e.worker.Close()
	}
}
