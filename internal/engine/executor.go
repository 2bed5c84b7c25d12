package engine

import (
	"context"
	"time"

	"github.com/quotelens/quotedb/internal/record"
)

// Executor is the fixed execution surface for offloadable filter work.
// Exactly two operations exist: ApplyFilters and a Ping liveness probe.
//
// Implementations must be referentially transparent with respect to
// ApplyFilters: inline and offloaded execution produce identical output
// for identical input.
type Executor interface {
	ApplyFilters(ctx context.Context, groups []record.ItemGroup, criteria record.FilterCriteria) ([]record.ItemGroup, error)
	Ping(ctx context.Context) (PingResult, error)
}

// PingResult is the liveness probe response.
type PingResult struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// pingOK is the status reported by a healthy executor.
const pingOK = "ok"

// inlineExecutor runs filter work synchronously on the calling goroutine.
// It is the fallback strategy when the worker is unavailable, and the
// reference implementation the worker must agree with.
type inlineExecutor struct{}

func (inlineExecutor) ApplyFilters(_ context.Context, groups []record.ItemGroup, criteria record.FilterCriteria) ([]record.ItemGroup, error) {
	return ApplyFilters(groups, criteria), nil
}

func (inlineExecutor) Ping(_ context.Context) (PingResult, error) {
	return PingResult{Status: pingOK, Timestamp: time.Now()}, nil
}
