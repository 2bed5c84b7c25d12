package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quotelens/quotedb/internal/record"
)

// errWorkerClosed is returned by worker calls after Close.
var errWorkerClosed = errors.New("worker closed")

// opKind selects one of the two worker operations.
type opKind int

const (
	opApplyFilters opKind = iota + 1
	opPing
)

// request is the typed envelope sent to the worker goroutine.
// Each request carries its own reply channel (buffered, size 1) so the
// worker never blocks on a caller that has gone away.
type request struct {
	id       string // uuid, correlates request and response in logs
	op       opKind
	groups   []record.ItemGroup
	criteria record.FilterCriteria
	reply    chan response
}

// response is the typed envelope sent back by the worker goroutine.
type response struct {
	id     string
	groups []record.ItemGroup
	ping   PingResult
	err    error
}

// workerExecutor runs filter work on a single dedicated goroutine, reached
// only through asynchronous message passing. One worker is created lazily
// per session and reused for every call.
//
// Calls are processed strictly in arrival order - the worker holds no
// internal queue beyond the unbuffered request channel, so there is no
// pipelining and no backpressure beyond channel send blocking.
type workerExecutor struct {
	requests chan request
	done     chan struct{}
	once     sync.Once
}

// newWorkerExecutor spawns the worker goroutine and returns its handle.
// The handle is not yet known to be healthy; the Engine probes it with
// Ping once before adopting it.
func newWorkerExecutor() *workerExecutor {
	w := &workerExecutor{
		requests: make(chan request),
		done:     make(chan struct{}),
	}
	go w.run()
	return w
}

// run is the worker loop. It executes the same pure functions the inline
// strategy uses, so both strategies produce identical output.
func (w *workerExecutor) run() {
	for {
		select {
		case <-w.done:
			return
		case req := <-w.requests:
			switch req.op {
			case opApplyFilters:
				req.reply <- response{
					id:     req.id,
					groups: ApplyFilters(req.groups, req.criteria),
				}
			case opPing:
				req.reply <- response{
					id:   req.id,
					ping: PingResult{Status: pingOK, Timestamp: time.Now()},
				}
			default:
				req.reply <- response{
					id:  req.id,
					err: fmt.Errorf("unknown worker op %d", req.op),
				}
			}
		}
	}
}

// call performs one request/response round trip.
func (w *workerExecutor) call(ctx context.Context, req request) (response, error) {
	req.id = uuid.NewString()
	req.reply = make(chan response, 1)

	select {
	case w.requests <- req:
	case <-w.done:
		return response{}, errWorkerClosed
	case <-ctx.Done():
		return response{}, ctx.Err()
	}

	select {
	case resp := <-req.reply:
		if resp.err != nil {
			return response{}, resp.err
		}
		return resp, nil
	case <-w.done:
		return response{}, errWorkerClosed
	case <-ctx.Done():
		return response{}, ctx.Err()
	}
}

// ApplyFilters offloads one filter pass to the worker goroutine.
func (w *workerExecutor) ApplyFilters(ctx context.Context, groups []record.ItemGroup, criteria record.FilterCriteria) ([]record.ItemGroup, error) {
	resp, err := w.call(ctx, request{op: opApplyFilters, groups: groups, criteria: criteria})
	if err != nil {
		return nil, fmt.Errorf("worker apply filters: %w", err)
	}
	return resp.groups, nil
}

// Ping probes worker liveness. Run once at startup by the Engine.
func (w *workerExecutor) Ping(ctx context.Context) (PingResult, error) {
	resp, err := w.call(ctx, request{op: opPing})
	if err != nil {
		return PingResult{}, fmt.Errorf("worker ping: %w", err)
	}
	return resp.ping, nil
}

// Close stops the worker goroutine. Idempotent. In-flight callers receive
// errWorkerClosed.
func (w *workerExecutor) Close() {
	w.once.Do(func() {
		close(w.done)
	})
}
