package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotelens/quotedb/internal/record"
)

// brokenExecutor fails every operation, simulating a background context
// that could not be created or lost its transport.
type brokenExecutor struct{}

func (brokenExecutor) ApplyFilters(context.Context, []record.ItemGroup, record.FilterCriteria) ([]record.ItemGroup, error) {
	return nil, errors.New("transport gone")
}

func (brokenExecutor) Ping(context.Context) (PingResult, error) {
	return PingResult{}, errors.New("no response")
}

// flakyExecutor answers Ping but fails every ApplyFilters round trip.
type flakyExecutor struct{}

func (flakyExecutor) ApplyFilters(context.Context, []record.ItemGroup, record.FilterCriteria) ([]record.ItemGroup, error) {
	return nil, errors.New("round trip failed")
}

func (flakyExecutor) Ping(context.Context) (PingResult, error) {
	return PingResult{Status: pingOK}, nil
}

func testGroups() []record.ItemGroup {
	return BuildGroups([]record.QuoteRecord{
		quote("A", "x", "East", "v1", "20240101", 100),
		quote("A", "x", "West", "v2", "20240102", 200),
		quote("B", "y", "East", "v3", "20240103", 300),
	})
}

func TestNew_AdoptsHealthyWorker(t *testing.T) {
	e := New(context.Background())
	defer e.Close()

	assert.True(t, e.Offloaded(), "healthy worker passes its liveness probe")
}

func TestNew_FallsBackWhenProbeFails(t *testing.T) {
	e := New(context.Background(), WithExecutor(brokenExecutor{}))
	defer e.Close()

	assert.False(t, e.Offloaded(), "failed probe selects inline strategy")

	// The engine still answers correctly; no error surfaces to the caller.
	result := e.ApplyFilters(context.Background(), testGroups(), record.FilterCriteria{Regions: []string{"East"}})
	require.Len(t, result, 2)
}

func TestApplyFilters_RoundTripErrorFallsBackInline(t *testing.T) {
	e := New(context.Background(), WithExecutor(flakyExecutor{}))
	defer e.Close()

	require.True(t, e.Offloaded(), "flaky executor still answers the probe")

	criteria := record.FilterCriteria{Regions: []string{"East"}}
	result := e.ApplyFilters(context.Background(), testGroups(), criteria)

	want := ApplyFilters(testGroups(), criteria)
	assert.Equal(t, want, result, "inline re-execution yields the correct result")
}

func TestInlineAndOffloadedProduceIdenticalOutput(t *testing.T) {
	ctx := context.Background()
	groups := testGroups()

	criteriaSet := []record.FilterCriteria{
		{},
		{Regions: []string{"East"}},
		{ItemKeyword: "a"},
		{VendorKeyword: "v1"},
		{DateFrom: "20240102"},
	}

	w := newWorkerExecutor()
	defer w.Close()
	var inline inlineExecutor

	for _, criteria := range criteriaSet {
		offloaded, err := w.ApplyFilters(ctx, groups, criteria)
		require.NoError(t, err)

		direct, err := inline.ApplyFilters(ctx, groups, criteria)
		require.NoError(t, err)

		assert.Equal(t, direct, offloaded)
	}
}

func TestWorker_Ping(t *testing.T) {
	w := newWorkerExecutor()
	defer w.Close()

	result, err := w.Ping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, pingOK, result.Status)
	assert.False(t, result.Timestamp.IsZero())
}

func TestWorker_CallsAfterCloseFail(t *testing.T) {
	w := newWorkerExecutor()
	w.Close()
	w.Close() // idempotent

	_, err := w.Ping(context.Background())
	assert.ErrorIs(t, err, errWorkerClosed)

	_, err = w.ApplyFilters(context.Background(), nil, record.FilterCriteria{})
	assert.ErrorIs(t, err, errWorkerClosed)
}

func TestWorker_SessionReuse(t *testing.T) {
	w := newWorkerExecutor()
	defer w.Close()
	ctx := context.Background()

	// The same worker serves many sequential calls.
	for i := 0; i < 10; i++ {
		result, err := w.ApplyFilters(ctx, testGroups(), record.FilterCriteria{})
		require.NoError(t, err)
		assert.Len(t, result, 2)
	}
}

func TestEngine_InlineOnly(t *testing.T) {
	e := New(context.Background(), WithInlineOnly())
	defer e.Close()

	assert.False(t, e.Offloaded())
	result := e.ApplyFilters(context.Background(), testGroups(), record.FilterCriteria{})
	assert.Len(t, result, 2)
}
