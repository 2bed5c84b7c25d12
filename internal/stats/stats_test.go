package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceStats_Empty(t *testing.T) {
	assert.Equal(t, PriceSummary{}, PriceStats(nil))
	assert.Equal(t, PriceSummary{}, PriceStats([]float64{}))
}

func TestPriceStats_SingleValue(t *testing.T) {
	s := PriceStats([]float64{50})
	assert.Equal(t, PriceSummary{Min: 50, Max: 50, Avg: 50}, s)
}

func TestPriceStats_MinAvgMaxOrdering(t *testing.T) {
	testCases := []struct {
		name   string
		values []float64
	}{
		{"ascending", []float64{100, 200, 300}},
		{"descending", []float64{900, 500, 100}},
		{"with zeros", []float64{0, 0, 120}},
		{"identical", []float64{42, 42, 42}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := PriceStats(tc.values)
			assert.LessOrEqual(t, s.Min, s.Avg, "min <= avg")
			assert.LessOrEqual(t, s.Avg, s.Max, "avg <= max")
		})
	}
}

func TestPriceStats_AvgRoundsToNearestInteger(t *testing.T) {
	// (100 + 101) / 2 = 100.5 rounds to 101
	s := PriceStats([]float64{100, 101})
	assert.Equal(t, 101.0, s.Avg)
}

func TestMedian(t *testing.T) {
	testCases := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"even length averages central pair", []float64{2, 4, 4, 6}, 4},
		{"odd length takes central element", []float64{2, 4, 6}, 4},
		{"unsorted input", []float64{6, 2, 4}, 4},
		{"single element", []float64{7}, 7},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Median(tc.values))
		})
	}
}

func TestMedian_DoesNotMutateInput(t *testing.T) {
	values := []float64{9, 1, 5}
	Median(values)
	assert.Equal(t, []float64{9, 1, 5}, values)
}

func TestCorrelation_PerfectPositive(t *testing.T) {
	r, ok := Correlation([]float64{1, 2, 3, 4}, []float64{10, 20, 30, 40})
	require.True(t, ok)
	assert.InDelta(t, 1.0, r, 1e-9)
}

func TestCorrelation_PerfectNegative(t *testing.T) {
	r, ok := Correlation([]float64{1, 2, 3}, []float64{30, 20, 10})
	require.True(t, ok)
	assert.InDelta(t, -1.0, r, 1e-9)
}

func TestCorrelation_ZeroVarianceUndefined(t *testing.T) {
	_, ok := Correlation([]float64{5, 5, 5}, []float64{1, 2, 3})
	assert.False(t, ok, "flat x series has no defined correlation")

	_, ok = Correlation([]float64{1, 2, 3}, []float64{7, 7, 7})
	assert.False(t, ok, "flat y series has no defined correlation")
}

func TestCorrelation_MismatchedOrEmpty(t *testing.T) {
	_, ok := Correlation([]float64{1, 2}, []float64{1})
	assert.False(t, ok)

	_, ok = Correlation(nil, nil)
	assert.False(t, ok)
}

func TestValueRanges_MaxValueKeptInFinalBucket(t *testing.T) {
	buckets := ValueRanges([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 5)
	require.Len(t, buckets, 5)

	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	assert.Equal(t, 11, total, "every value lands in exactly one bucket")

	last := buckets[len(buckets)-1]
	assert.Equal(t, 10.0, last.Hi)
	assert.GreaterOrEqual(t, last.Count, 1, "the boundary maximum is not lost")
}

func TestValueRanges_EqualWidths(t *testing.T) {
	buckets := ValueRanges([]float64{0, 100}, 4)
	require.Len(t, buckets, 4)

	for i, b := range buckets {
		assert.InDelta(t, 25.0, b.Hi-b.Lo, 1e-9, "bucket %d width", i)
	}
	assert.Equal(t, "0-25", buckets[0].Label)
	assert.Equal(t, "75-100", buckets[3].Label)
}

func TestValueRanges_DegenerateRange(t *testing.T) {
	buckets := ValueRanges([]float64{5, 5, 5}, 8)
	require.Len(t, buckets, 1)
	assert.Equal(t, 3, buckets[0].Count)
}

func TestValueRanges_EmptyInput(t *testing.T) {
	assert.Nil(t, ValueRanges(nil, 5))
	assert.Nil(t, ValueRanges([]float64{1, 2}, 0))
}
