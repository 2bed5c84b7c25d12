// Package stats provides the pure numeric helpers behind group aggregation
// and chart-data preparation: price summaries, median, Pearson correlation,
// and equal-width distribution buckets.
//
// Every function is total over its input: empty series return zero values
// instead of panicking, and degenerate correlations report ok=false.
package stats

import (
	"fmt"
	"math"
	"sort"
)

// PriceSummary holds the single-pass min/max/avg of a price series.
// Avg is rounded to the nearest integer.
type PriceSummary struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
}

// PriceStats computes min, max, and rounded average in one pass.
// Empty input returns the zero summary {0, 0, 0}.
func PriceStats(values []float64) PriceSummary {
	if len(values) == 0 {
		return PriceSummary{}
	}

	min, max, sum := values[0], values[0], 0.0
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}

	return PriceSummary{
		Min: min,
		Max: max,
		Avg: math.Round(sum / float64(len(values))),
	}
}

// Median returns the statistical median of values: the central element for
// odd lengths, the mean of the two central elements for even lengths, and 0
// for empty input. The input slice is not mutated.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Correlation computes the Pearson correlation coefficient of two series.
// Returns ok=false when the series lengths differ, are empty, or either
// series has zero variance (the coefficient is undefined in those cases).
func Correlation(xs, ys []float64) (r float64, ok bool) {
	n := len(xs)
	if n == 0 || n != len(ys) {
		return 0, false
	}

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	if varX == 0 || varY == 0 {
		return 0, false
	}
	return cov / math.Sqrt(varX*varY), true
}

// Bucket is one equal-width partition of a value range, with a
// human-readable label and the number of values that fell inside it.
type Bucket struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Label string  `json:"label"`
	Count int     `json:"count"`
}

// ValueRanges partitions [min, max] of values into bucketCount equal-width
// buckets and counts values per bucket. The final bucket is inclusive of the
// maximum so the boundary element is never lost.
//
// Returns nil for empty input or a non-positive bucket count. A degenerate
// range (min == max) yields a single bucket holding every value.
func ValueRanges(values []float64, bucketCount int) []Bucket {
	if len(values) == 0 || bucketCount <= 0 {
		return nil
	}

	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	if min == max {
		return []Bucket{{
			Lo:    min,
			Hi:    max,
			Label: bucketLabel(min, max),
			Count: len(values),
		}}
	}

	width := (max - min) / float64(bucketCount)
	buckets := make([]Bucket, bucketCount)
	for i := range buckets {
		lo := min + width*float64(i)
		hi := lo + width
		if i == bucketCount-1 {
			hi = max // avoid float drift on the last boundary
		}
		buckets[i] = Bucket{Lo: lo, Hi: hi, Label: bucketLabel(lo, hi)}
	}

	for _, v := range values {
		idx := int((v - min) / width)
		if idx >= bucketCount {
			idx = bucketCount - 1 // max value lands in the final bucket
		}
		buckets[idx].Count++
	}

	return buckets
}

// bucketLabel renders a range label, dropping fractional digits when both
// bounds are whole numbers.
func bucketLabel(lo, hi float64) string {
	if lo == math.Trunc(lo) && hi == math.Trunc(hi) {
		return fmt.Sprintf("%d-%d", int64(lo), int64(hi))
	}
	return fmt.Sprintf("%.2f-%.2f", lo, hi)
}
