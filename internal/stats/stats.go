// Package stats computes the summary statistics used by the reports.
//
// All standard deviations are population deviations (no sample correction),
// matching how the evaluation results have always been summarized.
package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary is the four-statistic rollup of one group of values.
type Summary struct {
	Mean   float64
	Min    float64
	Max    float64
	StdDev float64
	Count  int
}

// Summarize rolls up a slice of values. An empty slice yields a zero Summary
// with Count 0.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	return Summary{
		Mean:   stat.Mean(values, nil),
		Min:    floats.Min(values),
		Max:    floats.Max(values),
		StdDev: stat.PopStdDev(values, nil),
		Count:  len(values),
	}
}

// Group buckets items by key and summarizes the value of each bucket.
// Groups with no contributing items are simply absent from the result.
func Group[T any](items []T, key func(T) string, value func(T) float64) map[string]Summary {
	buckets := make(map[string][]float64)
	for _, item := range items {
		k := key(item)
		buckets[k] = append(buckets[k], value(item))
	}
	out := make(map[string]Summary, len(buckets))
	for k, vals := range buckets {
		out[k] = Summarize(vals)
	}
	return out
}

// CI95 is the 95% confidence interval half-width: 1.96 × stddev / sqrt(n).
func CI95(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return 1.96 * stat.PopStdDev(values, nil) / math.Sqrt(float64(len(values)))
}

// FormatHMS renders a duration in seconds as zero-padded HH:MM:SS,
// truncating (not rounding) at each unit boundary.
func FormatHMS(seconds float64) string {
	s := int64(seconds)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, s%3600/60, s%60)
}
