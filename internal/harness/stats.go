// internal/harness/stats.go
package harness

import "sort"

// Percentile returns the p-th percentile of samples using linear
// interpolation between closest ranks. It returns 0 for an empty slice.
// Statistics are computed once, after all samples are collected.
func Percentile(samples []float64, p float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	rank := p / 100 * float64(len(sorted)-1)
	lower := int(rank)
	frac := rank - float64(lower)
	if lower+1 >= len(sorted) {
		return sorted[lower]
	}
	return sorted[lower] + frac*(sorted[lower+1]-sorted[lower])
}

// Median returns the 50th percentile of samples.
func Median(samples []float64) float64 {
	return Percentile(samples, 50)
}
