package reach

import (
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Result holds the hop count of every trial that reached a target.
// Trials that found no target are not recorded.
type Result []int

func (r Result) floats() []float64 {
	xs := make([]float64, len(r))
	for i, h := range r {
		xs[i] = float64(h)
	}
	return xs
}

// MeanHops returns the average hop count. ok is false for an empty result.
func (r Result) MeanHops() (mean float64, ok bool) {
	if len(r) == 0 {
		return 0, false
	}
	return stat.Mean(r.floats(), nil), true
}

// StddevHops returns the sample standard deviation of the hop counts.
func (r Result) StddevHops() (stddev float64, ok bool) {
	if len(r) < 2 {
		return 0, len(r) == 1
	}
	return stat.StdDev(r.floats(), nil), true
}

// MedianHops returns the empirical median hop count.
func (r Result) MedianHops() (median float64, ok bool) {
	if len(r) == 0 {
		return 0, false
	}
	xs := r.floats()
	slices.Sort(xs)
	return stat.Quantile(0.5, stat.Empirical, xs, nil), true
}

// ProbabilityWithin returns the fraction of results at most k hops away.
// ok is false for an empty result.
func (r Result) ProbabilityWithin(k int) (p float64, ok bool) {
	if len(r) == 0 {
		return 0, false
	}
	within := 0
	for _, h := range r {
		if h <= k {
			within++
		}
	}
	return float64(within) / float64(len(r)), true
}
