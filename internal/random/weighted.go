package random

import "fmt"

// Weighted is a categorical distribution over a fixed list of outcomes.
type Weighted[T any] struct {
	Options []T
	Weights []float64
}

// NewWeighted pairs options with weights. Both slices must have the same
// non-zero length; weights are not required to sum to exactly 1.
func NewWeighted[T any](options []T, weights []float64) (Weighted[T], error) {
	if len(options) == 0 {
		return Weighted[T]{}, fmt.Errorf("weighted choice needs at least one option")
	}
	if len(options) != len(weights) {
		return Weighted[T]{}, fmt.Errorf("weighted choice has %d options but %d weights", len(options), len(weights))
	}
	return Weighted[T]{Options: options, Weights: weights}, nil
}

// Draw picks one outcome using a single uniform value from src.
func (w Weighted[T]) Draw(src Source) T {
	return w.Pick(src.Float64())
}

// Pick walks the cumulative weights and returns the first option whose
// cumulative weight reaches u. When rounding leaves u above the total,
// the last option is returned.
func (w Weighted[T]) Pick(u float64) T {
	remaining := u
	for i, weight := range w.Weights {
		remaining -= weight
		if remaining <= 0 {
			return w.Options[i]
		}
	}
	return w.Options[len(w.Options)-1]
}
