package exposure

import (
	"math"
	"slices"

	"github.com/rewired-gh/skyhook-sim/internal/models"
	"github.com/rewired-gh/skyhook-sim/internal/random"
)

// SelectOffsets picks a random subset of the offset catalog sized
// max(1, floor(len(catalog)*spread)), forces offset 0 into it, and returns
// the resulting anchor hours (baseAnchor+offset mod 24) sorted ascending
// with duplicates removed.
func SelectOffsets(src random.Source, catalog []int, baseAnchor int, spread float64) []int {
	if len(catalog) == 0 {
		catalog = models.DefaultOffsetCatalog
	}
	count := max(1, int(math.Floor(float64(len(catalog))*spread)))
	count = min(count, len(catalog))

	shuffled := random.Shuffle(src, slices.Clone(catalog))
	selected := shuffled[:count]
	if !slices.Contains(selected, 0) {
		selected[len(selected)-1] = 0
	}

	hours := make([]int, 0, len(selected))
	for _, off := range selected {
		hours = append(hours, wrapHour(baseAnchor+off))
	}
	slices.Sort(hours)
	return slices.Compact(hours)
}

// ChooseCenter picks the anchor hour for one entity. With zero spread it
// always returns baseAnchor. Otherwise baseAnchor keeps weight 1-spread and
// the remaining weight is split evenly across the other anchor options.
func ChooseCenter(src random.Source, baseAnchor int, spread float64, options []int) int {
	if spread == 0 {
		return baseAnchor
	}

	choices := []int{baseAnchor}
	for _, h := range options {
		if h != baseAnchor {
			choices = append(choices, h)
		}
	}

	weights := make([]float64, len(choices))
	weights[0] = 1 - spread
	for i := 1; i < len(choices); i++ {
		weights[i] = spread / float64(len(choices)-1)
	}

	dist, err := random.NewWeighted(choices, weights)
	if err != nil {
		return baseAnchor
	}
	return dist.Draw(src)
}

// CycleScheduler assigns each entity one of three start phases:
// 0, Step or 2*Step hours into the horizon.
type CycleScheduler struct {
	Step int
}

// Phase draws a start phase. Zero randomness always yields the middle phase;
// otherwise the edges each get randomness/3 and the middle the rest.
func (c CycleScheduler) Phase(src random.Source, randomness float64) int {
	if randomness == 0 {
		return c.Step
	}
	dist, err := c.distribution(randomness)
	if err != nil {
		return c.Step
	}
	return dist.Draw(src)
}

func (c CycleScheduler) distribution(randomness float64) (random.Weighted[int], error) {
	return random.NewWeighted(
		[]int{0, c.Step, 2 * c.Step},
		[]float64{randomness / 3, 1 - 2*randomness/3, randomness / 3},
	)
}

func wrapHour(h int) int {
	return ((h % 24) + 24) % 24
}
