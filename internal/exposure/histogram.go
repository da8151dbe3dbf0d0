package exposure

import (
	"time"

	"github.com/rewired-gh/skyhook-sim/internal/models"
)

// Histogram counts vulnerability coverage per absolute hour of a horizon.
type Histogram []int

// NewHistogram returns an all-zero histogram of the given length in hours.
func NewHistogram(hours int) Histogram {
	return make(Histogram, max(hours, 0))
}

// AddWindow increments the buckets covered by a window on the circular
// horizon. Both bounds must already be wrapped into [0, len(h)).
// When end <= start the window wraps and continues from hour 0.
func (h Histogram) AddWindow(start, end float64) {
	n := float64(len(h))
	if end > start {
		for x := start; x < end; x++ {
			h[int(x)]++
		}
		return
	}
	for x := start; x < n; x++ {
		h[int(x)]++
	}
	for x := 0.0; x < end; x++ {
		h[int(x)]++
	}
}

// Total returns the sum of all buckets.
func (h Histogram) Total() int {
	total := 0
	for _, c := range h {
		total += c
	}
	return total
}

// Peak returns the first hour holding the highest count.
func (h Histogram) Peak() (hour, count int) {
	for i, c := range h {
		if c > count {
			hour, count = i, c
		}
	}
	return hour, count
}

// Points converts the histogram into a labelled series for charting.
func (h Histogram) Points() []models.HourCount {
	points := make([]models.HourCount, len(h))
	for i, c := range h {
		points[i] = models.HourCount{Hour: i, Label: HourLabel(i), Count: c}
	}
	return points
}

// HourLabel formats the hour-of-day of an absolute hour as "HH:00".
func HourLabel(hour int) string {
	return time.Date(2024, 1, 1, wrapHour(hour), 0, 0, 0, time.UTC).Format("15:04")
}
