// Package exposure simulates a population of recurring vulnerability windows
// and aggregates their coverage into an hourly histogram.
//
// Each entity gets an anchor hour (the configured center, or with center spread
// one of a randomly chosen set of offset anchors) and a start phase inside the
// horizon. From that phase it recurs every cycle; every recurrence draws a
// window start from a normal distribution around the anchor and covers the
// buckets of a fixed-length window, wrapping around the end of the horizon.
//
// Use Aggregate for the raw histogram and Run for a labelled report.
package exposure

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rewired-gh/skyhook-sim/internal/logger"
	"github.com/rewired-gh/skyhook-sim/internal/models"
	"github.com/rewired-gh/skyhook-sim/internal/random"
)

// Aggregate runs one exposure simulation and returns its hourly histogram.
// A negative entity count is clamped to zero, which yields an all-zero histogram.
func Aggregate(src random.Source, params models.ExposureParams) (Histogram, error) {
	p := params.Clamped()
	if err := p.Validate(); err != nil {
		return nil, err
	}

	horizon := p.HorizonHours()
	hist := NewHistogram(horizon)

	// one offset draw per run, shared by every entity
	anchors := SelectOffsets(src, p.Catalog(), p.CenterAnchor, p.CenterSpread)
	scheduler := CycleScheduler{Step: p.PhaseStep()}

	logger.Debug("Aggregating exposure: entities=%d anchor=%d spread=%.2f randomness=%.2f horizon=%dh anchors=%v",
		p.Entities, p.CenterAnchor, p.CenterSpread, p.CycleRandomness, horizon, anchors)

	windows := 0
	for i := 0; i < p.Entities; i++ {
		center := ChooseCenter(src, p.CenterAnchor, p.CenterSpread, anchors)
		phase := scheduler.Phase(src, p.CycleRandomness)

		for hour := phase; hour < horizon; hour += p.CycleHours {
			offset := random.Normal(src, float64(center), p.StddevHours)
			start := random.Wrap(float64(hour)+offset, float64(horizon))
			end := random.Wrap(start+p.WindowHours, float64(horizon))
			if !finite(start) || !finite(end) {
				return nil, fmt.Errorf("%w: window start %v is not a finite hour", models.ErrInvalidParams, start)
			}
			hist.AddWindow(start, end)
			windows++
		}
	}

	logger.Debug("Exposure aggregation complete: windows=%d increments=%d", windows, hist.Total())
	return hist, nil
}

// Run aggregates exposure and wraps the histogram in a report.
func Run(src random.Source, params models.ExposureParams) (*models.ExposureReport, error) {
	hist, err := Aggregate(src, params)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate exposure: %w", err)
	}

	peakHour, peakCount := hist.Peak()
	return &models.ExposureReport{
		ID:          uuid.New().String(),
		Params:      params.Clamped(),
		Series:      hist.Points(),
		Total:       hist.Total(),
		PeakHour:    peakHour,
		PeakCount:   peakCount,
		GeneratedAt: time.Now(),
	}, nil
}

// Daily draws count window starts around center and buckets them by hour of
// day. It is the single-day view: no cycles, no anchor diversification.
func Daily(src random.Source, count int, center, stddev float64) (Histogram, error) {
	if err := models.ValidateDaily(count, center, stddev); err != nil {
		return nil, err
	}
	hist := NewHistogram(24)
	for i := 0; i < count; i++ {
		t := random.WrapHour(random.Normal(src, center, stddev))
		if !finite(t) {
			return nil, fmt.Errorf("%w: start hour %v is not finite", models.ErrInvalidParams, t)
		}
		hist[int(t)]++
	}
	return hist, nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
