// Package models defines the request and report types exchanged between the
// simulation engine and its callers (CLI, HTTP API, notifier).
// All models include built-in validation so bad input is rejected at the
// boundary instead of silently corrupting a histogram or a hop distribution.
//
// Terminology:
//   - Entity: one simulated recurring-window owner (a skyhook).
//   - Anchor: the hour-of-day an owner sets; actual window starts jitter around it.
//   - Cycle: the period in hours after which a window recurs.
//   - Phase: the hour offset of an entity's first cycle within the horizon.
package models

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParams marks parameters outside their domain.
var ErrInvalidParams = errors.New("invalid parameters")

// DefaultOffsetCatalog lists the candidate anchor offsets, in hours, used to
// diversify owner-chosen anchors when center spread is non-zero.
var DefaultOffsetCatalog = []int{-12, -10, -9, -6, -5, -3, -2, 0, 2, 3, 5, 6, 9, 10, 12}

// ExposureParams drives one exposure aggregation run.
type ExposureParams struct {
	Entities        int     `json:"entities" mapstructure:"entities"`
	CenterAnchor    int     `json:"center_anchor" mapstructure:"center_anchor"`       // 0-23
	StddevHours     float64 `json:"stddev_hours" mapstructure:"stddev_hours"`         // jitter around the anchor
	WindowHours     float64 `json:"window_hours" mapstructure:"window_hours"`         // vulnerability duration
	CycleHours      int     `json:"cycle_hours" mapstructure:"cycle_hours"`           // recurrence period
	PhaseStepHours  int     `json:"phase_step_hours" mapstructure:"phase_step_hours"` // 0 = CycleHours
	CycleRandomness float64 `json:"cycle_randomness" mapstructure:"cycle_randomness"` // 0-1
	CenterSpread    float64 `json:"center_spread" mapstructure:"center_spread"`       // 0-1
	HorizonDays     int     `json:"horizon_days" mapstructure:"horizon_days"`
	OffsetCatalog   []int   `json:"offset_catalog,omitempty" mapstructure:"offset_catalog"`
	Seed            int64   `json:"seed,omitempty" mapstructure:"seed"`
}

// DefaultExposureParams returns the stock skyhook parameters: 4000 entities
// anchored at 12:00, 3h jitter, 1h windows on a 72h cycle over 9 days.
func DefaultExposureParams() ExposureParams {
	return ExposureParams{
		Entities:     4000,
		CenterAnchor: 12,
		StddevHours:  3,
		WindowHours:  1,
		CycleHours:   72,
		HorizonDays:  9,
	}
}

// HorizonHours returns the simulated horizon length in hours.
func (p ExposureParams) HorizonHours() int {
	return p.HorizonDays * 24
}

// PhaseStep returns the spacing between the three start-phase outcomes.
func (p ExposureParams) PhaseStep() int {
	if p.PhaseStepHours <= 0 {
		return p.CycleHours
	}
	return p.PhaseStepHours
}

// Catalog returns the configured offset catalog or the default one.
func (p ExposureParams) Catalog() []int {
	if len(p.OffsetCatalog) == 0 {
		return DefaultOffsetCatalog
	}
	return p.OffsetCatalog
}

// Clamped returns a copy with a negative entity count raised to zero.
func (p ExposureParams) Clamped() ExposureParams {
	if p.Entities < 0 {
		p.Entities = 0
	}
	return p
}

// MaxHorizonDays bounds the simulated horizon so one run's histogram stays small.
const MaxHorizonDays = 366

// MaxDailyStddevHours bounds the single-day jitter. Beyond it the draw is
// uniform over the day for all practical purposes.
const MaxDailyStddevHours = 24 * 7

// Validate checks that all exposure parameters are within their domain.
// Entities is not checked here; callers clamp it with Clamped.
// Range checks are written so that NaN fails them.
func (p ExposureParams) Validate() error {
	if p.CenterAnchor < 0 || p.CenterAnchor > 23 {
		return fmt.Errorf("%w: center anchor must be between 0 and 23, got %d", ErrInvalidParams, p.CenterAnchor)
	}
	if p.HorizonDays < 1 || p.HorizonDays > MaxHorizonDays {
		return fmt.Errorf("%w: horizon days must be between 1 and %d", ErrInvalidParams, MaxHorizonDays)
	}
	horizon := float64(p.HorizonHours())
	if !(p.StddevHours >= 0 && p.StddevHours <= horizon) {
		return fmt.Errorf("%w: stddev must be between 0 and the horizon (%gh)", ErrInvalidParams, horizon)
	}
	if p.CycleHours < 1 {
		return fmt.Errorf("%w: cycle hours must be at least 1", ErrInvalidParams)
	}
	if p.PhaseStepHours < 0 {
		return fmt.Errorf("%w: phase step must not be negative", ErrInvalidParams)
	}
	if !(p.WindowHours > 0 && p.WindowHours < horizon) {
		return fmt.Errorf("%w: window hours must be positive and shorter than the horizon", ErrInvalidParams)
	}
	if !(p.CycleRandomness >= 0 && p.CycleRandomness <= 1) {
		return fmt.Errorf("%w: cycle randomness must be between 0.0 and 1.0", ErrInvalidParams)
	}
	if !(p.CenterSpread >= 0 && p.CenterSpread <= 1) {
		return fmt.Errorf("%w: center spread must be between 0.0 and 1.0", ErrInvalidParams)
	}
	for _, off := range p.OffsetCatalog {
		if off < -23 || off > 23 {
			return fmt.Errorf("%w: offset %d outside -23..23", ErrInvalidParams, off)
		}
	}
	return nil
}

// WindowsPerEntity returns how many windows one entity opens over the
// horizon in the worst case (phase 0).
func (p ExposureParams) WindowsPerEntity() int {
	if p.CycleHours < 1 {
		return 0
	}
	return (p.HorizonHours() + p.CycleHours - 1) / p.CycleHours
}

// ValidateDaily checks the single-day distribution inputs.
func ValidateDaily(count int, center, stddev float64) error {
	if count < 0 {
		return fmt.Errorf("%w: count must not be negative", ErrInvalidParams)
	}
	if math.IsNaN(center) || math.IsInf(center, 0) {
		return fmt.Errorf("%w: center must be a finite hour", ErrInvalidParams)
	}
	if !(stddev >= 0 && stddev <= MaxDailyStddevHours) {
		return fmt.Errorf("%w: stddev must be between 0 and %d hours", ErrInvalidParams, MaxDailyStddevHours)
	}
	return nil
}

// ReachParams drives one reachability estimate for a histogram bucket.
type ReachParams struct {
	Count    int   `json:"count"`     // number of vulnerable systems (bucket count)
	Trials   int   `json:"trials"`    // Monte-Carlo start samples
	MaxJumps int   `json:"max_jumps"` // K in probability-within-K
	Workers  int   `json:"workers,omitempty"`
	Seed     int64 `json:"seed,omitempty"`
}

// DefaultReachParams returns 10000 trials with a 5-jump threshold.
func DefaultReachParams() ReachParams {
	return ReachParams{Trials: 10000, MaxJumps: 5, Workers: 1}
}

// Validate checks that all reachability parameters are valid
func (p ReachParams) Validate() error {
	if p.Count < 0 {
		return fmt.Errorf("%w: count must not be negative", ErrInvalidParams)
	}
	if p.Trials < 1 {
		return fmt.Errorf("%w: trials must be at least 1", ErrInvalidParams)
	}
	if p.MaxJumps < 0 {
		return fmt.Errorf("%w: max jumps must not be negative", ErrInvalidParams)
	}
	if p.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidParams)
	}
	return nil
}
