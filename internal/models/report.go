package models

import (
	"errors"
	"time"
)

// HourCount is one point of an hourly exposure series.
type HourCount struct {
	Hour  int    `json:"hour"`  // absolute hour within the horizon
	Label string `json:"label"` // "HH:00" of the hour-of-day
	Count int    `json:"count"`
}

// ExposureReport is the output of one exposure run.
type ExposureReport struct {
	ID          string         `json:"id"`
	Params      ExposureParams `json:"params"`
	Series      []HourCount    `json:"series"`
	Total       int            `json:"total"`
	PeakHour    int            `json:"peak_hour"`
	PeakCount   int            `json:"peak_count"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// Validate checks that the report is internally consistent
func (r *ExposureReport) Validate() error {
	if r.ID == "" {
		return errors.New("report ID must not be empty")
	}
	sum := 0
	for _, p := range r.Series {
		if p.Count < 0 {
			return errors.New("series counts must not be negative")
		}
		sum += p.Count
	}
	if sum != r.Total {
		return errors.New("total must equal the sum of the series")
	}
	if len(r.Series) > 0 && (r.PeakHour < 0 || r.PeakHour >= len(r.Series)) {
		return errors.New("peak hour must index the series")
	}
	if r.GeneratedAt.After(time.Now()) {
		return errors.New("generated at must not be in the future")
	}
	return nil
}

// NoTargetsMeanHops is reported as mean hops when a bucket holds no
// vulnerable systems and no trial was run.
const NoTargetsMeanHops = -1

// ReachReport is the output of one reachability estimate.
type ReachReport struct {
	ID                string    `json:"id"`
	Count             int       `json:"count"`      // target-set size requested
	Targets           int       `json:"targets"`    // target-set size actually sampled
	Trials            int       `json:"trials"`     // start samples drawn
	Successful        int       `json:"successful"` // trials that reached a target
	MaxJumps          int       `json:"max_jumps"`
	MeanHops          float64   `json:"mean_hops"` // -1 when undefined
	MedianHops        float64   `json:"median_hops"`
	StddevHops        float64   `json:"stddev_hops"`
	ProbabilityWithin float64   `json:"probability_within"`
	Defined           bool      `json:"defined"` // false when no trial reached a target
	GeneratedAt       time.Time `json:"generated_at"`
}

// Validate checks that the report is internally consistent
func (r *ReachReport) Validate() error {
	if r.ID == "" {
		return errors.New("report ID must not be empty")
	}
	if r.Successful < 0 || r.Successful > r.Trials {
		return errors.New("successful trials must be between 0 and trials")
	}
	if r.ProbabilityWithin < 0.0 || r.ProbabilityWithin > 1.0 {
		return errors.New("probability must be between 0.0 and 1.0")
	}
	if r.Defined && r.MeanHops < 0 {
		return errors.New("mean hops must not be negative when defined")
	}
	if !r.Defined && r.MeanHops != NoTargetsMeanHops {
		return errors.New("undefined mean hops must be reported as -1")
	}
	if r.GeneratedAt.After(time.Now()) {
		return errors.New("generated at must not be in the future")
	}
	return nil
}

// RunSummary bundles the reports of one CLI invocation for notification.
type RunSummary struct {
	Exposure *ExposureReport `json:"exposure,omitempty"`
	Reach    *ReachReport    `json:"reach,omitempty"`
}

// Validate checks that at least one report is present and every present report is valid
func (s *RunSummary) Validate() error {
	if s.Exposure == nil && s.Reach == nil {
		return errors.New("summary must contain at least one report")
	}
	if s.Exposure != nil {
		if err := s.Exposure.Validate(); err != nil {
			return err
		}
	}
	if s.Reach != nil {
		if err := s.Reach.Validate(); err != nil {
			return err
		}
	}
	return nil
}
