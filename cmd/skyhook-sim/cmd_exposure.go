package main

import (
	"github.com/spf13/cobra"

	"github.com/rewired-gh/skyhook-sim/internal/exposure"
	"github.com/rewired-gh/skyhook-sim/internal/logger"
	"github.com/rewired-gh/skyhook-sim/internal/models"
	"github.com/rewired-gh/skyhook-sim/internal/random"
)

// exposureFlags overrides simulation settings from the command line.
// Only flags the user actually set replace configured values.
type exposureFlags struct {
	entities   int
	anchor     int
	stddev     float64
	window     float64
	cycle      int
	phaseStep  int
	randomness float64
	spread     float64
	days       int
	seed       int64
}

func (f *exposureFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntVar(&f.entities, "entities", 0, "Number of simulated skyhooks")
	flags.IntVar(&f.anchor, "anchor", 0, "Base anchor hour of day (0-23)")
	flags.Float64Var(&f.stddev, "stddev", 0, "Window start jitter in hours")
	flags.Float64Var(&f.window, "window", 0, "Vulnerability window length in hours")
	flags.IntVar(&f.cycle, "cycle", 0, "Cycle length in hours")
	flags.IntVar(&f.phaseStep, "phase-step", 0, "Spacing of start phases in hours (0 = cycle length)")
	flags.Float64Var(&f.randomness, "randomness", 0, "Cycle randomness (0-1)")
	flags.Float64Var(&f.spread, "spread", 0, "Center spread (0-1)")
	flags.IntVar(&f.days, "days", 0, "Horizon in days")
	flags.Int64Var(&f.seed, "seed", 0, "Random seed (0 = time-seeded)")
}

func (f *exposureFlags) apply(cmd *cobra.Command, p models.ExposureParams) models.ExposureParams {
	flags := cmd.Flags()
	if flags.Changed("entities") {
		p.Entities = f.entities
	}
	if flags.Changed("anchor") {
		p.CenterAnchor = f.anchor
	}
	if flags.Changed("stddev") {
		p.StddevHours = f.stddev
	}
	if flags.Changed("window") {
		p.WindowHours = f.window
	}
	if flags.Changed("cycle") {
		p.CycleHours = f.cycle
	}
	if flags.Changed("phase-step") {
		p.PhaseStepHours = f.phaseStep
	}
	if flags.Changed("randomness") {
		p.CycleRandomness = f.randomness
	}
	if flags.Changed("spread") {
		p.CenterSpread = f.spread
	}
	if flags.Changed("days") {
		p.HorizonDays = f.days
	}
	if flags.Changed("seed") {
		p.Seed = f.seed
	}
	return p
}

func newExposureCmd(a *app) *cobra.Command {
	var f exposureFlags
	var notify bool

	cmd := &cobra.Command{
		Use:   "exposure",
		Short: "Simulate how many vulnerability windows are open at each hour",
		RunE: func(cmd *cobra.Command, args []string) error {
			params := f.apply(cmd, a.cfg.Simulation)

			logger.Info("Running exposure simulation (entities: %d, anchor: %d, spread: %.2f, randomness: %.2f, days: %d)",
				params.Entities, params.CenterAnchor, params.CenterSpread, params.CycleRandomness, params.HorizonDays)

			report, err := exposure.Run(random.New(params.Seed), params)
			if err != nil {
				return err
			}

			if a.jsonOut {
				if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
					return err
				}
			} else {
				printExposure(cmd.OutOrStdout(), report)
			}

			if notify {
				a.notify(&models.RunSummary{Exposure: report})
			}
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().BoolVar(&notify, "notify", false, "Send a run summary to Telegram when enabled")
	return cmd
}

func newDailyCmd(a *app) *cobra.Command {
	var (
		count  int
		center float64
		stddev float64
		seed   int64
	)

	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Show the single-day distribution of window start hours",
		RunE: func(cmd *cobra.Command, args []string) error {
			sim := a.cfg.Simulation
			if !cmd.Flags().Changed("count") {
				count = sim.Entities
			}
			if !cmd.Flags().Changed("center") {
				center = float64(sim.CenterAnchor)
			}
			if !cmd.Flags().Changed("stddev") {
				stddev = sim.StddevHours
			}
			if !cmd.Flags().Changed("seed") {
				seed = sim.Seed
			}
			hist, err := exposure.Daily(random.New(seed), count, center, stddev)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"series": hist.Points(), "total": hist.Total()})
			}
			printHistogram(cmd.OutOrStdout(), hist.Points())
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 0, "Number of window starts to draw")
	cmd.Flags().Float64Var(&center, "center", 0, "Center hour of day")
	cmd.Flags().Float64Var(&stddev, "stddev", 0, "Jitter in hours")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 = time-seeded)")
	return cmd
}
