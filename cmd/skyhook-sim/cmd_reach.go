package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/cheggaaa/pb.v1"

	"github.com/rewired-gh/skyhook-sim/internal/exposure"
	"github.com/rewired-gh/skyhook-sim/internal/logger"
	"github.com/rewired-gh/skyhook-sim/internal/models"
	"github.com/rewired-gh/skyhook-sim/internal/random"
	"github.com/rewired-gh/skyhook-sim/internal/reach"
	"github.com/rewired-gh/skyhook-sim/internal/universe"
)

func newReachCmd(a *app) *cobra.Command {
	var (
		f        exposureFlags
		count    int
		peak     bool
		trials   int
		maxJumps int
		workers  int
		seed     int64
		progress bool
		notify   bool
	)

	cmd := &cobra.Command{
		Use:   "reach",
		Short: "Estimate jumps from a random system to the nearest vulnerable one",
		Long: `reach samples --count vulnerable systems from the universe and runs
Monte-Carlo breadth-first searches from random start systems.

With --peak the count is taken from the peak hour of an exposure run, which
accepts the same simulation flags as the exposure command.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !peak && !cmd.Flags().Changed("count") {
				return fmt.Errorf("either --count or --peak is required")
			}

			sim := f.apply(cmd, a.cfg.Simulation)
			summary := &models.RunSummary{}
			if peak {
				report, err := exposure.Run(random.New(sim.Seed), sim)
				if err != nil {
					return err
				}
				summary.Exposure = report
				count = report.PeakCount
				logger.Info("Peak exposure %d at hour %d (%s)", report.PeakCount, report.PeakHour, exposure.HourLabel(report.PeakHour))
			}

			params := a.cfg.ReachParams(count)
			params.Seed = sim.Seed
			if cmd.Flags().Changed("trials") {
				params.Trials = trials
			}
			if cmd.Flags().Changed("max-jumps") {
				params.MaxJumps = maxJumps
			}
			if cmd.Flags().Changed("workers") {
				params.Workers = workers
			}
			if cmd.Flags().Changed("reach-seed") {
				params.Seed = seed
			}
			if err := params.Validate(); err != nil {
				return err
			}

			// a zero count never touches the graph
			var g *universe.Graph
			if params.Count > 0 {
				var err error
				if g, err = a.loadGraph(cmd.Context()); err != nil {
					return err
				}
			}

			var onTrial func()
			if progress && params.Count > 0 {
				bar := pb.New(params.Trials)
				bar.Output = os.Stderr
				bar.ShowSpeed = true
				bar.Start()
				defer bar.Finish()
				onTrial = func() { bar.Increment() }
			}

			logger.Info("Estimating reachability (count: %d, trials: %d, max_jumps: %d, workers: %d)",
				params.Count, params.Trials, params.MaxJumps, params.Workers)

			report, err := reach.EstimateBucket(cmd.Context(), g, params, onTrial)
			if err != nil {
				return err
			}
			summary.Reach = report

			if a.jsonOut {
				if err := writeJSON(cmd.OutOrStdout(), summary); err != nil {
					return err
				}
			} else {
				if summary.Exposure != nil {
					printExposureSummary(cmd.OutOrStdout(), summary.Exposure)
				}
				printReach(cmd.OutOrStdout(), report)
			}

			if notify {
				a.notify(summary)
			}
			return nil
		},
	}

	f.register(cmd)
	flags := cmd.Flags()
	flags.IntVar(&count, "count", 0, "Number of vulnerable systems")
	flags.BoolVar(&peak, "peak", false, "Use the peak hour count of an exposure run")
	flags.IntVar(&trials, "trials", 0, "Monte-Carlo trials")
	flags.IntVar(&maxJumps, "max-jumps", 0, "Jump threshold for the probability estimate")
	flags.IntVar(&workers, "workers", 0, "Parallel workers")
	flags.Int64Var(&seed, "reach-seed", 0, "Random seed for target and start sampling (0 = simulation seed)")
	flags.BoolVar(&progress, "progress", false, "Show a progress bar")
	flags.BoolVar(&notify, "notify", false, "Send a run summary to Telegram when enabled")
	return cmd
}
