// Package reach estimates how far a random actor has to travel through the
// jump graph to reach a vulnerable system.
//
// Each trial draws a start system uniformly at random (with replacement) and
// runs a breadth-first search to the nearest target. Trials that cannot reach
// any target are dropped from the Result rather than counted as failures, so
// statistics describe successful trials only and report ok=false when there
// are none.
package reach

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rewired-gh/skyhook-sim/internal/logger"
	"github.com/rewired-gh/skyhook-sim/internal/models"
	"github.com/rewired-gh/skyhook-sim/internal/random"
	"github.com/rewired-gh/skyhook-sim/internal/universe"
)

// ErrEmptyGraph is returned when a bucket estimate is requested against a
// graph with no candidate systems.
var ErrEmptyGraph = errors.New("graph has no candidate systems")

// cancelCheckEvery is how many trials run between context checks.
const cancelCheckEvery = 1024

// Estimate runs trials sequentially using src and returns the hop counts of
// the successful ones. Empty targets or an empty graph give an empty Result.
func Estimate(src random.Source, g *universe.Graph, targets universe.TargetSet, trials int) Result {
	result, _ := estimate(context.Background(), src, g, g.Mask(targets), trials, nil)
	return result
}

func estimate(ctx context.Context, src random.Source, g *universe.Graph, mask []bool, trials int, onTrial func()) (Result, error) {
	n := g.SystemCount()
	if n == 0 || trials <= 0 || !anySet(mask) {
		return Result{}, nil
	}

	searcher := g.NewSearcher()
	result := make(Result, 0, trials)
	for i := 0; i < trials; i++ {
		if i%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		start := g.SystemAt(src.Intn(n))
		if hops := searcher.ShortestHops(start, mask); hops != universe.NotFound {
			result = append(result, hops)
		}
		if onTrial != nil {
			onTrial()
		}
	}
	return result, nil
}

func anySet(mask []bool) bool {
	for _, b := range mask {
		if b {
			return true
		}
	}
	return false
}

// Estimator spreads trials over several workers. Each worker draws from its
// own source derived from Seed, and results are merged in worker order, so a
// fixed Seed and Workers pair reproduces the same Result.
type Estimator struct {
	Workers int
	Seed    int64  // 0 seeds from the clock
	OnTrial func() // optional, called once per trial from any worker
}

// Run executes trials against g and targets. The graph is only read.
func (e Estimator) Run(ctx context.Context, g *universe.Graph, targets universe.TargetSet, trials int) (Result, error) {
	seed := e.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	mask := g.Mask(targets)

	workers := max(e.Workers, 1)
	if workers > trials {
		workers = max(trials, 1)
	}
	if workers == 1 {
		return estimate(ctx, random.New(seed), g, mask, trials, e.OnTrial)
	}

	parts := make([]Result, workers)
	eg, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		share := trials / workers
		if w < trials%workers {
			share++
		}
		eg.Go(func() error {
			res, err := estimate(ctx, random.New(random.Derive(seed, w)), g, mask, share, e.OnTrial)
			if err != nil {
				return err
			}
			parts[w] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	merged := make(Result, 0, trials)
	for _, p := range parts {
		merged = append(merged, p...)
	}
	return merged, nil
}

// SampleTargets picks min(count, systems) distinct candidate systems
// uniformly at random.
func SampleTargets(src random.Source, g *universe.Graph, count int) universe.TargetSet {
	n := g.SystemCount()
	count = min(max(count, 0), n)

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	// partial Fisher–Yates: only the first count positions are needed
	targets := make(universe.TargetSet, count)
	for i := 0; i < count; i++ {
		j := i + src.Intn(n-i)
		idx[i], idx[j] = idx[j], idx[i]
		targets[g.ID(g.SystemAt(idx[i]))] = struct{}{}
	}
	return targets
}

// EstimateBucket answers "how far is the nearest vulnerable system" for a
// histogram bucket holding params.Count vulnerable entities. A zero count
// short-circuits to an undefined report without running any trial.
func EstimateBucket(ctx context.Context, g *universe.Graph, params models.ReachParams, onTrial func()) (*models.ReachReport, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	report := &models.ReachReport{
		ID:       uuid.New().String(),
		Count:    params.Count,
		MaxJumps: params.MaxJumps,
		MeanHops: models.NoTargetsMeanHops,
	}

	if params.Count == 0 {
		report.GeneratedAt = time.Now()
		return report, nil
	}
	if g == nil || g.SystemCount() == 0 {
		return nil, ErrEmptyGraph
	}

	seed := params.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	targets := SampleTargets(random.New(seed), g, params.Count)

	logger.Debug("Estimating reachability: targets=%d systems=%d trials=%d workers=%d",
		len(targets), g.SystemCount(), params.Trials, params.Workers)

	est := Estimator{Workers: params.Workers, Seed: random.Derive(seed, 1), OnTrial: onTrial}
	result, err := est.Run(ctx, g, targets, params.Trials)
	if err != nil {
		return nil, fmt.Errorf("failed to run reachability trials: %w", err)
	}

	report.Targets = len(targets)
	report.Trials = params.Trials
	report.Successful = len(result)
	if mean, ok := result.MeanHops(); ok {
		report.Defined = true
		report.MeanHops = mean
		report.MedianHops, _ = result.MedianHops()
		report.StddevHops, _ = result.StddevHops()
		report.ProbabilityWithin, _ = result.ProbabilityWithin(params.MaxJumps)
	}
	report.GeneratedAt = time.Now()

	logger.Debug("Reachability estimate complete: successful=%d/%d mean=%.2f p(<=%d)=%.4f",
		report.Successful, report.Trials, report.MeanHops, params.MaxJumps, report.ProbabilityWithin)
	return report, nil
}
