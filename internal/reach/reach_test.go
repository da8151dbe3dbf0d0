package reach

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync/atomic"
	"testing"

	"github.com/rewired-gh/skyhook-sim/internal/models"
	"github.com/rewired-gh/skyhook-sim/internal/random"
	"github.com/rewired-gh/skyhook-sim/internal/universe"
)

// starGraph links a hub to n leaves in both directions. Only the leaves are
// candidate systems, so every trial starts one hop away from the hub.
func starGraph(n int) *universe.Graph {
	g := universe.NewGraph()
	for i := 0; i < n; i++ {
		leaf := fmt.Sprintf("L%d", i)
		g.AddSystem(leaf)
		g.ConnectBoth("C", leaf)
	}
	return g
}

func pathGraph() *universe.Graph {
	g := universe.NewGraph()
	for _, id := range []string{"A", "B", "C", "D"} {
		g.AddSystem(id)
	}
	g.ConnectBoth("A", "B")
	g.ConnectBoth("B", "C")
	g.ConnectBoth("C", "D")
	return g
}

func TestEstimateStarGraph(t *testing.T) {
	g := starGraph(10)
	result := Estimate(random.New(1), g, universe.NewTargetSet("C"), 1000)

	if len(result) != 1000 {
		t.Fatalf("expected 1000 successful trials, got %d", len(result))
	}
	for i, h := range result {
		if h != 1 {
			t.Fatalf("trial %d: hops = %d, expected 1", i, h)
		}
	}
	mean, ok := result.MeanHops()
	if !ok || mean != 1.0 {
		t.Errorf("MeanHops = %v (ok=%v), expected exactly 1.0", mean, ok)
	}
}

func TestEstimatePathGraph(t *testing.T) {
	g := pathGraph()
	result := Estimate(random.New(2), g, universe.NewTargetSet("D"), 2000)
	if len(result) != 2000 {
		t.Fatalf("expected 2000 results, got %d", len(result))
	}
	seen := map[int]bool{}
	for _, h := range result {
		if h < 0 || h > 3 {
			t.Fatalf("hop count %d outside 0..3", h)
		}
		seen[h] = true
	}
	if len(seen) != 4 {
		t.Errorf("expected all hop counts 0..3 to appear, got %v", seen)
	}
	mean, _ := result.MeanHops()
	if math.Abs(mean-1.5) > 0.1 {
		t.Errorf("mean %.3f too far from 1.5", mean)
	}
}

func TestEstimateDegenerateInputs(t *testing.T) {
	g := pathGraph()

	result := Estimate(random.New(3), g, universe.NewTargetSet(), 500)
	if len(result) != 0 {
		t.Errorf("empty targets: expected empty result, got %d entries", len(result))
	}
	if _, ok := result.MeanHops(); ok {
		t.Error("MeanHops should be undefined for an empty result")
	}
	if _, ok := result.ProbabilityWithin(5); ok {
		t.Error("ProbabilityWithin should be undefined for an empty result")
	}

	result = Estimate(random.New(3), universe.NewGraph(), universe.NewTargetSet("A"), 500)
	if len(result) != 0 {
		t.Errorf("empty graph: expected empty result, got %d entries", len(result))
	}

	result = Estimate(random.New(3), g, universe.NewTargetSet("nowhere"), 500)
	if len(result) != 0 {
		t.Errorf("unknown target: expected empty result, got %d entries", len(result))
	}
}

func TestEstimateDropsUnreachableTrials(t *testing.T) {
	g := universe.NewGraph()
	g.AddSystem("A")
	g.AddSystem("B") // isolated

	result := Estimate(random.New(4), g, universe.NewTargetSet("A"), 1000)
	if len(result) == 0 || len(result) == 1000 {
		t.Fatalf("expected some but not all trials to succeed, got %d", len(result))
	}
	for _, h := range result {
		if h != 0 {
			t.Fatalf("only A reaches the target, got hop count %d", h)
		}
	}
}

func TestProbabilityWithinMonotonic(t *testing.T) {
	g := universe.NewGraph()
	for i := 0; i < 30; i++ {
		g.AddSystem(fmt.Sprint(i))
		if i > 0 {
			g.ConnectBoth(fmt.Sprint(i-1), fmt.Sprint(i))
		}
	}
	result := Estimate(random.New(5), g, universe.NewTargetSet("0"), 3000)

	prev := -1.0
	for k := 0; k <= 30; k++ {
		p, ok := result.ProbabilityWithin(k)
		if !ok {
			t.Fatal("ProbabilityWithin undefined")
		}
		if p < prev {
			t.Fatalf("ProbabilityWithin(%d) = %v < ProbabilityWithin(%d) = %v", k, p, k-1, prev)
		}
		prev = p
	}
	if prev != 1 {
		t.Errorf("ProbabilityWithin(30) = %v, expected 1", prev)
	}
}

func TestResultStats(t *testing.T) {
	r := Result{1, 2, 3}
	if m, _ := r.MeanHops(); m != 2 {
		t.Errorf("MeanHops = %v, expected 2", m)
	}
	if m, _ := r.MedianHops(); m != 2 {
		t.Errorf("MedianHops = %v, expected 2", m)
	}
	if s, _ := r.StddevHops(); math.Abs(s-1) > 1e-12 {
		t.Errorf("StddevHops = %v, expected 1", s)
	}
	if p, _ := r.ProbabilityWithin(1); math.Abs(p-1.0/3) > 1e-12 {
		t.Errorf("ProbabilityWithin(1) = %v, expected 1/3", p)
	}
	if s, ok := (Result{4}).StddevHops(); !ok || s != 0 {
		t.Errorf("single-value stddev = %v, %v", s, ok)
	}
}

func TestEstimatorParallelIsReproducible(t *testing.T) {
	g := pathGraph()
	targets := universe.NewTargetSet("D")

	var calls atomic.Int64
	est := Estimator{Workers: 4, Seed: 42, OnTrial: func() { calls.Add(1) }}
	first, err := est.Run(context.Background(), g, targets, 1001)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	second, err := est.Run(context.Background(), g, targets, 1001)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(first) != 1001 {
		t.Errorf("expected 1001 results, got %d", len(first))
	}
	if !slices.Equal(first, second) {
		t.Error("same seed and workers produced different results")
	}
	if calls.Load() != 2002 {
		t.Errorf("OnTrial called %d times, expected 2002", calls.Load())
	}
}

func TestEstimatorMoreWorkersThanTrials(t *testing.T) {
	result, err := Estimator{Workers: 16, Seed: 7}.Run(context.Background(), starGraph(5), universe.NewTargetSet("C"), 3)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !slices.Equal(result, Result{1, 1, 1}) {
		t.Errorf("expected three 1-hop results, got %v", result)
	}
}

func TestEstimatorCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, workers := range []int{1, 3} {
		_, err := Estimator{Workers: workers, Seed: 1}.Run(ctx, pathGraph(), universe.NewTargetSet("D"), 5000)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("workers=%d: expected context.Canceled, got %v", workers, err)
		}
	}
}

func TestSampleTargets(t *testing.T) {
	g := starGraph(10)
	src := random.New(9)

	if got := SampleTargets(src, g, 0); len(got) != 0 {
		t.Errorf("count 0: expected no targets, got %v", got)
	}
	got := SampleTargets(src, g, 4)
	if len(got) != 4 {
		t.Errorf("expected 4 distinct targets, got %d", len(got))
	}
	for id := range got {
		if id == "C" {
			t.Error("hub is not a candidate system and must never be sampled")
		}
	}
	if got := SampleTargets(src, g, 50); len(got) != 10 {
		t.Errorf("count above system count: expected 10 targets, got %d", len(got))
	}
}

func TestEstimateBucket(t *testing.T) {
	ctx := context.Background()

	report, err := EstimateBucket(ctx, starGraph(10), models.ReachParams{Count: 0, Trials: 100, MaxJumps: 5}, nil)
	if err != nil {
		t.Fatalf("EstimateBucket failed: %v", err)
	}
	if report.Defined || report.MeanHops != -1 || report.ProbabilityWithin != 0 || report.Trials != 0 {
		t.Errorf("zero count should short-circuit, got %+v", report)
	}
	if err := report.Validate(); err != nil {
		t.Errorf("zero-count report invalid: %v", err)
	}

	if _, err := EstimateBucket(ctx, universe.NewGraph(), models.ReachParams{Count: 3, Trials: 100}, nil); !errors.Is(err, ErrEmptyGraph) {
		t.Errorf("expected ErrEmptyGraph, got %v", err)
	}

	if _, err := EstimateBucket(ctx, starGraph(3), models.ReachParams{Count: 3, Trials: 0}, nil); !errors.Is(err, models.ErrInvalidParams) {
		t.Errorf("expected ErrInvalidParams, got %v", err)
	}

	// every candidate is a target: each start is already vulnerable
	report, err = EstimateBucket(ctx, starGraph(10), models.ReachParams{Count: 10, Trials: 500, MaxJumps: 0, Workers: 2, Seed: 11}, nil)
	if err != nil {
		t.Fatalf("EstimateBucket failed: %v", err)
	}
	if !report.Defined || report.MeanHops != 0 || report.ProbabilityWithin != 1 {
		t.Errorf("expected mean 0 and probability 1, got %+v", report)
	}
	if report.Successful != 500 || report.Targets != 10 {
		t.Errorf("unexpected counts: %+v", report)
	}
	if err := report.Validate(); err != nil {
		t.Errorf("report invalid: %v", err)
	}

	// one target among ten leaves: other leaves are two hops away via the hub
	report, err = EstimateBucket(ctx, starGraph(10), models.ReachParams{Count: 1, Trials: 2000, MaxJumps: 1, Seed: 12}, nil)
	if err != nil {
		t.Fatalf("EstimateBucket failed: %v", err)
	}
	if math.Abs(report.MeanHops-1.8) > 0.15 {
		t.Errorf("mean hops %.3f too far from 1.8", report.MeanHops)
	}
	if math.Abs(report.ProbabilityWithin-0.1) > 0.04 {
		t.Errorf("probability within 1 = %.3f, expected ~0.1", report.ProbabilityWithin)
	}
}
