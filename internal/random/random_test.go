package random

import (
	"math"
	"sort"
	"testing"
)

// scripted replays fixed Float64 values and always returns 0 from Intn.
type scripted struct {
	values []float64
	next   int
}

func (s *scripted) Float64() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

func (s *scripted) Intn(n int) int { return 0 }

func TestNormalRejectsZeroDraw(t *testing.T) {
	src := &scripted{values: []float64{0, 0, 0.5, 0.25}}
	got := Normal(src, 12, 3)

	// zeros are rejected, so u1 = 0.5 and u2 = 0.25 (cos(pi/2) == ~0)
	if math.IsNaN(got) || math.IsInf(got, 0) {
		t.Fatalf("Normal returned non-finite value %v", got)
	}
	if math.Abs(got-12) > 1e-9 {
		t.Errorf("Normal = %v, expected ~12", got)
	}
	if src.next != 4 {
		t.Errorf("expected 4 draws (2 rejected), got %d", src.next)
	}
}

func TestNormalZeroStddevIsExact(t *testing.T) {
	src := New(7)
	for i := 0; i < 1000; i++ {
		if got := Normal(src, 18, 0); got != 18 {
			t.Fatalf("Normal with stddev 0 = %v, expected 18", got)
		}
	}
}

func TestNormalMoments(t *testing.T) {
	src := New(42)
	const n = 20000
	var sum, sumSq float64
	for i := 0; i < n; i++ {
		x := Normal(src, 12, 3)
		sum += x
		sumSq += x * x
	}
	mean := sum / n
	std := math.Sqrt(sumSq/n - mean*mean)
	if math.Abs(mean-12) > 0.1 {
		t.Errorf("sample mean %.3f too far from 12", mean)
	}
	if math.Abs(std-3) > 0.1 {
		t.Errorf("sample stddev %.3f too far from 3", std)
	}
}

func TestWrapHour(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{23.5, 23.5},
		{24, 0},
		{25.25, 1.25},
		{-1, 23},
		{-25, 23},
		{48, 0},
	}
	for _, tt := range tests {
		if got := WrapHour(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("WrapHour(%v) = %v, expected %v", tt.in, got, tt.want)
		}
	}
	if got := WrapHour(-1e-18); got < 0 || got >= 24 {
		t.Errorf("WrapHour(-1e-18) = %v, outside [0,24)", got)
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	src := New(3)
	in := []int{1, 2, 3, 4, 5, 6, 7, 8, 9}
	out := Shuffle(src, append([]int(nil), in...))
	sort.Ints(out)
	for i := range in {
		if in[i] != out[i] {
			t.Fatalf("shuffle lost elements: %v", out)
		}
	}
}

func TestWeightedPick(t *testing.T) {
	w, err := NewWeighted([]string{"a", "b", "c"}, []float64{0.2, 0.5, 0.3})
	if err != nil {
		t.Fatalf("NewWeighted failed: %v", err)
	}
	tests := []struct {
		u    float64
		want string
	}{
		{0, "a"},
		{0.1, "a"},
		{0.2, "a"},
		{0.21, "b"},
		{0.69, "b"},
		{0.71, "c"},
		{0.999, "c"},
	}
	for _, tt := range tests {
		if got := w.Pick(tt.u); got != tt.want {
			t.Errorf("Pick(%v) = %s, expected %s", tt.u, got, tt.want)
		}
	}
}

func TestWeightedPickFallsBackToLast(t *testing.T) {
	// weights short of the draw: the walk never reaches it
	w, err := NewWeighted([]int{10, 20, 30}, []float64{0.2, 0.3, 0.1})
	if err != nil {
		t.Fatalf("NewWeighted failed: %v", err)
	}
	if got := w.Pick(0.9); got != 30 {
		t.Errorf("Pick(0.9) = %d, expected fallback to last option 30", got)
	}
}

func TestNewWeightedErrors(t *testing.T) {
	if _, err := NewWeighted([]int{}, []float64{}); err == nil {
		t.Error("expected error for empty options")
	}
	if _, err := NewWeighted([]int{1, 2}, []float64{1}); err == nil {
		t.Error("expected error for mismatched lengths")
	}
}
