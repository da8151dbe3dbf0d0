// Package random holds the sampling primitives shared by the exposure and
// reachability simulations: an injectable pseudo-random Source, a Box–Muller
// time sampler, an in-place Fisher–Yates shuffle and a weighted categorical draw.
//
// Every caller receives its Source explicitly so tests can seed determinism.
package random

import (
	"math"
	"math/rand"
	"time"
)

// Source is the subset of *rand.Rand the simulations depend on.
// Float64 must return values in [0,1) and Intn values in [0,n).
type Source interface {
	Float64() float64
	Intn(n int) int
}

// New returns a Source seeded with seed. A zero seed draws one from the clock.
func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Derive returns a seed for worker n of a run seeded with base.
func Derive(base int64, n int) int64 {
	return base + int64(n)*0x9E3779B9
}

// nonZero draws from src until the value is strictly positive.
// math.Log(0) is -Inf and would poison everything downstream.
func nonZero(src Source) float64 {
	for {
		if u := src.Float64(); u > 0 {
			return u
		}
	}
}

// Normal draws a normally distributed value with the given mean and standard
// deviation using the Box–Muller transform. The result is not wrapped.
func Normal(src Source, center, stddev float64) float64 {
	u1 := nonZero(src)
	u2 := src.Float64()
	return center + stddev*math.Sqrt(-2*math.Log(u1))*math.Cos(2*math.Pi*u2)
}

// WrapHour maps x onto the circular hour-of-day domain [0,24).
func WrapHour(x float64) float64 {
	return Wrap(x, 24)
}

// Wrap maps x onto [0,period) for a positive period.
func Wrap(x, period float64) float64 {
	r := math.Mod(math.Mod(x, period)+period, period)
	if r >= period {
		// math.Mod of a tiny negative x can round back up to period
		return 0
	}
	return r
}

// Shuffle permutes s in place (Fisher–Yates) and returns it.
func Shuffle[T any](src Source, s []T) []T {
	for i := len(s) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
	return s
}
