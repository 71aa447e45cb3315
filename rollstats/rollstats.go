// Package rollstats keeps the mean and standard deviation of a fixed-size
// sliding window of samples, updated in O(1) per sample.
//
// Variance is tracked with Welford's method: the accumulator holds the sum of
// squared deviations from the running mean (m2) and the sample variance is
// m2/(n-1). Once the window is full each update swaps the evicted sample for
// the new one in a single step, without touching the rest of the window.
//
// See https://jonisalonen.com/2014/efficient-and-accurate-rolling-standard-deviation/
package rollstats

import (
	"errors"
	"math"

	"github.com/montanaflynn/stats"
	"pedro.to/rollstats/bufop"
)

var (
	ErrInvalidConfiguration = errors.New("window size must be positive")
	ErrInvalidSample        = errors.New("sample must be a finite number")
	ErrInsufficientSeed     = errors.New("seed needs at least one sample")
)

type State int

const (
	// Warming means the window has fewer samples than its capacity.
	Warming State = iota
	// Steady means the window is full. Every update evicts the oldest sample.
	Steady
)

func (s State) String() string {
	switch s {
	case Warming:
		return "warming"
	case Steady:
		return "steady"
	}
	return "unknown"
}

// Stats is a rolling mean/stdev accumulator. It is not safe for concurrent
// use, see Synced.
type Stats struct {
	window *bufop.Ring
	mean   float64
	m2     float64
	// Neumaier compensated sum of the window, the mean is derived from it
	sum  float64
	comp float64
}

// New returns an empty accumulator over a window of `capacity` samples.
func New(capacity int) (*Stats, error) {
	if capacity <= 0 {
		return nil, ErrInvalidConfiguration
	}
	return &Stats{window: bufop.New(capacity)}, nil
}

// NewSeeded returns a full accumulator whose window is `seed`, so its
// capacity is len(seed). The first Update evicts seed[0].
func NewSeeded(seed []float64) (*Stats, error) {
	if len(seed) == 0 {
		return nil, ErrInsufficientSeed
	}
	for _, v := range seed {
		if !finite(v) {
			return nil, ErrInvalidSample
		}
	}

	mean, err := stats.Mean(seed)
	if err != nil {
		return nil, err
	}
	s := &Stats{
		window: bufop.From(seed),
		mean:   mean,
	}
	for _, v := range seed {
		s.add(v)
	}
	if len(seed) > 1 {
		variance, err := stats.SampleVariance(seed)
		if err != nil {
			return nil, err
		}
		s.m2 = variance * float64(len(seed)-1)
	}
	return s, nil
}

// Update adds `x` to the window, evicting the oldest sample if the window is
// full, and returns the new mean and standard deviation. A non-finite `x` is
// rejected with ErrInvalidSample and leaves the accumulator untouched.
func (s *Stats) Update(x float64) (mean, stdev float64, err error) {
	if !finite(x) {
		return s.mean, s.StdDev(), ErrInvalidSample
	}

	evicted, full := s.window.Put(x)
	if s.window.Cap() == 1 {
		s.mean, s.m2 = x, 0
		s.sum, s.comp = x, 0
		return s.mean, 0, nil
	}
	if !full {
		s.add(x)
		n := s.window.Len()
		if n == 1 {
			s.mean = x
			s.m2 = 0
			return s.mean, 0, nil
		}
		// n is never below 2 here, the clamp keeps the divisor away from 0
		n = maxInt(n, 2)
		delta := x - s.mean
		s.mean = (s.sum + s.comp) / float64(n)
		s.m2 += delta * (x - s.mean)
		return s.mean, s.StdDev(), nil
	}

	s.add(x)
	s.add(-evicted)
	dval := x - evicted
	oldMean := s.mean
	s.mean = (s.sum + s.comp) / float64(s.window.Cap())
	s.m2 += dval * ((x - s.mean) + (evicted - oldMean))
	return s.mean, s.StdDev(), nil
}

// add folds v into the running sum, carrying the low-order bits lost by the
// addition in comp.
func (s *Stats) add(v float64) {
	t := s.sum + v
	if math.Abs(s.sum) >= math.Abs(v) {
		s.comp += (s.sum - t) + v
	} else {
		s.comp += (v - t) + s.sum
	}
	s.sum = t
}

func (s *Stats) Mean() float64 {
	return s.mean
}

// Variance returns the sample (n-1) variance of the window, 0 with fewer than
// two samples. Rounding residue below zero is reported as 0.
func (s *Stats) Variance() float64 {
	n := s.window.Len()
	if n < 2 {
		return 0
	}
	v := s.m2 / float64(n-1)
	if v < 0 {
		return 0
	}
	return v
}

func (s *Stats) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// Len returns how many samples the window currently holds.
func (s *Stats) Len() int {
	return s.window.Len()
}

// Cap returns the window size.
func (s *Stats) Cap() int {
	return s.window.Cap()
}

func (s *Stats) State() State {
	if s.window.Full() {
		return Steady
	}
	return Warming
}

// Values returns a copy of the window, oldest first.
func (s *Stats) Values() []float64 {
	return s.window.Values()
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func maxInt(x, y int) int {
	if x > y {
		return x
	}
	return y
}
