package rollstats

import "sync"

// Synced guards a Stats with a single mutex so it can be shared between
// goroutines. The lock is held for the whole read-modify-write of an Update.
type Synced struct {
	mu    sync.Mutex
	stats *Stats
}

func NewSynced(s *Stats) *Synced {
	return &Synced{stats: s}
}

func (s *Synced) Update(x float64) (mean, stdev float64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats.Update(x)
}

// Snapshot returns the current mean, standard deviation and number of samples
// as seen by a single lock acquisition.
func (s *Synced) Snapshot() (mean, stdev float64, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats.Mean(), s.stats.StdDev(), s.stats.Len()
}

func (s *Synced) Values() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats.Values()
}
