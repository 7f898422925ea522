package glfx

import "sync/atomic"

// statsCounters are updated on the context goroutine and read by Stats
// from any goroutine.
type statsCounters struct {
	allocations [NumObjectKinds]atomic.Uint64
	releases    [NumObjectKinds]atomic.Uint64
}

func (s *statsCounters) allocated(k ObjectKind) { s.allocations[k].Add(1) }
func (s *statsCounters) released(k ObjectKind)  { s.releases[k].Add(1) }

// KindStats holds the counters of one object kind.
type KindStats struct {
	// Allocations counts successful native allocations.
	Allocations uint64

	// Releases counts explicit releases.
	Releases uint64

	// OrphansCaptured counts ids recorded by the leak registry.
	OrphansCaptured uint64

	// OrphansReleased counts ids released by a registry drain.
	OrphansReleased uint64

	// OrphansPending counts ids waiting for the next drain.
	OrphansPending int
}

// Live returns the number of native objects still alive.
func (k KindStats) Live() int64 {
	return int64(k.Allocations) - int64(k.Releases) - int64(k.OrphansReleased)
}

// Stats is a snapshot of a context's resource counters.
type Stats struct {
	Version Version
	Kinds   [NumObjectKinds]KindStats
	Drains  uint64
	Frames  uint64
}

// Live returns the number of live native objects over all kinds.
func (s Stats) Live() int64 {
	var total int64
	for _, k := range s.Kinds {
		total += k.Live()
	}
	return total
}

// Pending returns the number of orphaned ids over all kinds.
func (s Stats) Pending() int {
	total := 0
	for _, k := range s.Kinds {
		total += k.OrphansPending
	}
	return total
}

// Stats returns a snapshot of the context's resource counters.
//
// Stats is safe for concurrent use.
func (c *Context) Stats() Stats {
	leaks := c.leaks.Stats()
	s := Stats{
		Version: c.version,
		Drains:  leaks.Drains,
		Frames:  c.frames.Load(),
	}
	for i := range s.Kinds {
		s.Kinds[i] = KindStats{
			Allocations:     c.stats.allocations[i].Load(),
			Releases:        c.stats.releases[i].Load(),
			OrphansCaptured: leaks.Captured[i],
			OrphansReleased: leaks.Released[i],
			OrphansPending:  leaks.Pending[i],
		}
	}
	return s
}
