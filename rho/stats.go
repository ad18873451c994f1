package rho

import "sync/atomic"

// Phase is a state of the search state machine:
//
//	Searching -> CollisionFound -> Refining -> Reported
//
// with Failed reachable from any of the first three. An attempt never
// re-enters Searching; a retry starts a new attempt.
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseSearching
	PhaseCollisionFound
	PhaseRefining
	PhaseReported
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSearching:
		return "searching"
	case PhaseCollisionFound:
		return "collision-found"
	case PhaseRefining:
		return "refining"
	case PhaseReported:
		return "reported"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

// Active reports whether the search is still working toward a result
func (p Phase) Active() bool {
	return p == PhaseSearching || p == PhaseCollisionFound || p == PhaseRefining
}

// Stats are live counters shared between workers, the coordinator and observers.
// Writers only ever add; readers get a consistent-enough Snapshot.
type Stats struct {
	trails     atomic.Int64
	steps      atomic.Int64
	dropped    atomic.Int64
	duplicates atomic.Int64
	tableSize  atomic.Int64
	attempts   atomic.Int64
	phase      atomic.Int32
}

// StatsSnapshot is a point-in-time copy of Stats
type StatsSnapshot struct {
	Trails     int64
	Steps      int64
	Dropped    int64
	Duplicates int64
	TableSize  int64
	Attempts   int64
	Phase      Phase
}

// NewStats returns zeroed stats
func NewStats() *Stats {
	return &Stats{}
}

// Snapshot returns the current counter values
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Trails:     s.trails.Load(),
		Steps:      s.steps.Load(),
		Dropped:    s.dropped.Load(),
		Duplicates: s.duplicates.Load(),
		TableSize:  s.tableSize.Load(),
		Attempts:   s.attempts.Load(),
		Phase:      Phase(s.phase.Load()),
	}
}

// Phase returns the current phase
func (s *Stats) Phase() Phase {
	return Phase(s.phase.Load())
}

func (s *Stats) setPhase(p Phase) {
	s.phase.Store(int32(p))
}

func (s *Stats) addTrail(steps int) {
	s.trails.Add(1)
	s.steps.Add(int64(steps))
}

func (s *Stats) addDropped(steps int) {
	s.dropped.Add(1)
	s.steps.Add(int64(steps))
}
