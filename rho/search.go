package rho

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/adamgarcia4/goLearning/rhocollide/digest"
)

// PhaseFunc is notified on every phase transition of an attempt
type PhaseFunc func(runID string, phase Phase)

// Result is the outcome of a successful search
type Result struct {
	RunID     string
	Attempt   int
	Meeting   Meeting
	Collision *Collision
	Stats     StatsSnapshot
	Elapsed   time.Duration
}

// Search runs the collision search described by a Config
type Search struct {
	config *Config
	walk   *digest.Walker
	isDP   digest.Predicate
	stats  *Stats
	logFn  func(format string, args ...interface{})

	mu        sync.Mutex
	observers []PhaseFunc
}

// New creates a search with the given configuration
func New(config *Config, logFn func(format string, args ...interface{})) (*Search, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	walk, err := config.Walker()
	if err != nil {
		return nil, fmt.Errorf("failed to build walker: %w", err)
	}
	if logFn == nil {
		logFn = func(string, ...interface{}) {}
	}

	return &Search{
		config: config,
		walk:   walk,
		isDP:   config.Predicate(),
		stats:  NewStats(),
		logFn:  logFn,
	}, nil
}

// Stats returns the live counters of this search
func (s *Search) Stats() *Stats {
	return s.stats
}

// Walker returns the walk function in use
func (s *Search) Walker() *digest.Walker {
	return s.walk
}

// OnPhase registers fn to be called on phase transitions. Register before Run.
func (s *Search) OnPhase(fn PhaseFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

func (s *Search) setPhase(runID string, p Phase) {
	s.stats.setPhase(p)
	s.mu.Lock()
	observers := append([]PhaseFunc(nil), s.observers...)
	s.mu.Unlock()
	for _, fn := range observers {
		fn(runID, p)
	}
}

// Run searches until a verified collision is found, a fatal error occurs,
// or ctx is cancelled. Only ErrRefinementOverlapOnly starts a fresh attempt,
// and only while attempts remain.
func (s *Search) Run(ctx context.Context) (*Result, error) {
	var lastErr error
	for attempt := 1; attempt <= s.config.MaxAttempts; attempt++ {
		result, err := s.attempt(ctx, attempt)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !errors.Is(err, ErrRefinementOverlapOnly) || ctx.Err() != nil {
			break
		}
		s.logFn("[search] attempt %d found only overlapping trails, starting over", attempt)
	}
	return nil, lastErr
}

func (s *Search) attempt(ctx context.Context, attempt int) (*Result, error) {
	runID := uuid.NewString()
	started := time.Now()
	s.stats.attempts.Add(1)
	s.stats.tableSize.Store(0)

	s.logFn("[search] run %s attempt %d: %d workers, %s, %d distinguished bits",
		runID, attempt, s.config.Workers, s.walk.Name(), s.config.DistinguishedBits)
	s.setPhase(runID, PhaseSearching)

	meeting, err := s.detect(ctx, attempt)
	if err != nil {
		s.setPhase(runID, PhaseFailed)
		return nil, err
	}
	s.setPhase(runID, PhaseCollisionFound)
	s.logFn("[search] found colliding trails: %d entries in lookup table, endpoint %s",
		meeting.TableSize, meeting.Endpoint)

	s.setPhase(runID, PhaseRefining)
	collision, err := Refine(s.walk, s.isDP, meeting, s.config.StepLimit())
	if err != nil {
		s.setPhase(runID, PhaseFailed)
		return nil, fmt.Errorf("refinement failed: %w", err)
	}

	s.setPhase(runID, PhaseReported)
	return &Result{
		RunID:     runID,
		Attempt:   attempt,
		Meeting:   meeting,
		Collision: collision,
		Stats:     s.stats.Snapshot(),
		Elapsed:   time.Since(started),
	}, nil
}

// detect runs the worker pool against a fresh rendezvous table and tears the
// pool down as soon as the coordinator returns
func (s *Search) detect(parent context.Context, attempt int) (Meeting, error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	trails := make(chan Trail, s.config.TrailBuffer)
	pool := NewPool(s.config, s.walk, attempt, s.stats, s.logFn)
	poolErr := make(chan error, 1)
	go func() {
		poolErr <- pool.Run(ctx, trails)
	}()

	meeting, err := NewRendezvous(s.stats).FindCollision(ctx, trails)

	// kill workers
	cancel()
	werr := <-poolErr

	if err != nil {
		if perr := parent.Err(); perr != nil {
			return Meeting{}, perr
		}
		// a worker failure is what closed the channel
		if errors.Is(err, ErrChannelClosedPrematurely) && werr != nil {
			return Meeting{}, werr
		}
		return Meeting{}, err
	}
	return meeting, nil
}
