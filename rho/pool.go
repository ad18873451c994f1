package rho

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/adamgarcia4/goLearning/rhocollide/digest"
)

// Pool runs a fixed number of trail generators, each with its own random
// source, feeding one channel read by the coordinator.
type Pool struct {
	workers  int
	walk     *digest.Walker
	isDP     digest.Predicate
	maxSteps int
	dropLong bool
	seeded   bool
	seed     uint64
	attempt  int
	stats    *Stats
	logFn    func(format string, args ...interface{})
}

// NewPool builds a pool from a validated config. attempt separates the
// random sources of successive attempts in seeded runs.
func NewPool(config *Config, walk *digest.Walker, attempt int, stats *Stats, logFn func(format string, args ...interface{})) *Pool {
	if stats == nil {
		stats = NewStats()
	}
	if logFn == nil {
		logFn = func(string, ...interface{}) {}
	}
	return &Pool{
		workers:  config.Workers,
		walk:     walk,
		isDP:     config.Predicate(),
		maxSteps: config.StepLimit(),
		dropLong: config.DropLongTrails,
		seeded:   config.Seeded,
		seed:     config.Seed,
		attempt:  attempt,
		stats:    stats,
		logFn:    logFn,
	}
}

// Run starts the workers and blocks until all of them have exited, then closes out.
//
// Cancelling ctx is the shutdown signal: a worker blocked on a send, or part
// way through a trail, returns without error and its trail is abandoned.
// A worker failure (ErrTrailTooLong when long trails are not dropped) stops
// the other workers and is returned.
func (p *Pool) Run(ctx context.Context, out chan<- Trail) error {
	defer close(out)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < p.workers; i++ {
		maker := NewTrailMaker(p.walk, p.isDP, p.maxSteps, NewSource(p.seeded, p.seed, p.attempt, i))
		g.Go(func() error {
			return p.work(gctx, i, maker, out)
		})
	}
	return g.Wait()
}

func (p *Pool) work(ctx context.Context, id int, maker *TrailMaker, out chan<- Trail) error {
	for {
		trail, err := maker.Make(ctx)
		switch {
		case err == nil:
		case ctx.Err() != nil:
			return nil
		case errors.Is(err, ErrTrailTooLong) && p.dropLong:
			p.stats.addDropped(trail.Steps)
			p.logFn("[worker-%d] dropped trail: %v", id, err)
			continue
		default:
			return fmt.Errorf("worker %d: %w", id, err)
		}

		select {
		case out <- trail:
			p.stats.addTrail(trail.Steps)
		case <-ctx.Done():
			return nil
		}
	}
}
