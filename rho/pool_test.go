package rho

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adamgarcia4/goLearning/rhocollide/digest"
)

func runPool(t *testing.T, ctx context.Context, cfg *Config, stats *Stats) (<-chan Trail, <-chan error) {
	t.Helper()
	w, err := cfg.Walker()
	require.NoError(t, err)

	trails := make(chan Trail)
	done := make(chan error, 1)
	pool := NewPool(cfg, w, 1, stats, t.Logf)
	go func() {
		done <- pool.Run(ctx, trails)
	}()
	return trails, done
}

func drain(trails <-chan Trail) {
	for range trails {
	}
}

func TestPoolSingleWorkerProducesTrails(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	stats := NewStats()
	trails, done := runPool(t, ctx, narrowConfig(), stats)

	isDP := narrowConfig().Predicate()
	for i := 0; i < 20; i++ {
		trail := <-trails
		assert.True(t, isDP(trail.End))
	}

	cancel()
	drain(trails)
	assert.NoError(t, <-done)
	assert.GreaterOrEqual(t, stats.Snapshot().Trails, int64(20))
}

func TestPoolShutsDownWorkersBlockedOnSend(t *testing.T) {
	cfg := narrowConfig()
	cfg.Workers = 4
	ctx, cancel := context.WithCancel(context.Background())
	trails, done := runPool(t, ctx, cfg, nil)

	<-trails
	// nobody reads again: every worker ends up blocked on its send
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("pool did not shut down")
	}
	drain(trails)
}

func TestPoolWorkerFailureClosesChannel(t *testing.T) {
	cfg := narrowConfig()
	cfg.Workers = 3
	cfg.DropLongTrails = false
	cfg.MaxTrailSteps = 50
	cfg.Distinguished = func(digest.Digest) bool { return false }

	trails, done := runPool(t, context.Background(), cfg, nil)

	_, ok := <-trails
	assert.False(t, ok, "channel should close without delivering trails")
	assert.ErrorIs(t, <-done, ErrTrailTooLong)
}

func TestPoolDropsLongTrails(t *testing.T) {
	cfg := narrowConfig()
	cfg.DistinguishedBits = 8
	cfg.MaxTrailSteps = 10

	ctx, cancel := context.WithCancel(context.Background())
	stats := NewStats()
	trails, done := runPool(t, ctx, cfg, stats)

	for i := 0; i < 5; i++ {
		trail := <-trails
		assert.LessOrEqual(t, trail.Steps, 10)
	}
	cancel()
	drain(trails)
	require.NoError(t, <-done)
	assert.Positive(t, stats.Snapshot().Dropped)
}
