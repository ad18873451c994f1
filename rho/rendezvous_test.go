package rho

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feed(trails ...Trail) <-chan Trail {
	ch := make(chan Trail, len(trails))
	for _, t := range trails {
		ch <- t
	}
	close(ch)
	return ch
}

func TestRendezvousDetectsOnMatchingEntry(t *testing.T) {
	s1, s2, s3 := hexDigest(t, "1111"), hexDigest(t, "2222"), hexDigest(t, "3333")
	e1, e2 := hexDigest(t, "0001"), hexDigest(t, "0002")

	r := NewRendezvous(nil)
	m, err := r.FindCollision(context.Background(), feed(
		Trail{Start: s1, End: e1},
		Trail{Start: s2, End: e2},
		Trail{Start: s3, End: e1},
	))
	require.NoError(t, err)
	assert.Equal(t, s1, m.First)
	assert.Equal(t, s3, m.Second)
	assert.Equal(t, e1, m.Endpoint)
	assert.Equal(t, 2, m.TableSize)
}

func TestRendezvousNeverDetectsOnFirstInsertion(t *testing.T) {
	s1, s2 := hexDigest(t, "1111"), hexDigest(t, "2222")
	e := hexDigest(t, "0001")

	r := NewRendezvous(nil)
	_, found := r.Observe(Trail{Start: s1, End: e})
	assert.False(t, found)
	assert.Equal(t, 1, r.Len())

	m, found := r.Observe(Trail{Start: s2, End: e})
	require.True(t, found)
	assert.Equal(t, s1, m.First)
	assert.Equal(t, s2, m.Second)
	assert.Equal(t, 1, m.TableSize)
}

func TestRendezvousIgnoresRepeatedStart(t *testing.T) {
	s1 := hexDigest(t, "1111")
	e1 := hexDigest(t, "0001")
	stats := NewStats()

	r := NewRendezvous(stats)
	_, err := r.FindCollision(context.Background(), feed(
		Trail{Start: s1, End: e1},
		Trail{Start: s1, End: e1},
	))
	assert.ErrorIs(t, err, ErrChannelClosedPrematurely)
	assert.Equal(t, int64(1), stats.Snapshot().Duplicates)
	assert.Equal(t, int64(1), stats.Snapshot().TableSize)
}

func TestRendezvousClosedStream(t *testing.T) {
	_, err := NewRendezvous(nil).FindCollision(context.Background(), feed())
	assert.ErrorIs(t, err, ErrChannelClosedPrematurely)
}

func TestRendezvousCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRendezvous(nil).FindCollision(ctx, make(chan Trail))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRendezvousSoundness(t *testing.T) {
	w, isDP := narrowWalker(t)

	for seed := uint64(0); seed < 10; seed++ {
		maker := NewTrailMaker(w, isDP, 1000, NewSource(true, seed, 1, 0))
		r := NewRendezvous(nil)

		var m Meeting
		for found := false; !found; {
			trail, err := maker.Make(context.Background())
			if err != nil {
				continue
			}
			m, found = r.Observe(trail)
		}

		a, err := maker.Walk(context.Background(), m.First)
		require.NoError(t, err)
		b, err := maker.Walk(context.Background(), m.Second)
		require.NoError(t, err)

		assert.NotEqual(t, m.First, m.Second)
		assert.Equal(t, m.Endpoint, a.End)
		assert.Equal(t, m.Endpoint, b.End)
	}
}
