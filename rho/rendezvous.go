package rho

import (
	"context"

	"github.com/adamgarcia4/goLearning/rhocollide/digest"
)

/*
Rendezvous

The rendezvous table maps each distinguished endpoint seen so far to the
start of the first trail that reached it. Two trails with different starts
and the same endpoint have merged somewhere along the way; refinement finds
where.

The table belongs to the single coordinator goroutine. Workers only ever
hand trails over the channel, so nothing here is locked. The table size is
mirrored into Stats for observers.
*/

// Meeting is a pair of trail starts whose walks converge on Endpoint
type Meeting struct {
	First     digest.Digest // start stored in the table
	Second    digest.Digest // start of the trail that hit the stored endpoint
	Endpoint  digest.Digest
	TableSize int // distinct endpoints held when the meeting was detected
}

// Rendezvous is the endpoint -> start table
type Rendezvous struct {
	table map[digest.Digest]digest.Digest
	stats *Stats
}

// NewRendezvous returns an empty table
func NewRendezvous(stats *Stats) *Rendezvous {
	if stats == nil {
		stats = NewStats()
	}
	return &Rendezvous{
		table: make(map[digest.Digest]digest.Digest),
		stats: stats,
	}
}

// Len returns the number of distinct endpoints held
func (r *Rendezvous) Len() int {
	return len(r.table)
}

// Observe records a trail. It reports a meeting when the endpoint is already
// held under a different start. A trail repeating the stored start is the
// same walk drawn twice and is ignored.
func (r *Rendezvous) Observe(t Trail) (Meeting, bool) {
	first, ok := r.table[t.End]
	if !ok {
		r.table[t.End] = t.Start
		r.stats.tableSize.Store(int64(len(r.table)))
		return Meeting{}, false
	}
	if first == t.Start {
		r.stats.duplicates.Add(1)
		return Meeting{}, false
	}
	return Meeting{
		First:     first,
		Second:    t.Start,
		Endpoint:  t.End,
		TableSize: len(r.table),
	}, true
}

// FindCollision consumes trails until two distinct trails share an endpoint.
// It returns ErrChannelClosedPrematurely if the stream ends first, or the
// context error if ctx is cancelled while waiting.
func (r *Rendezvous) FindCollision(ctx context.Context, trails <-chan Trail) (Meeting, error) {
	for {
		select {
		case t, ok := <-trails:
			if !ok {
				return Meeting{}, ErrChannelClosedPrematurely
			}
			if m, found := r.Observe(t); found {
				return m, nil
			}
		case <-ctx.Done():
			return Meeting{}, ctx.Err()
		}
	}
}
