package rho

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"

	"github.com/adamgarcia4/goLearning/rhocollide/digest"
)

// cancelCheckInterval is how many steps a trail takes between context checks
const cancelCheckInterval = 4096

// Trail is a walk from a random start to the first distinguished point after it
type Trail struct {
	Start digest.Digest
	End   digest.Digest
	Steps int
}

// TrailMaker generates trails for a single worker. It owns its random source
// and must not be shared between goroutines.
type TrailMaker struct {
	walk     *digest.Walker
	isDP     digest.Predicate
	maxSteps int
	src      *rand.ChaCha8
	buf      []byte
}

// NewTrailMaker returns a maker drawing starts from src. maxSteps <= 0 means unbounded.
func NewTrailMaker(walk *digest.Walker, isDP digest.Predicate, maxSteps int, src *rand.ChaCha8) *TrailMaker {
	return &TrailMaker{
		walk:     walk,
		isDP:     isDP,
		maxSteps: maxSteps,
		src:      src,
		buf:      make([]byte, walk.Size()),
	}
}

// NewSource returns the random source for a worker. Seeded sources are
// reproducible per (seed, attempt, index); otherwise the key comes from crypto/rand.
func NewSource(seeded bool, seed uint64, attempt, index int) *rand.ChaCha8 {
	var key [32]byte
	if seeded {
		binary.LittleEndian.PutUint64(key[0:8], seed)
		binary.LittleEndian.PutUint64(key[8:16], uint64(attempt))
		binary.LittleEndian.PutUint64(key[16:24], uint64(index))
	} else if _, err := crand.Read(key[:]); err != nil {
		panic("error reading cryptographic randomness: " + err.Error())
	}
	return rand.NewChaCha8(key)
}

// RandomStart draws a uniformly random digest of the walker's width
func (m *TrailMaker) RandomStart() digest.Digest {
	// ChaCha8.Read never fails
	_, _ = m.src.Read(m.buf)
	d, _ := m.walk.FromBytes(m.buf)
	return d
}

// Make walks from a fresh random start until a distinguished point.
// A trail always takes at least one step, so End is never its own Start.
func (m *TrailMaker) Make(ctx context.Context) (Trail, error) {
	return m.Walk(ctx, m.RandomStart())
}

// Walk builds the trail from a given start
func (m *TrailMaker) Walk(ctx context.Context, start digest.Digest) (Trail, error) {
	point := start
	steps := 0
	for {
		point = m.walk.Step(point)
		steps++
		if m.isDP(point) {
			return Trail{Start: start, End: point, Steps: steps}, nil
		}
		if m.maxSteps > 0 && steps >= m.maxSteps {
			return Trail{Start: start, End: point, Steps: steps},
				fmt.Errorf("%w: start %s after %d steps", ErrTrailTooLong, start, steps)
		}
		if steps%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return Trail{}, err
			}
		}
	}
}
