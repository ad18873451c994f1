package rho

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefineKnownCollision(t *testing.T) {
	w, isDP := narrowWalker(t)

	c, err := Refine(w, isDP, Meeting{
		First:  hexDigest(t, "003a"),
		Second: hexDigest(t, "011a"),
	}, 1000)
	require.NoError(t, err)

	assert.Equal(t, "003a", c.X.String())
	assert.Equal(t, "011a", c.Y.String())
	assert.Equal(t, "hello 003a", string(c.MessageX))
	assert.Equal(t, "hello 011a", string(c.MessageY))
	assert.Equal(t, "0a14", c.Hash.String())
	assert.Equal(t, "sha256_16", c.HashName)
}

func TestRefineSuffixTrailIsOverlapOnly(t *testing.T) {
	w, isDP := narrowWalker(t)
	a0 := chainStart(t, w, isDP)
	b0 := w.Step(a0)

	// second trail starts on the first trail's path
	_, err := Refine(w, isDP, Meeting{First: a0, Second: b0}, 1000)
	assert.ErrorIs(t, err, ErrRefinementOverlapOnly)

	// first trail starts on the second trail's path: both predecessors are b0
	_, err = Refine(w, isDP, Meeting{First: b0, Second: a0}, 1000)
	assert.ErrorIs(t, err, ErrRefinementOverlapOnly)
}

func TestRefineSameStartIsOverlapOnly(t *testing.T) {
	w, isDP := narrowWalker(t)
	a0 := chainStart(t, w, isDP)

	_, err := Refine(w, isDP, Meeting{First: a0, Second: a0}, 1000)
	assert.ErrorIs(t, err, ErrRefinementOverlapOnly)
}

func TestRefineDisjointTrails(t *testing.T) {
	w, isDP := narrowWalker(t)
	maker := NewTrailMaker(w, isDP, 1000, NewSource(true, 3, 1, 0))

	first, err := maker.Make(context.Background())
	require.NoError(t, err)

	var second Trail
	for {
		second, err = maker.Make(context.Background())
		if err == nil && second.End != first.End && second.Start != first.End {
			break
		}
	}

	_, err = Refine(w, isDP, Meeting{First: first.Start, Second: second.Start}, 1000)
	assert.ErrorIs(t, err, ErrTrailsDoNotMeet)
}

func TestRefineReplayCap(t *testing.T) {
	w, isDP := narrowWalker(t)
	a0 := chainStart(t, w, isDP)

	_, err := Refine(w, isDP, Meeting{First: a0, Second: a0}, 1)
	assert.ErrorIs(t, err, ErrTrailTooLong)
}

func TestRefineMeetingsFromRendezvous(t *testing.T) {
	w, isDP := narrowWalker(t)
	verified := 0

	for seed := uint64(100); seed < 120; seed++ {
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

		c, err := Refine(w, isDP, m, 1000)
		if err != nil {
			// a start lying on the other trail yields no collision, never a false one
			require.ErrorIs(t, err, ErrRefinementOverlapOnly)
			continue
		}
		verified++
		assert.NotEqual(t, c.X, c.Y)
		assert.Equal(t, w.Step(c.X), w.Step(c.Y))
		assert.Equal(t, c.Hash, w.Sum(c.MessageX))
		assert.Equal(t, c.Hash, w.Sum(c.MessageY))
	}
	assert.Positive(t, verified)
}
