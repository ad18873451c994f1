package rho

import (
	"fmt"

	"github.com/adamgarcia4/goLearning/rhocollide/digest"
)

/*
Refinement

Given two trail starts known to converge, replay both to find the exact
pair of digests x != y with Step(x) == Step(y).

	A: a0 -> a1 -> ... -> ai -> m -> ... -> end
	B: b0 -> ... -> bj ------^

Replaying A records every visited digest with its predecessor. Replaying B
stops at the first digest m that A also visited; ai and bj are the
collision.

Two degenerate shapes share digests without a collision:
  - B's start lies on A's path (including b0 == a0): B is a suffix of A.
  - A's start lies on B's path: A is a suffix of B, so at the first shared
    digest both predecessors are a0.
Both show up as a shared digest with no B predecessor or an equal one.
The replay records the overlap and keeps walking; since the walk is
deterministic the trails never split again, and the replay ends at B's
distinguished point with ErrRefinementOverlapOnly.
*/

// Collision is a verified pair of distinct digests with equal walk output
type Collision struct {
	X, Y     digest.Digest // predecessors on the first and second trail
	MessageX []byte
	MessageY []byte
	Hash     digest.Digest // Step(X) == Step(Y), the point where the trails merge
	HashName string
}

// Refine replays the trails starting at m.First and m.Second and returns the
// colliding predecessors. maxSteps bounds each replay; 0 means unbounded.
func Refine(walk *digest.Walker, isDP digest.Predicate, m Meeting, maxSteps int) (*Collision, error) {
	history, err := replayHistory(walk, isDP, m.First, maxSteps)
	if err != nil {
		return nil, err
	}

	var prev digest.Digest
	hasPrev := false
	overlaps := 0
	point := m.Second
	for steps := 0; ; steps++ {
		if pred, ok := history[point]; ok {
			if hasPrev && pred != prev {
				return verify(walk, pred, prev)
			}
			overlaps++
		}
		if steps > 0 && isDP(point) {
			break
		}
		if maxSteps > 0 && steps >= maxSteps {
			return nil, fmt.Errorf("%w: replay of %s after %d steps", ErrTrailTooLong, m.Second, steps)
		}
		prev, hasPrev = point, true
		point = walk.Step(point)
	}

	if overlaps > 0 {
		return nil, fmt.Errorf("%w: %d shared digests between %s and %s",
			ErrRefinementOverlapOnly, overlaps, m.First, m.Second)
	}
	return nil, fmt.Errorf("%w: %s and %s", ErrTrailsDoNotMeet, m.First, m.Second)
}

// replayHistory walks from start to its first distinguished point, mapping
// each visited digest after start to its predecessor
func replayHistory(walk *digest.Walker, isDP digest.Predicate, start digest.Digest, maxSteps int) (map[digest.Digest]digest.Digest, error) {
	history := make(map[digest.Digest]digest.Digest)
	point := start
	for steps := 1; ; steps++ {
		next := walk.Step(point)
		history[next] = point
		if isDP(next) {
			return history, nil
		}
		if maxSteps > 0 && steps >= maxSteps {
			return nil, fmt.Errorf("%w: replay of %s after %d steps", ErrTrailTooLong, start, steps)
		}
		point = next
	}
}

func verify(walk *digest.Walker, x, y digest.Digest) (*Collision, error) {
	msgX, msgY := walk.Message(x), walk.Message(y)
	hx, hy := walk.Sum(msgX), walk.Sum(msgY)
	if x == y || hx != hy {
		return nil, fmt.Errorf("%w: %s(%s) = %s, %s(%s) = %s", ErrCollisionUnverified,
			walk.Name(), msgX, hx, walk.Name(), msgY, hy)
	}
	return &Collision{
		X:        x,
		Y:        y,
		MessageX: msgX,
		MessageY: msgY,
		Hash:     hx,
		HashName: walk.Name(),
	}, nil
}
