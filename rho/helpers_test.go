package rho

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adamgarcia4/goLearning/rhocollide/digest"
)

// narrowConfig is a 16-bit search with one distinguished point in 16,
// small enough to finish in milliseconds
func narrowConfig() *Config {
	cfg := DefaultConfig()
	cfg.DigestBits = 16
	cfg.DistinguishedBits = 4
	cfg.Workers = 1
	cfg.MaxTrailSteps = 1000
	cfg.DropLongTrails = true
	cfg.MaxAttempts = 5
	cfg.Seeded = true
	cfg.Seed = 42
	return cfg
}

func narrowWalker(t *testing.T) (*digest.Walker, digest.Predicate) {
	t.Helper()
	cfg := narrowConfig()
	w, err := cfg.Walker()
	require.NoError(t, err)
	return w, cfg.Predicate()
}

func hexDigest(t *testing.T, s string) digest.Digest {
	t.Helper()
	d, err := digest.ParseHex(s)
	require.NoError(t, err)
	return d
}

// chainStart finds a digest whose next two walk steps are ordinary points,
// so that a trail from it is at least three steps long
func chainStart(t *testing.T, w *digest.Walker, isDP digest.Predicate) digest.Digest {
	t.Helper()
	for i := 0; i < 1<<16; i++ {
		d := digest.MustFromBytes([]byte{byte(i >> 8), byte(i)})
		p1 := w.Step(d)
		if isDP(p1) {
			continue
		}
		if isDP(w.Step(p1)) {
			continue
		}
		return d
	}
	t.Fatal("no chain start found")
	return digest.Digest{}
}
