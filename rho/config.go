package rho

import (
	"fmt"

	"github.com/adamgarcia4/goLearning/rhocollide/digest"
)

// Default configuration constants
const (
	DefaultWorkers           = 8
	DefaultDigestBits        = 64
	DefaultDistinguishedBits = 16
	DefaultAttempts          = 1

	// autoCapFactor sets the automatic trail cap to this many expected trail lengths
	autoCapFactor = 64
)

// Config holds the parameters of a collision search
type Config struct {
	// Walk function
	Hash       digest.HashKind
	DigestBits int
	Prefix     string

	// Distinguished points. Distinguished overrides DistinguishedBits when set;
	// DistinguishedBits still sizes the automatic trail cap.
	DistinguishedBits int
	Distinguished     digest.Predicate

	// Worker pool
	Workers     int
	TrailBuffer int // capacity of the worker -> coordinator channel

	// MaxTrailSteps caps a single trail: 0 picks 64 * 2^DistinguishedBits,
	// negative disables the cap.
	MaxTrailSteps  int
	DropLongTrails bool // discard over-long trails instead of failing the search

	// MaxAttempts bounds fresh searches after a refinement finds only overlap
	MaxAttempts int

	// Seeded derives every worker's random source from Seed, the attempt and its index
	Seeded bool
	Seed   uint64
}

// DefaultConfig returns a config with the standard search parameters:
// eight workers, sha256 truncated to 64 bits, 16 leading zero bits.
func DefaultConfig() *Config {
	return &Config{
		Hash:              digest.SHA256,
		DigestBits:        DefaultDigestBits,
		Prefix:            digest.DefaultPrefix,
		DistinguishedBits: DefaultDistinguishedBits,
		Workers:           DefaultWorkers,
		MaxAttempts:       DefaultAttempts,
	}
}

// Validate checks if the config is valid
func (c *Config) Validate() error {
	if c.Workers <= 0 {
		return ErrWorkersRequired
	}
	if c.DigestBits <= 0 || c.DigestBits%8 != 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidDigestBits, c.DigestBits)
	}
	if c.DistinguishedBits < 0 || c.DistinguishedBits > c.DigestBits {
		return fmt.Errorf("%w: got %d", ErrInvalidDistinguishedBits, c.DistinguishedBits)
	}
	if c.MaxAttempts < 1 {
		return ErrInvalidAttempts
	}
	if c.TrailBuffer < 0 {
		return ErrInvalidBuffer
	}
	if _, err := c.Walker(); err != nil {
		return err
	}
	return nil
}

// Walker builds the walk function described by the config
func (c *Config) Walker() (*digest.Walker, error) {
	return digest.NewWalker(c.Hash, c.DigestBits, c.Prefix)
}

// Predicate returns the distinguished-point predicate
func (c *Config) Predicate() digest.Predicate {
	if c.Distinguished != nil {
		return c.Distinguished
	}
	return digest.LeadingZeroBits(c.DistinguishedBits)
}

// StepLimit returns the per-trail step cap, or 0 when trails are unbounded
func (c *Config) StepLimit() int {
	switch {
	case c.MaxTrailSteps > 0:
		return c.MaxTrailSteps
	case c.MaxTrailSteps < 0:
		return 0
	}
	// keep the shift well inside int
	bits := min(c.DistinguishedBits, 40)
	return autoCapFactor << uint(bits)
}
