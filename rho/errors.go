package rho

import "errors"

// Search failures. All of them are fatal where they are detected: the walk is
// deterministic, so retrying the same inputs reproduces the same outcome.
var (
	ErrChannelClosedPrematurely = errors.New("trail channel closed before a collision was found")
	ErrTrailTooLong             = errors.New("trail exceeded step limit without reaching a distinguished point")
	ErrRefinementOverlapOnly    = errors.New("trails overlap but never diverge: no true collision")
	ErrTrailsDoNotMeet          = errors.New("trails share no digest")
	ErrCollisionUnverified      = errors.New("refined pair failed collision verification")
)

// Config validation errors
var (
	ErrWorkersRequired          = errors.New("at least one worker is required")
	ErrInvalidDigestBits        = errors.New("digest bits must be a positive multiple of 8")
	ErrInvalidDistinguishedBits = errors.New("distinguished bits must be between 0 and the digest width")
	ErrInvalidAttempts          = errors.New("attempts must be at least 1")
	ErrInvalidBuffer            = errors.New("trail buffer must not be negative")
)
