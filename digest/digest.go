package digest

import (
	"encoding/hex"
	"fmt"
)

/*
Digest:

	The truncated output of the walk hash, and the only value that flows
	through the search. Trail starts, trail endpoints, rendezvous keys
	and walk-history entries are all Digests.

	Width is a run parameter (8 bytes for the default 64-bit search,
	2 bytes for narrowed test runs), so the bytes live in a fixed array
	sized for the widest supported hash and the used length is carried
	alongside. Two Digests are equal exactly when their widths and bytes
	match, which makes the type safe to use directly as a map key.

	Digests are values. Nothing hands out a pointer into the array, so
	once produced a Digest cannot change.
*/

// MaxSize is the widest digest supported, in bytes (a full 256-bit hash).
const MaxSize = 32

// Digest is a fixed-width byte string produced by a Walker
type Digest struct {
	b [MaxSize]byte
	n uint8
}

// FromBytes copies b into a new Digest. It fails if b is empty or wider than MaxSize.
func FromBytes(b []byte) (Digest, error) {
	var d Digest
	if len(b) == 0 || len(b) > MaxSize {
		return d, fmt.Errorf("digest length %d out of range 1..%d", len(b), MaxSize)
	}
	copy(d.b[:], b)
	d.n = uint8(len(b))
	return d, nil
}

// MustFromBytes is FromBytes for inputs known to be valid
func MustFromBytes(b []byte) Digest {
	d, err := FromBytes(b)
	if err != nil {
		panic(err)
	}
	return d
}

// ParseHex decodes a hex string into a Digest
func ParseHex(s string) (Digest, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Digest{}, fmt.Errorf("invalid digest hex %q: %w", s, err)
	}
	return FromBytes(b)
}

// Len returns the width of the digest in bytes
func (d Digest) Len() int {
	return int(d.n)
}

// Bytes returns a copy of the digest bytes
func (d Digest) Bytes() []byte {
	out := make([]byte, d.n)
	copy(out, d.b[:d.n])
	return out
}

// IsZero reports whether d is the zero value (no width)
func (d Digest) IsZero() bool {
	return d.n == 0
}

// String returns the lowercase hex encoding
func (d Digest) String() string {
	return hex.EncodeToString(d.b[:d.n])
}

// appendHex appends the hex encoding of d to dst without allocating an intermediate string
func (d Digest) appendHex(dst []byte) []byte {
	return hex.AppendEncode(dst, d.b[:d.n])
}
