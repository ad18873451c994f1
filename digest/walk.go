package digest

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// HashKind names the hash function underneath the walk
type HashKind string

const (
	SHA256   HashKind = "sha256"
	SHA3_256 HashKind = "sha3-256"
)

// DefaultPrefix is prepended to the hex digest when building a message
const DefaultPrefix = "hello "

var (
	ErrUnknownHash = errors.New("unknown hash function")
	ErrInvalidBits = errors.New("digest bits must be a positive multiple of 8 no wider than the hash")
)

// HashKinds lists the supported hash functions
func HashKinds() []HashKind {
	return []HashKind{SHA256, SHA3_256}
}

func sumFunc(kind HashKind) (func([]byte) [32]byte, error) {
	switch kind {
	case SHA256:
		return sha256.Sum256, nil
	case SHA3_256:
		return sha3.Sum256, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownHash, kind)
}

// Walker is the deterministic step of the rho walk:
//
//	Step(d) = truncate(hash(prefix || hex(d)), bits/8)
//
// A Walker holds no mutable state and is safe for concurrent use.
type Walker struct {
	kind   HashKind
	sum    func([]byte) [32]byte
	size   int
	prefix string
}

// NewWalker builds a walker over the given hash, truncated to bits
func NewWalker(kind HashKind, bits int, prefix string) (*Walker, error) {
	sum, err := sumFunc(kind)
	if err != nil {
		return nil, err
	}
	if bits <= 0 || bits%8 != 0 || bits/8 > MaxSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBits, bits)
	}
	return &Walker{
		kind:   kind,
		sum:    sum,
		size:   bits / 8,
		prefix: prefix,
	}, nil
}

// Size returns the digest width in bytes
func (w *Walker) Size() int {
	return w.size
}

// Bits returns the digest width in bits
func (w *Walker) Bits() int {
	return w.size * 8
}

// Name returns the truncated hash name used in reports, e.g. "sha256_64"
func (w *Walker) Name() string {
	return fmt.Sprintf("%s_%d", w.kind, w.Bits())
}

// Message encodes d as the walk message: the prefix followed by the hex digest
func (w *Walker) Message(d Digest) []byte {
	msg := make([]byte, 0, len(w.prefix)+2*d.Len())
	msg = append(msg, w.prefix...)
	return d.appendHex(msg)
}

// Sum hashes msg and truncates the result to the walker's width
func (w *Walker) Sum(msg []byte) Digest {
	full := w.sum(msg)
	var d Digest
	copy(d.b[:], full[:w.size])
	d.n = uint8(w.size)
	return d
}

// Step applies one walk step to d
func (w *Walker) Step(d Digest) Digest {
	return w.Sum(w.Message(d))
}

// FromBytes builds a digest of this walker's width from b, which must be exactly Size bytes
func (w *Walker) FromBytes(b []byte) (Digest, error) {
	if len(b) != w.size {
		return Digest{}, fmt.Errorf("digest length %d, walker expects %d", len(b), w.size)
	}
	return FromBytes(b)
}
