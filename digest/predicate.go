package digest

// Predicate partitions digest space into ordinary and distinguished points
type Predicate func(Digest) bool

// LeadingZeroBits returns a predicate that holds when the first n bits of a
// digest are zero. A walk hits such a point with probability 2^-n per step,
// so n trades expected trail length (2^n steps) against rendezvous table size.
//
// n <= 0 marks every digest distinguished. n wider than the digest marks a
// digest distinguished only when it is entirely zero.
func LeadingZeroBits(n int) Predicate {
	if n <= 0 {
		return func(Digest) bool { return true }
	}
	whole := n / 8
	mask := byte(0xff << (8 - n%8))
	return func(d Digest) bool {
		b := d.b[:d.n]
		for i := 0; i < whole; i++ {
			if i >= len(b) {
				return true
			}
			if b[i] != 0 {
				return false
			}
		}
		if n%8 == 0 || whole >= len(b) {
			return true
		}
		return b[whole]&mask == 0
	}
}

// Density returns the fraction of digest space selected by LeadingZeroBits(n)
func Density(n int) float64 {
	if n <= 0 {
		return 1
	}
	return 1 / float64(uint64(1)<<uint(min(n, 63)))
}
