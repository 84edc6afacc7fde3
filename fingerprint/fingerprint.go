// Package fingerprint provides the fixed-width perceptual fingerprint type
// and its Hamming distance metric.
//
// A Fingerprint is an immutable bit vector produced by a perceptual hash
// function. Two fingerprints are comparable only when they have the same
// bit-width; the width is determined by the configured hash size (a hash
// size of 8 yields a 64-bit fingerprint).
package fingerprint

import (
	"fmt"
	"math/bits"
	"strings"
)

// Fingerprint is a fixed-width bit vector. The zero value is an empty
// fingerprint of width 0; use New to construct a valid one.
type Fingerprint struct {
	words []uint64
	width int
}

// New creates a Fingerprint of the given bit-width from its packed words.
// len(words) must equal the number of uint64 words needed to hold width
// bits. Bits beyond width in the last word are cleared so that equal
// fingerprints are always bit-identical.
func New(words []uint64, width int) (Fingerprint, error) {
	if width <= 0 {
		return Fingerprint{}, &ErrInvalidWidth{Width: width}
	}
	need := (width + 63) / 64
	if len(words) != need {
		return Fingerprint{}, fmt.Errorf("fingerprint: %d words cannot hold width %d (need %d)", len(words), width, need)
	}

	w := make([]uint64, need)
	copy(w, words)
	if rem := width % 64; rem != 0 {
		w[need-1] &= ^uint64(0) << (64 - rem)
	}

	return Fingerprint{words: w, width: width}, nil
}

// MustNew is like New but panics on invalid input. Intended for tests and
// compile-time-constant fingerprints.
func MustNew(words []uint64, width int) Fingerprint {
	fp, err := New(words, width)
	if err != nil {
		panic(err)
	}
	return fp
}

// Width returns the bit-width of the fingerprint.
func (f Fingerprint) Width() int { return f.width }

// Words returns a copy of the packed words. Bit i of the fingerprint is
// stored MSB-first: word i/64, bit position 63-(i%64).
func (f Fingerprint) Words() []uint64 {
	w := make([]uint64, len(f.words))
	copy(w, f.words)
	return w
}

// Bit reports whether bit i is set. It panics if i is out of range.
func (f Fingerprint) Bit(i int) bool {
	if i < 0 || i >= f.width {
		panic(fmt.Sprintf("fingerprint: bit %d out of range [0,%d)", i, f.width))
	}
	return f.words[i/64]&(1<<(63-uint(i%64))) != 0
}

// Equal reports whether two fingerprints have the same width and bits.
func (f Fingerprint) Equal(other Fingerprint) bool {
	if f.width != other.width {
		return false
	}
	for i := range f.words {
		if f.words[i] != other.words[i] {
			return false
		}
	}
	return true
}

// String returns the fingerprint as lowercase hex, one 16-digit block per
// word, matching the order returned by Words.
func (f Fingerprint) String() string {
	var sb strings.Builder
	for _, w := range f.words {
		fmt.Fprintf(&sb, "%016x", w)
	}
	return sb.String()
}

// Distance returns the Hamming distance between a and b: the number of bit
// positions in which they differ. It returns an ErrWidthMismatch if the
// fingerprints do not have the same bit-width.
//
// Distance is a metric: Distance(a,a) == 0, it is symmetric, and the
// triangle inequality holds.
func Distance(a, b Fingerprint) (int, error) {
	if a.width != b.width {
		return 0, &ErrWidthMismatch{Expected: a.width, Actual: b.width}
	}
	var d int
	for i := range a.words {
		d += bits.OnesCount64(a.words[i] ^ b.words[i])
	}
	return d, nil
}
