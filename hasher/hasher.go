// Package hasher turns image files into perceptual fingerprints.
//
// The average, perception and difference hashes are computed by
// github.com/corona10/goimagehash; the wavelet hash is implemented in
// this package (goimagehash stops at dhash). The resulting bit-width is
// always Size*Size, so fingerprints from one Hasher are mutually
// comparable; mixing hashers within a clustering run is a caller error
// that surfaces as a width mismatch.
package hasher

import (
	"fmt"
	"image"
	"os"

	"github.com/corona10/goimagehash"

	"github.com/hupe1980/imagedup/fingerprint"
)

// Type selects the perceptual hash algorithm.
type Type string

// Supported hash types.
const (
	TypeAverage    Type = "ahash"
	TypePerception Type = "phash"
	TypeDifference Type = "dhash"
	TypeWavelet    Type = "whash"
)

// String returns the flag-level name of the type.
func (t Type) String() string { return string(t) }

// ParseType parses a hash type name. Unrecognized values are rejected
// here, before any scanning or clustering work begins.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeAverage, TypePerception, TypeDifference, TypeWavelet:
		return Type(s), nil
	default:
		return "", &ErrUnknownType{Value: s}
	}
}

// DefaultSize is the default hash size. A size of 8 yields 64-bit
// fingerprints.
const DefaultSize = 8

// Hasher computes fingerprints of a fixed type and size.
type Hasher struct {
	typ  Type
	size int
}

// New creates a Hasher. Size constraints come from the backends: the
// goimagehash-backed types need Size*Size to be a multiple of 64 (Size a
// multiple of 8); the wavelet hash needs a power-of-two Size.
func New(typ Type, size int) (*Hasher, error) {
	if _, err := ParseType(string(typ)); err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, &ErrInvalidSize{Size: size, Reason: "must be positive"}
	}
	if typ == TypeWavelet {
		if size&(size-1) != 0 {
			return nil, &ErrInvalidSize{Size: size, Reason: "wavelet hash needs a power-of-two size"}
		}
	} else if size%8 != 0 {
		return nil, &ErrInvalidSize{Size: size, Reason: "must be a multiple of 8"}
	}
	return &Hasher{typ: typ, size: size}, nil
}

// Type returns the configured hash type.
func (h *Hasher) Type() Type { return h.typ }

// Size returns the configured hash size.
func (h *Hasher) Size() int { return h.size }

// Width returns the bit-width of produced fingerprints (Size*Size).
func (h *Hasher) Width() int { return h.size * h.size }

// HashFile decodes the image at path and returns its fingerprint.
// Unreadable or undecodable files fail per-item; callers are expected to
// skip them rather than abort the run.
func (h *Hasher) HashFile(path string) (fingerprint.Fingerprint, error) {
	f, err := os.Open(path)
	if err != nil {
		return fingerprint.Fingerprint{}, fmt.Errorf("hasher: open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return fingerprint.Fingerprint{}, fmt.Errorf("hasher: decode %s: %w", path, err)
	}
	return h.HashImage(img)
}

// HashImage computes the fingerprint of an already-decoded image.
func (h *Hasher) HashImage(img image.Image) (fingerprint.Fingerprint, error) {
	if h.typ == TypeWavelet {
		return h.waveletHash(img)
	}

	var (
		ext *goimagehash.ExtImageHash
		err error
	)
	switch h.typ {
	case TypeAverage:
		ext, err = goimagehash.ExtAverageHash(img, h.size, h.size)
	case TypePerception:
		ext, err = goimagehash.ExtPerceptionHash(img, h.size, h.size)
	case TypeDifference:
		ext, err = goimagehash.ExtDifferenceHash(img, h.size, h.size)
	default:
		return fingerprint.Fingerprint{}, &ErrUnknownType{Value: string(h.typ)}
	}
	if err != nil {
		return fingerprint.Fingerprint{}, fmt.Errorf("hasher: %s: %w", h.typ, err)
	}
	return fingerprint.New(ext.GetHash(), h.Width())
}
