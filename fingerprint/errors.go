package fingerprint

import "fmt"

// ErrWidthMismatch indicates a distance computation between fingerprints of
// different bit-widths. Mixing hash types or sizes within one run is a
// caller error.
type ErrWidthMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrWidthMismatch) Error() string {
	return fmt.Sprintf("fingerprint width mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// ErrInvalidWidth indicates a non-positive configured bit-width.
type ErrInvalidWidth struct {
	Width int
}

func (e *ErrInvalidWidth) Error() string {
	return fmt.Sprintf("invalid fingerprint width: %d", e.Width)
}
