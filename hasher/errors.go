package hasher

import "fmt"

// ErrUnknownType indicates a hash type outside ahash/phash/dhash/whash.
type ErrUnknownType struct {
	Value string
}

func (e *ErrUnknownType) Error() string {
	return fmt.Sprintf("hasher: unknown hash type %q (want ahash, phash, dhash or whash)", e.Value)
}

// ErrInvalidSize indicates a hash size the configured backend cannot
// produce.
type ErrInvalidSize struct {
	Size   int
	Reason string
}

func (e *ErrInvalidSize) Error() string {
	return fmt.Sprintf("hasher: invalid hash size %d: %s", e.Size, e.Reason)
}
