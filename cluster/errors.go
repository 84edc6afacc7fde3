package cluster

import "fmt"

// ErrInvalidThreshold indicates a negative distance threshold.
type ErrInvalidThreshold struct {
	Threshold int
}

func (e *ErrInvalidThreshold) Error() string {
	return fmt.Sprintf("cluster: invalid threshold %d (must be >= 0)", e.Threshold)
}

// ErrItemIndexOutOfRange indicates a group index that does not refer to
// any item handed to Materialize.
type ErrItemIndexOutOfRange struct {
	Index int
	Size  int
}

func (e *ErrItemIndexOutOfRange) Error() string {
	return fmt.Sprintf("cluster: group member index %d out of range [0,%d)", e.Index, e.Size)
}
