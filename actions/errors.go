package actions

import "fmt"

// ErrUnknownKeepStrategy indicates a keep strategy outside first/largest.
type ErrUnknownKeepStrategy struct {
	Value string
}

func (e *ErrUnknownKeepStrategy) Error() string {
	return fmt.Sprintf("actions: unknown keep strategy %q (want first or largest)", e.Value)
}
