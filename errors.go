package tally

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCounter is matched by every *UnknownCounterError.
	ErrUnknownCounter   = errors.New("unknown counter")
	ErrNoCounters       = errors.New("no counters declared")
	ErrDuplicateCounter = errors.New("duplicate counter")
	ErrInvalidInterval  = errors.New("interval must be greater than 0")
)

// UnknownCounterError reports an operation on a counter id that was never declared.
type UnknownCounterError struct {
	ID string
}

func (e *UnknownCounterError) Error() string {
	return fmt.Sprintf("counter '%s' not found", e.ID)
}

func (e *UnknownCounterError) Is(target error) bool {
	return target == ErrUnknownCounter
}
