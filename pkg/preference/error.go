package preference

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRejected is returned when a turn chosen for expansion carries no
	// rejected alternatives.
	ErrNoRejected = errors.New("no rejected content at designated turn")

	// ErrIndexOutOfRange is returned when the designated turn does not exist.
	ErrIndexOutOfRange = errors.New("turn index out of range")
)

// ValidationError reports why a turn could not be expanded into samples.
type ValidationError struct {
	Index int
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("turn %d: %v", e.Index, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
