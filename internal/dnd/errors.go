package dnd

import (
	"errors"
	"fmt"
)

var (
	ErrBinding             = errors.New("listener registration failed")
	ErrNoElements          = errors.New("no draggable elements")
	ErrAlreadyAttached     = errors.New("coordinator already attached")
	ErrTransferUnavailable = errors.New("drag transfer unavailable")
)

// BindingError reports an element whose listeners could not all be registered.
//
// Index is the element's position in the slice given to [Coordinator.Attach], or -1 when the
// failure is not tied to a single element.
type BindingError struct {
	Index int
	Event string
	Err   error
}

func (e *BindingError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%v: %v", ErrBinding, e.Err)
	}
	return fmt.Sprintf("%v: element %d, %s: %v", ErrBinding, e.Index, e.Event, e.Err)
}

// Unwrap exposes both [ErrBinding] and the underlying cause to [errors.Is].
func (e *BindingError) Unwrap() []error {
	return []error{ErrBinding, e.Err}
}
