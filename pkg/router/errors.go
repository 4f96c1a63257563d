package router

import (
	"errors"
	"fmt"
)

// Sentinel errors for registration and dispatch failures.
var (
	// ErrBadPattern is returned when a path template cannot be compiled.
	ErrBadPattern = errors.New("router: malformed route pattern")

	// ErrUnknownController is returned when a route references a
	// controller name with no registered factory.
	ErrUnknownController = errors.New("router: unknown controller")

	// ErrUnknownAction is returned when a controller has no method with
	// the referenced action name.
	ErrUnknownAction = errors.New("router: unknown controller action")

	// ErrUnknownMiddleware is returned when a named middleware reference
	// has no registered factory.
	ErrUnknownMiddleware = errors.New("router: unknown middleware")

	// ErrBadCache is returned when a route-cache artifact is missing
	// required structure or is internally inconsistent.
	ErrBadCache = errors.New("router: invalid route cache artifact")
)

// PanicError wraps a panic recovered at the dispatch boundary, keeping
// the stack captured at recovery time for debug output.
type PanicError struct {
	Value any
	Stack []byte
}

// Error returns the panic value as a message.
func (e *PanicError) Error() string {
	return fmt.Sprintf("router: handler panic: %v", e.Value)
}
