package facade

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	// ErrBindFailed wraps every activation failure.
	ErrBindFailed = errors.New("facade: bind failed")

	// ErrProviderConflict is returned when binding into an exclusive slot
	// that already has a handler.
	ErrProviderConflict = errors.New("facade: provider conflict")

	// ErrNilProvider is returned when activating a nil provider.
	ErrNilProvider = errors.New("facade: nil provider")

	// ErrUncomparableProvider is returned for providers that cannot be used
	// as identity keys.
	ErrUncomparableProvider = errors.New("facade: provider is not comparable")

	// ErrAlreadyActive is returned when activating an active provider.
	ErrAlreadyActive = errors.New("facade: provider already active")

	// ErrNilHandler is returned when binding a nil handler.
	ErrNilHandler = errors.New("facade: nil handler")

	// ErrForeignSlot is returned when binding into another facade's slot.
	ErrForeignSlot = errors.New("facade: slot belongs to another facade")

	// ErrBinderClosed is returned when a Binder is used after Bind returned.
	ErrBinderClosed = errors.New("facade: binder closed")

	// ErrDuplicateOp is the panic value of NewSlot for a reused name.
	ErrDuplicateOp = errors.New("facade: duplicate operation")

	// ErrHandlerFailed marks handler errors and panics in diagnostics.
	ErrHandlerFailed = errors.New("facade: handler failed")
)

// BindError describes a failed activation.
type BindError struct {
	Provider string
	Err      error
	Panic    any
}

// Error implements error.
func (e *BindError) Error() string {
	if e.Panic != nil {
		return fmt.Sprintf("facade: bind %s panicked: %v", e.Provider, e.Panic)
	}
	return fmt.Sprintf("facade: bind %s: %v", e.Provider, e.Err)
}

// Unwrap returns the underlying error.
func (e *BindError) Unwrap() error {
	return e.Err
}

// Is matches ErrBindFailed.
func (e *BindError) Is(target error) bool {
	return target == ErrBindFailed
}

// HandlerError describes a handler that returned an error or panicked.
type HandlerError struct {
	Facade   string
	Op       string
	Provider string
	Err      error
	Panic    any
}

// Error implements error.
func (e *HandlerError) Error() string {
	if e.Panic != nil {
		return fmt.Sprintf("facade: %s.%s handler from %s panicked: %v", e.Facade, e.Op, e.Provider, e.Panic)
	}
	return fmt.Sprintf("facade: %s.%s handler from %s: %v", e.Facade, e.Op, e.Provider, e.Err)
}

// Unwrap returns the underlying error.
func (e *HandlerError) Unwrap() error {
	return e.Err
}

// Is matches ErrHandlerFailed.
func (e *HandlerError) Is(target error) bool {
	return target == ErrHandlerFailed
}
