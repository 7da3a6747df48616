package event

import "errors"

// Sentinel errors for channels and catalogs.
var (
	// ErrNilListener is returned when a nil listener is registered.
	ErrNilListener = errors.New("event: listener cannot be nil")

	// ErrUncomparableListener is returned when a listener's dynamic type cannot
	// be used as a set member. Use Subscribe for closures.
	ErrUncomparableListener = errors.New("event: listener is not comparable")

	// ErrListenerPanic matches any *PanicError via errors.Is.
	ErrListenerPanic = errors.New("event: listener panicked")

	// ErrPayloadType is returned by EmitAny when the payload does not match the
	// channel's payload type.
	ErrPayloadType = errors.New("event: payload type mismatch")

	// ErrInvalidName is returned when a channel name is empty.
	ErrInvalidName = errors.New("event: invalid channel name")

	// ErrDuplicateChannel is returned when a name is already taken in a catalog.
	ErrDuplicateChannel = errors.New("event: channel already declared")

	// ErrChannelTypeMismatch is returned when a name is redeclared with a
	// different payload type.
	ErrChannelTypeMismatch = errors.New("event: channel declared with another payload type")
)

// PanicError wraps a value recovered from a listener.
type PanicError struct {
	// Channel is the name of the emitting channel.
	Channel string

	// Value is the value passed to panic().
	Value any

	// Stack is the stack trace at the time of the panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return "listener panic on channel " + e.Channel
}

// Is allows errors.Is to match PanicError with ErrListenerPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrListenerPanic
}
