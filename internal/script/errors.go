package script

import "errors"

// Errors for script operations.
var (
	// ErrClosed is returned when operating on a closed engine.
	ErrClosed = errors.New("script: engine closed")

	// ErrUnknownChannel is raised in Lua for an undeclared channel.
	ErrUnknownChannel = errors.New("script: unknown channel")

	// ErrListenerFailed marks Lua listener errors in diagnostics.
	ErrListenerFailed = errors.New("script: listener failed")
)
