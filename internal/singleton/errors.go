package singleton

import "errors"

// Error values carried by singleton diagnostics.
var (
	// ErrNoCandidate is reported when resolution finds no live instance.
	ErrNoCandidate = errors.New("singleton: no candidate")

	// ErrAmbiguous is reported when resolution finds more than one instance.
	ErrAmbiguous = errors.New("singleton: ambiguous candidates")

	// ErrTerminal is reported when resolution is attempted after shutdown.
	ErrTerminal = errors.New("singleton: registry shut down")
)
