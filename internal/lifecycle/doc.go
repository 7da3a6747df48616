// Package lifecycle owns the host's quit signal.
//
// Components that must stop work during teardown register with Host.Register
// or Host.OnQuit. Only Host.Shutdown emits the signal, also when it is reached
// through the catalog view returned by Host.Emitter, so it fires at most once.
// Listeners registered afterwards are never called; callers that may arrive
// late should also check ShuttingDown.
package lifecycle
