// Package event provides named broadcast channels.
//
// A Channel is pure notification: many listeners, no return value, and the
// emitter never knows who is listening. Request/response style calls with a
// single responsible provider belong to package facade instead.
//
// # Listener Registry
//
// Listeners are kept in a concurrentset.Set, so Register and Unregister are
// safe from any goroutine, including while another goroutine emits.
// Uniqueness is by identity: registering the same listener twice delivers
// once. Listeners must therefore be comparable (typically pointers).
// Closures go through Subscribe, which wraps them in a comparable
// *Subscription token:
//
//	changed := event.NewChannel[VolumeChange]("audio.volume_changed")
//	sub := changed.Subscribe(func(c VolumeChange) { save(c) })
//	defer sub.Cancel()
//
// # Emission
//
// Emit takes a snapshot of the membership under the set's lock and then calls
// every listener synchronously on the caller's goroutine, outside that lock.
// Consequences:
//
//   - a listener that unregisters during an emission may still be reached by
//     that same emission (unregistration is not retroactive)
//   - a listener that unregistered before Emit started is never reached
//   - listeners may register or unregister from inside their own reaction
//     without deadlocking
//
// Delivery order is unspecified.
//
// # Fault Isolation
//
// By default a panicking listener is recovered, reported to the diagnostic
// sink as a *PanicError, and the remaining listeners still run. Pass
// WithIsolation(false) to let panics reach the emitter.
//
// # Catalog
//
// A Catalog names channels for type-erased access (scripts, the debug HTTP
// surface). Declare returns the typed channel; Lookup returns an Emitter.
package event
