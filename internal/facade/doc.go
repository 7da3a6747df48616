// Package facade implements manager facades: named groups of operations whose
// handlers are supplied at runtime by providers.
//
// A caller invokes an operation through a typed Slot without knowing which
// provider, if any, is active. Each slot holds an ordered list of handlers and
// a Policy deciding which of them run:
//
//   - PolicyBroadcast runs every handler in binding order.
//   - PolicyLatest runs only the most recently bound handler.
//   - PolicyExclusive allows a single handler and rejects a second binding.
//
// Invoking a slot with no handler never fails. It reports one warning to the
// facade's diag.Sink and returns. Handler errors and panics are reported the
// same way.
//
// Providers bind their handlers inside Provider.Bind. Activation is
// transactional: if Bind returns an error or panics, every binding it made is
// removed before Activate returns.
//
// Example:
//
//	f := facade.New("audio", facade.WithSink(sink))
//	play := facade.NewSlot[Cue](f, "audio.play")
//
//	type engine struct{}
//	func (engine) ProviderName() string { return "engine" }
//	func (engine) Bind(b *facade.Binder) error {
//		return facade.Handle(b, play, func(c Cue) error { return nil })
//	}
//
//	err := f.Activate(engine{})
//	play.Invoke(Cue{Name: "door"})
package facade
