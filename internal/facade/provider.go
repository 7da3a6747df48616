package facade

import (
	"github.com/google/uuid"
)

// Provider supplies handlers to a facade.
type Provider interface {
	// ProviderName identifies the provider in diagnostics.
	ProviderName() string

	// Bind binds the provider's handlers with Handle. Returning an error
	// aborts the activation.
	Bind(b *Binder) error
}

// ProviderFunc adapts a bind function to Provider. Only pointers to a
// ProviderFunc are comparable, so activate it as &fn.
type ProviderFunc struct {
	Name   string
	BindFn func(b *Binder) error
}

// ProviderName implements Provider.
func (p *ProviderFunc) ProviderName() string { return p.Name }

// Bind implements Provider.
func (p *ProviderFunc) Bind(b *Binder) error { return p.BindFn(b) }

// Binder records the bindings of one activation.
type Binder struct {
	facade   *Facade
	provider string
	id       string
	open     bool
	undo     []slot
}

func newBinder(f *Facade, provider string) *Binder {
	return &Binder{
		facade:   f,
		provider: provider,
		id:       uuid.NewString(),
	}
}

// ID returns the activation id.
func (b *Binder) ID() string { return b.id }

// Provider returns the provider name.
func (b *Binder) Provider() string { return b.provider }

// Facade returns the facade being bound.
func (b *Binder) Facade() *Facade { return b.facade }

func (b *Binder) run(p Provider) (err error) {
	b.open = true
	defer func() {
		b.open = false
		if r := recover(); r != nil {
			err = &BindError{Provider: b.provider, Panic: r}
		}
	}()
	if bindErr := p.Bind(b); bindErr != nil {
		return &BindError{Provider: b.provider, Err: bindErr}
	}
	return nil
}

func (b *Binder) rollback() {
	for i := len(b.undo) - 1; i >= 0; i-- {
		b.undo[i].unbind(b.id)
	}
	b.undo = nil
}

// Handle binds fn into s for the activation in progress. It may only be
// called from Provider.Bind.
func Handle[A any](b *Binder, s *Slot[A], fn func(A) error) error {
	switch {
	case !b.open:
		return ErrBinderClosed
	case s == nil || s.facade != b.facade:
		return ErrForeignSlot
	case fn == nil:
		return ErrNilHandler
	}
	if err := s.bind(binding[A]{activation: b.id, provider: b.provider, fn: fn}); err != nil {
		return err
	}
	b.undo = append(b.undo, s)
	return nil
}

// HandleFunc is Handle for handlers that cannot fail.
func HandleFunc[A any](b *Binder, s *Slot[A], fn func(A)) error {
	if fn == nil {
		return Handle[A](b, s, nil)
	}
	return Handle(b, s, func(a A) error {
		fn(a)
		return nil
	})
}
