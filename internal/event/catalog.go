package event

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// Emitter is the type-erased view of a Channel.
type Emitter interface {
	// Name returns the channel name.
	Name() string

	// Len returns the number of registered listeners.
	Len() int

	// PayloadType returns the channel's payload type.
	PayloadType() reflect.Type

	// SubscribeAny registers fn and returns a function that unregisters it.
	SubscribeAny(fn func(payload any)) (cancel func() bool)

	// EmitAny emits payload. A nil payload emits the zero value.
	EmitAny(payload any) error
}

// PayloadType implements Emitter.
func (c *Channel[E]) PayloadType() reflect.Type {
	return reflect.TypeFor[E]()
}

// SubscribeAny implements Emitter.
func (c *Channel[E]) SubscribeAny(fn func(payload any)) func() bool {
	sub := c.Subscribe(func(e E) { fn(e) })
	return sub.Cancel
}

// EmitAny implements Emitter.
func (c *Channel[E]) EmitAny(payload any) error {
	if payload == nil {
		var zero E
		c.Emit(zero)
		return nil
	}
	e, ok := payload.(E)
	if !ok {
		return fmt.Errorf("%w: channel %s wants %s, got %T", ErrPayloadType, c.name, c.PayloadType(), payload)
	}
	c.Emit(e)
	return nil
}

// Catalog is a named registry of channels. It is safe for concurrent use.
type Catalog struct {
	mu       sync.RWMutex
	channels map[string]Emitter
	opts     []Option
}

// NewCatalog creates a catalog whose Declare calls apply opts to every new
// channel.
func NewCatalog(opts ...Option) *Catalog {
	return &Catalog{
		channels: make(map[string]Emitter),
		opts:     opts,
	}
}

// Declare returns the channel called name, creating it if needed. Declaring
// an existing name with another payload type fails with
// ErrChannelTypeMismatch.
func Declare[E any](c *Catalog, name string, opts ...Option) (*Channel[E], error) {
	if name == "" {
		return nil, ErrInvalidName
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.channels[name]; ok {
		ch, ok := existing.(*Channel[E])
		if !ok {
			return nil, fmt.Errorf("%w: %s is %s", ErrChannelTypeMismatch, name, existing.PayloadType())
		}
		return ch, nil
	}

	all := make([]Option, 0, len(c.opts)+len(opts))
	all = append(all, c.opts...)
	all = append(all, opts...)
	ch := NewChannel[E](name, all...)
	c.channels[name] = ch
	return ch, nil
}

// MustDeclare is like Declare but panics on error. Intended for wiring code
// whose names are constants.
func MustDeclare[E any](c *Catalog, name string, opts ...Option) *Channel[E] {
	ch, err := Declare[E](c, name, opts...)
	if err != nil {
		panic(err)
	}
	return ch
}

// Add registers an existing emitter under its own name.
func (c *Catalog) Add(e Emitter) error {
	if e == nil || e.Name() == "" {
		return ErrInvalidName
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.channels[e.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateChannel, e.Name())
	}
	c.channels[e.Name()] = e
	return nil
}

// Lookup returns the channel called name.
func (c *Catalog) Lookup(name string) (Emitter, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.channels[name]
	return e, ok
}

// Names returns all channel names, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.channels))
	for name := range c.channels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of channels.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.channels)
}
