package event

import (
	"reflect"
	"runtime/debug"

	"github.com/dshills/soracore/internal/concurrentset"
	"github.com/dshills/soracore/internal/diag"
)

// Listener reacts to a channel's broadcast.
type Listener[E any] interface {
	OnEvent(e E)
}

// Channel is a named broadcast primitive. It is safe for concurrent use.
type Channel[E any] struct {
	name      string
	listeners *concurrentset.Set[Listener[E]]
	config    channelConfig
	report    diag.Reporter
}

// Signal is a channel without payload.
type Signal = Channel[struct{}]

// NewChannel creates a channel with the given name and options.
func NewChannel[E any](name string, opts ...Option) *Channel[E] {
	config := defaultChannelConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return &Channel[E]{
		name:      name,
		listeners: concurrentset.New[Listener[E]](),
		config:    config,
		report:    diag.For(config.sink, name),
	}
}

// NewSignal creates a payload-free channel.
func NewSignal(name string, opts ...Option) *Signal {
	return NewChannel[struct{}](name, opts...)
}

// Name returns the channel name.
func (c *Channel[E]) Name() string {
	return c.name
}

// Len returns the number of registered listeners.
func (c *Channel[E]) Len() int {
	return c.listeners.Len()
}

// Register adds l. Registering a listener that is already present is a no-op.
func (c *Channel[E]) Register(l Listener[E]) error {
	if l == nil {
		return ErrNilListener
	}
	if !hashable(l) {
		return ErrUncomparableListener
	}
	c.listeners.Add(l)
	return nil
}

// Unregister removes l and reports whether it was registered. Removing an
// unknown listener is a no-op.
func (c *Channel[E]) Unregister(l Listener[E]) bool {
	if l == nil {
		return false
	}
	if !hashable(l) {
		return false
	}
	return c.listeners.Remove(l)
}

// Has reports whether l is registered.
func (c *Channel[E]) Has(l Listener[E]) bool {
	if l == nil || !hashable(l) {
		return false
	}
	return c.listeners.Contains(l)
}

// hashable reports whether v can be hashed. Interface fields are checked by
// their dynamic value, so a struct holding a func in an any field is rejected.
func hashable(v any) bool {
	return reflect.ValueOf(v).Comparable()
}

// Subscribe registers fn and returns the token that identifies it.
func (c *Channel[E]) Subscribe(fn func(E)) *Subscription[E] {
	sub := &Subscription[E]{fn: fn, channel: c}
	c.listeners.Add(sub)
	return sub
}

// Emit synchronously delivers e to every listener registered when Emit
// started.
func (c *Channel[E]) Emit(e E) {
	snapshot := c.listeners.Snapshot()
	if c.config.observer != nil {
		c.config.observer.ObserveEmit(c.name, len(snapshot))
	}
	for _, l := range snapshot {
		if c.config.isolate {
			c.deliverIsolated(l, e)
		} else {
			l.OnEvent(e)
		}
	}
}

// deliverIsolated runs one listener and turns a panic into a diagnostic.
func (c *Channel[E]) deliverIsolated(l Listener[E], e E) {
	defer func() {
		if r := recover(); r != nil {
			err := &PanicError{Channel: c.name, Value: r, Stack: string(debug.Stack())}
			if c.config.observer != nil {
				c.config.observer.ObservePanic(c.name)
			}
			c.report.Fault(diag.LevelError, "listener panicked", err, "panic", r)
		}
	}()
	l.OnEvent(e)
}

// Clear removes every listener.
func (c *Channel[E]) Clear() {
	c.listeners.Clear()
}

// Subscription is the listener token returned by Subscribe.
type Subscription[E any] struct {
	fn      func(E)
	channel *Channel[E]
}

// OnEvent implements Listener.
func (s *Subscription[E]) OnEvent(e E) {
	s.fn(e)
}

// Cancel unregisters the subscription. It reports whether it was still
// registered.
func (s *Subscription[E]) Cancel() bool {
	return s.channel.Unregister(s)
}

// Active reports whether the subscription is still registered.
func (s *Subscription[E]) Active() bool {
	return s.channel.Has(s)
}
