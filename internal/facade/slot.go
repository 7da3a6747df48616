package facade

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dshills/soracore/internal/diag"
)

// SlotOption configures a Slot.
type SlotOption func(*slotConfig)

type slotConfig struct {
	policy Policy
}

// WithPolicy sets the slot policy. The default is PolicyBroadcast.
func WithPolicy(p Policy) SlotOption {
	return func(c *slotConfig) { c.policy = p }
}

type binding[A any] struct {
	activation string
	provider   string
	fn         func(A) error
}

// Slot is a typed operation of a Facade.
type Slot[A any] struct {
	facade *Facade
	op     string
	pol    Policy

	mu       sync.RWMutex
	handlers []binding[A]
}

// NewSlot adds an operation to f. It panics with ErrDuplicateOp if op is
// already taken.
func NewSlot[A any](f *Facade, op string, opts ...SlotOption) *Slot[A] {
	var cfg slotConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	s := &Slot[A]{
		facade: f,
		op:     op,
		pol:    f.policyFor(op, cfg.policy),
	}
	f.addSlot(s)
	return s
}

// Op returns the operation name.
func (s *Slot[A]) Op() string { return s.op }

// Policy returns the slot policy.
func (s *Slot[A]) Policy() Policy { return s.pol }

// Len returns the number of bound handlers.
func (s *Slot[A]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.handlers)
}

// Invoke runs the slot's handlers with args according to its policy. With no
// handler it reports a single warning and returns.
func (s *Slot[A]) Invoke(args A) {
	s.mu.RLock()
	handlers := slices.Clone(s.handlers)
	s.mu.RUnlock()

	f := s.facade
	if len(handlers) == 0 {
		f.report.Warn("no provider for operation", "facade", f.name, "op", s.op)
		if f.observer != nil {
			f.observer.ObserveCall(f.name, s.op, 0, 0)
		}
		return
	}

	if s.pol == PolicyLatest {
		handlers = handlers[len(handlers)-1:]
	}

	start := time.Now()
	for _, h := range handlers {
		s.call(h, args)
	}
	if f.observer != nil {
		f.observer.ObserveCall(f.name, s.op, len(handlers), time.Since(start))
	}
}

func (s *Slot[A]) call(h binding[A], args A) {
	f := s.facade
	defer func() {
		if r := recover(); r != nil {
			s.fault(&HandlerError{Facade: f.name, Op: s.op, Provider: h.provider, Panic: r})
		}
	}()
	if err := h.fn(args); err != nil {
		s.fault(&HandlerError{Facade: f.name, Op: s.op, Provider: h.provider, Err: err})
	}
}

func (s *Slot[A]) fault(err *HandlerError) {
	f := s.facade
	if f.observer != nil {
		f.observer.ObserveFault(f.name, s.op)
	}
	f.report.Fault(diag.LevelWarn, "handler failed", err,
		"facade", f.name,
		"op", s.op,
		"provider", err.Provider,
	)
}

func (s *Slot[A]) bind(b binding[A]) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pol == PolicyExclusive && len(s.handlers) > 0 {
		return fmt.Errorf("%w: %s.%s is held by %s", ErrProviderConflict, s.facade.name, s.op, s.handlers[0].provider)
	}
	s.handlers = append(s.handlers, b)
	return nil
}

func (s *Slot[A]) opName() string { return s.op }

func (s *Slot[A]) policy() Policy { return s.pol }

func (s *Slot[A]) count() int { return s.Len() }

func (s *Slot[A]) unbind(activation string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = slices.DeleteFunc(s.handlers, func(b binding[A]) bool {
		return b.activation == activation
	})
}
