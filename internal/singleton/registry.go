package singleton

import (
	"fmt"
	"sync"

	"github.com/dshills/soracore/internal/diag"
)

// Resolution outcomes passed to Observer.
const (
	OutcomeCached    = "cached"
	OutcomeResolved  = "resolved"
	OutcomeAmbiguous = "ambiguous"
	OutcomeAbsent    = "absent"
	OutcomeTerminal  = "terminal"
)

// State is the registry state.
type State int

const (
	// StateUnresolved means nothing is cached.
	StateUnresolved State = iota

	// StateResolved means a candidate is cached.
	StateResolved

	// StateTerminal means the registry has shut down.
	StateTerminal
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUnresolved:
		return "unresolved"
	case StateResolved:
		return "resolved"
	case StateTerminal:
		return "terminal"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Observer receives resolution outcomes. *metrics.Collector implements it.
type Observer interface {
	ObserveResolve(registry, outcome string)
}

// Option configures a Registry.
type Option func(*registryConfig)

type registryConfig struct {
	sink     diag.Sink
	observer Observer
}

// WithSink sets the diagnostic sink.
func WithSink(s diag.Sink) Option {
	return func(c *registryConfig) { c.sink = s }
}

// WithObserver sets the outcome observer.
func WithObserver(o Observer) Option {
	return func(c *registryConfig) { c.observer = o }
}

// Registry resolves the single live instance of T from a Source.
type Registry[T any] struct {
	name     string
	source   Source[T]
	report   diag.Reporter
	observer Observer

	mu     sync.Mutex
	state  State
	cached Candidate[T]
}

// New creates a registry over source. If source is a *Pool[T], the registry
// attaches to it and drops its cache when the cached instance is destroyed.
func New[T any](name string, source Source[T], opts ...Option) *Registry[T] {
	var cfg registryConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	r := &Registry[T]{
		name:     name,
		source:   source,
		report:   diag.For(cfg.sink, name),
		observer: cfg.observer,
	}
	if p, ok := source.(*Pool[T]); ok {
		p.Attach(r)
	}
	return r
}

// Name returns the registry name.
func (r *Registry[T]) Name() string { return r.name }

// TryResolve returns the live instance.
//
// A cached instance is returned without scanning. Otherwise the source is
// scanned: no candidate reports an error and returns false; one candidate is
// cached; several candidates cache the one with the lowest handle and report
// a warning naming the others. After Shutdown it always returns false without
// scanning.
func (r *Registry[T]) TryResolve() (T, bool) {
	var zero T

	r.mu.Lock()
	switch r.state {
	case StateResolved:
		v := r.cached.Value
		r.mu.Unlock()
		r.observe(OutcomeCached)
		return v, true
	case StateTerminal:
		r.mu.Unlock()
		r.observe(OutcomeTerminal)
		r.report.Fault(diag.LevelDebug, "resolve after shutdown", ErrTerminal)
		return zero, false
	}

	var candidates []Candidate[T]
	if r.source != nil {
		candidates = r.source.Candidates()
	}
	if len(candidates) == 0 {
		r.mu.Unlock()
		r.observe(OutcomeAbsent)
		r.report.Fault(diag.LevelError, "no instance found", ErrNoCandidate)
		return zero, false
	}

	chosen := candidates[0]
	r.cached = chosen
	r.state = StateResolved
	r.mu.Unlock()

	if len(candidates) > 1 {
		discarded := make([]Handle, 0, len(candidates)-1)
		for _, c := range candidates[1:] {
			discarded = append(discarded, c.Handle)
		}
		r.observe(OutcomeAmbiguous)
		r.report.Fault(diag.LevelWarn, "multiple instances found, using lowest handle", ErrAmbiguous,
			"chosen", chosen.Handle,
			"discarded", discarded,
		)
		return chosen.Value, true
	}

	r.observe(OutcomeResolved)
	return chosen.Value, true
}

// Invalidate drops the cache if it holds h.
func (r *Registry[T]) Invalidate(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateResolved && r.cached.Handle == h {
		r.cached = Candidate[T]{}
		r.state = StateUnresolved
	}
}

// Shutdown makes the registry terminal. It cannot be undone and repeated
// calls do nothing.
func (r *Registry[T]) Shutdown() {
	r.mu.Lock()
	if r.state == StateTerminal {
		r.mu.Unlock()
		return
	}
	r.state = StateTerminal
	r.cached = Candidate[T]{}
	r.mu.Unlock()

	if p, ok := r.source.(*Pool[T]); ok {
		p.Detach(r)
	}
	r.report.Debug("shut down")
}

// OnEvent shuts the registry down. It lets the registry listen on the host's
// quit signal.
func (r *Registry[T]) OnEvent(struct{}) {
	r.Shutdown()
}

// State returns the current state.
func (r *Registry[T]) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Registry[T]) observe(outcome string) {
	if r.observer != nil {
		r.observer.ObserveResolve(r.name, outcome)
	}
}
