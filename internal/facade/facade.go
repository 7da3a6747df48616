package facade

import (
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/dshills/soracore/internal/diag"
)

// Observer receives dispatch statistics. *metrics.Collector implements it.
type Observer interface {
	ObserveCall(facade, op string, handlers int, d time.Duration)
	ObserveFault(facade, op string)
	ObserveProviders(facade string, n int)
}

// Option configures a Facade.
type Option func(*Facade)

// WithSink sets the diagnostic sink.
func WithSink(s diag.Sink) Option {
	return func(f *Facade) {
		f.report = diag.For(s, f.name)
	}
}

// WithObserver sets the statistics observer.
func WithObserver(o Observer) Option {
	return func(f *Facade) {
		f.observer = o
	}
}

// WithPolicies overrides slot policies by operation name. Overrides win over
// the policy passed to NewSlot.
func WithPolicies(policies map[string]Policy) Option {
	return func(f *Facade) {
		for op, p := range policies {
			f.policies[op] = p
		}
	}
}

// slot is the type-erased view of a Slot.
type slot interface {
	opName() string
	policy() Policy
	count() int
	unbind(activation string)
}

// OpInfo describes one operation for introspection.
type OpInfo struct {
	Op       string `json:"op"`
	Policy   string `json:"policy"`
	Handlers int    `json:"handlers"`
}

// Facade is a named group of operations. It is safe for concurrent use.
type Facade struct {
	name     string
	report   diag.Reporter
	observer Observer
	policies map[string]Policy

	mu     sync.RWMutex
	slots  map[string]slot
	active map[Provider]*Binder

	// activateMu serializes Activate and Deactivate.
	activateMu sync.Mutex
}

// New creates a facade.
func New(name string, opts ...Option) *Facade {
	f := &Facade{
		name:     name,
		report:   diag.For(nil, name),
		policies: make(map[string]Policy),
		slots:    make(map[string]slot),
		active:   make(map[Provider]*Binder),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name returns the facade name.
func (f *Facade) Name() string { return f.name }

// Activate binds p's handlers. If Bind fails or panics, every binding it made
// is removed and a *BindError is returned.
func (f *Facade) Activate(p Provider) error {
	if p == nil {
		return ErrNilProvider
	}
	if !reflect.ValueOf(p).Comparable() {
		return ErrUncomparableProvider
	}

	f.activateMu.Lock()
	defer f.activateMu.Unlock()

	f.mu.RLock()
	_, dup := f.active[p]
	f.mu.RUnlock()
	if dup {
		return ErrAlreadyActive
	}

	b := newBinder(f, p.ProviderName())
	if err := b.run(p); err != nil {
		b.rollback()
		f.report.Fault(diag.LevelWarn, "provider activation failed", err,
			"provider", b.provider,
			"activation", b.id,
		)
		return err
	}

	f.mu.Lock()
	f.active[p] = b
	n := len(f.active)
	f.mu.Unlock()

	if f.observer != nil {
		f.observer.ObserveProviders(f.name, n)
	}
	f.report.Info("provider activated",
		"provider", b.provider,
		"activation", b.id,
		"bindings", len(b.undo),
	)
	return nil
}

// Deactivate removes every binding made by p. It reports whether p was
// active.
func (f *Facade) Deactivate(p Provider) bool {
	if p == nil || !reflect.ValueOf(p).Comparable() {
		return false
	}

	f.activateMu.Lock()
	defer f.activateMu.Unlock()

	f.mu.Lock()
	b, ok := f.active[p]
	delete(f.active, p)
	n := len(f.active)
	f.mu.Unlock()

	if !ok {
		return false
	}
	b.rollback()
	if f.observer != nil {
		f.observer.ObserveProviders(f.name, n)
	}
	f.report.Info("provider deactivated", "provider", b.provider, "activation", b.id)
	return true
}

// Active returns the names of the active providers, sorted.
func (f *Facade) Active() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	names := make([]string, 0, len(f.active))
	for _, b := range f.active {
		names = append(names, b.provider)
	}
	sort.Strings(names)
	return names
}

// Ops describes every operation, sorted by name.
func (f *Facade) Ops() []OpInfo {
	f.mu.RLock()
	slots := make([]slot, 0, len(f.slots))
	for _, s := range f.slots {
		slots = append(slots, s)
	}
	f.mu.RUnlock()

	out := make([]OpInfo, 0, len(slots))
	for _, s := range slots {
		out = append(out, OpInfo{Op: s.opName(), Policy: s.policy().String(), Handlers: s.count()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Op < out[j].Op })
	return out
}

func (f *Facade) addSlot(s slot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.slots[s.opName()]; ok {
		panic(ErrDuplicateOp)
	}
	f.slots[s.opName()] = s
}

func (f *Facade) policyFor(op string, fallback Policy) Policy {
	if p, ok := f.policies[op]; ok {
		return p
	}
	return fallback
}
