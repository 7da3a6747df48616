package singleton

import (
	"slices"
	"sync"

	"github.com/dshills/soracore/internal/concurrentset"
)

// Handle identifies a pooled instance. Handles increase monotonically and are
// never reused within a pool.
type Handle uint64

// Candidate is a live instance and its handle.
type Candidate[T any] struct {
	Handle Handle
	Value  T
}

// Source enumerates live candidates.
type Source[T any] interface {
	// Candidates returns the live instances sorted by handle.
	Candidates() []Candidate[T]
}

// Invalidator is notified when a pooled instance is destroyed.
type Invalidator interface {
	Invalidate(h Handle)
}

// Pool tracks the live instances of T. It is safe for concurrent use.
type Pool[T any] struct {
	mu       sync.RWMutex
	next     Handle
	live     map[Handle]T
	watchers *concurrentset.Set[Invalidator]
}

// NewPool creates an empty pool.
func NewPool[T any]() *Pool[T] {
	return &Pool[T]{
		live:     make(map[Handle]T),
		watchers: concurrentset.New[Invalidator](),
	}
}

// Create records v as live and returns its handle.
func (p *Pool[T]) Create(v T) Handle {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.next++
	p.live[p.next] = v
	return p.next
}

// Destroy removes the instance and notifies attached registries. It reports
// whether h was live.
func (p *Pool[T]) Destroy(h Handle) bool {
	p.mu.Lock()
	_, ok := p.live[h]
	delete(p.live, h)
	p.mu.Unlock()

	if !ok {
		return false
	}
	// Notify outside the lock: a registry may be scanning this pool.
	for w := range p.watchers.All() {
		w.Invalidate(h)
	}
	return true
}

// Candidates implements Source.
func (p *Pool[T]) Candidates() []Candidate[T] {
	p.mu.RLock()
	out := make([]Candidate[T], 0, len(p.live))
	for h, v := range p.live {
		out = append(out, Candidate[T]{Handle: h, Value: v})
	}
	p.mu.RUnlock()

	slices.SortFunc(out, func(a, b Candidate[T]) int {
		switch {
		case a.Handle < b.Handle:
			return -1
		case a.Handle > b.Handle:
			return 1
		}
		return 0
	})
	return out
}

// Len returns the number of live instances.
func (p *Pool[T]) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.live)
}

// Attach subscribes w to destroy notifications.
func (p *Pool[T]) Attach(w Invalidator) {
	if w != nil {
		p.watchers.Add(w)
	}
}

// Detach undoes Attach.
func (p *Pool[T]) Detach(w Invalidator) {
	if w != nil {
		p.watchers.Remove(w)
	}
}
