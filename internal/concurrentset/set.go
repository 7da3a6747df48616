package concurrentset

import (
	"iter"
	"sync"
)

// Set is a thread-safe unordered collection of unique elements.
// The zero value is not usable; construct with New or NewWithComparer.
type Set[T any] struct {
	mu      sync.RWMutex
	cmp     Comparer[T]
	buckets map[uint64][]T
	n       int
}

// New creates an empty set using value equality.
func New[T comparable]() *Set[T] {
	return NewWithComparer(DefaultComparer[T]())
}

// NewWithComparer creates an empty set using cmp for equality and hashing.
// It panics with ErrNilComparer if cmp is nil.
func NewWithComparer[T any](cmp Comparer[T]) *Set[T] {
	if cmp == nil {
		panic(ErrNilComparer)
	}
	return &Set[T]{
		cmp:     cmp,
		buckets: make(map[uint64][]T),
	}
}

// Of creates a set holding the given items.
func Of[T comparable](items ...T) *Set[T] {
	s := New[T]()
	for _, v := range items {
		s.Add(v)
	}
	return s
}

// From creates a set from a sequence. A nil sequence yields an empty set.
func From[T comparable](items iter.Seq[T]) *Set[T] {
	s := New[T]()
	if items != nil {
		for v := range items {
			s.Add(v)
		}
	}
	return s
}

// Comparer returns the comparer in use.
func (s *Set[T]) Comparer() Comparer[T] {
	return s.cmp
}

// Add inserts item. It returns true if item was not already present.
func (s *Set[T]) Add(item T) bool {
	h := s.cmp.Hash(item)

	s.mu.Lock()
	defer s.mu.Unlock()

	bucket := s.buckets[h]
	for _, v := range bucket {
		if s.cmp.Equal(v, item) {
			return false
		}
	}
	s.buckets[h] = append(bucket, item)
	s.n++
	return true
}

// Remove deletes item. It returns true if item was present.
func (s *Set[T]) Remove(item T) bool {
	h := s.cmp.Hash(item)

	s.mu.Lock()
	defer s.mu.Unlock()

	bucket := s.buckets[h]
	for i, v := range bucket {
		if !s.cmp.Equal(v, item) {
			continue
		}
		if len(bucket) == 1 {
			delete(s.buckets, h)
		} else {
			// Copy so that slices handed out earlier are never rewritten.
			next := make([]T, 0, len(bucket)-1)
			next = append(next, bucket[:i]...)
			next = append(next, bucket[i+1:]...)
			s.buckets[h] = next
		}
		s.n--
		return true
	}
	return false
}

// Contains reports whether item is present.
func (s *Set[T]) Contains(item T) bool {
	h := s.cmp.Hash(item)

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, v := range s.buckets[h] {
		if s.cmp.Equal(v, item) {
			return true
		}
	}
	return false
}

// Len returns the number of elements.
func (s *Set[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.n
}

// Clear removes all elements.
func (s *Set[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buckets = make(map[uint64][]T)
	s.n = 0
}

// Snapshot returns a copy of the current membership (order is unspecified).
func (s *Set[T]) Snapshot() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0, s.n)
	for _, bucket := range s.buckets {
		out = append(out, bucket...)
	}
	return out
}

// All returns a weakly consistent iterator over the set.
// It walks a copy taken when iteration starts.
func (s *Set[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range s.Snapshot() {
			if !yield(v) {
				return
			}
		}
	}
}

// Clone returns an independent copy sharing the same comparer.
func (s *Set[T]) Clone() *Set[T] {
	c := NewWithComparer(s.cmp)
	for _, v := range s.Snapshot() {
		c.Add(v)
	}
	return c
}
