package concurrentset

import "hash/maphash"

// Comparer defines element equality for a Set.
// Equal elements must produce equal hashes.
type Comparer[T any] interface {
	Equal(a, b T) bool
	Hash(v T) uint64
}

// valueComparer uses == and maphash.Comparable.
type valueComparer[T comparable] struct {
	seed maphash.Seed
}

// DefaultComparer returns the value-semantics comparer for T.
func DefaultComparer[T comparable]() Comparer[T] {
	return valueComparer[T]{seed: maphash.MakeSeed()}
}

func (c valueComparer[T]) Equal(a, b T) bool { return a == b }

func (c valueComparer[T]) Hash(v T) uint64 { return maphash.Comparable(c.seed, v) }

// keyComparer compares elements by a derived key.
type keyComparer[T any, K comparable] struct {
	key  func(T) K
	seed maphash.Seed
}

// KeyComparer returns a Comparer that treats two elements as equal when
// key returns the same value for both.
func KeyComparer[T any, K comparable](key func(T) K) Comparer[T] {
	return keyComparer[T, K]{key: key, seed: maphash.MakeSeed()}
}

func (c keyComparer[T, K]) Equal(a, b T) bool { return c.key(a) == c.key(b) }

func (c keyComparer[T, K]) Hash(v T) uint64 { return maphash.Comparable(c.seed, c.key(v)) }
