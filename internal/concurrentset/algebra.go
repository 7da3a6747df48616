package concurrentset

import "iter"

// UnionWith adds every element of other.
func (s *Set[T]) UnionWith(other iter.Seq[T]) error {
	if other == nil {
		return ErrNilCollection
	}
	for v := range other {
		s.Add(v)
	}
	return nil
}

// IntersectWith removes every element that is not in other.
func (s *Set[T]) IntersectWith(other iter.Seq[T]) error {
	if other == nil {
		return ErrNilCollection
	}
	keep := s.collect(other)
	for _, v := range s.Snapshot() {
		if !keep.Contains(v) {
			s.Remove(v)
		}
	}
	return nil
}

// ExceptWith removes every element of other.
func (s *Set[T]) ExceptWith(other iter.Seq[T]) error {
	if other == nil {
		return ErrNilCollection
	}
	for v := range other {
		s.Remove(v)
	}
	return nil
}

// SymmetricExceptWith keeps the elements present in exactly one of the set
// and other. Duplicates in other count once.
func (s *Set[T]) SymmetricExceptWith(other iter.Seq[T]) error {
	if other == nil {
		return ErrNilCollection
	}
	unique := s.collect(other)
	for _, v := range unique.Snapshot() {
		if !s.Remove(v) {
			s.Add(v)
		}
	}
	return nil
}

// IsSubsetOf reports whether every element of the set is in other.
func (s *Set[T]) IsSubsetOf(other iter.Seq[T]) (bool, error) {
	if other == nil {
		return false, ErrNilCollection
	}
	snap := s.Snapshot()
	o := s.collect(other)
	return containsAll(o, snap), nil
}

// IsProperSubsetOf reports whether the set is a subset of other and other
// holds at least one element the set does not.
func (s *Set[T]) IsProperSubsetOf(other iter.Seq[T]) (bool, error) {
	if other == nil {
		return false, ErrNilCollection
	}
	snap := s.Snapshot()
	o := s.collect(other)
	return o.Len() > len(snap) && containsAll(o, snap), nil
}

// IsSupersetOf reports whether every element of other is in the set.
func (s *Set[T]) IsSupersetOf(other iter.Seq[T]) (bool, error) {
	if other == nil {
		return false, ErrNilCollection
	}
	mine := s.Clone()
	for v := range other {
		if !mine.Contains(v) {
			return false, nil
		}
	}
	return true, nil
}

// IsProperSupersetOf reports whether the set is a superset of other and
// holds at least one element other does not.
func (s *Set[T]) IsProperSupersetOf(other iter.Seq[T]) (bool, error) {
	if other == nil {
		return false, ErrNilCollection
	}
	mine := s.Clone()
	o := s.collect(other)
	return mine.Len() > o.Len() && containsAll(mine, o.Snapshot()), nil
}

// Overlaps reports whether the set and other share at least one element.
func (s *Set[T]) Overlaps(other iter.Seq[T]) (bool, error) {
	if other == nil {
		return false, ErrNilCollection
	}
	mine := s.Clone()
	for v := range other {
		if mine.Contains(v) {
			return true, nil
		}
	}
	return false, nil
}

// SetEquals reports whether the set and other hold the same elements.
func (s *Set[T]) SetEquals(other iter.Seq[T]) (bool, error) {
	if other == nil {
		return false, ErrNilCollection
	}
	mine := s.Clone()
	o := s.collect(other)
	return mine.Len() == o.Len() && containsAll(mine, o.Snapshot()), nil
}

// collect builds a private set from other using the receiver's comparer.
func (s *Set[T]) collect(other iter.Seq[T]) *Set[T] {
	c := NewWithComparer(s.cmp)
	for v := range other {
		c.Add(v)
	}
	return c
}

func containsAll[T any](s *Set[T], items []T) bool {
	for _, v := range items {
		if !s.Contains(v) {
			return false
		}
	}
	return true
}
