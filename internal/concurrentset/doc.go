// Package concurrentset provides a thread-safe unordered set with full set
// algebra.
//
// Set is the backing collection for listener registries that may be mutated
// from several goroutines while another goroutine is dispatching.
//
// # Consistency
//
// Every primitive operation (Add, Remove, Contains, Len, Clear, Snapshot) is
// atomic with respect to the others. Composite operations (UnionWith,
// IntersectWith, the subset predicates, ...) are built from those primitives
// and are NOT transactional: a concurrent Add or Remove may interleave with
// them. When no concurrent mutation happens, results are identical to the
// equivalent plain set operations.
//
// Iteration via All walks a point-in-time copy. An element added or removed
// while iterating may or may not be observed, but iteration never panics and
// never corrupts the set.
//
// # Equality
//
// New uses value equality (==) for comparable element types. NewWithComparer
// plugs any Comparer, which also makes non-comparable element types usable:
//
//	byName := concurrentset.KeyComparer(func(c Cue) string { return c.Name })
//	cues := concurrentset.NewWithComparer(byName)
//
// # Errors
//
// Passing a nil sequence to any algebra operation returns ErrNilCollection,
// which wraps ErrInvalidArgument. That is the only error the package reports.
package concurrentset
