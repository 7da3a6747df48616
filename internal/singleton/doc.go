// Package singleton resolves "the one live instance of T" without a static
// slot.
//
// Instances announce themselves to a Pool when the host creates them and
// leave it when the host destroys them. A Registry lazily resolves the pool to
// a single candidate, caches it, and drops the cache when that candidate is
// destroyed. Resolution never fails loudly: no candidate, several candidates
// and teardown are reported to a diag.Sink and the caller gets found=false or
// the lowest-id candidate.
//
// After Shutdown the registry is terminal. It never scans again and never
// returns the cached reference, which avoids resurrecting objects while the
// host tears down in an unspecified order.
package singleton
