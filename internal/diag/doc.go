// Package diag is the leveled diagnostic sink shared by every soracore
// primitive.
//
// Nothing in soracore treats "no provider is listening" as an exceptional
// case. Absent providers, ambiguous singletons, out-of-range values and
// listener faults are reported here instead of being returned to callers.
// The sink itself is an external collaborator: NewZerolog writes to a
// zerolog.Logger, Memory records for tests, Nop drops everything.
//
// Components hold a Reporter bound to their own name:
//
//	r := diag.For(sink, "audio")
//	r.Warn("no provider active", "op", "audio.play_at")
package diag
