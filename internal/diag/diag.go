package diag

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Level is the severity of a diagnostic.
type Level int8

const (
	// LevelDebug is for internal tracing.
	LevelDebug Level = iota

	// LevelInfo is for notable but expected conditions.
	LevelInfo

	// LevelWarn is for absent providers, duplicate singletons and advisories.
	LevelWarn

	// LevelError is for conditions a host should fix (e.g. no singleton at all).
	LevelError
)

// String returns the lowercase level name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseLevel parses a level name. Empty input yields LevelInfo.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("diag: unknown level %q", s)
	}
}

// Record is a single diagnostic.
type Record struct {
	// Level is the severity.
	Level Level

	// Source names the facade, registry or channel that reported it.
	Source string

	// Message is a short human-readable description.
	Message string

	// Fields carries structured context. May be nil.
	Fields map[string]any

	// Err is the underlying error, if any.
	Err error
}

// Sink receives diagnostics. Implementations must be safe for concurrent use
// and must not panic.
type Sink interface {
	Report(Record)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Record)

// Report implements Sink.
func (f SinkFunc) Report(r Record) { f(r) }

// Nop drops every record.
var Nop Sink = nopSink{}

type nopSink struct{}

func (nopSink) Report(Record) {}

// Multi fans a record out to every non-nil sink in order.
func Multi(sinks ...Sink) Sink {
	out := make(multiSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

type multiSink []Sink

func (m multiSink) Report(r Record) {
	for _, s := range m {
		s.Report(r)
	}
}

// MinLevel forwards only records at or above min.
func MinLevel(s Sink, min Level) Sink {
	return SinkFunc(func(r Record) {
		if r.Level >= min {
			s.Report(r)
		}
	})
}

// Gate forwards records at or above a level that can change at runtime.
type Gate struct {
	next Sink
	min  atomic.Int32
}

// NewGate creates a gate in front of next.
func NewGate(next Sink, min Level) *Gate {
	if next == nil {
		next = Nop
	}
	g := &Gate{next: next}
	g.min.Store(int32(min))
	return g
}

// Report implements Sink.
func (g *Gate) Report(r Record) {
	if r.Level >= Level(g.min.Load()) {
		g.next.Report(r)
	}
}

// SetLevel changes the minimum level.
func (g *Gate) SetLevel(l Level) { g.min.Store(int32(l)) }

// Level returns the minimum level.
func (g *Gate) Level() Level { return Level(g.min.Load()) }
