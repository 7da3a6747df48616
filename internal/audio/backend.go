package audio

import (
	"github.com/dshills/soracore/internal/diag"
)

// LogBackend is a headless Backend that reports every request as a debug
// diagnostic.
type LogBackend struct {
	report diag.Reporter
}

// NewLogBackend creates a LogBackend reporting to sink.
func NewLogBackend(sink diag.Sink) *LogBackend {
	return &LogBackend{report: diag.For(sink, "audio.backend")}
}

// Spawn implements Backend.
func (b *LogBackend) Spawn(src Source) error {
	kv := []any{"clip", src.Clip, "loop", src.Loop, "volume", src.Settings.Volume}
	if src.Position != nil {
		kv = append(kv, "pos", *src.Position)
	}
	if src.Parent != "" {
		kv = append(kv, "parent", string(src.Parent))
	}
	if src.Group != nil {
		kv = append(kv, "group", src.Group.Name)
	}
	b.report.Debug("spawn source", kv...)
	return nil
}

// PlayMusic implements Backend.
func (b *LogBackend) PlayMusic(src Source) error {
	b.report.Debug("play music", "clip", src.Clip, "loop", src.Loop)
	return nil
}

// SetFloat implements Backend.
func (b *LogBackend) SetFloat(param string, value float64) error {
	b.report.Debug("set mixer parameter", "param", param, "value", value)
	return nil
}
