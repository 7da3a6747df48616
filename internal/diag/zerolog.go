package diag

import "github.com/rs/zerolog"

// zerologSink writes records to a zerolog.Logger.
type zerologSink struct {
	log zerolog.Logger
}

// NewZerolog returns a Sink that writes to l.
func NewZerolog(l zerolog.Logger) Sink {
	return &zerologSink{log: l}
}

// Report implements Sink.
func (s *zerologSink) Report(r Record) {
	ev := s.log.WithLevel(ZerologLevel(r.Level))
	if ev == nil {
		return
	}
	if r.Source != "" {
		ev = ev.Str("source", r.Source)
	}
	if r.Err != nil {
		ev = ev.Err(r.Err)
	}
	if len(r.Fields) > 0 {
		ev = ev.Fields(r.Fields)
	}
	ev.Msg(r.Message)
}

// ZerologLevel maps a diagnostic level to its zerolog equivalent.
func ZerologLevel(l Level) zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.NoLevel
	}
}
