package diag

import "fmt"

// Reporter reports diagnostics on behalf of one named source.
type Reporter struct {
	sink   Sink
	source string
}

// For binds a sink to a source name. A nil sink behaves like Nop.
func For(sink Sink, source string) Reporter {
	if sink == nil {
		sink = Nop
	}
	return Reporter{sink: sink, source: source}
}

// Source returns the bound source name.
func (r Reporter) Source() string { return r.source }

// Sink returns the underlying sink.
func (r Reporter) Sink() Sink { return r.sink }

// Debug reports at LevelDebug. kv is a list of alternating keys and values.
func (r Reporter) Debug(msg string, kv ...any) { r.report(LevelDebug, msg, nil, kv) }

// Info reports at LevelInfo.
func (r Reporter) Info(msg string, kv ...any) { r.report(LevelInfo, msg, nil, kv) }

// Warn reports at LevelWarn.
func (r Reporter) Warn(msg string, kv ...any) { r.report(LevelWarn, msg, nil, kv) }

// Error reports at LevelError.
func (r Reporter) Error(msg string, kv ...any) { r.report(LevelError, msg, nil, kv) }

// Fault reports err at the given level.
func (r Reporter) Fault(level Level, msg string, err error, kv ...any) {
	r.report(level, msg, err, kv)
}

func (r Reporter) report(level Level, msg string, err error, kv []any) {
	r.sink.Report(Record{
		Level:   level,
		Source:  r.source,
		Message: msg,
		Fields:  fields(kv),
		Err:     err,
	})
}

// fields turns alternating key/value pairs into a map. A trailing key without
// a value is stored under "!BADKEY", like log/slog does.
func fields(kv []any) map[string]any {
	if len(kv) == 0 {
		return nil
	}
	m := make(map[string]any, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		if i+1 >= len(kv) {
			m["!BADKEY"] = kv[i]
			break
		}
		m[key] = kv[i+1]
	}
	return m
}
