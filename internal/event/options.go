package event

import "github.com/dshills/soracore/internal/diag"

// Observer receives emission statistics. *metrics.Collector implements it.
type Observer interface {
	ObserveEmit(channel string, listeners int)
	ObservePanic(channel string)
}

// Option configures a Channel or the channels declared by a Catalog.
type Option func(*channelConfig)

// channelConfig contains configuration for a channel.
type channelConfig struct {
	// isolate recovers listener panics when true.
	isolate bool

	// sink receives listener fault diagnostics.
	sink diag.Sink

	// observer receives emission statistics. May be nil.
	observer Observer
}

// defaultChannelConfig returns the default configuration.
func defaultChannelConfig() channelConfig {
	return channelConfig{
		isolate: true,
		sink:    diag.Nop,
	}
}

// WithIsolation controls whether a panicking listener is recovered (true, the
// default) or propagated to the emitter (false).
func WithIsolation(isolate bool) Option {
	return func(c *channelConfig) {
		c.isolate = isolate
	}
}

// WithSink sets the diagnostic sink.
func WithSink(s diag.Sink) Option {
	return func(c *channelConfig) {
		if s != nil {
			c.sink = s
		}
	}
}

// WithObserver sets the statistics observer.
func WithObserver(o Observer) Option {
	return func(c *channelConfig) {
		c.observer = o
	}
}
