// Package metrics exposes Prometheus collectors for facade dispatch, event
// emission, singleton resolution and diagnostics.
//
// A nil *Collector is valid and records nothing, so primitives can hold one
// unconditionally.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dshills/soracore/internal/diag"
)

// Namespace is the metric namespace shared by every collector.
const Namespace = "soracore"

// Facade call outcomes.
const (
	OutcomeDispatched = "dispatched"
	OutcomeAbsent     = "absent"
)

// Collector groups every soracore metric.
type Collector struct {
	facadeCalls     *prometheus.CounterVec
	facadeDuration  *prometheus.HistogramVec
	handlerFaults   *prometheus.CounterVec
	emits           *prometheus.CounterVec
	listenerPanics  *prometheus.CounterVec
	resolutions     *prometheus.CounterVec
	diagnostics     *prometheus.CounterVec
	activeProviders *prometheus.GaugeVec
}

// New creates a Collector and registers it with reg.
// It panics if registration fails, like prometheus.MustRegister.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		facadeCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "facade",
				Name:      "calls_total",
				Help:      "Facade operation calls by outcome",
			},
			[]string{"facade", "op", "outcome"},
		),
		facadeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Subsystem: "facade",
				Name:      "dispatch_duration_seconds",
				Help:      "Time spent running handlers for one facade call",
				Buckets:   []float64{.00001, .0001, .001, .01, .1, 1},
			},
			[]string{"facade", "op"},
		),
		handlerFaults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "facade",
				Name:      "handler_faults_total",
				Help:      "Handlers that returned an error or panicked",
			},
			[]string{"facade", "op"},
		),
		activeProviders: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Subsystem: "facade",
				Name:      "active_providers",
				Help:      "Providers currently activated on a facade",
			},
			[]string{"facade"},
		),
		emits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "event",
				Name:      "emits_total",
				Help:      "Channel emissions",
			},
			[]string{"channel"},
		),
		listenerPanics: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "event",
				Name:      "listener_panics_total",
				Help:      "Listener reactions that panicked during an emission",
			},
			[]string{"channel"},
		),
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "singleton",
				Name:      "resolutions_total",
				Help:      "Singleton resolutions by outcome",
			},
			[]string{"registry", "outcome"},
		),
		diagnostics: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "diag",
				Name:      "records_total",
				Help:      "Diagnostics reported by level and source",
			},
			[]string{"level", "source"},
		),
	}

	reg.MustRegister(
		c.facadeCalls,
		c.facadeDuration,
		c.handlerFaults,
		c.activeProviders,
		c.emits,
		c.listenerPanics,
		c.resolutions,
		c.diagnostics,
	)
	return c
}

// ObserveCall records one facade call. handlers is the number of handlers
// that ran; zero means no provider was active.
func (c *Collector) ObserveCall(facade, op string, handlers int, d time.Duration) {
	if c == nil {
		return
	}
	outcome := OutcomeDispatched
	if handlers == 0 {
		outcome = OutcomeAbsent
	}
	c.facadeCalls.WithLabelValues(facade, op, outcome).Inc()
	if handlers > 0 {
		c.facadeDuration.WithLabelValues(facade, op).Observe(d.Seconds())
	}
}

// ObserveFault records a failed handler.
func (c *Collector) ObserveFault(facade, op string) {
	if c == nil {
		return
	}
	c.handlerFaults.WithLabelValues(facade, op).Inc()
}

// ObserveProviders sets the active provider gauge for a facade.
func (c *Collector) ObserveProviders(facade string, n int) {
	if c == nil {
		return
	}
	c.activeProviders.WithLabelValues(facade).Set(float64(n))
}

// ObserveEmit records one emission.
func (c *Collector) ObserveEmit(channel string, listeners int) {
	if c == nil {
		return
	}
	c.emits.WithLabelValues(channel).Inc()
}

// ObservePanic records a recovered listener panic.
func (c *Collector) ObservePanic(channel string) {
	if c == nil {
		return
	}
	c.listenerPanics.WithLabelValues(channel).Inc()
}

// ObserveResolve records a singleton resolution outcome.
func (c *Collector) ObserveResolve(registry, outcome string) {
	if c == nil {
		return
	}
	c.resolutions.WithLabelValues(registry, outcome).Inc()
}

// Sink wraps next so that every diagnostic is also counted.
func (c *Collector) Sink(next diag.Sink) diag.Sink {
	if c == nil {
		return next
	}
	if next == nil {
		next = diag.Nop
	}
	return diag.SinkFunc(func(r diag.Record) {
		c.diagnostics.WithLabelValues(r.Level.String(), r.Source).Inc()
		next.Report(r)
	})
}
