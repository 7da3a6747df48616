package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/dshills/soracore/internal/diag"
)

func TestObserveCallOutcomes(t *testing.T) {
	c := New(prometheus.NewRegistry())

	c.ObserveCall("audio", "audio.play_at", 0, 0)
	c.ObserveCall("audio", "audio.play_at", 2, time.Millisecond)
	c.ObserveCall("audio", "audio.play_at", 1, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.facadeCalls.WithLabelValues("audio", "audio.play_at", OutcomeAbsent)))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.facadeCalls.WithLabelValues("audio", "audio.play_at", OutcomeDispatched)))
}

func TestSinkCountsDiagnostics(t *testing.T) {
	c := New(prometheus.NewRegistry())
	mem := diag.NewMemory()
	sink := c.Sink(mem)

	diag.For(sink, "ui").Warn("absent")
	diag.For(sink, "ui").Warn("absent")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.diagnostics.WithLabelValues("warn", "ui")))
	assert.Equal(t, 2, mem.Len(), "records still reach the wrapped sink")
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveCall("a", "b", 1, time.Second)
		c.ObserveFault("a", "b")
		c.ObserveProviders("a", 1)
		c.ObserveEmit("x", 2)
		c.ObservePanic("x")
		c.ObserveResolve("r", "cached")
	})
	mem := diag.NewMemory()
	assert.Equal(t, diag.Sink(mem), c.Sink(mem))
}

func TestRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) }, "duplicate registration must panic")
}
