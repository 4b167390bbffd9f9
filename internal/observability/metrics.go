// internal/observability/metrics.go
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes the controller's health to prometheus. A nil
// *Metrics is a valid no-op receiver so the poller loop never has to
// branch on whether metrics are enabled.
type Metrics struct {
	cycles        prometheus.Counter
	cycleFailures prometheus.Counter
	readTimeouts  prometheus.Counter
	state         prometheus.Gauge
	cycleDuration prometheus.Histogram
}

// New registers the controller metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pmdhub_cycles_total",
			Help: "Total polling cycles attempted.",
		}),
		cycleFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pmdhub_cycle_failures_total",
			Help: "Cycles aborted by a connection-level failure.",
		}),
		readTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pmdhub_device_read_timeouts_total",
			Help: "Per-device reads that produced no reading.",
		}),
		state: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pmdhub_state",
			Help: "Operational state (0=STANDBY 1=DISABLED 2=ENABLED 3=FAULT).",
		}),
		cycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pmdhub_cycle_duration_seconds",
			Help:    "Wall time of one full polling cycle.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
	}

	reg.MustRegister(m.cycles, m.cycleFailures, m.readTimeouts, m.state, m.cycleDuration)
	return m
}

// ObserveCycle records one cycle outcome.
func (m *Metrics) ObserveCycle(failed bool, silentDevices int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.cycles.Inc()
	if failed {
		m.cycleFailures.Inc()
	}
	m.readTimeouts.Add(float64(silentDevices))
	m.cycleDuration.Observe(elapsed.Seconds())
}

// SetState publishes the operational state as its enum value.
func (m *Metrics) SetState(v int) {
	if m == nil {
		return
	}
	m.state.Set(float64(v))
}
