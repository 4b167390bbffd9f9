// internal/observability/metrics_test.go
package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveCycleCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveCycle(false, 1, 10*time.Millisecond)
	m.ObserveCycle(true, 0, 10*time.Millisecond)

	if got := testutil.ToFloat64(m.cycles); got != 2 {
		t.Fatalf("cycles = %v", got)
	}
	if got := testutil.ToFloat64(m.cycleFailures); got != 1 {
		t.Fatalf("failures = %v", got)
	}
	if got := testutil.ToFloat64(m.readTimeouts); got != 1 {
		t.Fatalf("read timeouts = %v", got)
	}
}

func TestSetState(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.SetState(3)
	if got := testutil.ToFloat64(m.state); got != 3 {
		t.Fatalf("state gauge = %v", got)
	}
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics
	m.ObserveCycle(true, 2, time.Second)
	m.SetState(2)
}
