// internal/poller/types.go
package poller

import "time"

// TelemetrySample is one device reading from one cycle.
// Valid=false with a NaN position means the device did not report.
// That is a normal outcome on a partially populated hub, not an
// error.
type TelemetrySample struct {
	DeviceIndex int
	Position    float64
	Timestamp   time.Time
	Valid       bool
}

// CycleResult is the outcome of one full pass over the registry.
type CycleResult struct {
	At      time.Time
	Samples []TelemetrySample

	// Failed marks a connection-level abort. Samples holds whatever
	// was read before the line died.
	Failed bool

	// Err is the connection-level cause when Failed is set.
	Err error
}

// Invalid counts samples whose device did not report.
func (r CycleResult) Invalid() int {
	n := 0
	for _, s := range r.Samples {
		if !s.Valid {
			n++
		}
	}
	return n
}
