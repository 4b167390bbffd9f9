// internal/state/controller_test.go
package state

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func enabled(t *testing.T) *Controller {
	t.Helper()
	c := NewController(zerolog.Nop())
	if err := c.Enable(); err != nil {
		t.Fatalf("Enable err=%v", err)
	}
	return c
}

func TestControllerStartsInStandby(t *testing.T) {
	c := NewController(zerolog.Nop())
	if got := c.State(); got != Standby {
		t.Fatalf("initial state = %v", got)
	}
}

// Regression test pinning the threshold boundary: the fault fires on
// exactly the third consecutive failure, not the fourth.
func TestControllerFaultsOnThirdConsecutiveFailure(t *testing.T) {
	c := enabled(t)
	lineDead := errors.New("connection reset")

	for i := 1; i <= 2; i++ {
		st, fault := c.ObserveCycle(true, lineDead)
		if st != Enabled || fault != nil {
			t.Fatalf("failure %d: state=%v fault=%v", i, st, fault)
		}
		if got := c.ConsecutiveFailures(); got != i {
			t.Fatalf("failure %d: counter=%d", i, got)
		}
	}

	st, fault := c.ObserveCycle(true, lineDead)
	if st != Fault {
		t.Fatalf("state after third failure = %v", st)
	}
	if fault == nil {
		t.Fatal("third failure must return the fault")
	}
	if fault.Code != CodeChannelRecoveryFailed {
		t.Fatalf("fault code = %d", fault.Code)
	}
	if !errors.Is(fault, lineDead) {
		t.Fatalf("fault cause lost: %v", fault)
	}
}

func TestControllerSuccessResetsCounter(t *testing.T) {
	c := enabled(t)
	cause := errors.New("broken pipe")

	c.ObserveCycle(true, cause)
	c.ObserveCycle(true, cause)
	st, fault := c.ObserveCycle(false, nil)
	if st != Enabled || fault != nil {
		t.Fatalf("after recovery: state=%v fault=%v", st, fault)
	}
	if got := c.ConsecutiveFailures(); got != 0 {
		t.Fatalf("counter after success = %d", got)
	}

	// Two more failures must not fault: the streak restarted.
	c.ObserveCycle(true, cause)
	c.ObserveCycle(true, cause)
	if got := c.State(); got != Enabled {
		t.Fatalf("state after 2 failures post-reset = %v", got)
	}
	if got := c.ConsecutiveFailures(); got != 2 {
		t.Fatalf("counter after restarted streak = %d", got)
	}
}

func TestControllerFaultOnInitialConnect(t *testing.T) {
	c := enabled(t)
	cause := errors.New("connection refused")

	fault := c.FaultOnConnect(cause)
	if got := c.State(); got != Fault {
		t.Fatalf("state = %v, want FAULT without waiting for 3 cycles", got)
	}
	if fault.Code != CodeHardwareConnectionFailed {
		t.Fatalf("fault code = %d", fault.Code)
	}
	if !errors.Is(fault, cause) {
		t.Fatalf("fault cause lost: %v", fault)
	}
	if c.LastFault() != fault {
		t.Fatal("LastFault not recorded")
	}
}

func TestControllerFaultIsSticky(t *testing.T) {
	c := enabled(t)
	cause := errors.New("line dead")

	for i := 0; i < FaultThreshold; i++ {
		c.ObserveCycle(true, cause)
	}
	if c.State() != Fault {
		t.Fatal("not faulted")
	}

	// Cycle outcomes are ignored in FAULT, and enable is refused.
	if st, fault := c.ObserveCycle(false, nil); st != Fault || fault != nil {
		t.Fatalf("fault not sticky: state=%v fault=%v", st, fault)
	}
	if err := c.Enable(); err == nil {
		t.Fatal("Enable must be refused in FAULT")
	}

	// Only the external recovery command leaves FAULT.
	c.Standby()
	if got := c.State(); got != Standby {
		t.Fatalf("state after recovery = %v", got)
	}
	if c.ConsecutiveFailures() != 0 || c.LastFault() != nil {
		t.Fatal("counters not cleared on recovery")
	}
}

func TestControllerIgnoresCyclesWhenNotEnabled(t *testing.T) {
	c := NewController(zerolog.Nop())
	cause := errors.New("noise")

	for i := 0; i < FaultThreshold; i++ {
		if st, fault := c.ObserveCycle(true, cause); st != Standby || fault != nil {
			t.Fatalf("standby cycle observed: state=%v fault=%v", st, fault)
		}
	}
	if got := c.ConsecutiveFailures(); got != 0 {
		t.Fatalf("counter mutated outside ENABLED: %d", got)
	}
}
