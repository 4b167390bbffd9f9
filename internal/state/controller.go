// internal/state/controller.go
package state

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// FaultThreshold is the number of consecutive failed cycles that
// forces the FAULT state. Protocol-locked, not configurable.
const FaultThreshold = 3

// Controller tracks consecutive cycle failures and owns the
// operational state. Counter mutation and the threshold check are
// atomic per cycle outcome: two results can never skip or
// double-count the threshold.
type Controller struct {
	mu        sync.Mutex
	state     State
	failures  int
	lastFault *FaultError
	log       zerolog.Logger
}

// NewController starts in STANDBY.
func NewController(log zerolog.Logger) *Controller {
	return &Controller{
		state: Standby,
		log:   log.With().Str("component", "state").Logger(),
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) ConsecutiveFailures() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failures
}

// LastFault returns the cause of the most recent fault transition,
// or nil if none occurred since the last recovery.
func (c *Controller) LastFault() *FaultError {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastFault
}

// Enable moves to ENABLED on an external command.
func (c *Controller) Enable() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Fault {
		return fmt.Errorf("state: cannot enable from %s", c.state)
	}
	c.setLocked(Enabled)
	c.failures = 0
	return nil
}

// Disable moves to DISABLED on an external command.
func (c *Controller) Disable() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Fault {
		return fmt.Errorf("state: cannot disable from %s", c.state)
	}
	c.setLocked(Disabled)
	return nil
}

// Standby is the external recovery command: the only way out of
// FAULT.
func (c *Controller) Standby() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(Standby)
	c.failures = 0
	c.lastFault = nil
}

// ObserveCycle folds one cycle outcome into the health counters.
// A clean cycle resets the failure count; a failed cycle increments
// it, and the threshold fires the instant the count reaches
// FaultThreshold. The returned FaultError is non-nil exactly when
// this outcome caused the fault transition.
func (c *Controller) ObserveCycle(failed bool, cause error) (State, *FaultError) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Enabled {
		return c.state, nil
	}

	if !failed {
		if c.failures != 0 {
			c.log.Info().Int("was", c.failures).Msg("cycle recovered, failure count reset")
		}
		c.failures = 0
		return c.state, nil
	}

	c.failures++
	c.log.Warn().Int("consecutive", c.failures).Err(cause).Msg("cycle failed")

	if c.failures < FaultThreshold {
		return c.state, nil
	}

	fault := &FaultError{
		Code:   CodeChannelRecoveryFailed,
		Report: fmt.Sprintf("%d consecutive cycle failures", c.failures),
		Cause:  cause,
	}
	c.faultLocked(fault)
	return c.state, fault
}

// FaultOnConnect records an immediate fault for an initial-connection
// failure at enable time. No grace period for the first attempt.
func (c *Controller) FaultOnConnect(cause error) *FaultError {
	c.mu.Lock()
	defer c.mu.Unlock()

	fault := &FaultError{
		Code:   CodeHardwareConnectionFailed,
		Report: "hub connection failed",
		Cause:  cause,
	}
	c.faultLocked(fault)
	return fault
}

func (c *Controller) faultLocked(fault *FaultError) {
	c.lastFault = fault
	c.log.Error().Err(fault).Msg("forcing fault transition")
	c.setLocked(Fault)
}

func (c *Controller) setLocked(next State) {
	if c.state == next {
		return
	}
	c.log.Info().Stringer("from", c.state).Stringer("to", next).Msg("state transition")
	c.state = next
}
