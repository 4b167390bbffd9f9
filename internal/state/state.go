// internal/state/state.go
package state

import "fmt"

// State is the operational state of the controller.
type State int

const (
	Standby State = iota
	Disabled
	Enabled
	Fault
)

func (s State) String() string {
	switch s {
	case Standby:
		return "STANDBY"
	case Disabled:
		return "DISABLED"
	case Enabled:
		return "ENABLED"
	case Fault:
		return "FAULT"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ErrorCode identifies the cause of a fault transition.
type ErrorCode int

const (
	// CodeHardwareConnectionFailed: the hub could not be reached at
	// enable time.
	CodeHardwareConnectionFailed ErrorCode = 1

	// CodeChannelRecoveryFailed: consecutive cycle failures reached
	// the fault threshold.
	CodeChannelRecoveryFailed ErrorCode = 2
)

// FaultError is the only error that changes the operational state.
// It carries the originating cause for operator visibility and is
// never retried automatically; recovery requires an explicit
// external command.
type FaultError struct {
	Code   ErrorCode
	Report string
	Cause  error
}

func (e *FaultError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fault %d: %s: %v", e.Code, e.Report, e.Cause)
	}
	return fmt.Sprintf("fault %d: %s", e.Code, e.Report)
}

func (e *FaultError) Unwrap() error { return e.Cause }
