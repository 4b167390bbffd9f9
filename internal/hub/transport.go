// internal/hub/transport.go
package hub

import (
	"context"
	"errors"
	"os"
)

// Transport is one bidirectional line to the hub.
// The poller depends on this contract only; the real TCP client and
// the mock hub are selected at composition time.
type Transport interface {
	// Connect establishes the connection. One attempt per call.
	Connect(ctx context.Context) error

	// Write sends already-framed bytes.
	Write(b []byte) error

	// ReadUntil reads up to and including delim, bounded by the
	// transport's read timeout. The returned bytes include delim.
	ReadUntil(delim byte) ([]byte, error)

	// Close releases the connection. Idempotent.
	Close() error

	Connected() bool
}

// ErrNotConnected reports I/O attempted without a live connection.
var ErrNotConnected = errors.New("hub: not connected")

// IsTimeout reports whether err is a bounded-read expiry rather than
// a dead connection. Timeouts are an expected per-device outcome.
func IsTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne interface{ Timeout() bool }
	return errors.As(err, &ne) && ne.Timeout()
}
