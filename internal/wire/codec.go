// internal/wire/codec.go
package wire

import (
	"bytes"
	"errors"
)

// Delim is the single frame terminator used by the hub in both
// directions. The hub family frames with a bare carriage return;
// no linefeed is ever sent or expected.
const Delim byte = '\r'

// ErrFraming reports a carriage return inside the payload, which
// means the read picked up more than one frame.
var ErrFraming = errors.New("wire: embedded delimiter in frame")

// Encode frames an outbound command: payload plus exactly one
// trailing carriage return.
func Encode(cmd string) []byte {
	b := make([]byte, 0, len(cmd)+1)
	b = append(b, cmd...)
	b = append(b, Delim)
	return b
}

// Decode strips exactly one trailing carriage return if present and
// returns the payload. Any remaining carriage return is a framing
// error.
func Decode(b []byte) (string, error) {
	if n := len(b); n > 0 && b[n-1] == Delim {
		b = b[:n-1]
	}
	if bytes.IndexByte(b, Delim) >= 0 {
		return "", ErrFraming
	}
	return string(b), nil
}
