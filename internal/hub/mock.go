// internal/hub/mock.go
package hub

import (
	"bufio"
	"fmt"
	"math"
	"net"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tamzrod/pmdhub/internal/wire"
)

// ScriptedHub emulates the gauge multiplexer behind the terminal
// server. Positions are indexed by slot-1; NaN marks a slot whose
// gauge never reports, which the real hub answers with a bare
// terminator instead of a reading.
type ScriptedHub struct {
	mu        sync.Mutex
	positions []float64
	replies   int
	dropAfter int // drop the connection after this many replies; 0 = never
}

// NewScriptedHub creates a hub with the given slot positions.
func NewScriptedHub(positions ...float64) *ScriptedHub {
	return &ScriptedHub{positions: positions}
}

// DropAfterReplies makes the hub hang up after n replies, emulating
// a terminal server reset mid-cycle.
func (h *ScriptedHub) DropAfterReplies(n int) {
	h.mu.Lock()
	h.dropAfter = n
	h.mu.Unlock()
}

// SetPosition rescripts one slot while the hub is serving.
func (h *ScriptedHub) SetPosition(slot int, pos float64) {
	h.mu.Lock()
	h.positions[slot-1] = pos
	h.mu.Unlock()
}

// Reply produces the framed response for one command line, or
// ok=false for a command the hub does not implement.
func (h *ScriptedHub) Reply(cmd string) (reply []byte, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch cmd {
	case "SPC", "QU":
		// Multiplexer config menu enter/quit: acknowledged with an
		// empty line.
		h.replies++
		return wire.Encode(""), true
	}

	slot, err := strconv.Atoi(cmd)
	if err != nil || slot < 1 || slot > len(h.positions) {
		return nil, false
	}

	h.replies++
	pos := h.positions[slot-1]
	if math.IsNaN(pos) {
		return wire.Encode(""), true
	}
	return wire.Encode(fmt.Sprintf("%d:%+f", slot, pos)), true
}

func (h *ScriptedHub) dropNow() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropAfter > 0 && h.replies >= h.dropAfter
}

// MockServer is the test double for the terminal server. It binds an
// ephemeral localhost port, accepts exactly one client, and answers
// each received line from the scripted hub with the same bare-CR
// framing as the real device. One outstanding request at a time; the
// hub does not pipeline.
type MockServer struct {
	hub *ScriptedHub
	ln  net.Listener
	log zerolog.Logger

	mu   sync.Mutex
	conn net.Conn
	done chan struct{}
}

// NewMockServer starts the server. Callers must Close it.
func NewMockServer(hub *ScriptedHub, log zerolog.Logger) (*MockServer, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	s := &MockServer{
		hub:  hub,
		ln:   ln,
		log:  log.With().Str("component", "mock-hub").Logger(),
		done: make(chan struct{}),
	}
	go s.serve()
	return s, nil
}

// Port returns the bound listening port.
func (s *MockServer) Port() int {
	return s.ln.Addr().(*net.TCPAddr).Port
}

func (s *MockServer) serve() {
	defer close(s.done)

	conn, err := s.ln.Accept()
	if err != nil {
		return
	}
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
	defer conn.Close()

	r := bufio.NewReader(conn)
	for {
		line, err := r.ReadBytes(wire.Delim)
		if err != nil {
			return
		}
		cmd, err := wire.Decode(line)
		if err != nil {
			s.log.Error().Err(err).Msg("malformed command line")
			continue
		}
		reply, ok := s.hub.Reply(cmd)
		if !ok {
			s.log.Error().Str("cmd", cmd).Msg("command not implemented")
			continue
		}
		s.log.Debug().Str("cmd", cmd).Bytes("reply", reply).Msg("replying")
		if _, err := conn.Write(reply); err != nil {
			return
		}
		if s.hub.dropNow() {
			s.log.Debug().Msg("scripted drop, hanging up")
			return
		}
	}
}

// Close stops the server and hangs up on the client if one is
// connected. Idempotent.
func (s *MockServer) Close() error {
	err := s.ln.Close()
	s.mu.Lock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	s.mu.Unlock()
	<-s.done
	return err
}
