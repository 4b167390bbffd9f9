// internal/hub/client.go
package hub

import (
	"bufio"
	"context"
	"net"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

const dialTimeout = 10 * time.Second

// Client implements Transport over TCP.
// The hub is a terminal server multiplexing every gauge onto one
// line, so exactly one Client exists per hub and exactly one request
// is outstanding at a time.
type Client struct {
	host        string
	port        int
	readTimeout time.Duration
	log         zerolog.Logger

	conn net.Conn
	br   *bufio.Reader
}

// NewClient creates an unconnected client.
func NewClient(host string, port int, readTimeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		host:        host,
		port:        port,
		readTimeout: readTimeout,
		log:         log.With().Str("component", "hub-client").Logger(),
	}
}

// Connect dials the hub. One attempt per call, no retries.
func (c *Client) Connect(ctx context.Context) error {
	if c.conn != nil {
		return nil
	}

	addr := net.JoinHostPort(c.host, strconv.Itoa(c.port))
	d := net.Dialer{Timeout: dialTimeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		c.log.Error().Err(err).Str("addr", addr).Msg("connect failed")
		return err
	}

	c.conn = conn
	c.br = bufio.NewReader(conn)
	c.log.Debug().Str("addr", addr).Msg("connected")
	return nil
}

func (c *Client) Connected() bool {
	return c != nil && c.conn != nil
}

func (c *Client) Write(b []byte) error {
	if !c.Connected() {
		return ErrNotConnected
	}
	_, err := c.conn.Write(b)
	return err
}

// ReadUntil reads one frame, bounded by the read timeout. A timeout
// surfaces as an error satisfying IsTimeout; a peer close surfaces
// as io.EOF.
func (c *Client) ReadUntil(delim byte) ([]byte, error) {
	if !c.Connected() {
		return nil, ErrNotConnected
	}
	if err := c.conn.SetReadDeadline(time.Now().Add(c.readTimeout)); err != nil {
		return nil, err
	}
	line, err := c.br.ReadBytes(delim)
	if err != nil {
		return nil, err
	}
	return line, nil
}

// Close releases the socket. Safe to call repeatedly and on a client
// that never connected.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	c.br = nil
	c.log.Debug().Msg("closed")
	return err
}
