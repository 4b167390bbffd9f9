// internal/poller/poller.go
package poller

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/pmdhub/internal/hub"
	"github.com/tamzrod/pmdhub/internal/registry"
	"github.com/tamzrod/pmdhub/internal/wire"
)

// Config is the minimal runtime config the poller needs.
type Config struct {
	Interval time.Duration

	// MultiplexerRecovery enables the SPC/QU menu nudge after a
	// cycle in which some gauge went silent. Works around hubs that
	// drop the signal of gauges in the upper slots.
	MultiplexerRecovery bool

	// RecoveryPause is the settle time after each recovery command.
	RecoveryPause time.Duration
}

// Poller reads every configured device once per cycle over a single
// shared hub line. It owns the Transport for its lifetime.
type Poller struct {
	cfg     Config
	devices []registry.Device
	tr      hub.Transport
	log     zerolog.Logger
}

// New creates a poller with an immutable device registry.
func New(cfg Config, devices []registry.Device, tr hub.Transport, log zerolog.Logger) (*Poller, error) {
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if len(devices) == 0 {
		return nil, errors.New("poller: at least one device required")
	}
	for _, d := range devices {
		if d.Name == "" {
			return nil, fmt.Errorf("poller: device at slot %d has no name", d.Index+1)
		}
	}
	if tr == nil {
		return nil, errors.New("poller: transport required")
	}
	return &Poller{
		cfg:     cfg,
		devices: devices,
		tr:      tr,
		log:     log.With().Str("component", "poller").Logger(),
	}, nil
}

// Cycle performs exactly one poll cycle in registry order.
// A silent or garbled device yields an invalid sample and the cycle
// moves on; only a dead connection aborts the remaining devices.
func (p *Poller) Cycle(ctx context.Context) CycleResult {
	res := CycleResult{At: time.Now()}

	if !p.tr.Connected() {
		res.Failed = true
		res.Err = hub.ErrNotConnected
		return res
	}

	for _, d := range p.devices {
		if err := ctx.Err(); err != nil {
			res.Failed = true
			res.Err = err
			return res
		}

		sample, err := p.pollDevice(d)
		if err != nil {
			res.Failed = true
			res.Err = fmt.Errorf("device %q slot %d: %w", d.Name, d.Index+1, err)
			return res
		}
		res.Samples = append(res.Samples, sample)
	}

	return res
}

// pollDevice runs one request/response exchange. A returned error is
// always connection-level; everything else is encoded in the sample.
func (p *Poller) pollDevice(d registry.Device) (TelemetrySample, error) {
	sample := TelemetrySample{
		DeviceIndex: d.Index,
		Position:    math.NaN(),
		Timestamp:   time.Now(),
	}

	// The hub addresses gauges by 1-based slot number.
	cmd := strconv.Itoa(d.Index + 1)
	if err := p.tr.Write(wire.Encode(cmd)); err != nil {
		return sample, err
	}

	raw, err := p.tr.ReadUntil(wire.Delim)
	if err != nil {
		if hub.IsTimeout(err) {
			p.log.Debug().Str("device", d.Name).Msg("read timed out, device not reporting")
			return sample, nil
		}
		return sample, err
	}

	line, err := wire.Decode(raw)
	if err != nil {
		p.log.Debug().Err(err).Str("device", d.Name).Msg("garbled reply")
		return sample, nil
	}

	pos, ok := parsePosition(line)
	if !ok {
		p.log.Debug().Str("device", d.Name).Str("reply", line).Msg("no reading in reply")
		return sample, nil
	}

	sample.Position = pos
	sample.Valid = true
	return sample, nil
}

// parsePosition extracts the numeric value from a hub reply of the
// form "<slot>:<value>". An empty line is the hub's way of saying
// the gauge did not answer.
func parsePosition(line string) (float64, bool) {
	if line == "" {
		return 0, false
	}
	parts := strings.Split(line, ":")
	pos, err := strconv.ParseFloat(parts[len(parts)-1], 64)
	if err != nil {
		return 0, false
	}
	return pos, true
}

// Recover nudges the multiplexer by entering and leaving its config
// menu (SPC then QU). Timeouts on the acknowledgements are tolerated;
// connection errors are not.
func (p *Poller) Recover(ctx context.Context) error {
	for _, cmd := range []string{"SPC", "QU"} {
		if err := p.tr.Write(wire.Encode(cmd)); err != nil {
			return err
		}
		if _, err := p.tr.ReadUntil(wire.Delim); err != nil && !hub.IsTimeout(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.cfg.RecoveryPause):
		}
	}
	p.log.Debug().Msg("multiplexer recovery sequence sent")
	return nil
}
