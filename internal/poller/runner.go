// internal/poller/runner.go
package poller

import (
	"context"
	"time"
)

// Run starts the ticker loop and emits one CycleResult per tick on
// the provided channel. Cycles never overlap: the next tick is not
// serviced until the current cycle, including any reconnection
// attempt, has finished. Returns when ctx is cancelled; the
// transport is closed on every exit path.
func (p *Poller) Run(ctx context.Context, out chan<- CycleResult) {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()
	defer p.tr.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			res := p.Cycle(ctx)

			select {
			case out <- res:
			case <-ctx.Done():
				return
			}

			switch {
			case res.Failed:
				p.reconnect(ctx)
			case p.cfg.MultiplexerRecovery && res.Invalid() > 0:
				if err := p.Recover(ctx); err != nil {
					p.log.Error().Err(err).Msg("multiplexer recovery failed")
				}
			}
		}
	}
}

// reconnect drops the dead line and makes one fresh connection
// attempt before the next scheduled cycle. No retries here; a failed
// attempt simply leaves the next cycle to fail and be counted.
func (p *Poller) reconnect(ctx context.Context) {
	p.tr.Close()
	if err := p.tr.Connect(ctx); err != nil {
		p.log.Error().Err(err).Msg("reconnect attempt failed")
		return
	}
	p.log.Info().Msg("reconnected to hub")
}
