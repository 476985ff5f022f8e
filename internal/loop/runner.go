// internal/loop/runner.go
package loop

import (
	"context"
	"errors"
	"time"
)

// Run ticks until ctx is cancelled or the detector fails.
// Cancellation returns nil; a detector failure returns an ErrObservation.
// On every exit path, panics included, the detector and the link are
// closed exactly once. One tick at a time. No overlap. No retries.
func (l *Loop) Run(ctx context.Context) error {
	if l.ran {
		return errors.New("loop: already run")
	}
	l.ran = true

	defer l.teardown()

	var tick <-chan time.Time
	if l.cfg.Interval > 0 {
		ticker := time.NewTicker(l.cfg.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	l.log.Info().Str("link", l.link.State().String()).Msg("control loop started")

	for {
		// Cancellation is checked between ticks, never inside a write.
		if ctx.Err() != nil {
			return nil
		}

		if tick != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-tick:
			}
		}

		r, err := l.Step(ctx)
		if err != nil {
			if ctx.Err() != nil && !errors.Is(err, ErrObservation) {
				return nil
			}
			l.log.Error().Err(err).Uint64("seq", l.seq).Msg("observation failed")
			return err
		}

		l.pres.Present(r)
	}
}

func (l *Loop) teardown() {
	if err := l.det.Close(); err != nil {
		l.log.Warn().Err(err).Msg("detector close failed")
	}
	if err := l.link.Close(); err != nil {
		l.log.Warn().Err(err).Msg("link close failed")
	}
	l.log.Info().Uint64("ticks", l.seq).Msg("control loop stopped")
}
