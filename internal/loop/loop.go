// internal/loop/loop.go
package loop

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/grip-relay/internal/detector"
	"github.com/tamzrod/grip-relay/internal/frame"
	"github.com/tamzrod/grip-relay/internal/gate"
	"github.com/tamzrod/grip-relay/internal/link"
	"github.com/tamzrod/grip-relay/internal/observability"
)

// ErrObservation wraps every detector failure that ends the loop.
var ErrObservation = errors.New("loop: observation failed")

// Detector yields one observation per camera frame.
type Detector interface {
	Next(ctx context.Context) (detector.Observation, error)
	Close() error
}

// Link is the peripheral connection the loop owns exclusively.
type Link interface {
	State() link.State
	Write(f frame.Frame) error
	Close() error
}

// Presenter receives every tick for display.
type Presenter interface {
	Present(r Report)
}

// Config is the minimal runtime config the loop needs.
type Config struct {
	// Interval paces ticks with a ticker; 0 lets the detector pace them.
	Interval time.Duration
}

// Loop runs observe → encode → gate → write, one tick at a time.
type Loop struct {
	cfg  Config
	det  Detector
	link Link
	pres Presenter
	gate *gate.Filter
	log  zerolog.Logger

	seq uint64
	ran bool
}

// New creates a loop. It takes ownership of det and lnk: Run closes both.
func New(cfg Config, det Detector, lnk Link, pres Presenter, log zerolog.Logger) (*Loop, error) {
	if det == nil {
		return nil, errors.New("loop: detector required")
	}
	if lnk == nil {
		return nil, errors.New("loop: link required")
	}
	if cfg.Interval < 0 {
		return nil, errors.New("loop: interval must be >= 0")
	}
	if pres == nil {
		pres = nopPresenter{}
	}

	return &Loop{
		cfg:  cfg,
		det:  det,
		link: lnk,
		pres: pres,
		gate: gate.New(),
		log:  log.With().Str("component", "loop").Logger(),
	}, nil
}

// Step performs exactly one tick, without presentation.
// A write failure is logged and carried in the report; only detector
// failures are returned.
func (l *Loop) Step(ctx context.Context) (Report, error) {
	obs, err := l.det.Next(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return Report{}, err
		}
		return Report{}, fmt.Errorf("%w: %w", ErrObservation, err)
	}

	// No hand is an explicit all-false state, never a skipped tick.
	fs := frame.NoHand
	if obs.Present {
		fs = obs.Fingers
	}
	f := frame.Encode(fs)

	l.seq++
	r := Report{
		Seq:         l.seq,
		At:          time.Now(),
		HandPresent: obs.Present,
		Hand:        obs.Hand,
		Fingers:     fs,
		Frame:       f,
		LinkState:   l.link.State(),
	}

	r.Emitted = l.gate.ShouldEmit(f)
	observability.RecordTick(r.Emitted)
	if !r.Emitted {
		return r, nil
	}

	// Degraded mode: already reported when the link failed to open.
	if r.LinkState != link.Connected {
		observability.RecordWrite(observability.WriteSkipped)
		return r, nil
	}

	if err := l.link.Write(f); err != nil {
		// No retry and no gate rollback: the next change is sent fresh.
		r.WriteErr = err
		observability.RecordWrite(observability.ErrorKind(err))
		l.log.Warn().Err(err).Str("frame", f.String()).Uint64("seq", r.Seq).Msg("peripheral write failed")
		return r, nil
	}

	r.Sent = true
	observability.RecordWrite(observability.WriteOK)
	return r, nil
}

// LastSent returns the last frame that passed the gate.
func (l *Loop) LastSent() (frame.Frame, bool) {
	return l.gate.Last()
}

type nopPresenter struct{}

func (nopPresenter) Present(Report) {}
