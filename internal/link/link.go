// internal/link/link.go
package link

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/grip-relay/internal/frame"
	"github.com/tamzrod/grip-relay/internal/observability"
)

// SettleDelay is the pause after a successful open.
// The microcontroller resets when the port opens and drops anything
// written before it is back up.
const SettleDelay = 2 * time.Second

// Port is an open connection to the peripheral.
type Port interface {
	io.Writer
	Close() error
}

// Dialer makes ONE connection attempt per call.
type Dialer func() (Port, error)

// Link owns the single outbound connection to the peripheral.
// Not safe for concurrent use: the control loop is its only writer.
type Link struct {
	address string
	baud    int
	dial    Dialer
	log     zerolog.Logger
	sleep   func(time.Duration)

	state   State
	opened  bool
	port    Port
	openErr error
}

// New creates a Disconnected link. Nothing is dialed until Open.
func New(address string, baud int, dial Dialer, log zerolog.Logger) *Link {
	observability.SetLinkState(int(Disconnected))
	return &Link{
		address: address,
		baud:    baud,
		dial:    dial,
		log:     log.With().Str("component", "link").Str("address", address).Logger(),
		sleep:   time.Sleep,
		state:   Disconnected,
	}
}

// Open makes the single connection attempt of the link's lifetime.
// Failure is not fatal: the link stays Disconnected and the caller runs
// without transmission. Success blocks for SettleDelay before returning.
// Later calls return the current state without dialing again.
func (l *Link) Open() State {
	if l.opened || l.state != Disconnected {
		return l.state
	}
	l.opened = true

	l.log.Info().Int("baud", l.baud).Msg("connecting to peripheral")

	p, err := l.dial()
	if err != nil {
		l.openErr = fmt.Errorf("%w: %s: %w", ErrUnavailable, l.address, err)
		l.log.Error().
			Err(err).
			Str("hint", "check the cable and that no other program holds the port").
			Msg("peripheral unavailable, running without transmission")
		return l.state
	}

	l.port = p
	l.state = Connected
	observability.SetLinkState(int(Connected))

	l.sleep(SettleDelay)

	l.log.Info().Dur("settle", SettleDelay).Msg("peripheral connected")
	return l.state
}

// Write makes one best-effort transmission of f.
// A failure is returned as *WriteError and leaves the link Connected.
// Nothing is written unless the link is Connected.
func (l *Link) Write(f frame.Frame) error {
	switch l.state {
	case Closed:
		return ErrClosed
	case Disconnected:
		return ErrNotConnected
	}

	b := f.Bytes()
	n, err := l.port.Write(b)
	if err == nil && n < len(b) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return &WriteError{Frame: f, Err: err}
	}

	l.log.Info().Str("frame", f.String()).Msg("sent")
	return nil
}

// Close releases the connection if there is one. Safe to call more than once;
// only the first call changes anything.
func (l *Link) Close() error {
	switch l.state {
	case Closed:
		return nil
	case Disconnected:
		l.state = Closed
		observability.SetLinkState(int(Closed))
		return nil
	}

	err := l.port.Close()
	l.port = nil
	l.state = Closed
	observability.SetLinkState(int(Closed))

	if err != nil {
		return fmt.Errorf("link: close %s: %w", l.address, err)
	}
	l.log.Info().Msg("peripheral connection closed")
	return nil
}

func (l *Link) State() State {
	return l.state
}

func (l *Link) Address() string {
	return l.address
}

// LastOpenErr is the reason Open left the link Disconnected, if it did.
func (l *Link) LastOpenErr() error {
	return l.openErr
}
