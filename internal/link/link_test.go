// internal/link/link_test.go
package link

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/grip-relay/internal/frame"
)

// ---- fake port ----

type fakePort struct {
	writes   [][]byte
	failNext error
	short    bool
	closed   int
	closeErr error
}

func (p *fakePort) Write(b []byte) (int, error) {
	if p.failNext != nil {
		err := p.failNext
		p.failNext = nil
		return 0, err
	}
	p.writes = append(p.writes, append([]byte(nil), b...))
	if p.short {
		return len(b) - 1, nil
	}
	return len(b), nil
}

func (p *fakePort) Close() error {
	p.closed++
	return p.closeErr
}

// newTestLink returns a link whose settle delay is recorded instead of slept.
func newTestLink(dial Dialer) (*Link, *[]time.Duration) {
	var slept []time.Duration
	l := New("/dev/ttyTEST", 9600, dial, zerolog.Nop())
	l.sleep = func(d time.Duration) { slept = append(slept, d) }
	return l, &slept
}

func okDialer(p *fakePort, dials *int) Dialer {
	return func() (Port, error) {
		*dials++
		return p, nil
	}
}

// ---- tests ----

func TestOpen_SuccessSettlesOnce(t *testing.T) {
	port := &fakePort{}
	dials := 0
	l, slept := newTestLink(okDialer(port, &dials))

	assert.Equal(t, Disconnected, l.State())
	assert.Equal(t, Connected, l.Open())
	assert.Equal(t, []time.Duration{SettleDelay}, *slept)

	// A second Open neither redials nor settles again.
	assert.Equal(t, Connected, l.Open())
	assert.Equal(t, 1, dials)
	assert.Len(t, *slept, 1)
	assert.NoError(t, l.LastOpenErr())
}

func TestOpen_FailureDegrades(t *testing.T) {
	dials := 0
	l, slept := newTestLink(func() (Port, error) {
		dials++
		return nil, errors.New("no such device")
	})

	assert.Equal(t, Disconnected, l.Open())
	assert.Empty(t, *slept, "no settle without a connection")
	assert.ErrorIs(t, l.LastOpenErr(), ErrUnavailable)

	// No retry.
	assert.Equal(t, Disconnected, l.Open())
	assert.Equal(t, 1, dials)

	err := l.Write(frame.Encode(frame.NoHand))
	assert.ErrorIs(t, err, ErrNotConnected)

	require.NoError(t, l.Close())
	assert.Equal(t, Closed, l.State())
}

func TestWrite_SendsFrameBytes(t *testing.T) {
	port := &fakePort{}
	dials := 0
	l, _ := newTestLink(okDialer(port, &dials))
	l.Open()

	f := frame.Encode(frame.FingerState{true, true, false, false, false})
	require.NoError(t, l.Write(f))

	require.Len(t, port.writes, 1)
	assert.Equal(t, []byte("$11000"), port.writes[0])
}

func TestWrite_FailureIsIsolated(t *testing.T) {
	port := &fakePort{failNext: io.ErrClosedPipe}
	dials := 0
	l, _ := newTestLink(okDialer(port, &dials))
	l.Open()

	f := frame.Encode(frame.FingerState{true, true, true, true, true})

	err := l.Write(f)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWrite)
	assert.ErrorIs(t, err, io.ErrClosedPipe)

	var we *WriteError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, f, we.Frame)

	// The link is still usable for the next attempt.
	assert.Equal(t, Connected, l.State())
	require.NoError(t, l.Write(f))
	assert.Len(t, port.writes, 1)
}

func TestWrite_ShortWriteIsFailure(t *testing.T) {
	port := &fakePort{short: true}
	dials := 0
	l, _ := newTestLink(okDialer(port, &dials))
	l.Open()

	err := l.Write(frame.Encode(frame.NoHand))
	assert.ErrorIs(t, err, io.ErrShortWrite)
}

func TestClose_ConnectedThenIdempotent(t *testing.T) {
	port := &fakePort{}
	dials := 0
	l, _ := newTestLink(okDialer(port, &dials))
	l.Open()

	require.NoError(t, l.Close())
	require.NoError(t, l.Close())
	assert.Equal(t, 1, port.closed)
	assert.Equal(t, Closed, l.State())

	// Closed is terminal.
	assert.Equal(t, Closed, l.Open())
	assert.ErrorIs(t, l.Write(frame.Encode(frame.NoHand)), ErrClosed)
	assert.Len(t, port.writes, 0)
	assert.Equal(t, 1, dials)
}

func TestClose_WithoutOpen(t *testing.T) {
	dials := 0
	l, _ := newTestLink(okDialer(&fakePort{}, &dials))

	require.NoError(t, l.Close())
	assert.Equal(t, Closed, l.State())
	assert.Equal(t, Closed, l.Open())
	assert.Equal(t, 0, dials)
}

func TestClose_ReportsPortError(t *testing.T) {
	port := &fakePort{closeErr: errors.New("busy")}
	dials := 0
	l, _ := newTestLink(okDialer(port, &dials))
	l.Open()

	assert.Error(t, l.Close())
	assert.Equal(t, Closed, l.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "disconnected", Disconnected.String())
	assert.Equal(t, "connected", Connected.String())
	assert.Equal(t, "closed", Closed.String())
	assert.Equal(t, "unknown", State(9).String())
}
