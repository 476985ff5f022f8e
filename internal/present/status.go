// internal/present/status.go
package present

import (
	"github.com/tamzrod/grip-relay/internal/loop"
	"github.com/tamzrod/grip-relay/internal/observability"
)

// snapshotSink is what the status server exposes to the loop.
type snapshotSink interface {
	Update(observability.Snapshot)
}

// Status publishes each tick as the snapshot served on /status.
type Status struct {
	sink     snapshotSink
	lastSent string
	lastErr  string
}

func NewStatus(sink snapshotSink) *Status {
	return &Status{sink: sink}
}

func (s *Status) Present(r loop.Report) {
	if r.Sent {
		s.lastSent = r.Frame.String()
	}
	if r.WriteErr != nil {
		s.lastErr = r.WriteErr.Error()
	}

	s.sink.Update(observability.Snapshot{
		Seq:         r.Seq,
		At:          r.At,
		HandPresent: r.HandPresent,
		Frame:       r.Frame.String(),
		LastSent:    s.lastSent,
		LinkState:   r.LinkState.String(),
		LastError:   s.lastErr,
	})
}
