// internal/loop/types.go
package loop

import (
	"time"

	"github.com/tamzrod/grip-relay/internal/frame"
	"github.com/tamzrod/grip-relay/internal/link"
)

// Report is what one tick observed and did.
type Report struct {
	Seq uint64
	At  time.Time

	HandPresent bool
	Hand        string
	Fingers     frame.FingerState
	Frame       frame.Frame

	// Emitted means the frame passed the change gate.
	// Sent means it was also written to the peripheral.
	Emitted  bool
	Sent     bool
	WriteErr error

	LinkState link.State
}
