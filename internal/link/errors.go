// internal/link/errors.go
package link

import (
	"errors"
	"fmt"

	"github.com/tamzrod/grip-relay/internal/frame"
)

var (
	// ErrUnavailable marks a failed Open. The link stays Disconnected.
	ErrUnavailable = errors.New("link: peripheral unavailable")

	// ErrNotConnected is returned by Write in degraded mode.
	ErrNotConnected = errors.New("link: not connected")

	// ErrClosed is returned by Write after Close.
	ErrClosed = errors.New("link: closed")

	// ErrWrite matches every *WriteError via errors.Is.
	ErrWrite = errors.New("link: write failed")
)

// WriteError is one failed transmission. The link remains usable.
type WriteError struct {
	Frame frame.Frame
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("link: write %s: %v", e.Frame, e.Err)
}

func (e *WriteError) Unwrap() []error {
	return []error{ErrWrite, e.Err}
}
