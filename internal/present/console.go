// internal/present/console.go
package present

import (
	"fmt"
	"io"

	"github.com/tamzrod/grip-relay/internal/loop"
)

// Console renders one signal line per tick, like the on-screen overlay.
type Console struct {
	w io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Present(r loop.Report) {
	mark := ""
	switch {
	case r.Sent:
		mark = "  sent"
	case r.WriteErr != nil:
		mark = "  write failed"
	}

	hand := "none"
	if r.HandPresent {
		hand = r.Hand
		if hand == "" {
			hand = "hand"
		}
	}

	// Display errors are not worth stopping the relay for.
	_, _ = fmt.Fprintf(c.w, "Signal: %s  [%s]%s\n", r.Frame, hand, mark)
}
