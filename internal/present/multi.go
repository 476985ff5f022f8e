// internal/present/multi.go
package present

import "github.com/tamzrod/grip-relay/internal/loop"

// Multi fans a report out to every presenter, in order.
type Multi []loop.Presenter

func (m Multi) Present(r loop.Report) {
	for _, p := range m {
		if p != nil {
			p.Present(r)
		}
	}
}
