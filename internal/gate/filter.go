// internal/gate/filter.go
package gate

import "github.com/tamzrod/grip-relay/internal/frame"

// Filter suppresses re-emission of an unchanged frame.
// It compares against the last EMITTED frame, not the last observed one.
// Not safe for concurrent use: the control loop is its only owner.
type Filter struct {
	last frame.Frame
	has  bool
}

// New returns a filter with no prior frame.
func New() *Filter {
	return &Filter{}
}

// ShouldEmit reports whether f differs from the last emitted frame.
// On true, f becomes the last emitted frame before returning.
// The filter never rolls back: a frame that later fails to send
// still counts as emitted.
func (g *Filter) ShouldEmit(f frame.Frame) bool {
	if g.has && g.last == f {
		return false
	}
	g.last = f
	g.has = true
	return true
}

// Last returns the last emitted frame, if any.
func (g *Filter) Last() (frame.Frame, bool) {
	return g.last, g.has
}
