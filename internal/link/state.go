// internal/link/state.go
package link

// State is the lifecycle position of a Link.
//
//	Disconnected --(open ok)--> Connected --(close)--> Closed
//	Disconnected --(close)--> Closed
//
// Nothing leaves Closed.
type State int

const (
	Disconnected State = iota
	Connected
	Closed
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connected:
		return "connected"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}
