// internal/frame/constants.go
package frame

// Control frame layout constants.
// These values define the wire protocol and MUST NOT be configurable.

// ---- FRAME GEOMETRY ----

// Marker is the first byte of every frame.
const Marker byte = '$'

// FingerCount is the fixed number of digits carried by a frame.
const FingerCount = 5

// Size is the total frame length on the wire (marker + digits).
// No terminator, no checksum, no length prefix.
const Size = 1 + FingerCount

// ---- DIGIT VALUES ----

const (
	digitDown byte = '0'
	digitUp   byte = '1'
)

// ---- FINGER INDICES (canonical order) ----

const (
	Thumb  = 0
	Index  = 1
	Middle = 2
	Ring   = 3
	Pinky  = 4
)
