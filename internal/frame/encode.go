// internal/frame/encode.go
package frame

import (
	"errors"
	"fmt"
)

// Frame is one encoded control update, exactly as it goes on the wire.
// Frames are values: equal finger states give byte-identical frames
// and frames compare with ==.
type Frame [Size]byte

// Encode converts a FingerState into its control frame.
// Layout is protocol-locked.
// No IO. No side effects.
func Encode(fs FingerState) Frame {
	var f Frame
	f[0] = Marker
	for i, up := range fs {
		if up {
			f[1+i] = digitUp
		} else {
			f[1+i] = digitDown
		}
	}
	return f
}

// Parse validates raw wire bytes and returns the frame they carry.
func Parse(b []byte) (Frame, error) {
	var f Frame
	if len(b) != Size {
		return f, fmt.Errorf("frame: length %d, want %d", len(b), Size)
	}
	if b[0] != Marker {
		return f, fmt.Errorf("frame: marker 0x%02x, want %q", b[0], Marker)
	}
	for i := 1; i < Size; i++ {
		if b[i] != digitDown && b[i] != digitUp {
			return f, errors.New("frame: digits must be '0' or '1'")
		}
	}
	copy(f[:], b)
	return f, nil
}

// Fingers decodes the frame back into the state it was encoded from.
func (f Frame) Fingers() FingerState {
	var fs FingerState
	for i := range fs {
		fs[i] = f[1+i] == digitUp
	}
	return fs
}

// Bytes returns a fresh copy of the wire bytes.
func (f Frame) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, f[:])
	return b
}

func (f Frame) String() string {
	return string(f[:])
}

// IsZero reports whether f is the unset frame (not a valid encoding).
func (f Frame) IsZero() bool {
	return f == Frame{}
}
