// internal/frame/fingers.go
package frame

import "fmt"

// FingerState is one observation of which fingers are extended,
// in canonical order: thumb, index, middle, ring, pinky.
// The array type makes the length invariant structural.
type FingerState [FingerCount]bool

// NoHand is the state used when the detector reports no hand.
// Absence is always this all-false value, never a missing one.
var NoHand FingerState

// FromSlice converts a detector vector into a FingerState.
// A vector of any other length is a programming error and panics.
func FromSlice(v []bool) FingerState {
	if len(v) != FingerCount {
		panic(fmt.Sprintf("frame: finger vector length %d, want %d", len(v), FingerCount))
	}
	var fs FingerState
	copy(fs[:], v)
	return fs
}

// FromDigits converts the 0/1 integer list emitted by hand trackers.
// Unlike FromSlice it is used on external input, so it returns an error.
func FromDigits(v []int) (FingerState, error) {
	var fs FingerState
	if len(v) != FingerCount {
		return fs, fmt.Errorf("frame: finger list length %d, want %d", len(v), FingerCount)
	}
	for i, d := range v {
		switch d {
		case 0:
		case 1:
			fs[i] = true
		default:
			return NoHand, fmt.Errorf("frame: finger %d has value %d, want 0 or 1", i, d)
		}
	}
	return fs, nil
}

// Up reports how many fingers are extended.
func (fs FingerState) Up() int {
	n := 0
	for _, v := range fs {
		if v {
			n++
		}
	}
	return n
}
