// internal/detector/observation.go
package detector

import (
	"encoding/json"
	"fmt"

	"github.com/tamzrod/grip-relay/internal/frame"
)

// Observation is what the hand tracker saw in one camera frame.
// With no hand, Present is false and Fingers is frame.NoHand.
type Observation struct {
	Present bool
	Hand    string // "Left" / "Right" when the tracker reports it
	Fingers frame.FingerState
}

// message is one line of the tracker's JSON-lines output:
//
//	{"hands":[{"type":"Right","fingers":[1,1,0,0,0]}]}
//
// An empty or missing hands list means no hand.
type message struct {
	Hands []struct {
		Type    string `json:"type"`
		Fingers []int  `json:"fingers"`
	} `json:"hands"`
}

// Decode parses one tracker line. Only the first hand is used.
func Decode(line []byte) (Observation, error) {
	var m message
	if err := json.Unmarshal(line, &m); err != nil {
		return Observation{}, fmt.Errorf("detector: decode: %w", err)
	}

	if len(m.Hands) == 0 {
		return Observation{Fingers: frame.NoHand}, nil
	}

	h := m.Hands[0]
	fs, err := frame.FromDigits(h.Fingers)
	if err != nil {
		return Observation{}, fmt.Errorf("detector: hand %q: %w", h.Type, err)
	}

	return Observation{Present: true, Hand: h.Type, Fingers: fs}, nil
}
