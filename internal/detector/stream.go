// internal/detector/stream.go
package detector

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

// ErrEnded is returned once the tracker output is exhausted or closed.
var ErrEnded = errors.New("detector: observation stream ended")

const maxLineBytes = 1 << 20

type lineResult struct {
	line []byte
	err  error
}

// Stream turns a JSON-lines reader into observations.
// A side goroutine reads; Next is called from one goroutine only.
type Stream struct {
	lines     chan lineResult
	done      chan struct{}
	closeOnce sync.Once

	// sticky terminal error
	err error
}

func NewStream(r io.Reader) *Stream {
	s := &Stream{
		lines: make(chan lineResult),
		done:  make(chan struct{}),
	}
	go s.read(r)
	return s
}

func (s *Stream) read(r io.Reader) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)

	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		cp := append([]byte(nil), line...)
		select {
		case s.lines <- lineResult{line: cp}:
		case <-s.done:
			return
		}
	}

	err := ErrEnded
	if scanErr := sc.Err(); scanErr != nil {
		err = fmt.Errorf("detector: read: %w", scanErr)
	}
	select {
	case s.lines <- lineResult{err: err}:
	case <-s.done:
	}
}

// Next blocks until the tracker emits its next observation or ctx is done.
// Malformed lines, read failures and end of stream are returned as errors;
// the first terminal error is returned again on every later call.
func (s *Stream) Next(ctx context.Context) (Observation, error) {
	if s.err != nil {
		return Observation{}, s.err
	}

	// Closed wins over anything still queued.
	select {
	case <-s.done:
		s.err = ErrEnded
		return Observation{}, s.err
	default:
	}

	select {
	case <-ctx.Done():
		return Observation{}, ctx.Err()
	case <-s.done:
		s.err = ErrEnded
		return Observation{}, s.err
	case lr := <-s.lines:
		if lr.err != nil {
			s.err = lr.err
			return Observation{}, s.err
		}
		return Decode(lr.line)
	}
}

// Close stops delivering observations. The underlying reader is not closed.
func (s *Stream) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	return nil
}
