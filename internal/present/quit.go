// internal/present/quit.go
package present

import (
	"bufio"
	"context"
	"io"
	"strings"
)

// WatchQuit cancels when a line reading "q" arrives on r.
// It returns when that happens, when r ends, or when ctx is done;
// a blocked read on r is left to the process exit.
func WatchQuit(ctx context.Context, r io.Reader, cancel context.CancelFunc) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if strings.EqualFold(strings.TrimSpace(line), "q") {
				cancel()
				return
			}
		}
	}
}
