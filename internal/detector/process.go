// internal/detector/process.go
package detector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ProcessConfig describes the hand-tracker command.
// The command writes one JSON line per camera frame on stdout.
type ProcessConfig struct {
	Command string
	Args    []string
	Dir     string

	// StopTimeout is the grace period between interrupt and kill; <= 0 means 2s.
	StopTimeout time.Duration
}

// Process runs the hand tracker as a child process and reads its
// observations. It owns the camera indirectly: closing it releases both.
type Process struct {
	*Stream

	cmd    *exec.Cmd
	cancel context.CancelFunc
	stdout *io.PipeReader
	log    zerolog.Logger

	stopTimeout time.Duration
	closing     chan struct{}
	closeOnce   sync.Once
	waitDone    chan struct{}
}

// StartProcess spawns the tracker. It fails only if the command cannot start.
func StartProcess(ctx context.Context, cfg ProcessConfig, log zerolog.Logger) (*Process, error) {
	if cfg.Command == "" {
		return nil, errors.New("detector: command required")
	}
	if cfg.StopTimeout <= 0 {
		cfg.StopTimeout = 2 * time.Second
	}

	pctx, cancel := context.WithCancel(ctx)

	cmd := exec.CommandContext(pctx, cfg.Command, cfg.Args...)
	cmd.Dir = cfg.Dir
	cmd.Cancel = func() error { return cmd.Process.Signal(os.Interrupt) }
	cmd.WaitDelay = cfg.StopTimeout

	pr, pw := io.Pipe()
	cmd.Stdout = pw

	plog := log.With().Str("component", "detector").Str("command", cfg.Command).Logger()
	cmd.Stderr = &stderrLog{log: plog}

	if err := cmd.Start(); err != nil {
		cancel()
		_ = pw.Close()
		return nil, fmt.Errorf("detector: start %s: %w", cfg.Command, err)
	}

	p := &Process{
		Stream:      NewStream(pr),
		cmd:         cmd,
		cancel:      cancel,
		stdout:      pr,
		log:         plog,
		stopTimeout: cfg.StopTimeout,
		closing:     make(chan struct{}),
		waitDone:    make(chan struct{}),
	}

	plog.Info().Int("pid", cmd.Process.Pid).Strs("args", cfg.Args).Msg("hand tracker started")

	go p.wait(pw)

	return p, nil
}

// wait reaps the child and ends the observation stream with its exit reason.
func (p *Process) wait(pw *io.PipeWriter) {
	err := p.cmd.Wait()

	select {
	case <-p.closing:
		p.log.Debug().Err(err).Msg("hand tracker stopped")
		_ = pw.Close()
	default:
		if err != nil {
			p.log.Error().Err(err).Msg("hand tracker exited")
			_ = pw.CloseWithError(fmt.Errorf("detector: tracker exited: %w", err))
		} else {
			p.log.Warn().Msg("hand tracker exited")
			_ = pw.Close()
		}
	}

	close(p.waitDone)
}

// Close interrupts the tracker, kills it after the grace period and
// waits for it to be reaped.
func (p *Process) Close() error {
	var err error
	p.closeOnce.Do(func() {
		close(p.closing)
		_ = p.Stream.Close()
		p.cancel()
		_ = p.stdout.CloseWithError(ErrEnded)

		select {
		case <-p.waitDone:
		case <-time.After(p.stopTimeout + time.Second):
			err = fmt.Errorf("detector: tracker did not exit within %s", p.stopTimeout)
		}
	})
	return err
}

// stderrLog forwards the tracker's stderr lines to the logger,
// keeping the level the tracker printed.
type stderrLog struct {
	log zerolog.Logger
	buf []byte
}

func (w *stderrLog) Write(b []byte) (int, error) {
	w.buf = append(w.buf, b...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		logTrackerLine(w.log, strings.TrimSpace(string(w.buf[:i])))
		w.buf = w.buf[i+1:]
	}
	return len(b), nil
}

func logTrackerLine(log zerolog.Logger, line string) {
	if line == "" {
		return
	}
	switch {
	case strings.Contains(line, "[ERROR]"), strings.Contains(line, "[CRITICAL]"), strings.HasPrefix(line, "Traceback"):
		log.Error().Str("stderr", line).Msg("tracker")
	case strings.Contains(line, "[WARNING]"), strings.Contains(line, "[WARN]"):
		log.Warn().Str("stderr", line).Msg("tracker")
	default:
		log.Debug().Str("stderr", line).Msg("tracker")
	}
}
