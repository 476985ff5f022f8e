// internal/observability/metrics.go
package observability

import (
	"errors"
	"io"
	"net"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Write results recorded by RecordWrite.
const (
	WriteOK      = "ok"
	WriteSkipped = "skipped"
)

var (
	registerOnce sync.Once

	loopTicks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "grip",
			Subsystem: "loop",
			Name:      "ticks_total",
			Help:      "Observation ticks processed by the control loop.",
		},
	)
	framesEmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "grip",
			Subsystem: "frames",
			Name:      "emitted_total",
			Help:      "Frames that passed the change gate.",
		},
	)
	framesSuppressed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "grip",
			Subsystem: "frames",
			Name:      "suppressed_total",
			Help:      "Frames dropped by the change gate as unchanged.",
		},
	)
	linkWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "grip",
			Subsystem: "link",
			Name:      "writes_total",
			Help:      "Peripheral write attempts by result.",
		},
		[]string{"result"},
	)
	linkState = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "grip",
			Subsystem: "link",
			Name:      "state",
			Help:      "Peripheral link state (0=disconnected, 1=connected, 2=closed).",
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(loopTicks, framesEmitted, framesSuppressed, linkWrites, linkState)
	})
}

// RecordTick counts one tick and whether its frame passed the gate.
func RecordTick(emitted bool) {
	RegisterMetrics()
	loopTicks.Inc()
	if emitted {
		framesEmitted.Inc()
	} else {
		framesSuppressed.Inc()
	}
}

// RecordWrite counts one write outcome. result is WriteOK, WriteSkipped
// or an ErrorKind label.
func RecordWrite(result string) {
	RegisterMetrics()
	linkWrites.WithLabelValues(result).Inc()
}

// SetLinkState publishes the numeric link state.
func SetLinkState(state int) {
	RegisterMetrics()
	linkState.Set(float64(state))
}

// ErrorKind extracts a best-effort label from a write error without assuming
// concrete transport types.
func ErrorKind(err error) string {
	if err == nil {
		return WriteOK
	}

	type timeouter interface{ Timeout() bool }

	if errors.Is(err, os.ErrDeadlineExceeded) {
		return "timeout"
	}
	var t timeouter
	if errors.As(err, &t) && t.Timeout() {
		return "timeout"
	}
	if errors.Is(err, net.ErrClosed) || errors.Is(err, os.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
		return "closed"
	}
	if errors.Is(err, io.ErrShortWrite) {
		return "short_write"
	}

	return "io"
}
