// internal/link/tcp/conn.go
package tcp

import (
	"errors"
	"fmt"
	"io"
	"net"
	"time"
)

// Conn carries raw frames to a serial-over-TCP bridge (ser2net style).
// One persistent connection; the bridge forwards bytes to the UART untouched.
type Conn struct {
	conn    net.Conn
	timeout time.Duration
}

type Config struct {
	Endpoint    string
	DialTimeout time.Duration

	// WriteTimeout bounds each Write; <= 0 means 2s.
	WriteTimeout time.Duration
}

// Dial connects to the bridge. ONE attempt per call.
func Dial(cfg Config) (*Conn, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("tcp link: endpoint required")
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 2 * time.Second
	}

	conn, err := net.DialTimeout("tcp", cfg.Endpoint, cfg.DialTimeout)
	if err != nil {
		return nil, fmt.Errorf("tcp link: dial: %w", err)
	}

	return newConn(conn, cfg.WriteTimeout), nil
}

func newConn(conn net.Conn, timeout time.Duration) *Conn {
	return &Conn{conn: conn, timeout: timeout}
}

func (c *Conn) Write(b []byte) (int, error) {
	if c == nil || c.conn == nil {
		return 0, errors.New("tcp link: not connected")
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.timeout))
	return writeAll(c.conn, b)
}

func (c *Conn) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

//
// ---- helpers ----
//

func writeAll(w io.Writer, b []byte) (int, error) {
	total := 0
	for len(b) > 0 {
		n, err := w.Write(b)
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.ErrShortWrite
		}
		b = b[n:]
	}
	return total, nil
}
