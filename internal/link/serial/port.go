// internal/link/serial/port.go
package serial

import (
	"errors"
	"time"

	gserial "github.com/goburrow/serial"
)

// Port is a raw serial connection to the peripheral (8N1).
type Port struct {
	port    gserial.Port
	address string
}

// Config is minimal transport config.
type Config struct {
	Address  string
	BaudRate int

	// Timeout is handed to the driver as its I/O timeout.
	Timeout time.Duration
}

// Open opens the port. ONE attempt per call.
func Open(cfg Config) (*Port, error) {
	if cfg.Address == "" {
		return nil, errors.New("serial: address required")
	}
	if cfg.BaudRate <= 0 {
		return nil, errors.New("serial: baud rate must be > 0")
	}

	p, err := gserial.Open(&gserial.Config{
		Address:  cfg.Address,
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
		Timeout:  cfg.Timeout,
	})
	if err != nil {
		return nil, err
	}

	return &Port{port: p, address: cfg.Address}, nil
}

func (p *Port) Write(b []byte) (int, error) {
	if p == nil || p.port == nil {
		return 0, errors.New("serial: port not open")
	}
	return p.port.Write(b)
}

// Close closes the serial device.
func (p *Port) Close() error {
	if p == nil || p.port == nil {
		return nil
	}
	return p.port.Close()
}
