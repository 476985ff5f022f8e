// internal/link/modbus/coils.go
package modbus

import (
	"errors"
	"fmt"
	"time"

	"github.com/goburrow/modbus"

	"github.com/tamzrod/grip-relay/internal/frame"
)

// coilWriter is the single Modbus call the mirror needs (FC 15).
type coilWriter interface {
	WriteMultipleCoils(address, quantity uint16, value []byte) ([]byte, error)
}

// CoilClient mirrors each frame into FingerCount consecutive coils,
// thumb first. It accepts the same 6-byte frames as the raw transports.
type CoilClient struct {
	handler interface{ Close() error }
	client  coilWriter
	addr    uint16
}

type Config struct {
	Address  string // serial device (RTU) or host:port (TCP)
	BaudRate int    // RTU only
	UnitID   uint8
	Coil     uint16
	Timeout  time.Duration
}

// DialRTU opens a Modbus RTU master on a serial device. ONE attempt per call.
func DialRTU(cfg Config) (*CoilClient, error) {
	if cfg.Address == "" {
		return nil, errors.New("modbus link: address required")
	}

	h := modbus.NewRTUClientHandler(cfg.Address)
	h.BaudRate = cfg.BaudRate
	h.DataBits = 8
	h.Parity = "N"
	h.StopBits = 1
	h.SlaveId = cfg.UnitID
	h.Timeout = cfg.Timeout

	if err := h.Connect(); err != nil {
		return nil, err
	}

	return newCoilClient(h, modbus.NewClient(h), cfg.Coil), nil
}

// DialTCP opens a Modbus TCP connection. ONE attempt per call.
func DialTCP(cfg Config) (*CoilClient, error) {
	if cfg.Address == "" {
		return nil, errors.New("modbus link: endpoint required")
	}

	h := modbus.NewTCPClientHandler(cfg.Address)
	h.SlaveId = cfg.UnitID
	h.Timeout = cfg.Timeout

	if err := h.Connect(); err != nil {
		return nil, err
	}

	return newCoilClient(h, modbus.NewClient(h), cfg.Coil), nil
}

func newCoilClient(h interface{ Close() error }, w coilWriter, addr uint16) *CoilClient {
	return &CoilClient{handler: h, client: w, addr: addr}
}

// Write validates b as a frame and writes its fingers as coils.
// On success it reports the full frame length as written.
func (c *CoilClient) Write(b []byte) (int, error) {
	f, err := frame.Parse(b)
	if err != nil {
		return 0, fmt.Errorf("modbus link: %w", err)
	}

	fs := f.Fingers()
	if _, err := c.client.WriteMultipleCoils(c.addr, frame.FingerCount, packBits(fs[:])); err != nil {
		return 0, err
	}
	return len(b), nil
}

func (c *CoilClient) Close() error {
	if c == nil || c.handler == nil {
		return nil
	}
	return c.handler.Close()
}

func packBits(bits []bool) []byte {
	n := (len(bits) + 7) / 8
	out := make([]byte, n)
	for i, v := range bits {
		if v {
			out[i/8] |= 1 << uint(i%8)
		}
	}
	return out
}
