// internal/link/builder.go
package link

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	cfg "github.com/tamzrod/grip-relay/internal/config"
	lmodbus "github.com/tamzrod/grip-relay/internal/link/modbus"
	lserial "github.com/tamzrod/grip-relay/internal/link/serial"
	ltcp "github.com/tamzrod/grip-relay/internal/link/tcp"
)

// Build constructs a Disconnected Link for the configured transport.
// Build never dials: the single attempt happens in Open.
// Assumes config has already passed Validate and Normalize.
func Build(c cfg.LinkConfig, log zerolog.Logger) (*Link, error) {
	writeTimeout := time.Duration(c.WriteTimeoutMs) * time.Millisecond
	dialTimeout := time.Duration(c.DialTimeoutMs) * time.Millisecond

	var dial Dialer

	switch c.Transport {
	case cfg.TransportSerial, "":
		if c.Address == "" {
			return nil, errors.New("link: serial address required")
		}
		dial = func() (Port, error) {
			addr, err := resolveAddress(c.Address)
			if err != nil {
				return nil, err
			}
			p, err := lserial.Open(lserial.Config{
				Address:  addr,
				BaudRate: c.Baud,
				Timeout:  writeTimeout,
			})
			if err != nil {
				return nil, err
			}
			return p, nil
		}

	case cfg.TransportTCP:
		if c.Address == "" {
			return nil, errors.New("link: tcp endpoint required")
		}
		dial = func() (Port, error) {
			conn, err := ltcp.Dial(ltcp.Config{
				Endpoint:     c.Address,
				DialTimeout:  dialTimeout,
				WriteTimeout: writeTimeout,
			})
			if err != nil {
				return nil, err
			}
			return conn, nil
		}

	case cfg.TransportModbusRTU:
		if c.Address == "" {
			return nil, errors.New("link: modbus-rtu address required")
		}
		dial = func() (Port, error) {
			addr, err := resolveAddress(c.Address)
			if err != nil {
				return nil, err
			}
			cc, err := lmodbus.DialRTU(lmodbus.Config{
				Address:  addr,
				BaudRate: c.Baud,
				UnitID:   c.UnitID,
				Coil:     c.CoilAddress,
				Timeout:  writeTimeout,
			})
			if err != nil {
				return nil, err
			}
			return cc, nil
		}

	case cfg.TransportModbusTCP:
		if c.Address == "" {
			return nil, errors.New("link: modbus-tcp endpoint required")
		}
		dial = func() (Port, error) {
			cc, err := lmodbus.DialTCP(lmodbus.Config{
				Address: c.Address,
				UnitID:  c.UnitID,
				Coil:    c.CoilAddress,
				Timeout: dialTimeout,
			})
			if err != nil {
				return nil, err
			}
			return cc, nil
		}

	default:
		return nil, fmt.Errorf("link: unsupported transport %q", c.Transport)
	}

	return New(c.Address, c.Baud, dial, log.With().Str("transport", c.Transport).Logger()), nil
}
