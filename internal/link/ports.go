// internal/link/ports.go
package link

import (
	"errors"
	"fmt"

	bugserial "go.bug.st/serial"
	"go.bug.st/serial/enumerator"

	cfg "github.com/tamzrod/grip-relay/internal/config"
)

// PortInfo describes one serial port found on the host.
type PortInfo struct {
	Name         string
	IsUSB        bool
	VID          string
	PID          string
	SerialNumber string
	Product      string
}

// listPorts is swapped in tests.
var listPorts = Ports

// Ports lists the host's serial ports, with USB details where the
// platform provides them.
func Ports() ([]PortInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err == nil {
		out := make([]PortInfo, 0, len(details))
		for _, d := range details {
			out = append(out, PortInfo{
				Name:         d.Name,
				IsUSB:        d.IsUSB,
				VID:          d.VID,
				PID:          d.PID,
				SerialNumber: d.SerialNumber,
				Product:      d.Product,
			})
		}
		return out, nil
	}

	// Detailed enumeration is not available everywhere; names still are.
	names, lerr := bugserial.GetPortsList()
	if lerr != nil {
		return nil, fmt.Errorf("link: list ports: %w", errors.Join(err, lerr))
	}
	out := make([]PortInfo, 0, len(names))
	for _, n := range names {
		out = append(out, PortInfo{Name: n})
	}
	return out, nil
}

// resolveAddress turns "auto" into a concrete port: the first USB port,
// else the first port listed. Other addresses pass through.
func resolveAddress(address string) (string, error) {
	if address != cfg.AddressAuto {
		return address, nil
	}

	ports, err := listPorts()
	if err != nil {
		return "", err
	}
	if len(ports) == 0 {
		return "", errors.New("link: auto: no serial ports found")
	}
	for _, p := range ports {
		if p.IsUSB {
			return p.Name, nil
		}
	}
	return ports[0].Name, nil
}
