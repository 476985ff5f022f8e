// internal/config/validate.go
package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
// Zero values are accepted where Normalize supplies a default.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil config")
	}

	var errs []string

	// ------------------------------------------------------------
	// LINK
	// ------------------------------------------------------------

	l := cfg.Link
	transport := strings.ToLower(strings.TrimSpace(l.Transport))

	switch transport {
	case "", TransportSerial, TransportModbusRTU:
		if l.Baud < 0 {
			errs = append(errs, fmt.Sprintf("link.baud %d must be > 0", l.Baud))
		}
	case TransportTCP, TransportModbusTCP:
		if l.Address == AddressAuto {
			errs = append(errs, fmt.Sprintf("link.address %q is only valid for serial transports", AddressAuto))
		}
	default:
		errs = append(errs, fmt.Sprintf("link.transport %q unsupported", l.Transport))
	}

	if l.WriteTimeoutMs < 0 {
		errs = append(errs, "link.write_timeout_ms must be >= 0")
	}
	if l.DialTimeoutMs < 0 {
		errs = append(errs, "link.dial_timeout_ms must be >= 0")
	}

	isModbus := transport == TransportModbusRTU || transport == TransportModbusTCP
	if isModbus && l.UnitID == 0 {
		errs = append(errs, "link.unit_id is required for modbus transports")
	}
	if isModbus && uint32(l.CoilAddress)+5 > 0x10000 {
		errs = append(errs, fmt.Sprintf("link.coil_address %d leaves no room for 5 coils", l.CoilAddress))
	}

	// ------------------------------------------------------------
	// DETECTOR
	// ------------------------------------------------------------

	if len(cfg.Detector.Args) > 0 && cfg.Detector.Command == "" {
		errs = append(errs, "detector.args set without detector.command")
	}
	// Only one hand drives the frame.
	if cfg.Detector.MaxHands < 0 || cfg.Detector.MaxHands > 1 {
		errs = append(errs, fmt.Sprintf("detector.max_hands %d unsupported (want 1)", cfg.Detector.MaxHands))
	}

	// ------------------------------------------------------------
	// LOOP / PRESENTATION
	// ------------------------------------------------------------

	if cfg.Loop.IntervalMs < 0 {
		errs = append(errs, "loop.interval_ms must be >= 0")
	}

	m := cfg.Present.MQTT
	if m.QoS > 2 {
		errs = append(errs, fmt.Sprintf("present.mqtt.qos %d out of range", m.QoS))
	}
	if m.TimeoutMs < 0 {
		errs = append(errs, "present.mqtt.timeout_ms must be >= 0")
	}
	if strings.ContainsAny(m.TopicPrefix, "+#") {
		errs = append(errs, "present.mqtt.topic_prefix must not contain wildcards")
	}

	if len(errs) > 0 {
		return errors.New("config: " + strings.Join(errs, " | "))
	}
	return nil
}
