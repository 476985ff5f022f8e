// internal/config/normalize.go
package config

import "strings"

// Defaults applied by Normalize.
const (
	DefaultAddress        = "/dev/ttyUSB0"
	DefaultBaud           = 9600
	DefaultWriteTimeoutMs = 1000
	DefaultDialTimeoutMs  = 2000
	DefaultTopicPrefix    = "grip"
	DefaultMQTTTimeoutMs  = 250
	DefaultMaxHands       = 1
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	l := &cfg.Link
	l.Transport = strings.ToLower(strings.TrimSpace(l.Transport))
	l.Address = strings.TrimSpace(l.Address)

	if l.Transport == "" {
		l.Transport = TransportSerial
	}
	if l.Address == "" && (l.Transport == TransportSerial || l.Transport == TransportModbusRTU) {
		l.Address = DefaultAddress
	}
	if l.Baud == 0 {
		l.Baud = DefaultBaud
	}
	if l.WriteTimeoutMs == 0 {
		l.WriteTimeoutMs = DefaultWriteTimeoutMs
	}
	if l.DialTimeoutMs == 0 {
		l.DialTimeoutMs = DefaultDialTimeoutMs
	}

	if cfg.Detector.MaxHands == 0 {
		cfg.Detector.MaxHands = DefaultMaxHands
	}

	m := &cfg.Present.MQTT
	m.Broker = strings.TrimSpace(m.Broker)
	m.TopicPrefix = strings.Trim(strings.TrimSpace(m.TopicPrefix), "/")
	if m.TopicPrefix == "" {
		m.TopicPrefix = DefaultTopicPrefix
	}
	if m.TimeoutMs == 0 {
		m.TimeoutMs = DefaultMQTTTimeoutMs
	}
}
