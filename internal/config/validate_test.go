// internal/config/validate_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helper to write a config file quickly
func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// ---- tests ----

func TestValidate_DefaultIsValid(t *testing.T) {
	cfg := Default()

	require.NoError(t, Validate(cfg))
	assert.Equal(t, TransportSerial, cfg.Link.Transport)
	assert.Equal(t, DefaultAddress, cfg.Link.Address)
	assert.Equal(t, DefaultBaud, cfg.Link.Baud)
	assert.True(t, cfg.Present.ConsoleEnabled())
}

func TestValidate_EmptyConfigAccepted(t *testing.T) {
	assert.NoError(t, Validate(&Config{}))
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"unknown transport", Config{Link: LinkConfig{Transport: "usb"}}},
		{"negative baud", Config{Link: LinkConfig{Baud: -1}}},
		{"auto on tcp", Config{Link: LinkConfig{Transport: TransportTCP, Address: AddressAuto}}},
		{"modbus without unit", Config{Link: LinkConfig{Transport: TransportModbusTCP, Address: "h:502"}}},
		{"coils past end", Config{Link: LinkConfig{Transport: TransportModbusRTU, UnitID: 1, CoilAddress: 0xFFFE}}},
		{"args without command", Config{Detector: DetectorConfig{Args: []string{"x.py"}}}},
		{"two hands", Config{Detector: DetectorConfig{MaxHands: 2}}},
		{"negative interval", Config{Loop: LoopConfig{IntervalMs: -5}}},
		{"bad qos", Config{Present: PresentConfig{MQTT: MQTTConfig{QoS: 3}}}},
		{"wildcard topic", Config{Present: PresentConfig{MQTT: MQTTConfig{TopicPrefix: "grip/#"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			assert.Error(t, Validate(&cfg))
		})
	}
}

func TestValidate_DoesNotMutate(t *testing.T) {
	cfg := &Config{Link: LinkConfig{Transport: " Serial "}}
	before := *cfg

	_ = Validate(cfg)

	assert.Equal(t, before, *cfg)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "grip.yaml", `
link:
  transport: modbus-rtu
  address: /dev/ttyACM0
  baud: 19200
  unit_id: 3
  coil_address: 16
detector:
  command: python3
  args: [hand_tracker.py, --camera, "1"]
present:
  console: false
  mqtt:
    broker: localhost:1883
    topic_prefix: /lab/grip/
status:
  listen: ":9108"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))
	Normalize(cfg)

	assert.Equal(t, TransportModbusRTU, cfg.Link.Transport)
	assert.Equal(t, "/dev/ttyACM0", cfg.Link.Address)
	assert.Equal(t, 19200, cfg.Link.Baud)
	assert.Equal(t, uint8(3), cfg.Link.UnitID)
	assert.Equal(t, uint16(16), cfg.Link.CoilAddress)
	assert.Equal(t, []string{"hand_tracker.py", "--camera", "1"}, cfg.Detector.Args)
	assert.False(t, cfg.Present.ConsoleEnabled())
	assert.Equal(t, "lab/grip", cfg.Present.MQTT.TopicPrefix)
	assert.Equal(t, ":9108", cfg.Status.Listen)
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "grip.toml", `
[link]
transport = "tcp"
address = "10.0.0.7:4000"

[loop]
interval_ms = 33
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))
	Normalize(cfg)

	assert.Equal(t, TransportTCP, cfg.Link.Transport)
	assert.Equal(t, "10.0.0.7:4000", cfg.Link.Address)
	assert.Equal(t, 33, cfg.Loop.IntervalMs)
	assert.Equal(t, DefaultWriteTimeoutMs, cfg.Link.WriteTimeoutMs)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "grip.json", `{}`))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "grip", `link: {}`))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.yaml", "link: [unterminated"))
	assert.Error(t, err)
}

func TestNormalize_TCPKeepsEmptyAddress(t *testing.T) {
	cfg := &Config{Link: LinkConfig{Transport: "TCP"}}
	Normalize(cfg)

	assert.Equal(t, TransportTCP, cfg.Link.Transport)
	assert.Empty(t, cfg.Link.Address)
}
