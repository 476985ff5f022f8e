// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Link     LinkConfig     `yaml:"link" toml:"link"`
	Detector DetectorConfig `yaml:"detector" toml:"detector"`
	Loop     LoopConfig     `yaml:"loop" toml:"loop"`
	Present  PresentConfig  `yaml:"present" toml:"present"`
	Status   StatusConfig   `yaml:"status" toml:"status"`
}

// ---- LINK ----

// Transport names accepted in link.transport.
const (
	TransportSerial    = "serial"
	TransportTCP       = "tcp"
	TransportModbusRTU = "modbus-rtu"
	TransportModbusTCP = "modbus-tcp"
)

// AddressAuto asks the link builder to pick the first USB serial port.
const AddressAuto = "auto"

type LinkConfig struct {
	Transport      string `yaml:"transport" toml:"transport"`
	Address        string `yaml:"address" toml:"address"`
	Baud           int    `yaml:"baud" toml:"baud"`
	WriteTimeoutMs int    `yaml:"write_timeout_ms" toml:"write_timeout_ms"`
	DialTimeoutMs  int    `yaml:"dial_timeout_ms" toml:"dial_timeout_ms"`

	// Modbus coil mirror only.
	UnitID      uint8  `yaml:"unit_id" toml:"unit_id"`
	CoilAddress uint16 `yaml:"coil_address" toml:"coil_address"`
}

// ---- DETECTOR ----

type DetectorConfig struct {
	Command  string   `yaml:"command" toml:"command"`
	Args     []string `yaml:"args" toml:"args"`
	Dir      string   `yaml:"dir" toml:"dir"`
	MaxHands int      `yaml:"max_hands" toml:"max_hands"`
}

// ---- LOOP ----

type LoopConfig struct {
	// 0 means the detector paces ticks.
	IntervalMs int `yaml:"interval_ms" toml:"interval_ms"`
}

// ---- PRESENTATION ----

type PresentConfig struct {
	Console *bool      `yaml:"console" toml:"console"`
	MQTT    MQTTConfig `yaml:"mqtt" toml:"mqtt"`
}

type MQTTConfig struct {
	Broker      string `yaml:"broker" toml:"broker"`
	TopicPrefix string `yaml:"topic_prefix" toml:"topic_prefix"`
	QoS         byte   `yaml:"qos" toml:"qos"`
	TimeoutMs   int    `yaml:"timeout_ms" toml:"timeout_ms"`
}

// ---- STATUS ----

type StatusConfig struct {
	Listen string `yaml:"listen" toml:"listen"`
}

// ConsoleEnabled reports whether the terminal presenter is on (default true).
func (p PresentConfig) ConsoleEnabled() bool {
	return p.Console == nil || *p.Console
}

// Default returns a runnable configuration without any file.
func Default() *Config {
	cfg := &Config{}
	Normalize(cfg)
	return cfg
}

// Load reads a YAML (.yaml, .yml) or TOML (.toml) file.
// Load does not validate; callers run Validate then Normalize.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := &Config{}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse toml: %w", err)
		}
	case "":
		return nil, errors.New("config: file extension required (.yaml, .yml, .toml)")
	default:
		return nil, fmt.Errorf("config: unsupported file extension %q", ext)
	}

	return cfg, nil
}
