// cmd/griprelay/options.go
package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/tamzrod/grip-relay/internal/config"
)

// options holds command-line values. A flag overrides the config file only
// when it was set explicitly.
type options struct {
	configPath string
	logLevel   string

	transport string
	port      string
	baud      int

	tracker     string
	trackerArgs []string
	intervalMs  int

	noConsole    bool
	mqttBroker   string
	statusListen string
}

func bindRunFlags(cmd *cobra.Command, o *options) {
	f := cmd.Flags()
	f.StringVarP(&o.configPath, "config", "c", "", "Config file path (.yaml, .yml or .toml)")
	f.StringVar(&o.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	f.StringVar(&o.transport, "transport", "", "Link transport (serial, tcp, modbus-rtu, modbus-tcp)")
	f.StringVarP(&o.port, "port", "p", "", `Peripheral address: serial device, "auto", or host:port`)
	f.IntVarP(&o.baud, "baud", "b", 0, "Serial baud rate")

	f.StringVar(&o.tracker, "tracker", "", "Hand-tracker command")
	f.StringArrayVar(&o.trackerArgs, "tracker-arg", nil, "Hand-tracker argument (repeatable)")
	f.IntVar(&o.intervalMs, "interval-ms", 0, "Fixed tick interval in ms (0: tracker paces ticks)")

	f.BoolVar(&o.noConsole, "no-console", false, "Disable the terminal signal line")
	f.StringVar(&o.mqttBroker, "mqtt-broker", "", "MQTT broker to mirror frames to")
	f.StringVar(&o.statusListen, "status-listen", "", `Serve /metrics and /status on this address (e.g. ":9108")`)
}

// loadConfig reads the config file (if any), applies explicit flags,
// then validates and normalizes the result.
func loadConfig(cmd *cobra.Command, o *options) (*config.Config, error) {
	cfg := &config.Config{}
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	changed := cmd.Flags().Changed

	if changed("transport") {
		cfg.Link.Transport = o.transport
	}
	if changed("port") {
		cfg.Link.Address = o.port
	}
	if changed("baud") {
		cfg.Link.Baud = o.baud
	}
	if changed("tracker") {
		cfg.Detector.Command = o.tracker
	}
	if changed("tracker-arg") {
		cfg.Detector.Args = o.trackerArgs
	}
	if changed("interval-ms") {
		cfg.Loop.IntervalMs = o.intervalMs
	}
	if changed("no-console") {
		enabled := !o.noConsole
		cfg.Present.Console = &enabled
	}
	if changed("mqtt-broker") {
		cfg.Present.MQTT.Broker = o.mqttBroker
	}
	if changed("status-listen") {
		cfg.Status.Listen = o.statusListen
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	config.Normalize(cfg)

	if cfg.Detector.Command == "" {
		return nil, errors.New("config: no hand tracker configured (set detector.command or --tracker)")
	}
	return cfg, nil
}
