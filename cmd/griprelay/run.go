// cmd/griprelay/run.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tamzrod/grip-relay/internal/config"
	"github.com/tamzrod/grip-relay/internal/detector"
	"github.com/tamzrod/grip-relay/internal/link"
	"github.com/tamzrod/grip-relay/internal/loop"
	"github.com/tamzrod/grip-relay/internal/observability"
	"github.com/tamzrod/grip-relay/internal/present"
)

func run(cmd *cobra.Command, o *options) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Config + logging
	// --------------------

	cfg, err := loadConfig(cmd, o)
	if err != nil {
		return err
	}

	log := observability.InitLogger(appName, o.logLevel, os.Stderr)
	observability.RegisterMetrics()

	log.Info().
		Str("version", Version).
		Str("transport", cfg.Link.Transport).
		Str("address", cfg.Link.Address).
		Int("baud", cfg.Link.Baud).
		Msg("starting")

	// --------------------
	// Peripheral link (single attempt, never fatal)
	// --------------------

	lnk, err := link.Build(cfg.Link, log)
	if err != nil {
		return err
	}
	if lnk.Open() != link.Connected {
		log.Warn().Msg("visuals only: frames are shown but not transmitted")
	}

	// --------------------
	// Hand tracker
	// --------------------

	// The loop closes the tracker on exit; it must not die with ctx first.
	det, err := detector.StartProcess(context.Background(), detector.ProcessConfig{
		Command: cfg.Detector.Command,
		Args:    cfg.Detector.Args,
		Dir:     cfg.Detector.Dir,
	}, log)
	if err != nil {
		_ = lnk.Close()
		return err
	}

	// --------------------
	// Presentation
	// --------------------

	pres, closePresenters := buildPresenters(ctx, cfg, log)
	defer closePresenters()

	l, err := loop.New(loop.Config{
		Interval: time.Duration(cfg.Loop.IntervalMs) * time.Millisecond,
	}, det, lnk, pres, log)
	if err != nil {
		_ = det.Close()
		_ = lnk.Close()
		return err
	}

	go present.WatchQuit(ctx, os.Stdin, stop)
	log.Info().Msg("press q then Enter to quit")

	if err := l.Run(ctx); err != nil {
		return fmt.Errorf("relay stopped: %w", err)
	}
	return nil
}

func buildPresenters(ctx context.Context, cfg *config.Config, log zerolog.Logger) (loop.Presenter, func()) {
	var (
		out     present.Multi
		closers []func()
	)

	if cfg.Present.ConsoleEnabled() {
		out = append(out, present.NewConsole(os.Stdout))
	}

	if m := cfg.Present.MQTT; m.Broker != "" {
		mirror, err := present.DialMQTT(present.MQTTConfig{
			Broker:      m.Broker,
			TopicPrefix: m.TopicPrefix,
			QoS:         m.QoS,
			Timeout:     time.Duration(m.TimeoutMs) * time.Millisecond,
		}, log)
		if err != nil {
			log.Warn().Err(err).Msg("mqtt mirror disabled")
		} else {
			out = append(out, mirror)
			closers = append(closers, mirror.Close)
		}
	}

	if cfg.Status.Listen != "" {
		srv := observability.NewStatusServer(cfg.Status.Listen, log)
		srv.Start(ctx)
		out = append(out, present.NewStatus(srv))
	}

	return out, func() {
		for _, c := range closers {
			c()
		}
	}
}
