// internal/present/mqtt.go
package present

import (
	"errors"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tamzrod/grip-relay/internal/loop"
)

// publisher is the part of mqtt.Client the mirror uses.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

const connectTimeout = 5 * time.Second

type MQTTConfig struct {
	Broker      string
	TopicPrefix string
	QoS         byte
	Timeout     time.Duration
}

// MQTT mirrors every emitted frame to <prefix>/frame, retained.
// It is a one-way telemetry sink: nothing is ever subscribed.
type MQTT struct {
	client  publisher
	topic   string
	qos     byte
	timeout time.Duration
	log     zerolog.Logger

	published uint64
	failed    uint64
}

// DialMQTT connects to the broker. The caller decides what a failure means;
// the relay runs without a mirror.
func DialMQTT(cfg MQTTConfig, log zerolog.Logger) (*MQTT, error) {
	if cfg.Broker == "" {
		return nil, errors.New("present: mqtt broker required")
	}

	broker := cfg.Broker
	if !strings.Contains(broker, "://") {
		broker = "tcp://" + broker
	}

	clientID := "griprelay-" + uuid.NewString()[:8]

	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(connectTimeout)
	opts.SetMaxReconnectInterval(30 * time.Second)
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Warn().Err(err).Str("broker", broker).Msg("mqtt connection lost")
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("present: mqtt connect %s: timeout", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("present: mqtt connect %s: %w", broker, err)
	}

	log.Info().Str("broker", broker).Str("client_id", clientID).Msg("mqtt mirror connected")
	return newMQTT(client, cfg, log), nil
}

func newMQTT(client publisher, cfg MQTTConfig, log zerolog.Logger) *MQTT {
	return &MQTT{
		client:  client,
		topic:   strings.Trim(cfg.TopicPrefix, "/") + "/frame",
		qos:     cfg.QoS,
		timeout: cfg.Timeout,
		log:     log.With().Str("component", "mqtt").Logger(),
	}
}

// Present publishes emitted frames only. Failures are logged and counted.
func (m *MQTT) Present(r loop.Report) {
	if !r.Emitted {
		return
	}

	token := m.client.Publish(m.topic, m.qos, true, r.Frame.String())
	if !token.WaitTimeout(m.timeout) {
		m.failed++
		m.log.Warn().Str("topic", m.topic).Str("frame", r.Frame.String()).Msg("mqtt publish timeout")
		return
	}
	if err := token.Error(); err != nil {
		m.failed++
		m.log.Warn().Err(err).Str("topic", m.topic).Str("frame", r.Frame.String()).Msg("mqtt publish failed")
		return
	}
	m.published++
}

func (m *MQTT) Topic() string { return m.topic }

func (m *MQTT) Close() {
	m.client.Disconnect(250)
	m.log.Info().Uint64("published", m.published).Uint64("failed", m.failed).Msg("mqtt mirror closed")
}
