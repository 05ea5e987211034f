package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

const (
	mqttConnectTimeout = 10 * time.Second
	mqttQuiesce        = 250 // ms
)

// uplink is the part of *modem.Shield the bridge forwards datagrams through
type uplink interface {
	StartUDPService(ctx context.Context) (string, error)
	SendDataUDP(ctx context.Context, payload []byte) (string, error)
}

// Bridge forwards every message received on an MQTT topic as one UDP
// datagram through the shield
type Bridge struct {
	cfg    MQTTConfig
	shield uplink
	logger *zap.Logger
}

func NewBridge(cfg MQTTConfig, shield uplink, logger *zap.Logger) *Bridge {
	return &Bridge{
		cfg:    cfg,
		shield: shield,
		logger: logger,
	}
}

// Forward sends the payload of m. Empty payloads are dropped.
func (b *Bridge) Forward(ctx context.Context, m mqtt.Message) error {
	payload := m.Payload()
	if len(payload) == 0 {
		b.logger.Warn("Dropping empty MQTT message", zap.String("topic", m.Topic()))
		return nil
	}

	resp, err := b.shield.SendDataUDP(ctx, payload)
	if err != nil {
		b.logger.Error("Failed to forward MQTT message",
			zap.String("topic", m.Topic()),
			zap.Uint16("message_id", m.MessageID()),
			zap.Error(err),
		)
		return err
	}

	b.logger.Debug("MQTT message forwarded",
		zap.String("topic", m.Topic()),
		zap.Int("payload_length", len(payload)),
		zap.String("response", resp),
	)
	return nil
}

// Run creates the UDP socket, connects to the broker and forwards messages
// until ctx is done.
func (b *Bridge) Run(ctx context.Context) error {
	if b.cfg.Broker == "" {
		return errors.New("mqtt broker is not configured")
	}

	if _, err := b.shield.StartUDPService(ctx); err != nil {
		return fmt.Errorf("start udp service: %w", err)
	}

	client := mqtt.NewClient(b.clientOptions(ctx))
	token := client.Connect()
	if !token.WaitTimeout(mqttConnectTimeout) {
		return fmt.Errorf("mqtt connect to %s: timed out", b.cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect to %s: %w", b.cfg.Broker, err)
	}

	<-ctx.Done()
	b.logger.Info("Disconnecting from MQTT broker")
	client.Disconnect(mqttQuiesce)
	return nil
}

func (b *Bridge) clientOptions(ctx context.Context) *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(b.cfg.Broker)
	opts.SetClientID(b.cfg.ClientID)
	if b.cfg.Username != "" {
		opts.SetUsername(b.cfg.Username)
		opts.SetPassword(b.cfg.Password)
	}
	opts.SetOrderMatters(false)
	opts.SetAutoReconnect(true)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		b.logger.Warn("MQTT connection lost", zap.Error(err))
	})
	opts.SetOnConnectHandler(func(c mqtt.Client) {
		b.logger.Info("MQTT connected, subscribing", zap.String("topic", b.cfg.Topic))
		token := c.Subscribe(b.cfg.Topic, b.cfg.QoS, func(_ mqtt.Client, m mqtt.Message) {
			_ = b.Forward(ctx, m)
		})
		if token.Wait() && token.Error() != nil {
			b.logger.Error("MQTT subscribe failed", zap.String("topic", b.cfg.Topic), zap.Error(token.Error()))
		}
	})
	return opts
}
