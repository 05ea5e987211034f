package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"i4.energy/across/nbiot/modem"
)

type testMessage struct {
	topic   string
	payload []byte
}

func (m testMessage) Duplicate() bool   { return false }
func (m testMessage) Qos() byte         { return 0 }
func (m testMessage) Retained() bool    { return false }
func (m testMessage) Topic() string     { return m.topic }
func (m testMessage) MessageID() uint16 { return 1 }
func (m testMessage) Payload() []byte   { return m.payload }
func (m testMessage) Ack()              {}

func TestBridge(t *testing.T) {
	t.Run("Forwards payload as one datagram", func(t *testing.T) {
		port := modem.NewTestPort().
			Respond("AT+NSOST=0,198.51.100.20,5683,4,7B227D0A", "0,4\r\nOK\r\n")
		shield := newTestShield(t, port, 0)
		shield.SetIPAddress("198.51.100.20")
		shield.SetPort("5683")

		b := NewBridge(MQTTConfig{Topic: "nbiot/uplink"}, shield, zap.NewNop())
		err := b.Forward(context.Background(), testMessage{topic: "nbiot/uplink", payload: []byte("{\"}\n")})
		require.NoError(t, err)

		assert.Equal(t, 1, port.WriteCount("AT+NSOST=0,198.51.100.20,5683,4,7B227D0A"))
	})

	t.Run("Drops empty payload", func(t *testing.T) {
		port := modem.NewTestPort()
		b := NewBridge(MQTTConfig{}, newTestShield(t, port, 0), zap.NewNop())

		require.NoError(t, b.Forward(context.Background(), testMessage{topic: "nbiot/uplink"}))
		assert.Empty(t, port.Writes())
	})

	t.Run("Forward failure is reported", func(t *testing.T) {
		b := NewBridge(MQTTConfig{}, newTestShield(t, modem.NewTestPort(), 1), zap.NewNop())

		err := b.Forward(context.Background(), testMessage{payload: []byte("x")})
		assert.ErrorIs(t, err, modem.ErrTimeout)
	})

	t.Run("Run requires a broker", func(t *testing.T) {
		b := NewBridge(MQTTConfig{}, newTestShield(t, modem.NewTestPort(), 0), zap.NewNop())
		assert.Error(t, b.Run(context.Background()))
	})
}
