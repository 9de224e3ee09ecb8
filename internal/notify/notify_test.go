package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gatewayStub struct {
	delivery Delivery
	sent     chan string
	deadline chan bool
}

func newGatewayStub(delivery Delivery) *gatewayStub {
	return &gatewayStub{
		delivery: delivery,
		sent:     make(chan string, 1),
		deadline: make(chan bool, 1),
	}
}

func (g *gatewayStub) Send(ctx context.Context, normalizedPhone, message string) Delivery {
	_, ok := ctx.Deadline()
	g.deadline <- ok
	g.sent <- normalizedPhone + "|" + message
	return g.delivery
}

func TestDispatch(t *testing.T) {
	t.Run("delivers in the background", func(t *testing.T) {
		gateway := newGatewayStub(Delivery{Delivered: true})

		Dispatch(gateway, "+14155551234", "Your cafe verification code is 4242")

		select {
		case got := <-gateway.sent:
			assert.Equal(t, "+14155551234|Your cafe verification code is 4242", got)
		case <-time.After(time.Second):
			t.Fatal("gateway never received the message")
		}
	})

	t.Run("bounds the send with a deadline", func(t *testing.T) {
		gateway := newGatewayStub(Delivery{Delivered: true})

		Dispatch(gateway, "+14155551234", "hello")

		select {
		case hasDeadline := <-gateway.deadline:
			assert.True(t, hasDeadline)
		case <-time.After(time.Second):
			t.Fatal("gateway never received the message")
		}
	})

	t.Run("swallows delivery failure", func(t *testing.T) {
		gateway := newGatewayStub(Delivery{Delivered: false, Reason: "gateway down"})

		// The caller already returned; a failed delivery must not panic or
		// propagate anywhere.
		Dispatch(gateway, "+14155551234", "hello")

		select {
		case <-gateway.sent:
		case <-time.After(time.Second):
			t.Fatal("gateway never received the message")
		}
	})
}

func TestLogNotifier_Send(t *testing.T) {
	res := NewLogNotifier().Send(context.Background(), "+919876543210", "Thanks Asha! Your bill is ready. Total due: 2.57")

	require.True(t, res.Delivered)
	assert.Empty(t, res.Reason)
}
