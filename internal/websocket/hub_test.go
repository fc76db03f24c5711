package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/avasquez/dulceria-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, time.Second, 5*time.Millisecond)
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{Hub: hub, UserID: 1, Send: make(chan []byte, 4)}
	hub.Register(client)
	waitFor(t, func() bool { return hub.IsUserOnline(1) })

	hub.Unregister(client)
	waitFor(t, func() bool { return !hub.IsUserOnline(1) })

	_, open := <-client.Send
	assert.False(t, open, "send channel should be closed after unregister")
}

func TestHub_DoubleUnregisterKeepsHubAlive(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{Hub: hub, UserID: 1, Send: make(chan []byte, 4)}
	hub.Register(client)
	waitFor(t, func() bool { return hub.IsUserOnline(1) })

	// The read pump's deferred unregister can race the full-buffer
	// disconnect, delivering the same client twice.
	hub.Unregister(client)
	hub.Unregister(client)
	waitFor(t, func() bool { return !hub.IsUserOnline(1) })

	// The hub keeps serving after the duplicate.
	other := &Client{Hub: hub, UserID: 2, Send: make(chan []byte, 4)}
	hub.Register(other)
	waitFor(t, func() bool { return hub.IsUserOnline(2) })

	hub.NotifyOrderEvent("order_created", &model.Order{OrderNumber: "ORD-20260901-0001"})

	select {
	case msg := <-other.Send:
		var event OrderEvent
		require.NoError(t, json.Unmarshal(msg, &event))
		assert.Equal(t, "order_created", event.Type)
		assert.Equal(t, "ORD-20260901-0001", event.Order.OrderNumber)
	case <-time.After(time.Second):
		t.Fatal("expected the order event to reach the remaining client")
	}
}

func TestHub_BroadcastReachesAllSessions(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	first := &Client{Hub: hub, UserID: 1, Send: make(chan []byte, 4)}
	second := &Client{Hub: hub, UserID: 1, Send: make(chan []byte, 4)}
	hub.Register(first)
	hub.Register(second)
	waitFor(t, func() bool { return hub.IsUserOnline(1) })

	hub.NotifyOrderEvent("order_status_changed", &model.Order{OrderNumber: "ORD-20260901-0002"})

	for _, client := range []*Client{first, second} {
		select {
		case msg := <-client.Send:
			var event OrderEvent
			require.NoError(t, json.Unmarshal(msg, &event))
			assert.Equal(t, "order_status_changed", event.Type)
		case <-time.After(time.Second):
			t.Fatal("expected the event on every session")
		}
	}
}
