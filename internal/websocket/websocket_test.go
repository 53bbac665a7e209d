package websocket

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testClient(hub *Hub, id string) *Client {
	return &Client{PlayerID: id, Name: id, Send: make(chan OutgoingMessage, 1), Hub: hub}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	var dropped []string
	var mu sync.Mutex
	hub.OnDisconnect = func(playerID string) {
		mu.Lock()
		dropped = append(dropped, playerID)
		mu.Unlock()
	}

	c := testClient(hub, "p1")
	hub.register <- c
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	_, ok := hub.clients["p1"]
	hub.mu.RUnlock()
	if !ok {
		t.Fatalf("client should be registered")
	}

	hub.unregister <- c
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	_, ok = hub.clients["p1"]
	hub.mu.RUnlock()
	if ok {
		t.Fatalf("client should be removed after unregister")
	}
	mu.Lock()
	assert.Equal(t, []string{"p1"}, dropped, "OnDisconnect should fire once")
	mu.Unlock()

	// double unregister must not fire the callback again
	hub.unregister <- c
	time.Sleep(10 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, 1, len(dropped))
	mu.Unlock()
}

func TestHubBroadcastToPlayers(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c1 := testClient(hub, "p1")
	c2 := testClient(hub, "p2")
	c3 := testClient(hub, "p3")
	hub.register <- c1
	hub.register <- c2
	hub.register <- c3

	msg := OutgoingMessage{
		Event: "room_update",
		Data:  map[string]any{"roomId": "room123"},
	}
	hub.BroadcastToPlayers([]string{"p1", "p2", "ghost"}, msg)
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, "room_update", (<-c1.Send).Event)
	assert.Equal(t, "room_update", (<-c2.Send).Event)
	select {
	case <-c3.Send:
		t.Fatalf("p3 was not addressed")
	default:
	}
}

func TestHubBroadcastAll(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c1 := testClient(hub, "p1")
	c2 := testClient(hub, "p2")
	hub.register <- c1
	hub.register <- c2

	hub.BroadcastAll(OutgoingMessage{Event: "rooms_update"})
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, "rooms_update", (<-c1.Send).Event)
	assert.Equal(t, "rooms_update", (<-c2.Send).Event)
}

func TestHubSendToPlayer(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c1 := testClient(hub, "p1")
	c2 := testClient(hub, "p2")
	hub.register <- c1
	hub.register <- c2

	hub.SendToPlayer("p1", OutgoingMessage{Event: "hand_started", Data: "cards"})
	time.Sleep(20 * time.Millisecond)

	received := <-c1.Send
	assert.Equal(t, "hand_started", received.Event)
	assert.Equal(t, "cards", received.Data)

	select {
	case <-c2.Send:
		t.Fatalf("p2 should NOT receive a private message")
	default:
	}
}

// A stalled client must not stall the hub loop: messages beyond its
// buffer are dropped, later traffic still flows.
func TestHubDropsForSlowClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	slow := testClient(hub, "slow") // buffer of one, never drained
	fast := testClient(hub, "fast")
	hub.register <- slow
	hub.register <- fast

	for i := 0; i < 5; i++ {
		hub.BroadcastToPlayers([]string{"slow", "fast"}, OutgoingMessage{Event: "tick"})
		// fast keeps draining
		select {
		case <-fast.Send:
		case <-time.After(time.Second):
			t.Fatalf("hub stalled behind the slow client")
		}
	}

	assert.Equal(t, 1, len(slow.Send), "slow client keeps only its buffered message")
}

func TestHubForwardsIncoming(t *testing.T) {
	hub := NewHub()

	got := make(chan IncomingMessage, 1)
	hub.OnIncoming = func(msg IncomingMessage) { got <- msg }
	go hub.Run()

	hub.incoming <- IncomingMessage{From: "p1", Name: "nina", Event: "place_bid"}

	select {
	case msg := <-got:
		assert.Equal(t, "place_bid", msg.Event)
		assert.Equal(t, "p1", msg.From)
	case <-time.After(time.Second):
		t.Fatalf("incoming message never reached the dispatcher")
	}
}

func TestHubClose(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c := testClient(hub, "p1")
	hub.register <- c
	time.Sleep(10 * time.Millisecond)

	hub.Close()
	time.Sleep(10 * time.Millisecond)

	// Send channel is closed so the write pump can exit
	if _, open := <-c.Send; open {
		t.Fatalf("send channel should be closed on shutdown")
	}
}

func BenchmarkHubBroadcast(b *testing.B) {
	hub := NewHub()
	go hub.Run()

	// 所有 Send 都必须有人接收，否则消息会被丢弃
	c1 := &Client{PlayerID: "p1", Send: make(chan OutgoingMessage, 1024), Hub: hub}
	c2 := &Client{PlayerID: "p2", Send: make(chan OutgoingMessage, 1024), Hub: hub}
	go func() {
		for range c1.Send {
		}
	}()
	go func() {
		for range c2.Send {
		}
	}()

	hub.register <- c1
	hub.register <- c2

	b.ResetTimer()
	msg := OutgoingMessage{Event: "bench"}
	for i := 0; i < b.N; i++ {
		hub.BroadcastToPlayers([]string{"p1", "p2"}, msg)
	}
	time.Sleep(50 * time.Millisecond)
}

func BenchmarkSendToPlayer(b *testing.B) {
	hub := NewHub()
	go hub.Run()

	c := &Client{PlayerID: "p1", Send: make(chan OutgoingMessage, 1)}
	hub.register <- c

	msg := OutgoingMessage{Event: "hand_started"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		hub.SendToPlayer("p1", msg)
	}
}
