package realtime

import (
	"encoding/json"
	"testing"
	"time"
)

func newTestClient(userID string) *Client {
	return &Client{UserID: userID, Send: make(chan []byte, 8)}
}

func TestHubEmitToUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := newTestClient("u1")
	hub.register <- client

	hub.EmitToUser("u1", "receive_message", map[string]string{"message": "hello"})

	select {
	case raw := <-client.Send:
		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("unmarshal envelope: %v", err)
		}
		if env.Event != "receive_message" {
			t.Errorf("event = %q, want receive_message", env.Event)
		}
	case <-time.After(time.Second):
		t.Fatal("no message delivered to registered client")
	}
}

func TestHubEmitToOfflineUserIsNoop(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	// Must not block or panic
	hub.EmitToUser("ghost", "receive_message", "x")
}

func TestHubPresence(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	if hub.Online("u1") {
		t.Error("u1 should be offline before registering")
	}

	client := newTestClient("u1")
	hub.register <- client
	if !hub.Online("u1") {
		t.Error("u1 should be online after registering")
	}

	hub.unregister <- client
	if hub.Online("u1") {
		t.Error("u1 should be offline after unregistering")
	}
}

func TestHubReconnectReplacesClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	first := newTestClient("u1")
	second := newTestClient("u1")
	hub.register <- first
	hub.register <- second

	hub.EmitToUser("u1", "ping", nil)

	select {
	case <-second.Send:
	case <-time.After(time.Second):
		t.Fatal("replacement client did not receive the event")
	}

	// The first client's channel is closed on replacement
	select {
	case _, open := <-first.Send:
		if open {
			t.Error("stale client should not receive events")
		}
	case <-time.After(time.Second):
		t.Fatal("stale client channel was not closed")
	}
}

func TestReplacedClientSendIsSafe(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	first := newTestClient("u1")
	second := newTestClient("u1")
	hub.register <- first
	hub.register <- second

	// Wait until the hub has processed the replacement
	if !hub.Online("u1") {
		t.Fatal("replacement client not registered")
	}

	// The replaced client may still be acking inbound traffic from its
	// read loop; that must be a no-op, never a panic.
	first.sendEnvelope("message_sent", map[string]string{"id": "m1"})

	if first.trySend([]byte("x")) {
		t.Error("trySend on a closed client should report failure")
	}
}

func TestSlowConsumerDropIsSafe(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{UserID: "u1", Send: make(chan []byte)} // no buffer, nothing draining
	hub.register <- client

	// First emit cannot be queued, so the hub drops the client
	hub.EmitToUser("u1", "receive_message", "a")

	for i := 0; hub.Online("u1") && i < 100; i++ {
		time.Sleep(10 * time.Millisecond)
	}
	if hub.Online("u1") {
		t.Fatal("slow consumer was not dropped")
	}

	// The dropped client's own sends must be no-ops, never panics
	client.sendEnvelope("message_error", map[string]string{"error": "x"})
	if client.trySend([]byte("y")) {
		t.Error("trySend on a dropped client should report failure")
	}
}

func TestRegisterAfterStopDoesNotBlock(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	hub.Stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		c := newTestClient("u1")
		hub.registerClient(c)
		hub.unregisterClient(c)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("register/unregister blocked after hub stop")
	}
}

func TestHubStaleUnregisterKeepsNewClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	first := newTestClient("u1")
	second := newTestClient("u1")
	hub.register <- first
	hub.register <- second

	// Unregistering the replaced client must not evict the live one
	hub.unregister <- first
	if !hub.Online("u1") {
		t.Error("live client was evicted by a stale unregister")
	}
}
