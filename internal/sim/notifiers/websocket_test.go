package notifiers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rparoni/iotshield/internal/sim"
)

func TestNewWebSocketNotifier(t *testing.T) {
	wsn := NewWebSocketNotifier("test-ws")
	defer wsn.Close()

	if wsn.ID() != "test-ws" {
		t.Errorf("Expected ID test-ws, got %s", wsn.ID())
	}
	if wsn.Type() != "websocket" {
		t.Errorf("Expected type websocket, got %s", wsn.Type())
	}
}

func TestWebSocketNotifier_Upgrader(t *testing.T) {
	wsn := NewWebSocketNotifier("test-ws")
	defer wsn.Close()

	upgrader := wsn.Upgrader()
	if upgrader.ReadBufferSize != 1024 {
		t.Errorf("Expected read buffer 1024, got %d", upgrader.ReadBufferSize)
	}
	if upgrader.WriteBufferSize != 1024 {
		t.Errorf("Expected write buffer 1024, got %d", upgrader.WriteBufferSize)
	}
}

func TestWebSocketNotifier_NotifyWithoutClients(t *testing.T) {
	wsn := NewWebSocketNotifier("test-ws")
	defer wsn.Close()

	event := sim.EngineEvent{
		Event:           sim.Event{ID: "e1", Message: "test"},
		ProtocolEnabled: true,
	}
	if err := wsn.Notify(context.Background(), event); err != nil {
		t.Errorf("Notify without clients should succeed, got %v", err)
	}
}

func TestWebSocketNotifier_BroadcastToClient(t *testing.T) {
	wsn := NewWebSocketNotifier("test-ws")
	defer wsn.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := wsn.Upgrader()
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		wsn.RegisterClient(conn)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	// Wait for the server-side registration to land.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		wsn.mu.RLock()
		n := len(wsn.clients)
		wsn.mu.RUnlock()
		if n > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	event := sim.EngineEvent{
		Event: sim.Event{ID: "e1", Message: "broadcast me"},
		Stats: sim.Stats{TotalAttacks: 1},
	}
	if err := wsn.Notify(context.Background(), event); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage failed: %v", err)
	}
	if !strings.Contains(string(msg), "broadcast me") {
		t.Errorf("Expected broadcast payload, got %s", msg)
	}
}

func TestWebSocketNotifier_Close(t *testing.T) {
	wsn := NewWebSocketNotifier("test-ws")
	if err := wsn.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}

	// Registration after close must not block.
	done := make(chan struct{})
	go func() {
		wsn.RegisterClient(nil)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("RegisterClient blocked after Close")
	}
}
