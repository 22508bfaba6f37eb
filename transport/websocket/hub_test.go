package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/receipt-escape/game/puzzle"
	"github.com/wricardo/receipt-escape/game/service"
)

func testArtifact(id string) *service.Artifact {
	return &service.Artifact{
		ID:       id,
		TaskCode: service.TaskCode(id),
		Station:  "lab",
		Result:   &puzzle.Result{Type: puzzle.Riddle, Answer: "ECHO", Data: map[string]string{"text": "..."}},
	}
}

func newTestClient(hub *Hub, station string) *Client {
	return &Client{hub: hub, station: station, send: make(chan []byte, 256)}
}

func TestHubRegisterClient(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "lab")

	hub.registerClient(client)
	assert.Equal(t, 1, hub.ClientCount("lab"))
	assert.True(t, hub.stations["lab"][client])
}

func TestHubUnregisterClient(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "lab")

	hub.registerClient(client)
	hub.unregisterClient(client)

	assert.Equal(t, 0, hub.ClientCount("lab"))
	_, exists := hub.stations["lab"]
	assert.False(t, exists, "empty station is cleaned up")

	_, open := <-client.send
	assert.False(t, open, "send channel is closed")

	// Unregistering twice is a no-op
	hub.unregisterClient(client)
}

func TestHubMultipleClientsInStation(t *testing.T) {
	hub := NewHub()
	c1 := newTestClient(hub, "lab")
	c2 := newTestClient(hub, "lab")
	other := newTestClient(hub, "vault")

	hub.registerClient(c1)
	hub.registerClient(c2)
	hub.registerClient(other)
	assert.Equal(t, 2, hub.ClientCount("lab"))

	hub.unregisterClient(c1)
	assert.Equal(t, 1, hub.ClientCount("lab"))
	assert.True(t, hub.stations["lab"][c2])
	assert.Equal(t, 1, hub.ClientCount("vault"))
}

func TestHubNotify(t *testing.T) {
	hub := NewHub()
	lab := newTestClient(hub, "lab")
	vault := newTestClient(hub, "vault")
	hub.registerClient(lab)
	hub.registerClient(vault)

	hub.Notify("lab", testArtifact("abcdef12-3456"))
	hub.broadcastMessage(<-hub.broadcast)

	select {
	case data := <-lab.send:
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		assert.Equal(t, "lab", msg.Station)
		assert.Equal(t, EventArtifact, msg.Event)
		require.NotNil(t, msg.Artifact)
		assert.Equal(t, "ABCDEF12", msg.Artifact.TaskCode)
		assert.Equal(t, puzzle.Riddle, msg.Artifact.Result.Type)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("no message for subscribed station")
	}

	assert.Empty(t, vault.send, "other stations receive nothing")
}

func TestHubNotifyDropsWhenQueueFull(t *testing.T) {
	hub := NewHub()
	for i := 0; i < broadcastBuffer+10; i++ {
		hub.Notify("lab", testArtifact("x"))
	}
	assert.Len(t, hub.broadcast, broadcastBuffer)
}

func TestHubBroadcastDropsSlowClient(t *testing.T) {
	hub := NewHub()
	slow := &Client{hub: hub, station: "lab", send: make(chan []byte)}
	hub.registerClient(slow)

	hub.broadcastMessage(&Message{Station: "lab", Event: "ping"})
	assert.Equal(t, 0, hub.ClientCount("lab"))
}

func TestHubRunStopsOnCancel(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "lab")
	hub.registerClient(client)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, 0, hub.ClientCount("lab"))
}

func TestWebSocketDelivery(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, r.URL.Query().Get("station"))
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?station=lab"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount("lab") == 1 },
		time.Second, 10*time.Millisecond)

	hub.Notify("lab", testArtifact("0badc0de-0000"))

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, EventArtifact, msg.Event)
	require.NotNil(t, msg.Artifact)
	assert.Equal(t, "0BADC0DE", msg.Artifact.TaskCode)

	conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount("lab") == 0 },
		time.Second, 10*time.Millisecond)
}
