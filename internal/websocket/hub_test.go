package websocket

import (
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	// Registration goes through the hub loop; give it a beat.
	time.Sleep(50 * time.Millisecond)
	return conn
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(nil)
	hub.Start()
	t.Cleanup(hub.Stop)

	conn := dialHub(t, hub)

	hub.BroadcastJSON(map[string]string{"kind": "dataset_replaced"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), "dataset_replaced")
}

func TestHubBroadcastReachesAllClients(t *testing.T) {
	hub := NewHub(nil)
	hub.Start()
	t.Cleanup(hub.Stop)

	first := dialHub(t, hub)
	second := dialHub(t, hub)

	hub.BroadcastJSON(map[string]string{"kind": "theme_changed", "theme": "dark"})

	for _, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Contains(t, string(msg), "theme_changed")
	}
}

func TestHubStopClosesClients(t *testing.T) {
	hub := NewHub(nil)
	hub.Start()

	conn := dialHub(t, hub)
	hub.Stop()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err, "server should close the connection on shutdown")
}

func TestHubStopReleasesPumpGoroutines(t *testing.T) {
	baseline := runtime.NumGoroutine()

	hub := NewHub(nil)
	hub.Start()

	conn := dialHub(t, hub)
	hub.Stop()
	conn.Close()

	// Both pumps must exit; a blocked unregister send would keep the
	// read pump alive forever.
	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= baseline+2
	}, 3*time.Second, 50*time.Millisecond, "pump goroutines leaked after Stop")
}

func TestHubStartStopIdempotent(t *testing.T) {
	hub := NewHub(nil)
	hub.Start()
	hub.Start()
	hub.Stop()
	hub.Stop()
}
