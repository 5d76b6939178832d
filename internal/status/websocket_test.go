package status

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
)

type frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var f frame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func startServer(t *testing.T) (*Server, string) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	s := NewServer(nil, HubConfig{})
	go s.Hub().Run(ctx)

	mux := http.NewServeMux()
	s.Register(mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	return s, "ws" + strings.TrimPrefix(ts.URL, "http") + Path
}

func TestServerStreamsUpdates(t *testing.T) {
	s, url := startServer(t)
	s.Publish(Connected("OP-1 Midi Device"))

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	first := readFrame(t, conn)
	assert.Equal(t, "state_init", first.Type)
	assert.JSONEq(t, `{"connected":true,"port":"OP-1 Midi Device"}`, string(first.Data))

	waitUntil(t, time.Second, func() bool { return s.Hub().Clients() == 1 })

	s.Publish(Update{Kind: KindDispatch, At: time.Now(), Dispatch: &Dispatch{Table: "notes", ID: 53, Value: 100, Outcome: "fired"}})
	f := readFrame(t, conn)
	assert.Equal(t, "dispatch", f.Type)
	assert.Contains(t, string(f.Data), `"id":53`)

	s.Publish(Disconnected("OP-1 Midi Device"))
	f = readFrame(t, conn)
	assert.Equal(t, "disconnected", f.Type)
}

func TestServerInitWhenDisconnected(t *testing.T) {
	_, url := startServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	first := readFrame(t, conn)
	assert.Equal(t, "state_init", first.Type)
	assert.JSONEq(t, `{"connected":false}`, string(first.Data))
}

func TestHubDropsSlowClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil, HubConfig{SendBuf: 1, BroadcastBuf: 8})
	go hub.Run(ctx)

	slow := &Client{hub: hub, send: make(chan []byte, 1), remoteAddr: "slow", logger: hub.logger}
	require.True(t, hub.join(slow))
	waitUntil(t, time.Second, func() bool { return hub.Clients() == 1 })

	hub.broadcast <- []byte(`{"type":"a"}`)
	hub.broadcast <- []byte(`{"type":"b"}`)

	waitUntil(t, time.Second, func() bool { return hub.Clients() == 0 })

	// The first frame was queued before the send channel was closed
	msg, ok := <-slow.send
	require.True(t, ok)
	assert.Equal(t, `{"type":"a"}`, string(msg))
	_, ok = <-slow.send
	assert.False(t, ok)
}

func TestServeShutsDownWithContext(t *testing.T) {
	s := NewServer(nil, HubConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServerRejectsForeignOrigin(t *testing.T) {
	s, url := startServer(t)

	header := http.Header{}
	header.Set("Origin", "https://evil.example")
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	if conn != nil {
		conn.Close()
	}
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Zero(t, s.Hub().Clients())
}

func TestServerAcceptsLoopbackOrigin(t *testing.T) {
	_, url := startServer(t)

	header := http.Header{}
	header.Set("Origin", "http://localhost:3000")
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, "state_init", readFrame(t, conn).Type)
}

func TestCheckOrigin(t *testing.T) {
	cases := map[string]bool{
		"":                        true,
		"http://127.0.0.1:7601":   true,
		"http://localhost":        true,
		"http://[::1]:8080":       true,
		"http://status.test:7601": true, // same origin as the request host
		"https://evil.example":    false,
		"http://192.168.1.20":     false,
		"null":                    false,
	}
	for origin, want := range cases {
		t.Run(origin, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "http://status.test:7601"+Path, nil)
			if origin != "" {
				r.Header.Set("Origin", origin)
			}
			assert.Equal(t, want, checkOrigin(r))
		})
	}
}

func TestHubRejectsClientsAfterStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil, HubConfig{})
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	late := &Client{hub: hub, send: make(chan []byte, 1), remoteAddr: "late", logger: hub.logger}
	joined := make(chan bool, 1)
	go func() { joined <- hub.join(late) }()
	select {
	case ok := <-joined:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("join blocked after the hub stopped")
	}

	left := make(chan struct{})
	go func() {
		hub.leave(late)
		close(left)
	}()
	select {
	case <-left:
	case <-time.After(time.Second):
		t.Fatal("leave blocked after the hub stopped")
	}
	assert.Zero(t, hub.Clients())
}
