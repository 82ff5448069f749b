package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/catalystgrid/catalyst/internal/api"
)

var upgrader = websocket.Upgrader{}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestStreamDeliversNotifications(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		frame, _ := json.Marshal(api.Notification{
			ID:    "n-1",
			Type:  api.NotifJob,
			Title: "Job completed",
		})
		conn.WriteMessage(websocket.TextMessage, frame)

		// Hold the connection open until the client hangs up.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	stream := New(wsURL(srv), 50*time.Millisecond, 3, nil)
	stream.Start("tok-123")
	defer stream.Close()

	select {
	case n := <-stream.Notifications():
		if n.ID != "n-1" || n.Title != "Job completed" {
			t.Fatalf("unexpected notification %+v", n)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for notification")
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("expected bearer header on dial, got %q", gotAuth)
	}
}

func TestStreamDropsMalformedFrames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conn.WriteMessage(websocket.TextMessage, []byte("{not json"))
		frame, _ := json.Marshal(api.Notification{ID: "n-2", Title: "After garbage"})
		conn.WriteMessage(websocket.TextMessage, frame)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	stream := New(wsURL(srv), 50*time.Millisecond, 3, nil)
	stream.Start("")
	defer stream.Close()

	select {
	case n := <-stream.Notifications():
		if n.ID != "n-2" {
			t.Fatalf("expected the valid frame, got %+v", n)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for notification")
	}
}

func TestStreamGivesUpAfterMaxReconnects(t *testing.T) {
	// Closed server: every dial is refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := wsURL(srv)
	srv.Close()

	stream := New(url, 10*time.Millisecond, 2, nil)
	stream.Start("")

	select {
	case _, ok := <-stream.Notifications():
		if ok {
			t.Fatalf("no notification should arrive from a dead server")
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("stream did not give up")
	}
}

func TestReconnectCyclesDoNotAccumulateGoroutines(t *testing.T) {
	// Each accepted connection is dropped immediately, forcing the client
	// through many connect/read-fail cycles.
	var conns atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conns.Add(1)
		conn.Close()
	}))
	defer srv.Close()

	before := runtime.NumGoroutine()
	stream := New(wsURL(srv), 10*time.Millisecond, 1000, nil)
	stream.Start("")
	defer stream.Close()

	deadline := time.Now().Add(10 * time.Second)
	for conns.Load() < 20 {
		if time.Now().After(deadline) {
			t.Fatalf("server saw only %d connections", conns.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}

	// The connection watcher must die with its connection; allow headroom
	// for the live cycle and server churn.
	if during := runtime.NumGoroutine(); during > before+10 {
		t.Fatalf("goroutines grew from %d to %d across reconnect cycles", before, during)
	}
}

func TestCloseBeforeStartIsSafe(t *testing.T) {
	stream := New("ws://localhost:0", time.Second, 1, nil)
	stream.Close()
}
