// internal/realtime/stream.go
//
// Client side of the notification push channel. Dials the configured
// websocket URL, decodes Notification frames onto a channel, and reconnects
// with a fixed interval up to a capped attempt count. The server side is out
// of scope for this repository; the stream only runs when the realtime
// feature flag is enabled and a server is reachable.

package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/catalystgrid/catalyst/internal/api"
)

// Reporter receives connection diagnostics (the TUI logbook).
type Reporter interface {
	Warn(format string, args ...any)
	Info(format string, args ...any)
}

// Stream is a reconnecting notification subscription.
type Stream struct {
	url           string
	reconnect     time.Duration
	maxReconnects int
	reporter      Reporter

	notifications chan api.Notification
	cancel        context.CancelFunc
	done          chan struct{}
}

// New builds a stream; nothing connects until Start.
func New(url string, reconnect time.Duration, maxReconnects int, reporter Reporter) *Stream {
	return &Stream{
		url:           url,
		reconnect:     reconnect,
		maxReconnects: maxReconnects,
		reporter:      reporter,
		notifications: make(chan api.Notification, 16),
		done:          make(chan struct{}),
	}
}

// Notifications is the channel decoded frames arrive on. It is closed when
// the stream gives up or is closed.
func (s *Stream) Notifications() <-chan api.Notification {
	return s.notifications
}

// Start launches the read loop. The bearer token is sent as a header on each
// dial so the server can associate the subscription with the session.
func (s *Stream) Start(token string) {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.run(ctx, token)
}

// Close stops the loop and waits for it to exit.
func (s *Stream) Close() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

func (s *Stream) run(ctx context.Context, token string) {
	defer close(s.done)
	defer close(s.notifications)

	attempts := 0
	for {
		if ctx.Err() != nil {
			return
		}
		conn, err := s.dial(ctx, token)
		if err != nil {
			attempts++
			if attempts > s.maxReconnects {
				s.warn("realtime: giving up after %d attempts: %v", attempts-1, err)
				return
			}
			s.warn("realtime: dial failed (attempt %d/%d): %v", attempts, s.maxReconnects, err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.reconnect):
				continue
			}
		}

		attempts = 0
		s.info("realtime: connected to %s", s.url)
		s.readUntilClosed(ctx, conn)
	}
}

func (s *Stream) dial(ctx context.Context, token string) (*websocket.Conn, error) {
	header := map[string][]string{}
	if token != "" {
		header["Authorization"] = []string{"Bearer " + token}
	}
	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, s.url, header)
	return conn, err
}

func (s *Stream) readUntilClosed(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()

	// Unblock the reader when the stream is cancelled. The watcher is tied
	// to this connection, not the stream, so reconnect cycles don't pile up
	// goroutines.
	readDone := make(chan struct{})
	defer close(readDone)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-readDone:
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				s.warn("realtime: connection lost: %v", err)
			}
			return
		}
		var n api.Notification
		if err := json.Unmarshal(raw, &n); err != nil {
			s.warn("realtime: dropping malformed frame: %v", err)
			continue
		}
		select {
		case s.notifications <- n:
		case <-ctx.Done():
			return
		}
	}
}

func (s *Stream) warn(format string, args ...any) {
	if s.reporter != nil {
		s.reporter.Warn(format, args...)
	}
}

func (s *Stream) info(format string, args ...any) {
	if s.reporter != nil {
		s.reporter.Info(format, args...)
	}
}
