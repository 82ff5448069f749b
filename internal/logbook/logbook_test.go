package logbook

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestLogbook(t *testing.T) *Logbook {
	t.Helper()
	lb, err := New(filepath.Join(t.TempDir(), "logs", "catalyst.log"))
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	t.Cleanup(func() { lb.Close() })
	return lb
}

func TestAppendAndTail(t *testing.T) {
	lb := newTestLogbook(t)
	lb.Info("session restored for %s", "alice")
	lb.Warn("websocket reconnect %d", 2)
	lb.Error("withdrawal rejected")

	lines := lb.Tail(10)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "INFO") || !strings.Contains(lines[0], "session restored for alice") {
		t.Fatalf("unexpected first line %q", lines[0])
	}
	if !strings.Contains(lines[2], "ERROR") {
		t.Fatalf("unexpected last line %q", lines[2])
	}
}

func TestTailReturnsMostRecent(t *testing.T) {
	lb := newTestLogbook(t)
	for i := 0; i < 10; i++ {
		lb.Info("entry %d", i)
	}
	lines := lb.Tail(4)
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "entry 6") || !strings.Contains(lines[3], "entry 9") {
		t.Fatalf("tail window wrong: %v", lines)
	}
}

func TestTailZeroAndMissing(t *testing.T) {
	lb := newTestLogbook(t)
	lb.Info("one")
	if got := lb.Tail(0); got != nil {
		t.Fatalf("tail(0) should be nil, got %v", got)
	}

	os.Remove(lb.Path())
	if got := lb.Tail(5); got != nil {
		t.Fatalf("tail of a removed file should be nil, got %v", got)
	}
}

func TestNilLogbookIsSafe(t *testing.T) {
	var lb *Logbook
	lb.Info("no-op")
	lb.Append(LevelWarn, "no-op")
	if got := lb.Tail(3); got != nil {
		t.Fatalf("nil tail should be nil")
	}
	if lb.Path() != "" {
		t.Fatalf("nil path should be empty")
	}
	if err := lb.Close(); err != nil {
		t.Fatalf("nil close: %v", err)
	}
}

func TestEntriesPersistAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalyst.log")
	lb, err := New(path)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	lb.Info("first run")
	lb.Close()

	lb, err = New(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer lb.Close()
	lb.Info("second run")

	lines := lb.Tail(10)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines across runs, got %d", len(lines))
	}
}
