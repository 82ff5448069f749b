package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type staticStore struct {
	token   string
	cleared bool
}

func (s *staticStore) Token() string { return s.token }
func (s *staticStore) Clear() error  { s.cleared = true; return nil }

func envelopeHandler(t *testing.T, check func(r *http.Request)) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    User{ID: "u-1", Username: "alice", Role: RoleContributor, Token: "tok"},
		})
	}
}

func TestBearerHeaderInjection(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(envelopeHandler(t, func(r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, &staticStore{token: "tok-123"})
	if _, err := client.Profile(context.Background()); err != nil {
		t.Fatalf("profile: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}

	client.ClearToken()
	if _, err := client.Profile(context.Background()); err != nil {
		t.Fatalf("profile without token: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no auth header after clear, got %q", gotAuth)
	}
}

func TestClearTokenClearsDurableRecord(t *testing.T) {
	store := &staticStore{token: "tok"}
	client := NewClient("http://localhost:0", time.Second, store)
	client.ClearToken()
	if !store.cleared {
		t.Fatalf("expected durable session record cleared")
	}
}

func TestAPIErrorCarriesStatusAndMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "withdrawal exceeds available balance",
			"code":    "INSUFFICIENT_BALANCE",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, nil)
	_, err := client.Withdraw(context.Background(), 9999, "addr")
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %T (%v)", err, err)
	}
	if apiErr.Status != http.StatusPaymentRequired {
		t.Fatalf("expected status 402, got %d", apiErr.Status)
	}
	if apiErr.Message != "withdrawal exceeds available balance" {
		t.Fatalf("unexpected message %q", apiErr.Message)
	}
	if apiErr.Code != "INSUFFICIENT_BALANCE" {
		t.Fatalf("unexpected code %q", apiErr.Code)
	}
	if apiErr.IsNetwork() {
		t.Fatalf("server error must not read as network error")
	}
}

func TestAPIErrorFallbackMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>gateway exploded</html>"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, nil)
	_, err := client.Wallet(context.Background())
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if apiErr.Status != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", apiErr.Status)
	}
	if apiErr.Message != "an error occurred" {
		t.Fatalf("expected generic fallback message, got %q", apiErr.Message)
	}
}

func TestNetworkErrorHasStatusZero(t *testing.T) {
	// A server that is immediately closed guarantees a refused connection.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(url, time.Second, nil)
	_, err := client.Nodes(context.Background())
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %T (%v)", err, err)
	}
	if apiErr.Status != 0 {
		t.Fatalf("expected status 0, got %d", apiErr.Status)
	}
	if apiErr.Code != CodeNetworkError {
		t.Fatalf("expected %s, got %q", CodeNetworkError, apiErr.Code)
	}
	if !apiErr.IsNetwork() {
		t.Fatalf("status 0 must read as network error")
	}
}

func TestJobFilterQueryOmitsUnsetKeys(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": Page[Job]{}})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, nil)
	if _, err := client.Jobs(context.Background(), JobFilter{Status: JobRunning, Page: 2}); err != nil {
		t.Fatalf("jobs: %v", err)
	}
	if gotQuery != "page=2&status=running" {
		t.Fatalf("unexpected query %q", gotQuery)
	}

	if _, err := client.Jobs(context.Background(), JobFilter{}); err != nil {
		t.Fatalf("jobs unfiltered: %v", err)
	}
	if gotQuery != "" {
		t.Fatalf("expected empty query for zero filter, got %q", gotQuery)
	}
}

func TestNotificationFilterUnreadTristate(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": Page[Notification]{}})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, nil)
	unread := false
	if _, err := client.Notifications(context.Background(), NotificationFilter{Unread: &unread}); err != nil {
		t.Fatalf("notifications: %v", err)
	}
	if gotQuery != "unread=false" {
		t.Fatalf(`expected explicit "unread=false", got %q`, gotQuery)
	}
}

func TestPageEnvelopeConsistency(t *testing.T) {
	items := make([]int, 45)
	for i := range items {
		items[i] = i
	}
	cases := []struct {
		page, limit      int
		wantLen          int
		hasNext, hasPrev bool
	}{
		{1, 20, 20, true, false},
		{2, 20, 20, true, true},
		{3, 20, 5, false, true},
		{4, 20, 0, false, true},
		{1, 50, 45, false, false},
	}
	for _, tc := range cases {
		got := NewPage(items, tc.page, tc.limit)
		if len(got.Data) != tc.wantLen {
			t.Fatalf("page %d: expected %d items, got %d", tc.page, tc.wantLen, len(got.Data))
		}
		if got.HasNext != tc.hasNext || got.HasPrev != tc.hasPrev {
			t.Fatalf("page %d: hasNext=%v hasPrev=%v", tc.page, got.HasNext, got.HasPrev)
		}
		if got.Total != len(items) {
			t.Fatalf("page %d: total %d", tc.page, got.Total)
		}
	}
}

func TestLoginSendsCredentials(t *testing.T) {
	var body map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": AuthResponse{
				User:  User{ID: "u-1", Username: "alice", Role: RoleContributor},
				Token: "tok-new",
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, nil)
	env, err := client.Login(context.Background(), "alice", "x")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if body["username"] != "alice" || body["password"] != "x" {
		t.Fatalf("unexpected body %v", body)
	}
	if env.Data.Token != "tok-new" {
		t.Fatalf("unexpected token %q", env.Data.Token)
	}
}
