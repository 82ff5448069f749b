// internal/session/store.go
//
// Session store: the current authenticated user held in memory and mirrored
// to a JSON file so it survives restarts. Storage failures degrade the store
// to memory-only for the rest of the run; they are logged, never fatal.

package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/catalystgrid/catalyst/internal/api"
)

// Reporter receives non-fatal storage diagnostics. The TUI passes its
// logbook; tests pass nil.
type Reporter interface {
	Warn(format string, args ...any)
}

// Store owns the session record. Construct one with New and pass it by
// reference to consumers; there is no package-level instance.
type Store struct {
	path     string
	reporter Reporter

	mu   sync.Mutex
	user *api.User
}

// New creates a store persisting to path. Nothing is read until Restore.
func New(path string, reporter Reporter) *Store {
	return &Store{path: path, reporter: reporter}
}

// Login records the user in memory and mirrors it to the session file.
// A user without a token or username is rejected outright.
func (s *Store) Login(user api.User) error {
	if strings.TrimSpace(user.Username) == "" || strings.TrimSpace(user.Token) == "" {
		return fmt.Errorf("session: login requires a username and token")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &user
	if err := s.write(user); err != nil {
		s.warn("session: persist failed, continuing memory-only: %v", err)
	}
	return nil
}

// Logout clears memory and removes the session file.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		s.warn("session: remove record failed: %v", err)
	}
	return nil
}

// Restore reads the session file once and loads it into memory. It returns
// nil when the file is absent, unreadable, malformed, or fails the
// token/username invariant; none of those cases surface an error.
func (s *Store) Restore() *api.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.warn("session: read record failed: %v", err)
		}
		return nil
	}

	var user api.User
	if err := json.Unmarshal(data, &user); err != nil {
		s.warn("session: malformed record treated as logged out: %v", err)
		return nil
	}
	if strings.TrimSpace(user.Username) == "" || strings.TrimSpace(user.Token) == "" {
		s.warn("session: record missing username or token, treated as logged out")
		return nil
	}

	s.user = &user
	copied := user
	return &copied
}

// Current returns a copy of the in-memory user, or nil when logged out.
func (s *Store) Current() *api.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	copied := *s.user
	return &copied
}

// Token returns the current bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return ""
	}
	return s.user.Token
}

// Clear satisfies the request client's TokenStore: dropping the client token
// also clears the durable session record.
func (s *Store) Clear() error {
	return s.Logout()
}

func (s *Store) write(user api.User) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(user, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

func (s *Store) warn(format string, args ...any) {
	if s.reporter != nil {
		s.reporter.Warn(format, args...)
	}
}
