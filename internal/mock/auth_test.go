package mock

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/catalystgrid/catalyst/internal/api"
)

func newTestAuthenticator(t *testing.T) *Authenticator {
	t.Helper()
	dir := t.TempDir()
	// Token verification checks exp against the wall clock, so the injected
	// clock must track real time here.
	return NewAuthenticator(
		filepath.Join(dir, "accounts.json"),
		filepath.Join(dir, "secret"),
		time.Now,
	)
}

func TestLoginProvisionsUnknownUsername(t *testing.T) {
	auth := newTestAuthenticator(t)

	user, err := auth.Login("alice", "hunter2")
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	if user.Username != "alice" || user.Role != api.RoleContributor {
		t.Fatalf("unexpected provisioned user %+v", user)
	}
	if user.Token == "" {
		t.Fatalf("login must mint a token")
	}
	if err := auth.VerifyToken(user.Token); err != nil {
		t.Fatalf("minted token must verify: %v", err)
	}

	// Same credentials keep working and map to the same account.
	again, err := auth.Login("alice", "hunter2")
	if err != nil {
		t.Fatalf("second login: %v", err)
	}
	if again.ID != user.ID {
		t.Fatalf("repeat login created a new account")
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	auth := newTestAuthenticator(t)
	if _, err := auth.Login("alice", "hunter2"); err != nil {
		t.Fatalf("provision: %v", err)
	}

	_, err := auth.Login("alice", "wrong")
	if err == nil {
		t.Fatalf("wrong password must be rejected")
	}
	apiErr := err.(*api.Error)
	if apiErr.Status != 401 || apiErr.Code != "INVALID_CREDENTIALS" {
		t.Fatalf("unexpected error %+v", apiErr)
	}
}

func TestLoginRequiresCredentials(t *testing.T) {
	auth := newTestAuthenticator(t)
	if _, err := auth.Login("", "pw"); err == nil {
		t.Fatalf("blank username must be rejected")
	}
	if _, err := auth.Login("alice", ""); err == nil {
		t.Fatalf("blank password must be rejected")
	}
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	auth := newTestAuthenticator(t)

	user, err := auth.Register(api.RegisterRequest{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "pw",
		Role:     api.RoleRequester,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != api.RoleRequester || user.Email != "bob@example.com" {
		t.Fatalf("unexpected registered user %+v", user)
	}

	_, err = auth.Register(api.RegisterRequest{Username: "Bob", Password: "other"})
	if err == nil {
		t.Fatalf("duplicate username must be rejected regardless of case")
	}
	apiErr := err.(*api.Error)
	if apiErr.Status != 409 || apiErr.Code != "USERNAME_TAKEN" {
		t.Fatalf("unexpected error %+v", apiErr)
	}
}

func TestRegisterDefaultsInvalidRole(t *testing.T) {
	auth := newTestAuthenticator(t)
	user, err := auth.Register(api.RegisterRequest{Username: "carol", Password: "pw", Role: "overlord"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != api.RoleContributor {
		t.Fatalf("invalid role must default to contributor, got %s", user.Role)
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	auth := newTestAuthenticator(t)
	if _, err := auth.Login("alice", "pw"); err != nil {
		t.Fatalf("provision: %v", err)
	}
	if err := auth.VerifyToken("not-a-jwt"); err == nil {
		t.Fatalf("garbage token must not verify")
	}
}
