// internal/mock/auth.go
//
// Offline demo authentication. There is no backend, so accounts live in a
// JSON registry under .catalyst/ with bcrypt password hashes, and tokens are
// HS256 JWTs signed with a per-install secret. First login with an unknown
// username provisions a demo account on the spot, preserving the original
// demo behavior where any credentials succeed.

package mock

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/catalystgrid/catalyst/internal/api"
)

const tokenTTL = 24 * time.Hour

type account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	Role         api.Role  `json:"role"`
	PasswordHash string    `json:"passwordHash"`
	JoinedAt     time.Time `json:"joinedAt"`
	Level        int       `json:"level"`
	Experience   int       `json:"experience"`
}

// Authenticator verifies demo credentials and mints session tokens.
type Authenticator struct {
	accountsPath string
	secretPath   string
	now          func() time.Time
}

// NewAuthenticator builds one over the given registry and secret locations.
// nowFn may be nil, defaulting to time.Now; tests inject a fixed clock.
func NewAuthenticator(accountsPath, secretPath string, nowFn func() time.Time) *Authenticator {
	if nowFn == nil {
		nowFn = time.Now
	}
	return &Authenticator{accountsPath: accountsPath, secretPath: secretPath, now: nowFn}
}

// Login authenticates username/password. Unknown usernames are provisioned
// as contributor demo accounts; a wrong password on an existing account is
// rejected with a 401-shaped API error.
func (a *Authenticator) Login(username, password string) (api.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return api.User{}, &api.Error{
			Status:  400,
			Code:    "INVALID_CREDENTIALS",
			Message: "username and password are required",
		}
	}

	accounts, err := a.loadAccounts()
	if err != nil {
		return api.User{}, err
	}

	acct, ok := accounts[strings.ToLower(username)]
	if !ok {
		provisioned, err := a.provision(accounts, api.RegisterRequest{
			Username: username,
			Password: password,
			Role:     api.RoleContributor,
		})
		if err != nil {
			return api.User{}, err
		}
		acct = provisioned
	} else if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return api.User{}, &api.Error{
			Status:  401,
			Code:    "INVALID_CREDENTIALS",
			Message: "incorrect password",
		}
	}

	return a.userWithToken(acct)
}

// Register creates an account explicitly, rejecting duplicates.
func (a *Authenticator) Register(req api.RegisterRequest) (api.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return api.User{}, &api.Error{
			Status:  400,
			Code:    "INVALID_CREDENTIALS",
			Message: "username and password are required",
		}
	}
	if !req.Role.Valid() {
		req.Role = api.RoleContributor
	}

	accounts, err := a.loadAccounts()
	if err != nil {
		return api.User{}, err
	}
	if _, exists := accounts[strings.ToLower(req.Username)]; exists {
		return api.User{}, &api.Error{
			Status:  409,
			Code:    "USERNAME_TAKEN",
			Message: fmt.Sprintf("username %q is already registered", req.Username),
		}
	}

	acct, err := a.provision(accounts, req)
	if err != nil {
		return api.User{}, err
	}
	return a.userWithToken(acct)
}

// VerifyToken parses and validates a token this install minted.
func (a *Authenticator) VerifyToken(tokenString string) error {
	secret, err := a.loadSecret()
	if err != nil {
		return err
	}
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return fmt.Errorf("mock: invalid token")
	}
	return nil
}

func (a *Authenticator) provision(accounts map[string]account, req api.RegisterRequest) (account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return account{}, fmt.Errorf("mock: hash password: %w", err)
	}
	acct := account{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        strings.TrimSpace(req.Email),
		Role:         req.Role,
		PasswordHash: string(hash),
		JoinedAt:     a.now(),
		Level:        1,
	}
	accounts[strings.ToLower(acct.Username)] = acct
	if err := a.saveAccounts(accounts); err != nil {
		return account{}, err
	}
	return acct, nil
}

func (a *Authenticator) userWithToken(acct account) (api.User, error) {
	token, err := a.mintToken(acct)
	if err != nil {
		return api.User{}, err
	}
	return api.User{
		ID:         acct.ID,
		Username:   acct.Username,
		Email:      acct.Email,
		Role:       acct.Role,
		Token:      token,
		JoinedAt:   acct.JoinedAt,
		Level:      acct.Level,
		Experience: acct.Experience,
	}, nil
}

func (a *Authenticator) mintToken(acct account) (string, error) {
	secret, err := a.loadSecret()
	if err != nil {
		return "", err
	}
	now := a.now()
	claims := jwt.MapClaims{
		"sub":      acct.ID,
		"username": acct.Username,
		"role":     string(acct.Role),
		"iat":      now.Unix(),
		"exp":      now.Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("mock: sign token: %w", err)
	}
	return signed, nil
}

// loadSecret reads the per-install signing secret, generating it on first
// use.
func (a *Authenticator) loadSecret() ([]byte, error) {
	if data, err := os.ReadFile(a.secretPath); err == nil && len(data) >= 32 {
		return data, nil
	}
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("mock: generate secret: %w", err)
	}
	secret := []byte(hex.EncodeToString(raw))
	if err := os.MkdirAll(filepath.Dir(a.secretPath), 0o755); err != nil {
		return nil, fmt.Errorf("mock: ensure secret dir: %w", err)
	}
	if err := os.WriteFile(a.secretPath, secret, 0o600); err != nil {
		return nil, fmt.Errorf("mock: write secret: %w", err)
	}
	return secret, nil
}

func (a *Authenticator) loadAccounts() (map[string]account, error) {
	accounts := map[string]account{}
	data, err := os.ReadFile(a.accountsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return accounts, nil
		}
		return nil, fmt.Errorf("mock: read accounts: %w", err)
	}
	if err := json.Unmarshal(data, &accounts); err != nil {
		// A corrupt registry means the demo accounts are gone, not that the
		// client is broken. Start fresh.
		return map[string]account{}, nil
	}
	return accounts, nil
}

func (a *Authenticator) saveAccounts(accounts map[string]account) error {
	if err := os.MkdirAll(filepath.Dir(a.accountsPath), 0o755); err != nil {
		return fmt.Errorf("mock: ensure accounts dir: %w", err)
	}
	data, err := json.MarshalIndent(accounts, "", "  ")
	if err != nil {
		return fmt.Errorf("mock: encode accounts: %w", err)
	}
	if err := os.WriteFile(a.accountsPath, data, 0o600); err != nil {
		return fmt.Errorf("mock: write accounts: %w", err)
	}
	return nil
}
