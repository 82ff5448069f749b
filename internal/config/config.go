// internal/config/config.go
//
// This package handles configuration and the .catalyst directory structure.
// Every install gets a .catalyst/ folder (session record, demo accounts,
// logs). Runtime settings come from the environment, read once at startup;
// a .env file is honored without overwriting variables that are already set.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// CatalystDir is the name of the data directory we create.
	CatalystDir = ".catalyst"

	defaultAPIBaseURL = "http://localhost:8000/api"
	defaultAPITimeout = 30 * time.Second
	defaultAPIRetries = 3

	defaultWSURL           = "ws://localhost:8000/ws"
	defaultWSReconnect     = 5 * time.Second
	defaultWSMaxReconnects = 10
)

// Features holds the boolean feature flags. All default to off.
type Features struct {
	RealtimeUpdates bool
	Notifications   bool
	Analytics       bool
}

// Config holds the runtime configuration for the Catalyst client.
type Config struct {
	// HomeDir is where the .catalyst data directory lives. Defaults to the
	// user's home directory, overridable with CATALYST_HOME.
	HomeDir string

	// CatalystDataDir is HomeDir/.catalyst
	CatalystDataDir string

	APIBaseURL string
	APITimeout time.Duration
	APIRetries int

	WSURL           string
	WSReconnect     time.Duration
	WSMaxReconnects int

	Features Features
}

// InitCatalystDir creates the .catalyst directory structure under baseDir.
// This is called when the TUI starts up.
//
// Structure created:
// .catalyst/
// ├── logs/      <- Activity log consumed by the TUI log panel
// └── accounts/  <- Demo account records (bcrypt password hashes)
//
// The session record lives at .catalyst/session.json.
func InitCatalystDir(baseDir string) error {
	dataDir := filepath.Join(baseDir, CatalystDir)
	dirs := []string{
		filepath.Join(dataDir, "logs"),
		filepath.Join(dataDir, "accounts"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: ensure %s: %w", dir, err)
		}
	}
	return nil
}

// Load reads the environment (after merging a .env file, if present) and
// returns the resolved configuration. Unset or unparseable values fall back
// to their documented defaults.
func Load() (*Config, error) {
	// Merge .env without clobbering variables the caller already exported.
	if envMap, err := godotenv.Read(); err == nil {
		for k, v := range envMap {
			if os.Getenv(k) == "" {
				os.Setenv(k, v)
			}
		}
	}

	home := strings.TrimSpace(os.Getenv("CATALYST_HOME"))
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("config: resolve home directory: %w", err)
		}
	}

	cfg := &Config{
		HomeDir:         home,
		CatalystDataDir: filepath.Join(home, CatalystDir),
		APIBaseURL:      envString("CATALYST_API_URL", defaultAPIBaseURL),
		APITimeout:      envDuration("CATALYST_API_TIMEOUT", defaultAPITimeout),
		APIRetries:      envInt("CATALYST_API_RETRIES", defaultAPIRetries),
		WSURL:           envString("CATALYST_WS_URL", defaultWSURL),
		WSReconnect:     envDuration("CATALYST_WS_RECONNECT", defaultWSReconnect),
		WSMaxReconnects: envInt("CATALYST_WS_MAX_RECONNECTS", defaultWSMaxReconnects),
		Features: Features{
			RealtimeUpdates: envBool("CATALYST_ENABLE_REALTIME"),
			Notifications:   envBool("CATALYST_ENABLE_NOTIFICATIONS"),
			Analytics:       envBool("CATALYST_ENABLE_ANALYTICS"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// SessionPath returns the on-disk location of the session record.
func (c *Config) SessionPath() string {
	return filepath.Join(c.CatalystDataDir, "session.json")
}

// AccountsPath returns the on-disk location of the demo account registry.
func (c *Config) AccountsPath() string {
	return filepath.Join(c.CatalystDataDir, "accounts", "accounts.json")
}

// SecretPath returns the file holding the per-install token signing secret.
func (c *Config) SecretPath() string {
	return filepath.Join(c.CatalystDataDir, "accounts", "secret")
}

// LogsDir returns the path to the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.CatalystDataDir, "logs")
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return fmt.Errorf("api base url is required")
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("api timeout must be positive")
	}
	if c.APIRetries < 0 {
		return fmt.Errorf("api retries must be >= 0")
	}
	if c.WSReconnect <= 0 {
		return fmt.Errorf("ws reconnect interval must be positive")
	}
	if c.WSMaxReconnects < 0 {
		return fmt.Errorf("ws max reconnects must be >= 0")
	}
	return nil
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// envDuration accepts Go duration syntax ("30s") or bare milliseconds
// ("30000"), matching the numeric form the web client used.
func envDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if ms, err := strconv.Atoi(raw); err == nil && ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}

func envInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
		return n
	}
	return fallback
}

func envBool(key string) bool {
	return strings.EqualFold(strings.TrimSpace(os.Getenv(key)), "true")
}
