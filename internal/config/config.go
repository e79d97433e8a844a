// Package config loads the anyctl configuration file.
//
// The file is JSON5 (comments and trailing commas allowed) and lives at
// ~/.anyctl/config.json5 unless overridden by --config or ANYCTL_CONFIG.
// Missing files are not an error; defaults apply.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/titanous/json5"
)

const (
	// DefaultBaseURL is the local Anytype API endpoint.
	DefaultBaseURL = "http://localhost:31009/v1"
	// DefaultGatewayURL serves file icons and images.
	DefaultGatewayURL = "http://127.0.0.1:31006"
	// DefaultAppName identifies this client when requesting a pairing challenge.
	DefaultAppName = "anyctl"

	DefaultPollInterval = 1 * time.Second
	DefaultSettleDelay  = 2 * time.Second

	envPrefix = "ANYCTL_"
)

// Config is the root configuration. It is passed explicitly to the
// components that need it; nothing reads it through a global.
type Config struct {
	API     APIConfig     `json:"api"`
	Storage StorageConfig `json:"storage"`
	Pairing PairingConfig `json:"pairing"`
	Log     LogConfig     `json:"log"`
}

type APIConfig struct {
	BaseURL    string `json:"base_url,omitempty"`
	GatewayURL string `json:"gateway_url,omitempty"`
	// Key, when set, takes precedence over the paired key in storage.
	Key               string `json:"key,omitempty"`
	AppName           string `json:"app_name,omitempty"`
	RequestsPerMinute int    `json:"requests_per_minute,omitempty"` // 0 = unthrottled
}

type StorageConfig struct {
	DataDir       string `json:"data_dir,omitempty"`
	Driver        string `json:"driver,omitempty"` // "sqlite" (default) or "memory"
	EncryptionKey string `json:"encryption_key,omitempty"`
	UseKeyring    bool   `json:"use_keyring"`
}

type PairingConfig struct {
	PollInterval Duration `json:"poll_interval,omitempty"`
	SettleDelay  Duration `json:"settle_delay,omitempty"`
}

type LogConfig struct {
	Level string `json:"level,omitempty"` // debug, info, warn, error
}

// Duration accepts either a Go duration string ("1s") or a number of milliseconds.
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(time.Duration(d).String())), nil
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		return nil
	}
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		unq := s[1 : len(s)-1]
		v, err := time.ParseDuration(unq)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", unq, err)
		}
		*d = Duration(v)
		return nil
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid duration %s", s)
	}
	*d = Duration(time.Duration(ms) * time.Millisecond)
	return nil
}

// Default returns a config with every field populated.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:    DefaultBaseURL,
			GatewayURL: DefaultGatewayURL,
			AppName:    DefaultAppName,
		},
		Storage: StorageConfig{
			DataDir:    "~/.anyctl",
			Driver:     "sqlite",
			UseKeyring: true,
		},
		Pairing: PairingConfig{
			PollInterval: Duration(DefaultPollInterval),
			SettleDelay:  Duration(DefaultSettleDelay),
		},
		Log: LogConfig{Level: "warn"},
	}
}

// DefaultPath returns ~/.anyctl/config.json5.
func DefaultPath() string {
	return ExpandHome("~/.anyctl/config.json5")
}

// Load reads the config at path, fills defaults and applies ANYCTL_* env overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json5.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// defaults only
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cfg.applyEnv(os.LookupEnv)
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("api.base_url must be an http(s) URL, got %q", c.API.BaseURL)
	}
	switch c.Storage.Driver {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("storage.driver must be sqlite or memory, got %q", c.Storage.Driver)
	}
	if c.API.RequestsPerMinute < 0 {
		return fmt.Errorf("api.requests_per_minute must not be negative")
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	str := func(name string, dst *string) {
		if v, ok := lookup(envPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	str("BASE_URL", &c.API.BaseURL)
	str("GATEWAY_URL", &c.API.GatewayURL)
	str("API_KEY", &c.API.Key)
	str("DATA_DIR", &c.Storage.DataDir)
	str("STORAGE_DRIVER", &c.Storage.Driver)
	str("ENCRYPTION_KEY", &c.Storage.EncryptionKey)
	str("LOG_LEVEL", &c.Log.Level)

	if v, ok := lookup(envPrefix + "USE_KEYRING"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Storage.UseKeyring = b
		}
	}
}

func (c *Config) normalize() {
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	c.API.GatewayURL = strings.TrimRight(strings.TrimSpace(c.API.GatewayURL), "/")
	c.API.Key = strings.TrimSpace(c.API.Key)
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.GatewayURL == "" {
		c.API.GatewayURL = DefaultGatewayURL
	}
	if c.API.AppName == "" {
		c.API.AppName = DefaultAppName
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "sqlite"
	}
	if c.Pairing.PollInterval <= 0 {
		c.Pairing.PollInterval = Duration(DefaultPollInterval)
	}
	if c.Pairing.SettleDelay < 0 {
		c.Pairing.SettleDelay = 0
	}
	c.Storage.DataDir = ExpandHome(c.Storage.DataDir)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
