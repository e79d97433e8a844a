package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json5"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.API.BaseURL, DefaultBaseURL)
	}
	if cfg.Pairing.PollInterval.Std() != DefaultPollInterval {
		t.Errorf("PollInterval = %v", cfg.Pairing.PollInterval.Std())
	}
	if cfg.Storage.Driver != "sqlite" {
		t.Errorf("Driver = %q", cfg.Storage.Driver)
	}
}

func TestLoad_JSON5File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json5")
	raw := `{
  // local override
  api: {base_url: "http://localhost:9999/v1/", key: " abc ", requests_per_minute: 30},
  storage: {driver: "memory", use_keyring: false},
  pairing: {poll_interval: "250ms", settle_delay: 0},
}`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:9999/v1" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Key != "abc" {
		t.Errorf("Key = %q", cfg.API.Key)
	}
	if cfg.API.RequestsPerMinute != 30 {
		t.Errorf("RequestsPerMinute = %d", cfg.API.RequestsPerMinute)
	}
	if cfg.Storage.Driver != "memory" || cfg.Storage.UseKeyring {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Pairing.PollInterval.Std() != 250*time.Millisecond {
		t.Errorf("PollInterval = %v", cfg.Pairing.PollInterval.Std())
	}
	if cfg.Pairing.SettleDelay.Std() != 0 {
		t.Errorf("SettleDelay = %v", cfg.Pairing.SettleDelay.Std())
	}
	if cfg.API.AppName != DefaultAppName {
		t.Errorf("AppName = %q", cfg.API.AppName)
	}
}

func TestLoad_InvalidDriver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json5")
	if err := os.WriteFile(path, []byte(`{storage: {driver: "redis"}}`), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "storage.driver") {
		t.Fatalf("expected driver error, got %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"ANYCTL_API_KEY":     "from-env",
		"ANYCTL_USE_KEYRING": "false",
		"ANYCTL_BASE_URL":    "",
	}
	cfg := Default()
	cfg.applyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	if cfg.API.Key != "from-env" {
		t.Errorf("Key = %q", cfg.API.Key)
	}
	if cfg.Storage.UseKeyring {
		t.Error("UseKeyring should be false")
	}
	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("empty env value must not override BaseURL, got %q", cfg.API.BaseURL)
	}
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{`"1s"`, time.Second, false},
		{`'500ms'`, 500 * time.Millisecond, false},
		{`1500`, 1500 * time.Millisecond, false},
		{`null`, 0, false},
		{`"soon"`, 0, true},
	}
	for _, tt := range tests {
		var d Duration
		err := d.UnmarshalJSON([]byte(tt.in))
		if (err != nil) != tt.wantErr {
			t.Errorf("UnmarshalJSON(%s) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if d.Std() != tt.want {
			t.Errorf("UnmarshalJSON(%s) = %v, want %v", tt.in, d.Std(), tt.want)
		}
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}
	if got := ExpandHome("~/x"); got != filepath.Join(home, "x") {
		t.Errorf("ExpandHome(~/x) = %q", got)
	}
	if got := ExpandHome("/abs"); got != "/abs" {
		t.Errorf("ExpandHome(/abs) = %q", got)
	}
}
