package cmd

import (
	"log/slog"
	"testing"

	"github.com/nextlevelbuilder/anyctl/internal/config"
)

func TestRedactConfig(t *testing.T) {
	cfg := config.Default()
	cfg.API.Key = "abcd1234efgh5678"
	cfg.Storage.EncryptionKey = "short"

	raw := redactConfig(cfg)
	api := raw["api"].(map[string]any)
	if got := api["key"]; got != "abcd****5678" {
		t.Errorf("api.key = %v", got)
	}
	if got := api["base_url"]; got != config.DefaultBaseURL {
		t.Errorf("base_url = %v", got)
	}
	storage := raw["storage"].(map[string]any)
	if got := storage["encryption_key"]; got != "****" {
		t.Errorf("encryption_key = %v", got)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"error": slog.LevelError,
		"":      slog.LevelWarn,
		"bogus": slog.LevelWarn,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
