package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Client.Units != "metric" {
		t.Errorf("Expected metric default, got %q", cfg.Client.Units)
	}
	if cfg.Client.SuggestionLimit != 5 {
		t.Errorf("Expected suggestion limit 5, got %d", cfg.Client.SuggestionLimit)
	}
	if cfg.Client.DebounceMs != 300 {
		t.Errorf("Expected debounce 300ms, got %d", cfg.Client.DebounceMs)
	}
	if cfg.Server.UpstreamURL == "" {
		t.Error("Default upstream URL missing")
	}
	if cfg.History.MaxEntries != 50 {
		t.Errorf("Expected 50 history entries, got %d", cfg.History.MaxEntries)
	}
}

// first run creates the file with defaults, second run reads it back
func TestInitConfigCreatesAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := InitConfig(path)
	if err != nil {
		t.Fatalf("InitConfig failed: %v", err)
	}
	if cfg.Client.SuggestionLimit != 5 {
		t.Errorf("Fresh config should carry defaults, got limit %d", cfg.Client.SuggestionLimit)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Config file was not created: %v", err)
	}

	again, err := InitConfig(path)
	if err != nil {
		t.Fatalf("Second InitConfig failed: %v", err)
	}
	if *again != *cfg {
		t.Errorf("Reloaded config differs: %+v vs %+v", again, cfg)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[client]
proxy_url = "http://10.0.0.2:9000"
units = "imperial"
suggestion_limit = 3
debounce_ms = 150
request_timeout_ms = 4000

[history]
max_entries = 10
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Client.ProxyURL != "http://10.0.0.2:9000" {
		t.Errorf("proxy_url not applied: %q", cfg.Client.ProxyURL)
	}
	if cfg.Client.Units != "imperial" || cfg.Client.SuggestionLimit != 3 {
		t.Errorf("Client overrides not applied: %+v", cfg.Client)
	}
	if cfg.History.MaxEntries != 10 {
		t.Errorf("History override not applied: %d", cfg.History.MaxEntries)
	}
	// untouched section keeps defaults
	if cfg.Server.ListenAddr != ":8036" {
		t.Errorf("Server defaults lost: %+v", cfg.Server)
	}
}

// a file with a type mismatch keeps the sections that still parse
func TestLoadConfigPartialRecovery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[client]
units = 12345
debounce_ms = 150

[history]
max_entries = 10
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	// the broken key falls back, the valid keys survive
	if cfg.Client.Units != "metric" {
		t.Errorf("Expected units fallback to metric, got %q", cfg.Client.Units)
	}
	if cfg.Client.DebounceMs != 150 {
		t.Errorf("Expected recovered debounce 150, got %d", cfg.Client.DebounceMs)
	}
	if cfg.History.MaxEntries != 10 {
		t.Errorf("Expected recovered max_entries 10, got %d", cfg.History.MaxEntries)
	}
}

func TestNormalizeClamps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Client.Units = "kelvin"
	cfg.Client.SuggestionLimit = 50
	cfg.Client.DebounceMs = -10
	cfg.Client.RequestTimeoutMs = 5
	cfg.History.MaxEntries = 0

	cfg.Normalize()

	if cfg.Client.Units != "metric" {
		t.Errorf("Units not clamped: %q", cfg.Client.Units)
	}
	if cfg.Client.SuggestionLimit != 5 {
		t.Errorf("Suggestion limit not clamped: %d", cfg.Client.SuggestionLimit)
	}
	if cfg.Client.DebounceMs != 300 {
		t.Errorf("Debounce not clamped: %d", cfg.Client.DebounceMs)
	}
	if cfg.Client.RequestTimeoutMs != 8000 {
		t.Errorf("Timeout not clamped: %d", cfg.Client.RequestTimeoutMs)
	}
	if cfg.History.MaxEntries != 50 {
		t.Errorf("History max not clamped: %d", cfg.History.MaxEntries)
	}
}
