/*
Package config manages TOML config for the weather client and proxy.
*/
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Client  ClientConfig  `toml:"client"`
	Server  ServerConfig  `toml:"server"`
	History HistoryConfig `toml:"history"`
}

// ClientConfig has options for the interactive client.
type ClientConfig struct {
	ProxyURL         string `toml:"proxy_url"`
	Units            string `toml:"units"`
	SuggestionLimit  int    `toml:"suggestion_limit"`
	DebounceMs       int    `toml:"debounce_ms"`
	RequestTimeoutMs int    `toml:"request_timeout_ms"`
}

// ServerConfig has options for the key-hiding proxy.
type ServerConfig struct {
	ListenAddr       string `toml:"listen_addr"`
	UpstreamURL      string `toml:"upstream_url"`
	RequestTimeoutMs int    `toml:"request_timeout_ms"`
}

// HistoryConfig holds recent-selection storage options.
type HistoryConfig struct {
	MaxEntries int `toml:"max_entries"`
}

// Debounce returns the typing quiet window as a duration.
func (c ClientConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// RequestTimeout returns the client HTTP timeout as a duration.
func (c ClientConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMs) * time.Millisecond
}

// RequestTimeout returns the upstream HTTP timeout as a duration.
func (s ServerConfig) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutMs) * time.Millisecond
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Client: ClientConfig{
			ProxyURL:         "http://127.0.0.1:8036",
			Units:            "metric",
			SuggestionLimit:  5,
			DebounceMs:       300,
			RequestTimeoutMs: 8000,
		},
		Server: ServerConfig{
			ListenAddr:       ":8036",
			UpstreamURL:      "https://api.openweathermap.org",
			RequestTimeoutMs: 10000,
		},
		History: HistoryConfig{
			MaxEntries: 50,
		},
	}
}

// Normalize clamps values a hand-edited file may have pushed out of
// range. The geocoding API caps candidates at five per query.
func (c *Config) Normalize() {
	def := DefaultConfig()

	if c.Client.Units != "metric" && c.Client.Units != "imperial" {
		log.Warnf("Unknown units %q, using %q", c.Client.Units, def.Client.Units)
		c.Client.Units = def.Client.Units
	}
	if c.Client.SuggestionLimit < 1 || c.Client.SuggestionLimit > 5 {
		c.Client.SuggestionLimit = def.Client.SuggestionLimit
	}
	if c.Client.DebounceMs < 0 || c.Client.DebounceMs > 5000 {
		c.Client.DebounceMs = def.Client.DebounceMs
	}
	if c.Client.RequestTimeoutMs < 1000 {
		c.Client.RequestTimeoutMs = def.Client.RequestTimeoutMs
	}
	if c.Server.RequestTimeoutMs < 1000 {
		c.Server.RequestTimeoutMs = def.Server.RequestTimeoutMs
	}
	if c.History.MaxEntries < 1 {
		c.History.MaxEntries = def.History.MaxEntries
	}
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from -config flag
// 2. Default path: [UserConfigDir]/weatherapp/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := ensureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !fileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file. A file that does not fully decode
// falls back to per-section recovery, keeping whatever parses.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := loadTOMLFile(configPath, config); err != nil {
		recovered, rerr := tryPartialParse(configPath)
		if rerr != nil {
			return nil, rerr
		}
		recovered.Normalize()
		return recovered, nil
	}
	config.Normalize()
	return config, nil
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return saveTOMLFile(config, configPath)
}
