package config

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// tryPartialParse re-reads a config file that failed to decode into the
// struct and salvages the sections that still parse as generic TOML.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	tempConfig := make(map[string]any)
	if _, err := toml.Decode(string(data), &tempConfig); err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := extractSection(tempConfig, "client"); ok {
		extractClientConfig(section, &config.Client)
	}
	if section, ok := extractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := extractSection(tempConfig, "history"); ok {
		extractHistoryConfig(section, &config.History)
	}
	return config, nil
}

// extractClientConfig extracts client configuration from a map
func extractClientConfig(data map[string]any, client *ClientConfig) {
	if val, ok := extractString(data, "proxy_url"); ok {
		client.ProxyURL = val
	}
	if val, ok := extractString(data, "units"); ok {
		client.Units = val
	}
	if val, ok := extractInt64(data, "suggestion_limit"); ok {
		client.SuggestionLimit = val
	}
	if val, ok := extractInt64(data, "debounce_ms"); ok {
		client.DebounceMs = val
	}
	if val, ok := extractInt64(data, "request_timeout_ms"); ok {
		client.RequestTimeoutMs = val
	}
}

// extractServerConfig extracts proxy configuration from a map
func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := extractString(data, "listen_addr"); ok {
		server.ListenAddr = val
	}
	if val, ok := extractString(data, "upstream_url"); ok {
		server.UpstreamURL = val
	}
	if val, ok := extractInt64(data, "request_timeout_ms"); ok {
		server.RequestTimeoutMs = val
	}
}

// extractHistoryConfig extracts history configuration from a map
func extractHistoryConfig(data map[string]any, history *HistoryConfig) {
	if val, ok := extractInt64(data, "max_entries"); ok {
		history.MaxEntries = val
	}
}

// extractSection extracts a specific section from parsed TOML data
func extractSection(data map[string]any, sectionName string) (map[string]any, bool) {
	section, ok := data[sectionName].(map[string]any)
	return section, ok
}

// extractInt64 safely extracts an int64 value from a map
func extractInt64(data map[string]any, key string) (int, bool) {
	if val, ok := data[key].(int64); ok {
		return int(val), true
	}
	return 0, false
}

// extractString safely extracts a string value from a map
func extractString(data map[string]any, key string) (string, bool) {
	if val, ok := data[key].(string); ok {
		return val, true
	}
	return "", false
}
