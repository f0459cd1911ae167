// Copyright 2025 Daiga Tahkapaa. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the weather client, a terminal application for
looking up a place and reading its current conditions and forecast.

The client talks to a small companion proxy (see cmd/weatherproxy) that
holds the OpenWeather API key, so no credentials ever live on the client
side. Typing in the search field runs a debounced geocoding lookup;
picking a candidate fetches its weather and records the place in a local
history file that fills the dropdown on the next run.

# Usage

Start the interactive client with default settings:

	weather

Point it at a proxy on another host and enable debug logging:

	weather -proxy http://10.0.0.5:8036 -d

Run in CLI mode for testing the search pipeline without the TUI:

	weather -c -limit 3 -units imperial

# Configuration

Runtime configuration is managed through a TOML file that is created
with defaults on first run:

	[client]
	proxy_url = "http://127.0.0.1:8036"
	units = "metric"
	suggestion_limit = 5
	debounce_ms = 300
	request_timeout_ms = 8000

	[history]
	max_entries = 50

Flags override the file for a single run. The file lives in the user
config directory next to the selection history.

# Search Pipeline

Keystrokes do not reach the network directly. Input is debounced, then
handed to a search session that owns the single in-flight lookup:
superseded requests are aborted at the transport level and a result is
only rendered if its query is still the current one. Past selections
surface instantly from the history trie while the network round-trip
runs.

	session := search.NewSession(geocoder, callbacks)
	session.Search("par")

# TUI Mode

The default mode runs a Bubble Tea program: a search field with a
suggestion dropdown, arrow-key and mouse navigation, and a weather card
for the chosen place. Ctrl+U flips between metric and imperial and
refetches in place.

# CLI Mode

CLI mode reads queries line by line from stdin, prints the numbered
candidates, and fetches the weather for the picked one. It exists for
development and for testing pipeline changes before they reach the TUI.

	handler := cli.NewInputHandler(geocoder, weatherClient, units)
	err := handler.Start()

# Command Line Flags

The following flags control application behavior:

	-config string
	    Path to a TOML config file (default: user config dir)
	-proxy string
	    Base URL of the key-hiding proxy
	-units string
	    Display units, metric or imperial
	-limit int
	    Number of location candidates per search
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of the TUI
	-version
	    Show current version
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/DaigaTahkapaa/Project-2-Weather-App/internal/cli"
	"github.com/DaigaTahkapaa/Project-2-Weather-App/internal/history"
	"github.com/DaigaTahkapaa/Project-2-Weather-App/internal/logger"
	"github.com/DaigaTahkapaa/Project-2-Weather-App/internal/tui"
	"github.com/DaigaTahkapaa/Project-2-Weather-App/pkg/config"
	"github.com/DaigaTahkapaa/Project-2-Weather-App/pkg/geocode"
	"github.com/DaigaTahkapaa/Project-2-Weather-App/pkg/weather"
)

const (
	Version = "0.2.0"
	AppName = "weather"
	gh      = "https://github.com/DaigaTahkapaa/Project-2-Weather-App"
)

// sigHandler is a simple handler for OS signals to exit normally. The
// TUI installs its own handling; this covers CLI mode.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main wires config, history and the two HTTP clients into either the
// TUI or the CLI. It does not implement logic for them and only manages
// the flow.
func main() {
	showVersion := flag.Bool("version", false, "Show current version")
	configPath := flag.String("config", "", "Path to a TOML config file")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", 0, "Number of location candidates per search (default from config)")
	units := flag.String("units", "", "Display units: metric or imperial (default from config)")
	proxy := flag.String("proxy", "", "Base URL of the key-hiding proxy (default from config)")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	cfg, loadedFrom, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
		os.Exit(1)
	}
	if loadedFrom != "" {
		log.Debugf("Using config file: (%s)", loadedFrom)
	}

	if *limit > 0 {
		cfg.Client.SuggestionLimit = *limit
	}
	if *units != "" {
		cfg.Client.Units = *units
	}
	if *proxy != "" {
		cfg.Client.ProxyURL = *proxy
	}
	cfg.Normalize()

	var hist *history.History
	if historyPath, err := config.GetDefaultHistoryPath(); err != nil {
		log.Warnf("History disabled, no writable path: %v", err)
	} else {
		hist = history.Open(historyPath, cfg.History.MaxEntries)
		log.Debugf("History at: ( %s ), %d entries", historyPath, hist.Len())
	}

	geocoder := geocode.NewClient(cfg.Client.ProxyURL, cfg.Client.RequestTimeout())
	weatherClient := weather.NewClient(cfg.Client.ProxyURL, cfg.Client.RequestTimeout())

	// CLI is mainly used for testing and dbg purposes.
	// Any new search pipeline features should be exercised here first.
	if *cliMode {
		sigHandler()
		log.SetReportTimestamp(false)
		log.Debug("Input info:",
			"limit", cfg.Client.SuggestionLimit,
			"units", cfg.Client.Units,
			"proxy", cfg.Client.ProxyURL)

		handler := cli.NewInputHandler(geocoder, weatherClient, cfg.Client.Units)
		handler.Session().SetLimit(cfg.Client.SuggestionLimit)
		if hist != nil {
			handler.Session().SetLocalSource(hist)
		}
		if err := handler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
			os.Exit(1)
		}
		return
	}

	p := tea.NewProgram(
		tui.New(cfg, geocoder, weatherClient, hist),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		log.Fatalf("TUI error: %v", err)
		os.Exit(1)
	}
}

// printVersion displays version info with the styled logger.
func printVersion() {
	vlog := logger.NewWithConfig("", log.InfoLevel, false, false, log.TextFormatter)

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	vlog.SetStyles(styles)

	vlog.Print("")
	vlog.Print("[ Weather ] Terminal weather with proper autocomplete!")
	vlog.Print("", "version", Version)
	vlog.Print("")
	vlog.Print("use -h or --help to see available options")
	vlog.Print("Github Repo", "gh", gh)
}
