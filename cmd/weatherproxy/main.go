// Copyright 2025 Daiga Tahkapaa. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the key-hiding weather proxy.

The proxy exposes /api/geocode and /api/weather for the client binary
and forwards them to the OpenWeather API with the secret key attached
server-side. The key is read from the OPENWEATHER_API_KEY environment
variable and never reaches a client, a response body or a log line.

Start it with the key in the environment:

	OPENWEATHER_API_KEY=... weatherproxy -addr :8036

The [server] section of the shared TOML config controls the listen
address, the upstream base URL and the per-request timeout.
*/
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/DaigaTahkapaa/Project-2-Weather-App/internal/logger"
	"github.com/DaigaTahkapaa/Project-2-Weather-App/internal/server"
	"github.com/DaigaTahkapaa/Project-2-Weather-App/pkg/config"
)

const (
	Version = "0.2.0"
	gh      = "https://github.com/DaigaTahkapaa/Project-2-Weather-App"
)

const shutdownGrace = 5 * time.Second

func main() {
	showVersion := flag.Bool("version", false, "Show current version")
	configPath := flag.String("config", "", "Path to a TOML config file")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	listenAddr := flag.String("addr", "", "Listen address (default from config)")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.InfoLevel)
	}

	apiKey := os.Getenv("OPENWEATHER_API_KEY")
	if apiKey == "" {
		log.Fatal("OPENWEATHER_API_KEY is not set; the proxy cannot reach the weather API without it")
		os.Exit(1)
	}

	cfg, loadedFrom, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
		os.Exit(1)
	}
	if loadedFrom != "" {
		log.Debugf("Using config file: (%s)", loadedFrom)
	}
	if *listenAddr != "" {
		cfg.Server.ListenAddr = *listenAddr
	}
	cfg.Normalize()

	srv := server.New(cfg.Server, apiKey)
	showStartupInfo(cfg.Server.ListenAddr, cfg.Server.UpstreamURL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("Failed to start server: %v", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("Shutdown: %v", err)
		}
	}
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(addr, upstream string) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("==============")
	println(" WeatherProxy ")
	println("==============")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Infof("listen addr: ( %s )", addr)
	log.Infof("upstream: ( %s )", upstream)
	log.Info("status: ready")
	println("==============")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
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
	vlog.Print("[ WeatherProxy ] Keeps the API key where clients cannot see it")
	vlog.Print("", "version", Version)
	vlog.Print("")
	vlog.Print("use -h or --help to see available options")
	vlog.Print("Github Repo", "gh", gh)
}
