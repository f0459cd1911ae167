// Package cli handles line-oriented input and candidate picking for DBG
// and testing the search pipeline end to end without the TUI.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/DaigaTahkapaa/Project-2-Weather-App/pkg/geocode"
	"github.com/DaigaTahkapaa/Project-2-Weather-App/pkg/search"
	"github.com/DaigaTahkapaa/Project-2-Weather-App/pkg/weather"
)

const (
	maxQueryLen    = 64
	searchTimeout  = 10 * time.Second
	weatherTimeout = 15 * time.Second
)

type eventKind int

const (
	eventStatus eventKind = iota
	eventSuggestions
	eventSelection
)

// sessionEvent carries one callback emission from the session into the
// prompt loop. Callbacks push here instead of acting directly, since
// they run under the session lock.
type sessionEvent struct {
	kind    eventKind
	status  search.Status
	message string
	items   []geocode.Location
	loc     geocode.Location
}

// InputHandler processes user input from stdin, resolving each line to
// location candidates and fetching a report for the picked one.
type InputHandler struct {
	session *search.Session
	weather *weather.Client
	units   string
	events  chan sessionEvent
	reader  *bufio.Reader
}

// NewInputHandler wires a fresh search session to the prompt loop.
func NewInputHandler(geocoder search.Geocoder, wc *weather.Client, units string) *InputHandler {
	h := &InputHandler{
		weather: wc,
		units:   units,
		events:  make(chan sessionEvent, 64),
		reader:  bufio.NewReader(os.Stdin),
	}
	h.session = search.NewSession(geocoder, search.Callbacks{
		OnStatus: func(status search.Status, message string) {
			h.events <- sessionEvent{kind: eventStatus, status: status, message: message}
		},
		OnSuggestions: func(items []geocode.Location, highlight int) {
			h.events <- sessionEvent{kind: eventSuggestions, items: items}
		},
		OnSelection: func(loc geocode.Location) {
			h.events <- sessionEvent{kind: eventSelection, loc: loc}
		},
	})
	return h
}

// Session exposes the underlying search session so callers can apply
// config like the candidate limit or a history source.
func (h *InputHandler) Session() *search.Session {
	return h.session
}

// Start begins the interface loop.
// It continuously prompts for input, reads a line from stdin, and
// resolves the trimmed query to candidates. Loop terminates if an error
// occurs while reading from stdin
func (h *InputHandler) Start() error {
	log.Print("Weather CLI [DBG]")
	log.Print("type a place name and press Enter to search (Ctrl+C to exit):")

	for {
		log.Print("> ")
		line, err := h.reader.ReadString('\n')
		if err != nil {
			return err
		}
		query := strings.TrimSpace(line)
		if query == "" {
			continue
		}
		if len(query) > maxQueryLen {
			log.Errorf("Query too long: %s", query)
			continue
		}
		h.handleQuery(query)
	}
}

// handleQuery runs one search round trip and prints the candidates.
func (h *InputHandler) handleQuery(query string) {
	h.drain()

	start := time.Now()
	h.session.Search(query)

	candidates, ok := h.awaitCandidates(query)
	if !ok {
		return
	}
	log.Debugf("Took [ %v ] for query '%s'", time.Since(start), query)

	log.Printf("Found %d locations for '%s':", len(candidates), query)
	for i, loc := range candidates {
		clName := fmt.Sprintf("\033[38;5;75m%s\033[0m", loc.Display())
		log.Printf("%2d. %-40s (%.4f, %.4f)", i+1, clName, loc.Lat, loc.Lon)
	}

	h.promptSelection(len(candidates))
}

// awaitCandidates waits for the session to settle on a candidate list.
// Searching is transient; idle, no-results and error are terminal.
func (h *InputHandler) awaitCandidates(query string) ([]geocode.Location, bool) {
	var latest []geocode.Location
	deadline := time.After(searchTimeout)

	for {
		select {
		case ev := <-h.events:
			if ev.kind == eventSuggestions {
				latest = ev.items
				continue
			}
			if ev.kind != eventStatus {
				continue
			}
			switch ev.status {
			case search.StatusSearching:
			case search.StatusNoResults:
				log.Warnf("No locations found for '%s'", query)
				h.session.Close()
				return nil, false
			case search.StatusError:
				log.Errorf("Search failed: %s", ev.message)
				h.session.Close()
				return nil, false
			case search.StatusIdle:
				if len(latest) > 0 {
					return latest, true
				}
			}
		case <-deadline:
			log.Errorf("Search timed out for '%s'", query)
			h.session.Close()
			return nil, false
		}
	}
}

// promptSelection reads a 1-based pick and fetches its weather.
func (h *InputHandler) promptSelection(count int) {
	log.Printf("pick [1-%d] and press Enter to fetch weather (Enter to skip):", count)
	line, err := h.reader.ReadString('\n')
	if err != nil {
		h.session.Close()
		return
	}
	choice := strings.TrimSpace(line)
	if choice == "" {
		h.session.Close()
		return
	}

	n, err := strconv.Atoi(choice)
	if err != nil || n < 1 || n > count {
		log.Errorf("Invalid choice: %s", choice)
		h.session.Close()
		return
	}

	h.session.SelectIndex(n - 1)
	loc, ok := h.awaitSelection()
	if !ok {
		return
	}
	h.fetchWeather(loc)
}

func (h *InputHandler) awaitSelection() (geocode.Location, bool) {
	deadline := time.After(time.Second)
	for {
		select {
		case ev := <-h.events:
			if ev.kind == eventSelection {
				return ev.loc, true
			}
		case <-deadline:
			return geocode.Location{}, false
		}
	}
}

func (h *InputHandler) fetchWeather(loc geocode.Location) {
	ctx, cancel := context.WithTimeout(context.Background(), weatherTimeout)
	defer cancel()

	start := time.Now()
	report, err := h.weather.Fetch(ctx, loc.Lat, loc.Lon, h.units)
	if err != nil {
		log.Errorf("Weather fetch failed for %s: %v", loc.Display(), err)
		return
	}
	log.Debugf("Took [ %v ] for weather at %s", time.Since(start), loc.Display())

	h.printReport(loc, report)
}

// printReport renders the current conditions and a short daily strip.
func (h *InputHandler) printReport(loc geocode.Location, report *weather.Report) {
	cur := report.Current
	clPlace := fmt.Sprintf("\033[38;5;75m%s\033[0m", loc.Display())
	tempUnit := weather.TempUnit(h.units)

	log.Printf("Weather for %s:", clPlace)
	log.Printf("  %s, %.1f%s (feels like %.1f%s)", cur.Summary(), cur.Temp, tempUnit, cur.FeelsLike, tempUnit)
	log.Printf("  humidity %d%%, wind %.1f %s %s", cur.Humidity, cur.WindSpeed, weather.SpeedUnit(h.units), weather.Compass(cur.WindDeg))
	log.Printf("  sunrise %s, sunset %s",
		report.Local(cur.Sunrise).Format("15:04"),
		report.Local(cur.Sunset).Format("15:04"))

	for i, day := range report.Daily {
		if i >= 5 {
			break
		}
		log.Printf("  %s  %5.1f/%-5.1f%s  %s",
			report.Local(day.Dt).Format("Mon"), day.Temp.Max, day.Temp.Min, tempUnit, day.Summary())
	}
}

// drain clears events left over from the previous round trip so a stale
// status cannot satisfy the next wait.
func (h *InputHandler) drain() {
	for {
		select {
		case <-h.events:
		default:
			return
		}
	}
}
