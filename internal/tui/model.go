// Package tui renders the interactive client: a search field with a
// suggestion dropdown on top, the weather card for the chosen place
// below it.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/DaigaTahkapaa/Project-2-Weather-App/internal/history"
	"github.com/DaigaTahkapaa/Project-2-Weather-App/pkg/config"
	"github.com/DaigaTahkapaa/Project-2-Weather-App/pkg/geocode"
	"github.com/DaigaTahkapaa/Project-2-Weather-App/pkg/search"
	"github.com/DaigaTahkapaa/Project-2-Weather-App/pkg/weather"
)

const (
	inputWidth   = 40
	forecastDays = 5
	fetchTimeout = 15 * time.Second
)

// Messages bridged from the search session and the weather client into
// the Update loop.
type (
	sessionStatusMsg struct {
		status  search.Status
		message string
	}
	sessionSuggestionsMsg struct {
		items     []geocode.Location
		highlight int
	}
	sessionSelectionMsg struct {
		loc geocode.Location
	}
	weatherMsg struct {
		seq    int
		loc    geocode.Location
		report *weather.Report
	}
	weatherErrMsg struct {
		seq int
		loc geocode.Location
		err error
	}
)

// Model is the root Bubble Tea model.
type Model struct {
	input   textinput.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap

	session *search.Session
	deb     *search.Debouncer
	weather *weather.Client
	history *history.History

	// events carries session callbacks into the Update loop. The
	// callbacks run on session goroutines and only push here.
	events chan tea.Msg

	units         string
	status        search.Status
	statusMessage string

	suggestions []geocode.Location
	highlight   int
	listOpen    bool

	// recents is the dropdown shown while the input is empty. It reuses
	// the list mechanics but is fed from history, not the session.
	recents *search.SuggestionList

	current  *geocode.Location
	report   *weather.Report
	fetching bool
	fetchErr string
	// fetchSeq identifies the newest weather fetch; results carrying an
	// older seq are dropped.
	fetchSeq int

	width  int
	height int
	ready  bool
}

// New assembles the model. A nil history disables the recents dropdown
// and the startup fetch.
func New(cfg *config.Config, geocoder search.Geocoder, wc *weather.Client, hist *history.History) Model {
	ti := textinput.New()
	ti.Placeholder = "Search for a place..."
	ti.CharLimit = 64
	ti.Width = inputWidth
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	events := make(chan tea.Msg, 64)
	session := search.NewSession(geocoder, search.Callbacks{
		OnStatus: func(status search.Status, message string) {
			events <- sessionStatusMsg{status: status, message: message}
		},
		OnSuggestions: func(items []geocode.Location, highlight int) {
			events <- sessionSuggestionsMsg{items: items, highlight: highlight}
		},
		OnSelection: func(loc geocode.Location) {
			events <- sessionSelectionMsg{loc: loc}
		},
	})
	session.SetLimit(cfg.Client.SuggestionLimit)
	if hist != nil {
		session.SetLocalSource(hist)
	}

	m := Model{
		input:     ti,
		spinner:   sp,
		help:      help.New(),
		keys:      defaultKeyMap(),
		session:   session,
		deb:       search.NewDebouncer(cfg.Client.Debounce()),
		weather:   wc,
		history:   hist,
		events:    events,
		units:     cfg.Client.Units,
		status:    search.StatusIdle,
		highlight: -1,
		recents:   search.NewSuggestionList(),
	}

	if hist != nil {
		if last, ok := hist.Last(); ok {
			loc := last
			m.current = &loc
			m.fetching = true
			m.fetchSeq = 1
		}
		m.openRecents()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spinner.Tick, m.waitForEvent()}
	if m.fetching && m.current != nil {
		cmds = append(cmds, m.fetchWeather(*m.current, m.fetchSeq))
	}
	return tea.Batch(cmds...)
}

// waitForEvent forwards the next session callback into the program.
// Update re-issues it after consuming each event.
func (m Model) waitForEvent() tea.Cmd {
	return func() tea.Msg { return <-m.events }
}

// fetchWeather loads a report for loc off the UI loop.
func (m Model) fetchWeather(loc geocode.Location, seq int) tea.Cmd {
	client := m.weather
	units := m.units
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		report, err := client.Fetch(ctx, loc.Lat, loc.Lon, units)
		if err != nil {
			return weatherErrMsg{seq: seq, loc: loc, err: err}
		}
		return weatherMsg{seq: seq, loc: loc, report: report}
	}
}

// refetch reloads the report for the shown location, if any.
func (m *Model) refetch() tea.Cmd {
	if m.current == nil {
		return nil
	}
	m.fetching = true
	m.fetchErr = ""
	m.fetchSeq++
	return tea.Batch(m.spinner.Tick, m.fetchWeather(*m.current, m.fetchSeq))
}

// openRecents fills the recents dropdown from history, when there is
// anything to show.
func (m *Model) openRecents() {
	if m.history == nil {
		return
	}
	if items := m.history.Recent(m.session.Limit()); len(items) > 0 {
		m.recents.Replace(items)
	}
}
