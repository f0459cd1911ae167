package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/DaigaTahkapaa/Project-2-Weather-App/internal/history"
	"github.com/DaigaTahkapaa/Project-2-Weather-App/pkg/config"
	"github.com/DaigaTahkapaa/Project-2-Weather-App/pkg/geocode"
	"github.com/DaigaTahkapaa/Project-2-Weather-App/pkg/search"
	"github.com/DaigaTahkapaa/Project-2-Weather-App/pkg/weather"
)

var (
	locParis = geocode.Location{Name: "Paris", Lat: 48.8588, Lon: 2.3200, Country: "FR"}
	locParma = geocode.Location{Name: "Parma", Lat: 44.8015, Lon: 10.3279, Country: "IT"}
)

// stubGeocoder answers from a canned map and reports each call.
type stubGeocoder struct {
	calls   chan string
	results map[string][]geocode.Location
}

func (s *stubGeocoder) Lookup(ctx context.Context, query string, limit int) ([]geocode.Location, error) {
	if s.calls != nil {
		s.calls <- query
	}
	return s.results[query], nil
}

func newTestModel(t *testing.T, stub *stubGeocoder, hist *history.History) Model {
	t.Helper()
	m := New(config.DefaultConfig(), stub, weather.NewClient("http://127.0.0.1:0", time.Second), hist)
	model, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	return model.(Model)
}

func typeString(m Model, s string) Model {
	for _, r := range s {
		model, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = model.(Model)
	}
	return m
}

// pumpUntil feeds queued session events through Update, the way the
// program loop would, until cond holds.
func pumpUntil(t *testing.T, m Model, desc string, cond func(Model) bool) Model {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for !cond(m) {
		select {
		case msg := <-m.events:
			model, _ := m.Update(msg)
			m = model.(Model)
		case <-deadline:
			t.Fatalf("timed out waiting for %s", desc)
		}
	}
	return m
}

// searchAndOpen types a query, forces it with enter and pumps events
// until the dropdown opens.
func searchAndOpen(t *testing.T, m Model, stub *stubGeocoder, query string) Model {
	t.Helper()
	m = typeString(m, query)
	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = model.(Model)

	select {
	case <-stub.calls:
	case <-time.After(2 * time.Second):
		t.Fatal("geocoder was never called")
	}
	return pumpUntil(t, m, "dropdown open", func(m Model) bool { return m.listOpen })
}

func TestViewNotReady(t *testing.T) {
	m := New(config.DefaultConfig(), &stubGeocoder{}, weather.NewClient("http://127.0.0.1:0", time.Second), nil)

	if view := m.View(); view != "Loading..." {
		t.Errorf("expected 'Loading...' before the first resize, got %q", view)
	}
}

func TestWindowSize(t *testing.T) {
	m := newTestModel(t, &stubGeocoder{}, nil)

	if m.width != 80 || m.height != 40 {
		t.Errorf("expected 80x40, got %dx%d", m.width, m.height)
	}
	if !m.ready {
		t.Error("model should be ready after a WindowSizeMsg")
	}
}

// typing alone must not hit the geocoder; the debounce owns that
func TestTypingDoesNotSearchImmediately(t *testing.T) {
	stub := &stubGeocoder{calls: make(chan string, 8)}
	cfg := config.DefaultConfig()
	cfg.Client.DebounceMs = 5000

	m := New(cfg, stub, weather.NewClient("http://127.0.0.1:0", time.Second), nil)
	model, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	m = model.(Model)
	_ = typeString(m, "par")

	select {
	case q := <-stub.calls:
		t.Fatalf("lookup for %q fired before the debounce elapsed", q)
	default:
	}
}

func TestEnterForcesImmediateSearch(t *testing.T) {
	stub := &stubGeocoder{
		calls:   make(chan string, 8),
		results: map[string][]geocode.Location{"paris": {locParis, locParma}},
	}
	m := newTestModel(t, stub, nil)
	m = searchAndOpen(t, m, stub, "paris")

	if len(m.suggestions) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(m.suggestions))
	}
	view := m.View()
	if !strings.Contains(view, "Paris, FR") || !strings.Contains(view, "Parma, IT") {
		t.Errorf("expected both candidates in the view, got:\n%s", view)
	}
}

func TestEscClosesOpenList(t *testing.T) {
	stub := &stubGeocoder{
		calls:   make(chan string, 8),
		results: map[string][]geocode.Location{"paris": {locParis}},
	}
	m := newTestModel(t, stub, nil)
	m = searchAndOpen(t, m, stub, "paris")

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = pumpUntil(t, model.(Model), "list closed", func(m Model) bool { return !m.listOpen })

	if m.input.Value() != "paris" {
		t.Errorf("esc should close the list but keep the input, got %q", m.input.Value())
	}
}

func TestEscClearsInputThenQuits(t *testing.T) {
	m := newTestModel(t, &stubGeocoder{}, nil)
	m = typeString(m, "x")

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = model.(Model)
	if m.input.Value() != "" {
		t.Fatalf("expected esc to clear the input, got %q", m.input.Value())
	}
	if cmd != nil {
		t.Error("clearing the input should not emit a command")
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc on an empty model should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.Quit from esc on an empty model")
	}
}

func TestHighlightRender(t *testing.T) {
	m := newTestModel(t, &stubGeocoder{}, nil)

	model, _ := m.Update(sessionSuggestionsMsg{items: []geocode.Location{locParis, locParma}, highlight: 1})
	m = model.(Model)

	if !m.listOpen {
		t.Fatal("suggestions should open the dropdown")
	}
	view := m.View()
	if !strings.Contains(view, "› Parma, IT") {
		t.Errorf("expected the highlighted row marker, got:\n%s", view)
	}
}

// an empty result set keeps the dropdown open with a placeholder row
func TestNoMatchesPlaceholder(t *testing.T) {
	stub := &stubGeocoder{calls: make(chan string, 8)}
	m := newTestModel(t, stub, nil)

	m = typeString(m, "zzz")
	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = model.(Model)
	select {
	case <-stub.calls:
	case <-time.After(2 * time.Second):
		t.Fatal("geocoder was never called")
	}
	m = pumpUntil(t, m, "no-results status", func(m Model) bool { return m.status == search.StatusNoResults })

	if !m.listOpen {
		t.Error("the dropdown should stay open to show the placeholder")
	}
	view := m.View()
	if !strings.Contains(view, "No matches found") {
		t.Errorf("expected the placeholder row, got:\n%s", view)
	}
	if !strings.Contains(view, `no locations found for "zzz"`) {
		t.Errorf("expected the status message, got:\n%s", view)
	}
}

func TestSelectionStartsWeatherFetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.bin")
	hist := history.Open(path, 10)
	m := newTestModel(t, &stubGeocoder{}, hist)

	model, cmd := m.Update(sessionSelectionMsg{loc: locParis})
	m = model.(Model)

	if !m.fetching {
		t.Error("a selection should start a weather fetch")
	}
	if cmd == nil {
		t.Error("a selection should emit a fetch command")
	}
	if m.input.Value() != "Paris" {
		t.Errorf("expected the input to carry the chosen name, got %q", m.input.Value())
	}
	if hist.Len() != 1 {
		t.Errorf("expected the selection to be recorded, history has %d entries", hist.Len())
	}
}

func TestWeatherReportRenders(t *testing.T) {
	m := newTestModel(t, &stubGeocoder{}, nil)
	loc := locParis
	m.current = &loc
	m.fetchSeq = 3

	rpt := &weather.Report{
		Lat: 48.8588, Lon: 2.32, Timezone: "Europe/Paris", TimezoneOffset: 7200,
		Current: weather.Current{
			Dt: 1700000000, Sunrise: 1699998000, Sunset: 1700030000,
			Temp: 18.4, FeelsLike: 17.9, Humidity: 62,
			WindSpeed: 4.2, WindDeg: 200,
			Conditions: []weather.Condition{{ID: 500, Main: "Rain", Description: "light rain", Icon: "10d"}},
		},
		Daily: []weather.Daily{
			{Dt: 1700000000, Temp: weather.DailyTemp{Min: 12.1, Max: 19.3}, Pop: 0.4,
				Conditions: []weather.Condition{{Description: "light rain"}}},
		},
	}

	model, _ := m.Update(weatherMsg{seq: 3, loc: locParis, report: rpt})
	m = model.(Model)

	if m.fetching {
		t.Error("the fetch flag should clear when the report lands")
	}
	view := m.View()
	for _, want := range []string{"Paris, FR", "18.4°C", "light rain", "62%", "SSW"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in the view, got:\n%s", want, view)
		}
	}
}

// a report from an abandoned fetch must not replace the current one
func TestStaleWeatherResultDropped(t *testing.T) {
	m := newTestModel(t, &stubGeocoder{}, nil)
	m.fetchSeq = 2

	model, _ := m.Update(weatherMsg{seq: 1, loc: locParis, report: &weather.Report{}})
	m = model.(Model)

	if m.report != nil {
		t.Error("a stale weather result should be dropped")
	}
}

func TestUnitsToggleTriggersRefetch(t *testing.T) {
	m := newTestModel(t, &stubGeocoder{}, nil)
	loc := locParis
	m.current = &loc

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	m = model.(Model)

	if m.units != weather.Imperial {
		t.Errorf("expected imperial after the toggle, got %q", m.units)
	}
	if !m.fetching || cmd == nil {
		t.Error("toggling units should refetch the report")
	}

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	if got := model.(Model).units; got != weather.Metric {
		t.Errorf("expected metric after the second toggle, got %q", got)
	}
}

// the card on screen converts immediately instead of blanking out while
// the refetch runs
func TestUnitsToggleConvertsDisplayedReport(t *testing.T) {
	m := newTestModel(t, &stubGeocoder{}, nil)
	loc := locParis
	m.current = &loc
	m.report = &weather.Report{
		Current: weather.Current{Temp: 20, FeelsLike: 19, WindSpeed: 10},
	}

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	m = model.(Model)

	view := m.View()
	if !strings.Contains(view, "68.0°F") {
		t.Errorf("expected the converted temperature on screen, got:\n%s", view)
	}
	if strings.Contains(view, "loading weather") {
		t.Error("the refetch should not blank the card")
	}
}

func TestRecentsShownWhileInputEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.bin")
	hist := history.Open(path, 10)
	hist.Record(locParis)
	hist.Record(locParma)

	m := newTestModel(t, &stubGeocoder{}, hist)
	if !m.recents.IsOpen() {
		t.Fatal("recents should open on startup with an empty input")
	}
	if !strings.Contains(m.View(), "Parma, IT") {
		t.Error("expected the most recent place in the dropdown")
	}

	m = typeString(m, "p")
	if m.recents.IsOpen() {
		t.Error("typing should close the recents dropdown")
	}

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m = model.(Model)
	if !m.recents.IsOpen() {
		t.Error("emptying the input should reopen the recents dropdown")
	}
}

func TestMouseHoverAndClickSelects(t *testing.T) {
	stub := &stubGeocoder{
		calls:   make(chan string, 8),
		results: map[string][]geocode.Location{"paris": {locParis, locParma}},
	}
	m := newTestModel(t, stub, nil)
	m = searchAndOpen(t, m, stub, "paris")

	model, _ := m.Update(tea.MouseMsg{Y: dropdownTop + 1, Action: tea.MouseActionMotion})
	m = pumpUntil(t, model.(Model), "hover highlight", func(m Model) bool { return m.highlight == 1 })

	model, _ = m.Update(tea.MouseMsg{Y: dropdownTop + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = pumpUntil(t, model.(Model), "selection", func(m Model) bool { return m.current != nil })

	if m.current.Name != "Parma" {
		t.Errorf("expected Parma to be selected, got %q", m.current.Name)
	}
	if m.listOpen {
		t.Error("expected the dropdown to close after selection")
	}
}

func TestClickOutsideClosesList(t *testing.T) {
	stub := &stubGeocoder{
		calls:   make(chan string, 8),
		results: map[string][]geocode.Location{"paris": {locParis}},
	}
	m := newTestModel(t, stub, nil)
	m = searchAndOpen(t, m, stub, "paris")

	model, _ := m.Update(tea.MouseMsg{Y: dropdownTop + 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = pumpUntil(t, model.(Model), "list closed", func(m Model) bool { return !m.listOpen })

	if m.current != nil {
		t.Error("an outside click must not select anything")
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := newTestModel(t, &stubGeocoder{}, nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit")
	}
}
