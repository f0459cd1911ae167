package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/DaigaTahkapaa/Project-2-Weather-App/pkg/geocode"
	"github.com/DaigaTahkapaa/Project-2-Weather-App/pkg/search"
	"github.com/DaigaTahkapaa/Project-2-Weather-App/pkg/weather"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		return m, nil

	case spinner.TickMsg:
		if m.status == search.StatusSearching || m.fetching {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case sessionStatusMsg:
		m.status = msg.status
		m.statusMessage = msg.message
		// no-results keeps the dropdown open so the placeholder row
		// can render; the empty suggestion emission arrives first
		if msg.status == search.StatusNoResults {
			m.listOpen = true
		}
		cmds := []tea.Cmd{m.waitForEvent()}
		if msg.status == search.StatusSearching {
			cmds = append(cmds, m.spinner.Tick)
		}
		return m, tea.Batch(cmds...)

	case sessionSuggestionsMsg:
		m.suggestions = msg.items
		m.highlight = msg.highlight
		m.listOpen = len(msg.items) > 0
		return m, m.waitForEvent()

	case sessionSelectionMsg:
		model, cmd := m.handleSelection(msg.loc)
		return model, tea.Batch(m.waitForEvent(), cmd)

	case weatherMsg:
		if msg.seq != m.fetchSeq {
			return m, nil
		}
		m.fetching = false
		m.fetchErr = ""
		loc := msg.loc
		m.current = &loc
		m.report = msg.report
		return m, nil

	case weatherErrMsg:
		if msg.seq != m.fetchSeq {
			return m, nil
		}
		m.fetching = false
		m.fetchErr = "weather fetch failed, press ctrl+r to retry"
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.shutdown()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Dismiss):
		return m.handleDismiss()

	case key.Matches(msg, m.keys.Up):
		if m.listOpen {
			m.session.MoveHighlight(-1)
		} else if m.recents.IsOpen() {
			m.recents.MoveHighlight(-1)
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.listOpen {
			m.session.MoveHighlight(1)
		} else if m.recents.IsOpen() {
			m.recents.MoveHighlight(1)
		}
		return m, nil

	case key.Matches(msg, m.keys.Select):
		return m.handleSelect()

	case key.Matches(msg, m.keys.Units):
		// the card re-renders converted right away; the refetch brings
		// exact values in the new system
		prev := m.units
		m.units = weather.Toggle(m.units)
		if m.report != nil {
			m.report = m.report.Converted(prev, m.units)
		}
		return m, m.refetch()

	case key.Matches(msg, m.keys.Refresh):
		if m.fetching {
			return m, nil
		}
		return m, m.refetch()
	}

	return m.handleTyping(msg)
}

// handleDismiss implements the escape ladder: close the dropdown first,
// then clear the input, then quit.
func (m Model) handleDismiss() (tea.Model, tea.Cmd) {
	if m.listOpen {
		m.session.Close()
		return m, nil
	}
	if m.recents.IsOpen() {
		m.recents.Close()
		return m, nil
	}
	if m.input.Value() != "" {
		m.input.SetValue("")
		m.deb.Stop()
		m.session.Clear()
		return m, nil
	}
	m.shutdown()
	return m, tea.Quit
}

func (m Model) handleSelect() (tea.Model, tea.Cmd) {
	if m.listOpen {
		m.session.SelectHighlighted()
		return m, nil
	}
	if m.recents.IsOpen() {
		if loc, ok := m.recents.Select(m.recents.Highlight()); ok {
			return m.handleSelection(loc)
		}
		return m, nil
	}
	// enter with the dropdown closed forces an immediate search,
	// skipping the debounce
	if query := strings.TrimSpace(m.input.Value()); query != "" {
		m.deb.Stop()
		m.session.Search(query)
	}
	return m, nil
}

// handleSelection reacts to a chosen candidate: record it, put its name
// back in the input and start the weather fetch.
func (m Model) handleSelection(loc geocode.Location) (tea.Model, tea.Cmd) {
	if m.history != nil {
		m.history.Record(loc)
	}
	m.input.SetValue(loc.Name)
	m.input.CursorEnd()
	m.recents.Close()

	l := loc
	m.current = &l
	m.report = nil
	return m, m.refetch()
}

func (m Model) handleTyping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	after := m.input.Value()
	if after == before {
		return m, cmd
	}

	query := strings.TrimSpace(after)
	if query == "" {
		m.deb.Stop()
		m.session.Clear()
		m.openRecents()
		return m, cmd
	}

	m.recents.Close()
	session := m.session
	m.deb.Call(func() { session.Search(query) })
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	sessionOpen := m.listOpen
	recentsOpen := !sessionOpen && m.recents.IsOpen()
	if !sessionOpen && !recentsOpen {
		return m, nil
	}

	rows := len(m.suggestions)
	if recentsOpen {
		rows = len(m.recents.Items())
	}
	row := msg.Y - dropdownTop
	inside := row >= 0 && row < rows

	switch msg.Action {
	case tea.MouseActionMotion:
		if !inside {
			return m, nil
		}
		if sessionOpen {
			m.session.Hover(row)
		} else {
			m.recents.SetHighlight(row)
		}
		return m, nil

	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if inside {
			if sessionOpen {
				m.session.SelectIndex(row)
				return m, nil
			}
			if loc, ok := m.recents.Select(row); ok {
				return m.handleSelection(loc)
			}
			return m, nil
		}
		// a click on the input itself stays inside the widget
		if msg.Y >= inputTop && msg.Y < dropdownTop {
			return m, nil
		}
		if sessionOpen {
			m.session.Close()
		} else {
			m.recents.Close()
		}
		return m, nil
	}

	return m, nil
}

// shutdown stops timers and aborts any in-flight lookup before quit.
func (m Model) shutdown() {
	m.deb.Stop()
	m.session.Clear()
}
