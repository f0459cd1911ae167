package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/DaigaTahkapaa/Project-2-Weather-App/pkg/search"
	"github.com/DaigaTahkapaa/Project-2-Weather-App/pkg/weather"
)

// The dropdown's screen position is fixed by the rows above it: the
// title line, a blank line, then the three rows of the bordered input.
// Mouse hit-testing in update.go relies on these offsets.
const (
	inputTop    = 2
	dropdownTop = 5
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("75"))

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	suggestionStyle  = lipgloss.NewStyle().PaddingLeft(2)
	recentStyle      = lipgloss.NewStyle().PaddingLeft(2).Faint(true)
	placeholderStyle = lipgloss.NewStyle().PaddingLeft(2).Faint(true).Italic(true)

	highlightStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("75"))

	statusDimStyle = lipgloss.NewStyle().Faint(true)
	statusErrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 2).
			MarginTop(1)

	cardTitleStyle = lipgloss.NewStyle().Bold(true)

	dayStyle = lipgloss.NewStyle().PaddingRight(3)

	helpBoxStyle = lipgloss.NewStyle().MarginTop(1)
)

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Weather"))
	b.WriteString("\n\n")
	b.WriteString(inputBoxStyle.Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.viewDropdown())
	b.WriteString(m.viewStatus())
	b.WriteString(m.viewReport())
	b.WriteString("\n")
	b.WriteString(helpBoxStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// viewDropdown renders one line per candidate so rows map 1:1 onto
// terminal rows under dropdownTop.
func (m Model) viewDropdown() string {
	items := m.suggestions
	highlight := m.highlight
	rowStyle := suggestionStyle
	open := m.listOpen

	if !open && m.recents.IsOpen() {
		items = m.recents.Items()
		highlight = m.recents.Highlight()
		rowStyle = recentStyle
		open = true
	}
	if !open {
		return ""
	}
	if len(items) == 0 {
		return placeholderStyle.Render("No matches found") + "\n"
	}

	var b strings.Builder
	for i, loc := range items {
		if i == highlight {
			b.WriteString(highlightStyle.Render("› " + loc.Display()))
		} else {
			b.WriteString(rowStyle.Render(loc.Display()))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewStatus() string {
	switch m.status {
	case search.StatusSearching:
		return m.spinner.View() + statusDimStyle.Render("searching...") + "\n"
	case search.StatusError:
		return statusErrStyle.Render(m.statusMessage) + "\n"
	case search.StatusNoResults:
		return statusDimStyle.Render(m.statusMessage) + "\n"
	default:
		return "\n"
	}
}

func (m Model) viewReport() string {
	// a refetch for a place already on screen keeps the old card up
	// until the fresh report lands
	if m.fetching && m.report == nil {
		return cardStyle.Render(m.spinner.View() + " loading weather...")
	}
	if m.fetchErr != "" {
		return cardStyle.Render(statusErrStyle.Render(m.fetchErr))
	}
	if m.report == nil || m.current == nil {
		return ""
	}

	r := m.report
	cur := r.Current
	tempUnit := weather.TempUnit(m.units)

	var b strings.Builder
	b.WriteString(cardTitleStyle.Render(m.current.Display()))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%.1f%s  %s\n", cur.Temp, tempUnit, cur.Summary()))
	b.WriteString(statusDimStyle.Render(fmt.Sprintf("feels like %.1f%s", cur.FeelsLike, tempUnit)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("humidity %d%%   wind %.1f %s %s\n",
		cur.Humidity, cur.WindSpeed, weather.SpeedUnit(m.units), weather.Compass(cur.WindDeg)))
	b.WriteString(fmt.Sprintf("sunrise %s   sunset %s",
		r.Local(cur.Sunrise).Format("15:04"), r.Local(cur.Sunset).Format("15:04")))

	if len(r.Daily) > 0 {
		b.WriteString("\n\n")
		b.WriteString(m.viewDaily(r))
	}
	return cardStyle.Render(b.String())
}

func (m Model) viewDaily(r *weather.Report) string {
	var cols []string
	for i, day := range r.Daily {
		if i >= forecastDays {
			break
		}
		col := fmt.Sprintf("%s\n%.0f°/%.0f°\n%s",
			r.Local(day.Dt).Format("Mon"), day.Temp.Max, day.Temp.Min,
			truncate(day.Summary(), 10))
		cols = append(cols, dayStyle.Render(col))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
