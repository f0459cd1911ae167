package search

import (
	"github.com/DaigaTahkapaa/Project-2-Weather-App/pkg/geocode"
)

// SuggestionList is the dropdown state: either closed, or open over an
// ordered candidate list with at most one highlighted row. An open list
// with no items is a valid state and renders as "no matches".
//
// The zero highlight state is -1 (nothing highlighted); every list
// replacement resets it so a highlight never carries over between result
// sets.
type SuggestionList struct {
	open      bool
	items     []geocode.Location
	highlight int
}

// NewSuggestionList returns a closed list.
func NewSuggestionList() *SuggestionList {
	return &SuggestionList{highlight: -1}
}

// Replace swaps in a new candidate list and opens the dropdown.
// The highlight resets to -1. An empty list still opens, so the caller
// can render a "no matches" placeholder.
func (l *SuggestionList) Replace(items []geocode.Location) {
	l.open = true
	l.items = items
	l.highlight = -1
}

// Close collapses the dropdown and clears its contents.
func (l *SuggestionList) Close() {
	l.open = false
	l.items = nil
	l.highlight = -1
}

// IsOpen reports whether the dropdown is visible.
func (l *SuggestionList) IsOpen() bool { return l.open }

// Items returns the current candidates. The slice is owned by the list;
// callers must not mutate it.
func (l *SuggestionList) Items() []geocode.Location { return l.items }

// Highlight returns the highlighted index, or -1.
func (l *SuggestionList) Highlight() int { return l.highlight }

// MoveHighlight moves the highlight by delta with wrap-around.
// From -1, moving down lands on the first item and moving up lands on
// the last. A closed or empty list ignores the move.
func (l *SuggestionList) MoveHighlight(delta int) {
	n := len(l.items)
	if !l.open || n == 0 {
		return
	}

	if l.highlight < 0 {
		if delta >= 0 {
			l.highlight = 0
		} else {
			l.highlight = n - 1
		}
		return
	}
	l.highlight = ((l.highlight+delta)%n + n) % n
}

// SetHighlight sets the highlight directly (pointer hover). Out-of-range
// indexes are ignored rather than clamped, so a hover event for a row
// that no longer exists cannot corrupt the state.
func (l *SuggestionList) SetHighlight(i int) {
	if !l.open || i < 0 || i >= len(l.items) {
		return
	}
	l.highlight = i
}

// Select picks the candidate at i and closes the list. Selecting -1 (or
// any index outside the list) closes without picking anything, which is
// what Enter does when no row is highlighted. Selecting on a closed list
// is a no-op.
func (l *SuggestionList) Select(i int) (geocode.Location, bool) {
	if !l.open {
		return geocode.Location{}, false
	}
	if i < 0 || i >= len(l.items) {
		l.Close()
		return geocode.Location{}, false
	}
	loc := l.items[i]
	l.Close()
	return loc, true
}
