package search

import (
	"testing"

	"github.com/DaigaTahkapaa/Project-2-Weather-App/pkg/geocode"
)

func threeCities() []geocode.Location {
	return []geocode.Location{
		{Name: "Paris", Country: "FR"},
		{Name: "Parma", Country: "IT"},
		{Name: "Parral", Country: "MX"},
	}
}

func TestListStartsClosed(t *testing.T) {
	l := NewSuggestionList()
	if l.IsOpen() {
		t.Error("New list should be closed")
	}
	if l.Highlight() != -1 {
		t.Errorf("Expected highlight -1, got %d", l.Highlight())
	}
}

func TestReplaceOpensAndResetsHighlight(t *testing.T) {
	l := NewSuggestionList()
	l.Replace(threeCities())

	if !l.IsOpen() {
		t.Error("Replace should open the list")
	}
	if l.Highlight() != -1 {
		t.Errorf("Expected highlight -1 after replace, got %d", l.Highlight())
	}

	// a second replace drops the old highlight
	l.MoveHighlight(1)
	l.Replace(threeCities()[:2])
	if l.Highlight() != -1 {
		t.Errorf("Highlight leaked across replace: %d", l.Highlight())
	}
}

// an empty replacement still opens, so the UI can show "no matches"
func TestReplaceEmptyStaysOpen(t *testing.T) {
	l := NewSuggestionList()
	l.Replace(nil)

	if !l.IsOpen() {
		t.Error("Empty replace should leave the list open")
	}
	if len(l.Items()) != 0 {
		t.Errorf("Expected no items, got %d", len(l.Items()))
	}

	// highlight movement over the placeholder is a no-op
	l.MoveHighlight(1)
	if l.Highlight() != -1 {
		t.Errorf("Highlight moved on an empty list: %d", l.Highlight())
	}
}

func TestMoveHighlight(t *testing.T) {
	testCases := []struct {
		start       int
		delta       int
		expected    int
		description string
	}{
		{-1, 1, 0, "down from none lands on first"},
		{-1, -1, 2, "up from none lands on last"},
		{0, 1, 1, "down"},
		{1, 1, 2, "down to last"},
		{2, 1, 0, "down wraps to first"},
		{0, -1, 2, "up from first wraps to last"},
		{2, -1, 1, "up"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			l := NewSuggestionList()
			l.Replace(threeCities())
			if tc.start >= 0 {
				l.SetHighlight(tc.start)
			}
			l.MoveHighlight(tc.delta)
			if l.Highlight() != tc.expected {
				t.Errorf("From %d by %d: expected %d, got %d", tc.start, tc.delta, tc.expected, l.Highlight())
			}
		})
	}
}

func TestMoveHighlightClosedIsNoop(t *testing.T) {
	l := NewSuggestionList()
	l.MoveHighlight(1)
	if l.Highlight() != -1 {
		t.Errorf("Highlight moved on a closed list: %d", l.Highlight())
	}
}

func TestSetHighlightIgnoresInvalid(t *testing.T) {
	l := NewSuggestionList()
	l.Replace(threeCities())

	l.SetHighlight(1)
	if l.Highlight() != 1 {
		t.Fatalf("Expected highlight 1, got %d", l.Highlight())
	}

	l.SetHighlight(7)
	if l.Highlight() != 1 {
		t.Errorf("Out-of-range hover changed the highlight: %d", l.Highlight())
	}
	l.SetHighlight(-3)
	if l.Highlight() != 1 {
		t.Errorf("Negative hover changed the highlight: %d", l.Highlight())
	}
}

func TestSelect(t *testing.T) {
	l := NewSuggestionList()
	l.Replace(threeCities())

	loc, ok := l.Select(1)
	if !ok {
		t.Fatal("Expected a selection")
	}
	if loc.Name != "Parma" {
		t.Errorf("Expected Parma, got %s", loc.Name)
	}
	if l.IsOpen() {
		t.Error("Selection should close the list")
	}

	// the list is gone; nothing more to select
	if _, ok := l.Select(0); ok {
		t.Error("Selection on a closed list succeeded")
	}
}

func TestSelectNoHighlightCloses(t *testing.T) {
	l := NewSuggestionList()
	l.Replace(threeCities())

	if _, ok := l.Select(-1); ok {
		t.Error("Select(-1) should not pick a candidate")
	}
	if l.IsOpen() {
		t.Error("Select(-1) should still close the list")
	}
}

func TestCloseClearsState(t *testing.T) {
	l := NewSuggestionList()
	l.Replace(threeCities())
	l.SetHighlight(2)

	l.Close()

	if l.IsOpen() {
		t.Error("Close left the list open")
	}
	if len(l.Items()) != 0 {
		t.Error("Close left items behind")
	}
	if l.Highlight() != -1 {
		t.Errorf("Close left highlight %d", l.Highlight())
	}
}
