// Package search implements the pipeline behind the location field:
// debounced queries, cancellable lookups with latest-query-wins staleness
// handling, duplicate filtering, and the dropdown state machine.
package search

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/DaigaTahkapaa/Project-2-Weather-App/pkg/geocode"
)

// maxLimit caps how many candidates a session requests; the upstream
// geocoding API returns at most five.
const maxLimit = 5

// errRetryMessage is shown when a current lookup fails for transport
// reasons. The previous suggestions stay on screen.
const errRetryMessage = "search failed, check your connection and try again"

// Geocoder resolves a query into location candidates. Implementations
// must honor context cancellation.
type Geocoder interface {
	Lookup(ctx context.Context, query string, limit int) ([]geocode.Location, error)
}

// LocalSource supplies instant candidates from local data (past
// selections) while the network round-trip is still running.
type LocalSource interface {
	Matches(query string, limit int) []geocode.Location
}

// Callbacks receive session output. All callbacks run with the session
// locked and must return quickly without calling back into the session;
// forwarding to a channel is the expected pattern. Nil callbacks are
// skipped.
type Callbacks struct {
	// OnStatus reports pipeline state changes together with a
	// display message (empty for idle/searching).
	OnStatus func(status Status, message string)
	// OnSuggestions fires whenever the visible list or highlight
	// changes. A nil list with highlight -1 means the dropdown closed.
	OnSuggestions func(list []geocode.Location, highlight int)
	// OnSelection fires once when a candidate is chosen; the dropdown
	// is already closed by then.
	OnSelection func(loc geocode.Location)
}

// Session coordinates one location-search field. It owns the single
// in-flight lookup, the notion of which query is current, and the
// dropdown state. All methods are safe for concurrent use; events may
// arrive from timer goroutines, lookup goroutines and the UI loop at
// once.
type Session struct {
	mu       sync.Mutex
	geocoder Geocoder
	local    LocalSource
	limit    int
	cb       Callbacks

	// gen identifies the current query. Every query change bumps it;
	// a lookup result only renders if its generation is still current.
	gen    uint64
	query  string
	cancel context.CancelFunc

	list *SuggestionList
}

// NewSession creates a session over the given geocoder.
func NewSession(geocoder Geocoder, cb Callbacks) *Session {
	return &Session{
		geocoder: geocoder,
		limit:    geocode.DefaultLimit,
		cb:       cb,
		list:     NewSuggestionList(),
	}
}

// SetLimit adjusts how many candidates are requested per lookup,
// clamped to what the upstream API supports.
func (s *Session) SetLimit(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 1 {
		n = 1
	}
	if n > maxLimit {
		n = maxLimit
	}
	s.limit = n
}

// SetLocalSource attaches a source of instant local candidates.
func (s *Session) SetLocalSource(src LocalSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.local = src
}

// Search makes query the current one and issues a lookup for it. Any
// lookup still in flight is aborted at the transport level. If a local
// source is attached its matches render immediately; the network result
// replaces them wholesale when it arrives. A blank query degrades to
// Clear.
func (s *Session) Search(query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		s.Clear()
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	gen := s.gen
	s.query = query
	s.cancelPendingLocked()

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	if s.local != nil {
		if local := Dedupe(s.local.Matches(query, s.limit)); len(local) > 0 {
			log.Debugf("Local fill: %d candidates for '%s'", len(local), query)
			s.list.Replace(local)
			s.emitSuggestionsLocked()
		}
	}
	s.emitStatusLocked(StatusSearching, "")

	go s.lookup(ctx, gen, query, s.limit)
}

// lookup runs one round-trip and applies the result if the query is
// still current. Stale outcomes, successful or not, are discarded
// without touching the visible state.
func (s *Session) lookup(ctx context.Context, gen uint64, query string, limit int) {
	locs, err := s.geocoder.Lookup(ctx, query, limit)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.current(gen) {
		log.Debugf("Discarding stale result for '%s'", query)
		return
	}
	s.cancelPendingLocked()

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Warnf("Lookup failed for '%s': %v", query, err)
		s.emitStatusLocked(StatusError, errRetryMessage)
		return
	}

	locs = Dedupe(locs)
	s.list.Replace(locs)
	s.emitSuggestionsLocked()

	if len(locs) == 0 {
		s.emitStatusLocked(StatusNoResults, "no locations found for \""+query+"\"")
		return
	}
	s.emitStatusLocked(StatusIdle, "")
}

// Clear resets the session for empty input: the pending lookup is
// aborted, the dropdown closes and the status returns to idle.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.query = ""
	s.cancelPendingLocked()

	if s.list.IsOpen() {
		s.list.Close()
		s.emitSuggestionsLocked()
	}
	s.emitStatusLocked(StatusIdle, "")
}

// Close dismisses the dropdown (Escape, click outside). The dismissed
// query is abandoned: its lookup is aborted and a late result for it
// will not reopen the list.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.list.IsOpen() {
		return
	}
	s.gen++
	s.cancelPendingLocked()
	s.list.Close()
	s.emitSuggestionsLocked()
	s.emitStatusLocked(StatusIdle, "")
}

// MoveHighlight moves the dropdown highlight with wrap-around.
func (s *Session) MoveHighlight(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.list.Highlight()
	s.list.MoveHighlight(delta)
	if s.list.Highlight() != before {
		s.emitSuggestionsLocked()
	}
}

// Hover highlights a row without selecting it (pointer movement).
func (s *Session) Hover(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.list.Highlight()
	s.list.SetHighlight(i)
	if s.list.Highlight() != before {
		s.emitSuggestionsLocked()
	}
}

// SelectIndex chooses the candidate at i and ends the search: the
// dropdown closes, the pending lookup is aborted, and OnSelection fires.
// i of -1 (Enter with no highlight) closes without choosing.
func (s *Session) SelectIndex(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectLocked(i)
}

// SelectHighlighted chooses the currently highlighted candidate (Enter).
func (s *Session) SelectHighlighted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectLocked(s.list.Highlight())
}

func (s *Session) selectLocked(i int) {
	if !s.list.IsOpen() {
		return
	}
	loc, ok := s.list.Select(i)

	s.gen++
	s.cancelPendingLocked()
	s.emitSuggestionsLocked()
	s.emitStatusLocked(StatusIdle, "")

	if ok {
		log.Debugf("Selected '%s'", loc.Display())
		s.emitSelectionLocked(loc)
	}
}

// Limit returns the per-lookup candidate limit.
func (s *Session) Limit() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.limit
}

// current reports whether gen identifies the latest query. Callers hold s.mu.
func (s *Session) current(gen uint64) bool {
	return gen == s.gen
}

func (s *Session) cancelPendingLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Session) emitStatusLocked(status Status, message string) {
	if s.cb.OnStatus != nil {
		s.cb.OnStatus(status, message)
	}
}

func (s *Session) emitSuggestionsLocked() {
	if s.cb.OnSuggestions != nil {
		s.cb.OnSuggestions(s.list.Items(), s.list.Highlight())
	}
}

func (s *Session) emitSelectionLocked(loc geocode.Location) {
	if s.cb.OnSelection != nil {
		s.cb.OnSelection(loc)
	}
}
