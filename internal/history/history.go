// Package history keeps the user's past location selections on disk and
// serves them back as instant suggestions and recents.
package history

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/DaigaTahkapaa/Project-2-Weather-App/pkg/geocode"
)

const fileVersion = 1

// Entry is one remembered selection.
type Entry struct {
	Location   geocode.Location `msgpack:"loc"`
	SelectedAt time.Time        `msgpack:"at"`
	Hits       int              `msgpack:"hits"`
}

// historyFile is the on-disk envelope.
type historyFile struct {
	Version int     `msgpack:"v"`
	Entries []Entry `msgpack:"entries"`
}

// History is a capped, most-recent-first selection log with a prefix
// index over it. Safe for concurrent use.
type History struct {
	mu      sync.RWMutex
	path    string
	max     int
	entries []Entry
	trie    *patricia.Trie
}

// Open loads the history file at path, creating an empty history when
// the file is missing. A corrupt or incompatible file is dropped with a
// warning rather than failing startup.
func Open(path string, max int) *History {
	if max < 1 {
		max = 1
	}
	h := &History{
		path: path,
		max:  max,
		trie: patricia.NewTrie(),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warnf("Failed to read history file %s: %v. Starting empty.", path, err)
		}
		return h
	}

	var file historyFile
	if err := msgpack.Unmarshal(data, &file); err != nil {
		log.Warnf("Corrupt history file %s: %v. Starting empty.", path, err)
		return h
	}
	if file.Version != fileVersion {
		log.Warnf("Unknown history file version %d in %s. Starting empty.", file.Version, path)
		return h
	}

	h.entries = file.Entries
	if len(h.entries) > h.max {
		h.entries = h.entries[:h.max]
	}
	h.rebuildLocked()
	log.Debugf("Loaded %d history entries from %s", len(h.entries), path)
	return h
}

// Record notes a selection: an already-known place moves to the front
// with its hit count bumped, a new one is prepended. The oldest entry
// falls off past the cap. The file is rewritten on every call.
func (h *History) Record(loc geocode.Location) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	hits := 1
	key := loc.Key()
	for i, e := range h.entries {
		if e.Location.Key() == key {
			hits = e.Hits + 1
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			break
		}
	}

	h.entries = append([]Entry{{Location: loc, SelectedAt: time.Now(), Hits: hits}}, h.entries...)
	if len(h.entries) > h.max {
		h.entries = h.entries[:h.max]
	}
	h.rebuildLocked()
	return h.saveLocked()
}

// Recent returns up to limit most recent selections, newest first.
func (h *History) Recent(limit int) []geocode.Location {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if limit <= 0 || limit > len(h.entries) {
		limit = len(h.entries)
	}
	locs := make([]geocode.Location, 0, limit)
	for _, e := range h.entries[:limit] {
		locs = append(locs, e.Location)
	}
	return locs
}

// Last returns the most recent selection, if any.
func (h *History) Last() (geocode.Location, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.entries) == 0 {
		return geocode.Location{}, false
	}
	return h.entries[0].Location, true
}

// Len returns the number of stored selections.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// rebuildLocked reindexes the trie after any entry mutation. Keys are
// the case-folded location keys, so prefix lookups over names work and
// identical places cannot collide. Callers hold h.mu.
func (h *History) rebuildLocked() {
	h.trie = patricia.NewTrie()
	for i, e := range h.entries {
		h.trie.Insert(patricia.Prefix(e.Location.Key()), i)
	}
}

// saveLocked writes the file atomically: full rewrite to a temp file,
// then rename over the old one. Callers hold h.mu.
func (h *History) saveLocked() error {
	data, err := msgpack.Marshal(historyFile{Version: fileVersion, Entries: h.entries})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(h.path), 0755); err != nil {
		return err
	}
	tmp := h.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, h.path)
}
