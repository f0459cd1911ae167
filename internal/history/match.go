package history

import (
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/sahilm/fuzzy"
	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/DaigaTahkapaa/Project-2-Weather-App/pkg/geocode"
)

// entrySource adapts entries for fuzzy matching over location names.
type entrySource []Entry

func (s entrySource) Len() int            { return len(s) }
func (s entrySource) String(i int) string { return s[i].Location.Name }

// Matches returns up to limit past selections matching query, most
// recent first. Exact name prefixes win; when nothing starts with the
// query, a fuzzy pass over the stored names catches typos and
// mid-word fragments.
func (h *History) Matches(query string, limit int) []geocode.Location {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || limit < 1 {
		return nil
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	var indexes []int
	err := h.trie.VisitSubtree(patricia.Prefix(query), func(p patricia.Prefix, item patricia.Item) error {
		indexes = append(indexes, item.(int))
		return nil
	})
	if err != nil {
		log.Errorf("Error searching history index: %v", err)
		return nil
	}

	if len(indexes) == 0 {
		for _, m := range fuzzy.FindFrom(query, entrySource(h.entries)) {
			indexes = append(indexes, m.Index)
		}
	} else {
		// entries are recency-ordered, so lower index = more recent
		sort.Ints(indexes)
	}

	if len(indexes) > limit {
		indexes = indexes[:limit]
	}
	locs := make([]geocode.Location, 0, len(indexes))
	for _, i := range indexes {
		locs = append(locs, h.entries[i].Location)
	}
	return locs
}
