package search

import (
	"github.com/DaigaTahkapaa/Project-2-Weather-App/pkg/geocode"
)

// candidateFilter tracks which location keys have been seen already.
type candidateFilter struct {
	seen map[string]bool
}

func newCandidateFilter() *candidateFilter {
	return &candidateFilter{seen: make(map[string]bool)}
}

// shouldInclude reports whether a candidate with the given key is new.
// The first candidate with a key claims it; later ones are duplicates.
func (f *candidateFilter) shouldInclude(key string) bool {
	if f.seen[key] {
		return false
	}
	f.seen[key] = true
	return true
}

// Dedupe removes duplicate candidates while preserving order: the first
// occurrence of each key stays, later ones are dropped. Keys compare
// case-insensitively (see geocode.Location.Key), so "Paris, FR" and
// "paris, fr" collapse into one entry while "Paris, Texas, US" survives.
func Dedupe(locs []geocode.Location) []geocode.Location {
	if len(locs) < 2 {
		return locs
	}

	filter := newCandidateFilter()
	result := make([]geocode.Location, 0, len(locs))
	for _, loc := range locs {
		if filter.shouldInclude(loc.Key()) {
			result = append(result, loc)
		}
	}
	return result
}
