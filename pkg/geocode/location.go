// Package geocode provides the location model and the HTTP client used to
// resolve free-text place names into coordinates through the proxy.
package geocode

import (
	"fmt"
	"strings"
)

// Location is a single geocoding candidate returned for a query.
// Name and Country are always set; State is present for countries that
// report administrative divisions (mostly the US).
type Location struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
	State   string  `json:"state,omitempty"`
}

// Key returns the identity used for duplicate detection. Two candidates
// with the same key describe the same place regardless of letter casing
// or stray whitespace in the upstream data.
func (l Location) Key() string {
	return strings.ToLower(strings.TrimSpace(l.Name)) + "|" +
		strings.ToLower(strings.TrimSpace(l.Country)) + "|" +
		strings.ToLower(strings.TrimSpace(l.State))
}

// Display returns the human readable form, e.g. "Paris, FR" or
// "Paris, Texas, US".
func (l Location) Display() string {
	if l.State != "" {
		return fmt.Sprintf("%s, %s, %s", l.Name, l.State, l.Country)
	}
	return fmt.Sprintf("%s, %s", l.Name, l.Country)
}

func (l Location) String() string {
	return l.Display()
}
