package search

// Status describes what the search pipeline is doing, for display purposes.
type Status string

const (
	// StatusIdle means no lookup is running and nothing needs attention.
	StatusIdle Status = "idle"
	// StatusSearching means a lookup for the current query is in flight.
	StatusSearching Status = "searching"
	// StatusNoResults means the current query completed and matched nothing.
	StatusNoResults Status = "no-results"
	// StatusError means the current query failed and can be retried.
	StatusError Status = "error"
)
