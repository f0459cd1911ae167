package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultLimit is the number of candidates requested when the caller
// passes a non-positive limit.
const DefaultLimit = 5

// ErrEmptyQuery is returned when Lookup is called with a blank query.
// Callers are expected to short-circuit empty input before reaching the
// client, so this never surfaces to users.
var ErrEmptyQuery = errors.New("geocode: empty query")

// TransportError reports a failed lookup round-trip. Status is zero when
// the request never produced a response (network failure, bad payload).
type TransportError struct {
	URL    string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("geocode: unexpected status %d from %s", e.Status, e.URL)
	}
	return fmt.Sprintf("geocode: request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Client resolves place names through the proxy's geocode route.
// Lookups honor context cancellation: aborting the context aborts the
// request in flight.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a geocoding client against the given proxy base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Lookup fetches up to limit candidates for query. A cancelled context
// returns context.Canceled; any other failure is a *TransportError.
// An empty candidate list with a nil error means the query matched
// nothing, which is not a failure.
func (c *Client) Lookup(ctx context.Context, query string, limit int) ([]Location, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	reqURL := fmt.Sprintf("%s/api/geocode?q=%s&limit=%d", c.baseURL, url.QueryEscape(query), limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &TransportError{URL: reqURL, Err: err}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &TransportError{URL: reqURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{URL: reqURL, Status: resp.StatusCode}
	}

	var locs []Location
	if err := json.NewDecoder(resp.Body).Decode(&locs); err != nil {
		return nil, &TransportError{URL: reqURL, Err: err}
	}

	log.Debugf("Took [ %v ] for query '%s' (%d candidates)", time.Since(start), query, len(locs))
	return locs, nil
}
