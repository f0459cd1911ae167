package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Client fetches weather reports through the proxy. Requests honor
// context cancellation.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a weather client against the given proxy base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves the report for a coordinate pair in the given unit
// system. Unrecognized units fall back to metric.
func (c *Client) Fetch(ctx context.Context, lat, lon float64, units string) (*Report, error) {
	if !ValidUnits(units) {
		units = Metric
	}

	reqURL := fmt.Sprintf("%s/api/weather?lat=%s&lon=%s&units=%s",
		c.baseURL,
		strconv.FormatFloat(lat, 'f', -1, 64),
		strconv.FormatFloat(lon, 'f', -1, 64),
		units)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("weather: building request: %w", err)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("weather: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather: unexpected status %d", resp.StatusCode)
	}

	var report Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, fmt.Errorf("weather: decoding report: %w", err)
	}

	log.Debugf("Took [ %v ] for (%0.2f, %0.2f) %s", time.Since(start), lat, lon, units)
	return &report, nil
}
