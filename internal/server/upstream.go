// Package server implements the key-hiding proxy between the client and
// the OpenWeather API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/DaigaTahkapaa/Project-2-Weather-App/pkg/geocode"
)

// UpstreamError reports a non-2xx answer from the weather API.
type UpstreamError struct {
	Status int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.Status)
}

// Upstream talks to the OpenWeather API with the secret key attached.
// The key never appears in returned errors; request URLs are stripped
// from transport failures before they can reach a log line.
type Upstream struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewUpstream creates an upstream client.
func NewUpstream(baseURL, apiKey string, timeout time.Duration) *Upstream {
	return &Upstream{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// Geocode resolves a place name via /geo/1.0/direct. The caller's
// context rides along, so a dropped client connection aborts the
// upstream request too.
func (u *Upstream) Geocode(ctx context.Context, query string, limit int) ([]geocode.Location, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("appid", u.apiKey)

	body, err := u.get(ctx, "/geo/1.0/direct", params)
	if err != nil {
		return nil, err
	}

	var locs []geocode.Location
	if err := json.Unmarshal(body, &locs); err != nil {
		return nil, fmt.Errorf("decoding geocode response: %w", err)
	}
	return locs, nil
}

// Weather fetches a one-call report via /data/2.5/onecall and returns
// the raw body for passthrough. Minutely and hourly blocks are excluded;
// the client only renders current conditions and the daily strip.
func (u *Upstream) Weather(ctx context.Context, lat, lon float64, units string) ([]byte, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("units", units)
	params.Set("exclude", "minutely,hourly,alerts")
	params.Set("appid", u.apiKey)

	return u.get(ctx, "/data/2.5/onecall", params)
}

func (u *Upstream) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	reqURL := u.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, stripURL(err)
	}

	resp, err := u.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, stripURL(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, stripURL(err)
	}
	return body, nil
}

// stripURL unwraps transport errors down past the layer that embeds the
// request URL, since the URL carries the API key.
func stripURL(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) && ue.Err != nil {
		return ue.Err
	}
	return err
}
