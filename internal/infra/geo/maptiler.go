package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domaincampground "trailblaze/internal/domain/campground"
)

var (
	ErrNoMatch       = errors.New("geo: no match for location")
	ErrNotConfigured = errors.New("geo: geocoder is not configured")
)

// Geocoder resolves a free-text address to a single best-match geometry.
type Geocoder interface {
	Forward(ctx context.Context, query string) (domaincampground.Geometry, error)
}

// MapTilerClient calls a MapTiler-compatible forward geocoding endpoint.
// The api key is injected at construction, never read from ambient state.
type MapTilerClient struct {
	Client  *http.Client
	BaseURL string
	APIKey  string
	Logger  *slog.Logger
}

func NewMapTilerClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *MapTilerClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &MapTilerClient{
		Client:  &http.Client{Timeout: timeout},
		BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		APIKey:  strings.TrimSpace(apiKey),
		Logger:  logger,
	}
}

type featureCollection struct {
	Features []struct {
		Geometry struct {
			Type        string    `json:"type"`
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// Forward requests exactly one match and consumes the first feature's
// geometry. An empty feature list is ErrNoMatch, which callers treat as a
// gateway failure aborting the whole mutation.
func (c *MapTilerClient) Forward(ctx context.Context, query string) (domaincampground.Geometry, error) {
	var zero domaincampground.Geometry
	if c == nil || c.Client == nil {
		return zero, ErrNotConfigured
	}
	if c.BaseURL == "" || c.APIKey == "" {
		return zero, ErrNotConfigured
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return zero, ErrNoMatch
	}

	endpoint := fmt.Sprintf("%s/geocoding/%s.json?key=%s&limit=1", c.BaseURL, url.PathEscape(query), url.QueryEscape(c.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return zero, fmt.Errorf("geo: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return zero, fmt.Errorf("geo: forward geocode: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return zero, fmt.Errorf("geo: forward geocode: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var fc featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return zero, fmt.Errorf("geo: decode response: %w", err)
	}
	if len(fc.Features) == 0 {
		return zero, ErrNoMatch
	}
	geometry := fc.Features[0].Geometry
	if len(geometry.Coordinates) < 2 {
		return zero, fmt.Errorf("geo: first match has no usable coordinates")
	}

	if c.Logger != nil {
		c.Logger.Debug("geocode resolved", "query", query, "lon", geometry.Coordinates[0], "lat", geometry.Coordinates[1])
	}
	return domaincampground.Geometry{
		Type:        geometry.Type,
		Coordinates: [2]float64{geometry.Coordinates[0], geometry.Coordinates[1]},
	}, nil
}

var _ Geocoder = (*MapTilerClient)(nil)
