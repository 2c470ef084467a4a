package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	logx "github.com/sharmajidotdev/cycle-trip-planner-agent-project/pkg/logger"
)

const defaultBaseURL = "https://geocoding-api.open-meteo.com/v1/search"

// Place is a resolved location.
type Place struct {
	Name     string
	Lat      float64
	Lon      float64
	Country  string
	Timezone string
}

// Geocoder resolves a place name to coordinates. Implementations return
// an error on any failure so callers can fall back to synthetic data.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*Place, error)
}

// Client queries the free Open-Meteo geocoding API.
type Client struct {
	httpc   *http.Client
	baseURL string
}

func NewClient() *Client {
	return &Client{
		httpc:   &http.Client{Timeout: 8 * time.Second},
		baseURL: defaultBaseURL,
	}
}

type searchResponse struct {
	Results []struct {
		Name      string  `json:"name"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Country   string  `json:"country"`
		Timezone  string  `json:"timezone"`
	} `json:"results"`
}

func (c *Client) Geocode(ctx context.Context, query string) (*Place, error) {
	if query == "" {
		return nil, fmt.Errorf("empty query")
	}

	q := url.Values{}
	q.Set("name", query)
	q.Set("count", "1")
	q.Set("language", "en")
	q.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		logx.Warn().Err(err).Str("query", query).Msg("geocoding request failed")
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding status %d", resp.StatusCode)
	}

	var data searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}
	if len(data.Results) == 0 {
		return nil, fmt.Errorf("no geocoding results for %q", query)
	}

	best := data.Results[0]
	name := best.Name
	if name == "" {
		name = query
	}
	return &Place{
		Name:     name,
		Lat:      best.Latitude,
		Lon:      best.Longitude,
		Country:  best.Country,
		Timezone: best.Timezone,
	}, nil
}

var _ Geocoder = (*Client)(nil)
