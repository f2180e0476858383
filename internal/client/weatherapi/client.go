// Package weatherapi is a small client for the WeatherAPI.com current
// conditions endpoint.
package weatherapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

type Client struct {
	host       string
	apiKey     string
	httpClient *http.Client
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("weather API error (%d): %s", e.Status, e.Body)
}

func NewClient(httpClient *http.Client, host, apiKey string) *Client {
	if host == "" {
		host = "https://api.weatherapi.com/v1"
	}
	host = strings.TrimRight(host, "/")
	return &Client{
		host:       host,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// Current holds the fields we persist per venue city.
type Current struct {
	City          string  `json:"city"`
	TempC         float64 `json:"tempC"`
	WindKph       float64 `json:"windKph"`
	Precipitation float64 `json:"precipMm"`
	Condition     string  `json:"condition"`
}

func (c *Client) GetCurrent(ctx context.Context, city string) (*Current, error) {
	if city == "" {
		return nil, fmt.Errorf("city is required")
	}
	query := url.Values{}
	query.Set("key", c.apiKey)
	query.Set("q", city)
	fullURL := c.host + "/current.json?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode, Body: string(body)}
	}

	var payload struct {
		Location struct {
			Name string `json:"name"`
		} `json:"location"`
		Current struct {
			TempC     float64 `json:"temp_c"`
			WindKph   float64 `json:"wind_kph"`
			PrecipMm  float64 `json:"precip_mm"`
			Condition struct {
				Text string `json:"text"`
			} `json:"condition"`
		} `json:"current"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode weather: %w", err)
	}
	name := payload.Location.Name
	if name == "" {
		name = city
	}
	return &Current{
		City:          name,
		TempC:         payload.Current.TempC,
		WindKph:       payload.Current.WindKph,
		Precipitation: payload.Current.PrecipMm,
		Condition:     payload.Current.Condition.Text,
	}, nil
}
