// Package oddsapi is a minimal client for The Odds API v4 odds and scores
// endpoints.
package oddsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
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
	return fmt.Sprintf("odds API error (%d): %s", e.Status, e.Body)
}

func NewClient(httpClient *http.Client, host, apiKey string) *Client {
	if host == "" {
		host = "https://api.the-odds-api.com"
	}
	host = strings.TrimRight(host, "/")
	return &Client{
		host:       host,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("apiKey", c.apiKey)
	fullURL := c.host + path + "?" + query.Encode()
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
	return body, nil
}

// GetOdds returns current events with bookmaker odds for a sport. Markets is
// a list of market keys, e.g. h2h, spreads, totals.
func (c *Client) GetOdds(ctx context.Context, sportKey, regions string, markets []string) ([]Event, error) {
	if sportKey == "" {
		return nil, fmt.Errorf("sport key is required")
	}
	query := url.Values{}
	if regions != "" {
		query.Set("regions", regions)
	}
	if len(markets) > 0 {
		query.Set("markets", strings.Join(markets, ","))
	}
	query.Set("oddsFormat", "american")
	body, err := c.doRequest(ctx, "/v4/sports/"+sportKey+"/odds", query)
	if err != nil {
		return nil, err
	}
	var events []Event
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("failed to decode odds: %w", err)
	}
	return events, nil
}

// GetScores returns recent and live scores for a sport, looking back daysFrom
// days for completed events.
func (c *Client) GetScores(ctx context.Context, sportKey string, daysFrom int) ([]EventScore, error) {
	if sportKey == "" {
		return nil, fmt.Errorf("sport key is required")
	}
	query := url.Values{}
	if daysFrom > 0 {
		query.Set("daysFrom", strconv.Itoa(daysFrom))
	}
	body, err := c.doRequest(ctx, "/v4/sports/"+sportKey+"/scores/", query)
	if err != nil {
		return nil, err
	}
	var scores []EventScore
	if err := json.Unmarshal(body, &scores); err != nil {
		return nil, fmt.Errorf("failed to decode scores: %w", err)
	}
	return scores, nil
}
