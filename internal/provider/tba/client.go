// Package tba provides an HTTP client for The Blue Alliance v3 read API,
// used to mirror event rosters into the local teams table.
//
// TBA uses X-TBA-Auth-Key header auth. Rate limiting is handled via a token
// bucket limiter.
package tba

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is the production TBA API root.
const DefaultBaseURL = "https://www.thebluealliance.com/api/v3"

// Client is the shared HTTP client for all TBA endpoints.
type Client struct {
	httpClient *http.Client
	baseURL    string
	authKey    string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a TBA HTTP client with rate limiting.
func NewClient(baseURL, authKey string, requestsPerMinute int, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	rps := float64(requestsPerMinute) / 60.0
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		authKey:    authKey,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     logger,
	}
}

// EventTeam is the subset of the TBA team object the roster mirror needs.
type EventTeam struct {
	Key        string `json:"key"`
	TeamNumber int    `json:"team_number"`
	Nickname   string `json:"nickname"`
	Name       string `json:"name"`
	City       string `json:"city"`
	StateProv  string `json:"state_prov"`
}

// EventTeams fetches the full team list registered at an event.
func (c *Client) EventTeams(ctx context.Context, eventKey string) ([]EventTeam, error) {
	body, err := c.get(ctx, "/event/"+eventKey+"/teams")
	if err != nil {
		return nil, err
	}

	var teams []EventTeam
	if err := json.Unmarshal(body, &teams); err != nil {
		return nil, fmt.Errorf("decode event teams: %w", err)
	}
	return teams, nil
}

// get performs a rate-limited GET request to a TBA endpoint.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-TBA-Auth-Key", c.authKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("TBA %s returned %d: %s", path, resp.StatusCode, truncate(body, 200))
	}
	return body, nil
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
