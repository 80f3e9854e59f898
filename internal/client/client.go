package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lazypower/keepsharp/internal/analytics"
)

const httpTimeout = 5 * time.Second

// Client talks to a running keepsharp server.
type Client struct {
	http    *http.Client
	baseURL string
}

// Health is the server's /api/health response.
type Health struct {
	Status  string  `json:"status"`
	Version string  `json:"version"`
	Uptime  float64 `json:"uptime"`
	DB      bool    `json:"db"`
}

// New creates a client for baseURL, e.g. http://127.0.0.1:37778.
// A bare host:port gets an http:// scheme.
func New(baseURL string) *Client {
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	return &Client{
		http:    &http.Client{Timeout: httpTimeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// URL returns the server base URL.
func (c *Client) URL() string {
	return c.baseURL
}

// get sends a GET request and decodes the JSON response into v.
func (c *Client) get(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response %s: %w", path, err)
	}
	if resp.StatusCode >= 400 {
		var body struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &body) == nil && body.Error != "" {
			return fmt.Errorf("GET %s: status %d: %s", path, resp.StatusCode, body.Error)
		}
		return fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// Health fetches the server health report.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.get(ctx, "/api/health", &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// Healthy reports whether the server is reachable and its storage is up.
func (c *Client) Healthy(ctx context.Context) bool {
	h, err := c.Health(ctx)
	return err == nil && h.Status == "ok" && h.DB
}

// Alerts fetches the server's current alerts.
func (c *Client) Alerts(ctx context.Context) ([]analytics.Alert, error) {
	var alerts []analytics.Alert
	if err := c.get(ctx, "/api/alerts", &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}
