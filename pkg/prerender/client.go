// Package prerender is a minimal HTTP client for a prerender.io-compatible
// rendering service.
package prerender

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client fetches pre-rendered snapshots from the upstream service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient constructs a new prerender client with sane defaults.
func NewClient(baseURL, token string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
	}
}

// Render fetches the rendered snapshot for targetURL. Any non-2xx upstream
// status is an error; the caller decides the fallback.
func (c *Client) Render(ctx context.Context, targetURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+targetURL, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("X-Prerender-Token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("prerender upstream returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return body, resp.Header.Get("Content-Type"), nil
}
