// Package adminclient is a Go client for the marketplace admin API. It
// carries the session state manager used by back-office tooling.
package adminclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// User is the authenticated identity behind a session.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Profile mirrors the admin profile served by the API.
type Profile struct {
	ID           int        `json:"id"`
	AuthUserID   string     `json:"authUserId"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Role         string     `json:"role"`
	Active       bool       `json:"active"`
	Blocked      bool       `json:"blocked"`
	BlockedUntil *time.Time `json:"blockedUntil,omitempty"`
}

// LoginResult is the discriminated outcome surfaced to callers. ErrorCode
// is one of INVALID_CREDENTIALS, ACCOUNT_INACTIVE, ACCOUNT_BLOCKED or
// NETWORK_ERROR.
type LoginResult struct {
	Success      bool
	ErrorCode    string
	Message      string
	BlockedUntil *time.Time
}

// Client talks to the admin API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient constructs a new admin API client.
func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	} `json:"error"`
}

type loginData struct {
	Token   string   `json:"token"`
	Profile *Profile `json:"profile"`
}

type sessionData struct {
	User      User       `json:"user"`
	Profile   *Profile   `json:"profile"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

// login calls POST /v1/admin/auth/login. An enumerated rejection comes
// back as (*envelope with Error, nil); transport problems as an error.
func (c *Client) login(ctx context.Context, email, password string) (*envelope, error) {
	payload, _ := json.Marshal(map[string]string{"email": email, "password": password})
	return c.do(ctx, http.MethodPost, "/v1/admin/auth/login", "", bytes.NewReader(payload))
}

// session calls GET /v1/admin/auth/session with the given token.
func (c *Client) session(ctx context.Context, token string) (*envelope, error) {
	return c.do(ctx, http.MethodGet, "/v1/admin/auth/session", token, nil)
}

// logout calls POST /v1/admin/auth/logout. The endpoint is idempotent.
func (c *Client) logout(ctx context.Context, token string) error {
	_, err := c.do(ctx, http.MethodPost, "/v1/admin/auth/logout", token, nil)
	return err
}

// do performs a request and decodes the standard envelope. Non-2xx
// responses still return the decoded envelope so callers can read the
// enumerated error code; only transport/decoding failures return err.
func (c *Client) do(ctx context.Context, method, path, token string, body io.Reader) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &env, nil
}
