// Package authapi is the HTTP client for a remote authentication backend.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/msomdec/zedny-portal/internal/domain"
)

// LoginPath is the backend endpoint that verifies credentials.
const LoginPath = "/auth/login"

const maxResponseBytes = 1 << 20

// Client talks to the auth backend rooted at baseURL.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client. A nil httpClient gets a 10 second timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest posts {email, password} as JSON to the login endpoint and
// returns the raw response body. 401 and 403 map to domain.ErrUnauthorized.
func (c *Client) LoginRequest(ctx context.Context, email, password string) ([]byte, error) {
	body, err := json.Marshal(loginPayload{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("encode login payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+LoginPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send login request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read login response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, domain.ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("login request: unexpected status %d", resp.StatusCode)
	}
	return data, nil
}
