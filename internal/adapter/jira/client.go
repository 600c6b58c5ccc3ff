// Package jira talks to the Jira Cloud REST API v3. It mirrors the GitHub
// gateway: each method covers exactly one endpoint and its pagination,
// leaving error classification to the caller.
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/SIT-Team-4/KABAS/internal/validation"
)

const defaultTimeout = 30 * time.Second

// Config carries the connection settings for one Jira site. It is passed
// explicitly to NewClient, there is no process-wide Jira state.
type Config struct {
	BaseURL  string
	Email    string
	APIToken string
}

func (c Config) validate() error {
	baseURL := c.BaseURL
	email := c.Email

	return validation.Validate(
		validation.Required("baseUrl", c.BaseURL),
		validation.HTTPSURL("baseUrl", &baseURL),
		validation.Required("email", c.Email),
		validation.Email("email", &email),
		validation.Required("apiToken", c.APIToken),
	)
}

// Client is an authenticated HTTP client for a single Jira site.
type Client struct {
	baseURL string
	email   string
	token   string
	http    *http.Client
}

// NewClient validates the configuration and builds a client. Credential
// values are trimmed before use since they come from user input.
func NewClient(cfg Config) (*Client, error) {
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	cfg.Email = strings.TrimSpace(cfg.Email)
	cfg.APIToken = strings.TrimSpace(cfg.APIToken)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		email:   cfg.Email,
		token:   cfg.APIToken,
		http:    &http.Client{Timeout: defaultTimeout},
	}, nil
}

// newTestClient wires a client to a local test server, skipping the
// https requirement of NewClient.
func newTestClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		email:   "tester@example.com",
		token:   "test-token",
		http:    httpClient,
	}
}

// BaseURL returns the site URL the client was built for, used by callers
// to construct browse links.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// APIError is a non-2xx answer from Jira, kept raw for classification
// one layer up.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("jira: unexpected status %d: %s", e.StatusCode, e.Body)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(c.email, c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("jira request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode jira response: %w", err)
	}
	return nil
}
