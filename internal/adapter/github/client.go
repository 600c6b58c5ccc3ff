// Package github wraps the GitHub REST and GraphQL APIs behind three
// fetchers: the issue list, per-issue timelines, and the project board item
// list. Each fetcher handles only its own endpoint's pagination and returns
// provider errors unmodified; classification happens in the app layer.
package github

import (
	"context"
	"fmt"
	"io"
	"net/http"

	gh "github.com/google/go-github/v61/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
)

// Client bundles an authenticated REST and GraphQL client for one token.
// Construction is cheap; a fresh Client is built per aggregation call so no
// token ever outlives its request.
type Client struct {
	rest    *gh.Client
	graphql *githubv4.Client
}

// NewClient creates a Client authenticated with the given access token.
func NewClient(token string) *Client {
	httpClient := oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	))

	return &Client{
		rest:    gh.NewClient(httpClient),
		graphql: githubv4.NewClient(graphqlHTTPClient(httpClient)),
	}
}

// newTestClient builds a Client against local test servers.
func newTestClient(restBaseURL, graphqlURL string, httpClient *http.Client) (*Client, error) {
	rest, err := gh.NewClient(httpClient).WithEnterpriseURLs(restBaseURL, restBaseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		rest:    rest,
		graphql: githubv4.NewEnterpriseClient(graphqlURL, graphqlHTTPClient(httpClient)),
	}, nil
}

// APIError carries the HTTP status of a failed GraphQL call. The REST client
// produces *gh.ErrorResponse on its own; the GraphQL library flattens
// non-2xx responses into plain string errors, so the transport below turns
// them into this type before the status is lost.
type APIError struct {
	StatusCode         int
	RateLimitRemaining string
	Body               string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: unexpected status %d: %s", e.StatusCode, e.Body)
}

// statusTransport fails non-2xx responses with a typed *APIError.
type statusTransport struct {
	next http.RoundTripper
}

func (t *statusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	next := t.next
	if next == nil {
		next = http.DefaultTransport
	}

	resp, err := next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return nil, &APIError{
		StatusCode:         resp.StatusCode,
		RateLimitRemaining: resp.Header.Get("X-Ratelimit-Remaining"),
		Body:               string(body),
	}
}

func graphqlHTTPClient(base *http.Client) *http.Client {
	return &http.Client{
		Transport: &statusTransport{next: base.Transport},
		Timeout:   base.Timeout,
	}
}
