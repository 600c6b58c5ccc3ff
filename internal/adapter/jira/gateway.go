package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/SIT-Team-4/KABAS/internal/validation"
)

var (
	// Project keys feed straight into a JQL string, so they are allow-listed
	// rather than escaped.
	projectKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

	// Issue keys become a URL path segment, e.g. KBAS-123.
	issueKeyPattern = regexp.MustCompile(`^(?i)[A-Z][A-Z0-9]+-\d+$`)
)

func projectKeyCheck(key string) validation.Check {
	return validation.Match("projectKey", key, projectKeyPattern, "must contain only letters, digits, hyphen or underscore")
}

func issueKeyCheck(key string) validation.Check {
	return validation.Match("issueKey", key, issueKeyPattern, "must look like PROJ-123")
}

// ErrInvalidProjectKey and ErrInvalidIssueKey reject identifiers before any
// network call is made.
var (
	ErrInvalidProjectKey = fmt.Errorf("invalid jira project key")
	ErrInvalidIssueKey   = fmt.Errorf("invalid jira issue key")
)

// Issue is a raw issue as returned by the Jira search and issue endpoints.
type Issue struct {
	Key    string `json:"key"`
	Fields struct {
		Summary string `json:"summary"`
		Status  struct {
			Name string `json:"name"`
		} `json:"status"`
		Assignee *struct {
			DisplayName string `json:"displayName"`
		} `json:"assignee"`
		Created     string          `json:"created"`
		Updated     string          `json:"updated"`
		Description json.RawMessage `json:"description"`
	} `json:"fields"`
}

type searchRequest struct {
	JQL           string   `json:"jql"`
	Fields        []string `json:"fields"`
	NextPageToken string   `json:"nextPageToken,omitempty"`
}

type searchResponse struct {
	Issues        []Issue `json:"issues"`
	NextPageToken string  `json:"nextPageToken"`
}

// SearchIssues fetches every Task, Story and Bug of a project via JQL
// search, following nextPageToken until the last page.
func (c *Client) SearchIssues(ctx context.Context, projectKey string) ([]Issue, error) {
	key := strings.TrimSpace(projectKey)
	if err := validation.Validate(projectKeyCheck(key)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProjectKey, err)
	}

	request := searchRequest{
		JQL:    fmt.Sprintf("project = %q AND type in (Task, Story, Bug)", key),
		Fields: []string{"key", "summary", "status", "assignee", "created", "updated"},
	}

	var issues []Issue
	for {
		var page searchResponse
		if err := c.do(ctx, http.MethodPost, "/rest/api/3/search/jql", request, &page); err != nil {
			return nil, err
		}

		issues = append(issues, page.Issues...)
		if page.NextPageToken == "" {
			return issues, nil
		}
		request.NextPageToken = page.NextPageToken
	}
}

// GetIssue fetches a single issue with its description.
func (c *Client) GetIssue(ctx context.Context, issueKey string) (*Issue, error) {
	key := strings.TrimSpace(issueKey)
	if err := validation.Validate(issueKeyCheck(key)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIssueKey, err)
	}

	var issue Issue
	if err := c.do(ctx, http.MethodGet, "/rest/api/3/issue/"+url.PathEscape(key), nil, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// Validate checks the configured credentials against the site by calling
// the current-user endpoint.
func (c *Client) Validate(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/rest/api/3/myself", nil, nil)
}
