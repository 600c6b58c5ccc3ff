package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServerClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return newTestClient(srv.URL, srv.Client())
}

func TestNewClient_ValidatesConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing base url", Config{Email: "a@b.de", APIToken: "tok"}},
		{"plain http", Config{BaseURL: "http://x.atlassian.net", Email: "a@b.de", APIToken: "tok"}},
		{"missing email", Config{BaseURL: "https://x.atlassian.net", APIToken: "tok"}},
		{"bad email", Config{BaseURL: "https://x.atlassian.net", Email: "nope", APIToken: "tok"}},
		{"missing token", Config{BaseURL: "https://x.atlassian.net", Email: "a@b.de"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.cfg)
			assert.Error(t, err)
			assert.Nil(t, client)
		})
	}
}

func TestNewClient_TrimsAndNormalizes(t *testing.T) {
	client, err := NewClient(Config{
		BaseURL:  "  https://example.atlassian.net/  ",
		Email:    " a@b.de ",
		APIToken: " tok ",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://example.atlassian.net", client.BaseURL())
}

func TestSearchIssues_RejectsBadProjectKey(t *testing.T) {
	client := newTestClient("https://example.atlassian.net", http.DefaultClient)

	for _, key := range []string{"", "   ", `X" OR project != "`, "KEY WITH SPACE"} {
		issues, err := client.SearchIssues(context.Background(), key)
		assert.ErrorIs(t, err, ErrInvalidProjectKey, "key %q", key)
		assert.Nil(t, issues)
	}
}

func TestSearchIssues_PaginatesWithToken(t *testing.T) {
	var requests []searchRequest
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/api/3/search/jql", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "tester@example.com", user)
		assert.Equal(t, "test-token", pass)

		var req searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		requests = append(requests, req)

		if req.NextPageToken == "" {
			fmt.Fprint(w, `{"issues": [{"key": "KBAS-1", "fields": {"summary": "first"}}], "nextPageToken": "tok-2"}`)
			return
		}
		fmt.Fprint(w, `{"issues": [{"key": "KBAS-2", "fields": {"summary": "second"}}]}`)
	})

	issues, err := client.SearchIssues(context.Background(), "KBAS")
	require.NoError(t, err)

	require.Len(t, issues, 2)
	assert.Equal(t, "KBAS-1", issues[0].Key)
	assert.Equal(t, "KBAS-2", issues[1].Key)

	require.Len(t, requests, 2)
	assert.Equal(t, `project = "KBAS" AND type in (Task, Story, Bug)`, requests[0].JQL)
	assert.Equal(t, "tok-2", requests[1].NextPageToken)
}

func TestSearchIssues_PropagatesAPIError(t *testing.T) {
	client := newServerClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"errorMessages": ["auth failed"]}`)
	})

	issues, err := client.SearchIssues(context.Background(), "KBAS")
	require.Error(t, err)
	assert.Nil(t, issues)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestGetIssue_RejectsBadIssueKey(t *testing.T) {
	client := newTestClient("https://example.atlassian.net", http.DefaultClient)

	for _, key := range []string{"", "KBAS", "123-456", "KBAS-12x", "../secret"} {
		issue, err := client.GetIssue(context.Background(), key)
		assert.ErrorIs(t, err, ErrInvalidIssueKey, "key %q", key)
		assert.Nil(t, issue)
	}
}

func TestGetIssue_FetchesSingleIssue(t *testing.T) {
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/3/issue/KBAS-42", r.URL.Path)
		fmt.Fprint(w, `{
			"key": "KBAS-42",
			"fields": {
				"summary": "fix the thing",
				"status": {"name": "In Progress"},
				"assignee": {"displayName": "Ada Lovelace"},
				"created": "2025-01-02T03:04:05.000+0000",
				"updated": "2025-01-03T03:04:05.000+0000"
			}
		}`)
	})

	issue, err := client.GetIssue(context.Background(), "KBAS-42")
	require.NoError(t, err)

	assert.Equal(t, "KBAS-42", issue.Key)
	assert.Equal(t, "fix the thing", issue.Fields.Summary)
	assert.Equal(t, "In Progress", issue.Fields.Status.Name)
	require.NotNil(t, issue.Fields.Assignee)
	assert.Equal(t, "Ada Lovelace", issue.Fields.Assignee.DisplayName)
}

func TestGetIssue_NotFound(t *testing.T) {
	client := newServerClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	issue, err := client.GetIssue(context.Background(), "KBAS-9999")
	require.Error(t, err)
	assert.Nil(t, issue)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestValidate(t *testing.T) {
	t.Run("valid credentials", func(t *testing.T) {
		client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/rest/api/3/myself", r.URL.Path)
			fmt.Fprint(w, `{"accountId": "abc"}`)
		})
		assert.NoError(t, client.Validate(context.Background()))
	})

	t.Run("rejected credentials", func(t *testing.T) {
		client := newServerClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		err := client.Validate(context.Background())
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	})
}
