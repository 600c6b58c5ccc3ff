package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/SIT-Team-4/KABAS/internal/adapter/jira"
	"github.com/SIT-Team-4/KABAS/internal/domain"
	apperrors "github.com/SIT-Team-4/KABAS/internal/platform/errors"
)

// jiraConfigForTeam builds a Jira client config from a team's stored
// credential. The credential must be a Jira one with base URL and email set.
func (s *Service) jiraConfigForTeam(ctx context.Context, teamID int32) (jira.Config, error) {
	cred, err := s.credentials.GetByTeamID(ctx, teamID)
	if err != nil {
		if errors.Is(err, domain.ErrCredentialNotFound) {
			return jira.Config{}, apperrors.NotFoundError("No credential stored for this team")
		}
		return jira.Config{}, apperrors.InternalError("failed to load credential", err)
	}

	if cred.Provider != domain.ProviderJira {
		return jira.Config{}, apperrors.ValidationError("team credential is not a Jira credential")
	}
	if cred.BaseURL == nil || cred.Email == nil || cred.APIToken == "" {
		return jira.Config{}, apperrors.ValidationError("Jira credential is incomplete, base URL, email and API token are required")
	}

	return jira.Config{BaseURL: *cred.BaseURL, Email: *cred.Email, APIToken: cred.APIToken}, nil
}

// ListTeamJiraIssues fetches and normalizes all issues of a Jira project
// using the team's stored credential.
func (s *Service) ListTeamJiraIssues(ctx context.Context, teamID int32, projectKey string) (issues []domain.JiraIssue, err error) {
	start := time.Now()
	defer func() { s.observe("jira", "search", start, err) }()

	cfg, err := s.jiraConfigForTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	gateway, err := s.newJira(cfg)
	if err != nil {
		return nil, apperrors.ValidationError(err.Error())
	}

	raw, err := gateway.SearchIssues(ctx, projectKey)
	if err != nil {
		return nil, translateJiraError(err)
	}

	issues = make([]domain.JiraIssue, len(raw))
	for i, issue := range raw {
		issues[i] = normalizeJiraIssue(issue, gateway.BaseURL())
	}
	return issues, nil
}

// GetTeamJiraIssue fetches one Jira issue with its description using the
// team's stored credential.
func (s *Service) GetTeamJiraIssue(ctx context.Context, teamID int32, issueKey string) (detail *domain.JiraIssueDetail, err error) {
	start := time.Now()
	defer func() { s.observe("jira", "issue", start, err) }()

	cfg, err := s.jiraConfigForTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	gateway, err := s.newJira(cfg)
	if err != nil {
		return nil, apperrors.ValidationError(err.Error())
	}

	raw, err := gateway.GetIssue(ctx, issueKey)
	if err != nil {
		return nil, translateJiraError(err)
	}

	return &domain.JiraIssueDetail{
		JiraIssue:   normalizeJiraIssue(*raw, gateway.BaseURL()),
		Description: adfText(raw.Fields.Description),
	}, nil
}

// JiraValidationInput is a candidate Jira credential to test before saving.
type JiraValidationInput struct {
	BaseURL  string `json:"baseUrl"`
	Email    string `json:"email"`
	APIToken string `json:"apiToken"`
}

// ValidateJiraCredential checks a candidate credential against the Jira
// site without persisting anything.
func (s *Service) ValidateJiraCredential(ctx context.Context, in JiraValidationInput) (err error) {
	start := time.Now()
	defer func() { s.observe("jira", "validate", start, err) }()

	gateway, err := s.newJira(jira.Config{BaseURL: in.BaseURL, Email: in.Email, APIToken: in.APIToken})
	if err != nil {
		return apperrors.ValidationError(err.Error())
	}
	if err := gateway.Validate(ctx); err != nil {
		return translateJiraError(err)
	}
	return nil
}

// normalizeJiraIssue projects a raw Jira issue onto the domain list shape,
// substituting readable defaults for absent fields.
func normalizeJiraIssue(raw jira.Issue, baseURL string) domain.JiraIssue {
	issue := domain.JiraIssue{
		ID:       raw.Key,
		Title:    raw.Fields.Summary,
		Status:   raw.Fields.Status.Name,
		Assignee: "Unassigned",
	}
	if issue.ID == "" {
		issue.ID = "unknown"
	}
	if issue.Title == "" {
		issue.Title = "Untitled"
	}
	if issue.Status == "" {
		issue.Status = "Unknown"
	}
	if raw.Fields.Assignee != nil && raw.Fields.Assignee.DisplayName != "" {
		issue.Assignee = raw.Fields.Assignee.DisplayName
	}
	if raw.Fields.Created != "" {
		created := raw.Fields.Created
		issue.Created = &created
	}
	if raw.Fields.Updated != "" {
		updated := raw.Fields.Updated
		issue.Updated = &updated
	}
	if baseURL != "" && raw.Key != "" {
		url := baseURL + "/browse/" + raw.Key
		issue.URL = &url
	}
	return issue
}

// adfNode is the subset of the Atlassian Document Format needed to pull the
// plain text out of a description.
type adfNode struct {
	Text    string    `json:"text"`
	Content []adfNode `json:"content"`
}

func (n adfNode) flatten(sb *strings.Builder) {
	if n.Text != "" {
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(n.Text)
	}
	for _, child := range n.Content {
		child.flatten(sb)
	}
}

// adfText extracts the concatenated text content of an ADF description.
// Plain-string descriptions pass through unchanged.
func adfText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return plain
	}

	var doc adfNode
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ""
	}
	var sb strings.Builder
	doc.flatten(&sb)
	return sb.String()
}

// translateJiraError maps raw Jira errors to the caller-facing taxonomy.
func translateJiraError(err error) error {
	if errors.Is(err, jira.ErrInvalidProjectKey) || errors.Is(err, jira.ErrInvalidIssueKey) {
		return apperrors.ValidationError(err.Error())
	}

	var apiErr *jira.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return apperrors.AuthenticationError("Invalid Jira credentials")
		case http.StatusNotFound:
			return apperrors.NotFoundError("Jira resource not found")
		case http.StatusTooManyRequests:
			return apperrors.RateLimitError("Jira API rate limit exceeded")
		}
		return apperrors.UpstreamError("Jira API error", apiErr.StatusCode, err)
	}

	return apperrors.InternalError("Jira request failed", err)
}
