package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	gh "github.com/google/go-github/v61/github"
	"golang.org/x/sync/errgroup"

	"github.com/SIT-Team-4/KABAS/internal/adapter/github"
	"github.com/SIT-Team-4/KABAS/internal/domain"
	apperrors "github.com/SIT-Team-4/KABAS/internal/platform/errors"
)

// timelineBatchSize bounds concurrent outbound timeline requests. Batches
// run strictly one after another.
const timelineBatchSize = 10

// columnMoveEvent is the only timeline event kept on normalized issues.
const columnMoveEvent = "moved_columns_in_project"

// GetKanbanBoard assembles the normalized kanban view of one repository:
// issues and board statuses fetched concurrently, then per-issue timelines
// in batches, then one normalized record per issue in the provider's order.
// Any failing fetch aborts the whole call with a classified error.
func (s *Service) GetKanbanBoard(ctx context.Context, token, owner, repo string) (board *domain.KanbanBoard, err error) {
	start := time.Now()
	defer func() { s.observe("github", "kanban", start, err) }()

	if token == "" {
		return nil, apperrors.AuthenticationError("Invalid GitHub token")
	}
	gateway := s.newGitHub(token)

	var (
		issues     []*gh.Issue
		boardItems []github.BoardItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		issues, err = gateway.FetchIssues(gctx, owner, repo)
		return err
	})
	g.Go(func() error {
		var err error
		boardItems, err = gateway.FetchProjectBoardStatuses(gctx, owner, repo)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, translateGitHubError(err)
	}

	columns := buildColumnMap(boardItems)

	// Timeline results are slotted by issue index, so the final order does
	// not depend on network completion order.
	timelines := make([][]*gh.Timeline, len(issues))
	for start := 0; start < len(issues); start += timelineBatchSize {
		end := min(start+timelineBatchSize, len(issues))

		batch, bctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			batch.Go(func() error {
				events, err := gateway.FetchIssueTimeline(bctx, owner, repo, issues[i].GetNumber())
				if err != nil {
					return err
				}
				timelines[i] = events
				return nil
			})
		}
		if err := batch.Wait(); err != nil {
			return nil, translateGitHubError(err)
		}
	}

	normalized := make([]domain.Issue, len(issues))
	for i, raw := range issues {
		normalized[i] = normalizeIssue(raw, columns, timelines[i])
	}

	return &domain.KanbanBoard{
		Repository: domain.Repository{Owner: owner, Repo: repo},
		FetchedAt:  s.clock.Now(),
		Issues:     normalized,
	}, nil
}

// buildColumnMap indexes board items by issue number. Items without an issue
// number or without a status are skipped; duplicates overwrite.
func buildColumnMap(items []github.BoardItem) map[int]string {
	columns := make(map[int]string, len(items))
	for _, item := range items {
		if item.IssueNumber == nil || item.StatusName == nil {
			continue
		}
		columns[*item.IssueNumber] = *item.StatusName
	}
	return columns
}

// normalizeIssue projects one raw issue plus its timeline onto the domain
// shape. Pure, no I/O. Timeline events are filtered to column moves and kept
// in provider order.
func normalizeIssue(raw *gh.Issue, columns map[int]string, timeline []*gh.Timeline) domain.Issue {
	issue := domain.Issue{
		Number:         raw.GetNumber(),
		Title:          raw.GetTitle(),
		State:          domain.IssueState(raw.GetState()),
		Labels:         make([]string, 0, len(raw.Labels)),
		Assignees:      make([]string, 0, len(raw.Assignees)),
		CreatedAt:      raw.GetCreatedAt().Time,
		UpdatedAt:      raw.GetUpdatedAt().Time,
		TimelineEvents: []domain.ColumnMove{},
	}

	if name, ok := columns[issue.Number]; ok {
		issue.ColumnName = &name
	}
	if raw.ClosedAt != nil {
		closed := raw.ClosedAt.Time
		issue.ClosedAt = &closed
	}
	for _, label := range raw.Labels {
		issue.Labels = append(issue.Labels, label.GetName())
	}
	for _, assignee := range raw.Assignees {
		issue.Assignees = append(issue.Assignees, assignee.GetLogin())
	}

	for _, event := range timeline {
		if event.GetEvent() != columnMoveEvent {
			continue
		}
		move := domain.ColumnMove{
			Event:     columnMoveEvent,
			CreatedAt: event.GetCreatedAt().Time,
		}
		if card := event.ProjectCard; card != nil {
			if card.PreviousColumnName != nil {
				from := *card.PreviousColumnName
				move.From = &from
			}
			if card.ColumnName != nil {
				to := *card.ColumnName
				move.To = &to
			}
		}
		issue.TimelineEvents = append(issue.TimelineEvents, move)
	}

	return issue
}

// translateGitHubError maps raw provider errors to the caller-facing
// taxonomy. REST errors arrive as *gh.ErrorResponse, GraphQL errors as
// *github.APIError; both classify by status. No retries, classification
// happens exactly once.
func translateGitHubError(err error) error {
	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return apperrors.RateLimitError("GitHub API rate limit exceeded")
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		rateRemaining := ghErr.Response.Header.Get("X-Ratelimit-Remaining")
		return classifyGitHubStatus(ghErr.Response.StatusCode, rateRemaining, ghErr.Message, err)
	}

	var apiErr *github.APIError
	if errors.As(err, &apiErr) {
		return classifyGitHubStatus(apiErr.StatusCode, apiErr.RateLimitRemaining, "", err)
	}

	return apperrors.InternalError("GitHub request failed", err)
}

func classifyGitHubStatus(status int, rateRemaining, message string, cause error) error {
	switch status {
	case http.StatusUnauthorized:
		return apperrors.AuthenticationError("Invalid GitHub token")
	case http.StatusNotFound:
		return apperrors.NotFoundError("Repository not found")
	case http.StatusForbidden:
		if rateRemaining == "0" {
			return apperrors.RateLimitError("GitHub API rate limit exceeded")
		}
	}

	if message == "" {
		message = "GitHub API error"
	}
	return apperrors.UpstreamError(message, status, cause)
}
