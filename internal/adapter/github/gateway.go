package github

import (
	"context"

	gh "github.com/google/go-github/v61/github"
)

const perPage = 100

// FetchIssues retrieves every issue of the repository (state=all), pull
// requests filtered out, in the order GitHub returned them.
func (c *Client) FetchIssues(ctx context.Context, owner, repo string) ([]*gh.Issue, error) {
	opts := &gh.IssueListByRepoOptions{
		State:       "all",
		ListOptions: gh.ListOptions{PerPage: perPage},
	}

	var issues []*gh.Issue
	for {
		page, resp, err := c.rest.Issues.ListByRepo(ctx, owner, repo, opts)
		if err != nil {
			return nil, err
		}

		for _, issue := range page {
			// The issues endpoint also returns pull requests.
			if issue.IsPullRequest() {
				continue
			}
			issues = append(issues, issue)
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return issues, nil
}

// FetchIssueTimeline retrieves the full timeline of one issue.
func (c *Client) FetchIssueTimeline(ctx context.Context, owner, repo string, issueNumber int) ([]*gh.Timeline, error) {
	opts := &gh.ListOptions{PerPage: perPage}

	var events []*gh.Timeline
	for {
		page, resp, err := c.rest.Issues.ListIssueTimeline(ctx, owner, repo, issueNumber, opts)
		if err != nil {
			return nil, err
		}
		events = append(events, page...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return events, nil
}
