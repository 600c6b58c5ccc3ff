package github

import (
	"context"

	"github.com/shurcooL/githubv4"
)

// maxBoardPages caps the cursor loop so a misbehaving or enormous board
// cannot drag one request into thousands of GraphQL calls.
const maxBoardPages = 50

// BoardItem links an issue number to its board column. Either field may be
// absent: draft items have no issue, items without a Status value no column.
type BoardItem struct {
	IssueNumber *int
	StatusName  *string
}

// boardQuery fetches one page of item statuses from the first ProjectV2
// board of the repository. One Kanban board per repo is assumed.
type boardQuery struct {
	Repository struct {
		ProjectsV2 struct {
			Nodes []struct {
				Items struct {
					PageInfo struct {
						HasNextPage bool
						EndCursor   githubv4.String
					}
					Nodes []struct {
						Content struct {
							Issue struct {
								Number int
							} `graphql:"... on Issue"`
						}
						FieldValueByName struct {
							SingleSelectValue struct {
								Name string
							} `graphql:"... on ProjectV2ItemFieldSingleSelectValue"`
						} `graphql:"fieldValueByName(name: \"Status\")"`
					}
				} `graphql:"items(first: 100, after: $cursor)"`
			}
		} `graphql:"projectsV2(first: 1)"`
	} `graphql:"repository(owner: $owner, name: $repo)"`
}

// FetchProjectBoardStatuses pages through the repository's project board and
// returns every item node. An empty slice means the repo has no board.
func (c *Client) FetchProjectBoardStatuses(ctx context.Context, owner, repo string) ([]BoardItem, error) {
	variables := map[string]any{
		"owner":  githubv4.String(owner),
		"repo":   githubv4.String(repo),
		"cursor": (*githubv4.String)(nil),
	}

	var items []BoardItem
	for page := 0; page < maxBoardPages; page++ {
		var query boardQuery
		if err := c.graphql.Query(ctx, &query, variables); err != nil {
			return nil, err
		}

		projects := query.Repository.ProjectsV2.Nodes
		if len(projects) == 0 {
			break
		}

		pageItems := projects[0].Items
		for _, node := range pageItems.Nodes {
			item := BoardItem{}
			if n := node.Content.Issue.Number; n != 0 {
				number := n
				item.IssueNumber = &number
			}
			if name := node.FieldValueByName.SingleSelectValue.Name; name != "" {
				status := name
				item.StatusName = &status
			}
			items = append(items, item)
		}

		if !pageItems.PageInfo.HasNextPage {
			break
		}
		variables["cursor"] = githubv4.NewString(pageItems.PageInfo.EndCursor)
	}

	return items, nil
}
