package domain

// JiraIssue is the normalized list-view shape of a Jira issue.
type JiraIssue struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Status   string  `json:"status"`
	Assignee string  `json:"assignee"`
	Created  *string `json:"created"`
	Updated  *string `json:"updated"`
	URL      *string `json:"url"`
}

// JiraIssueDetail extends JiraIssue with the issue description.
type JiraIssueDetail struct {
	JiraIssue
	Description string `json:"description"`
}
