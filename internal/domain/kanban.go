package domain

import "time"

// IssueState mirrors the provider's open/closed issue state.
type IssueState string

const (
	IssueOpen   IssueState = "open"
	IssueClosed IssueState = "closed"
)

// KanbanBoard is the assembled, normalized view of one repository's board.
// Issues keep the relative order the provider returned them in.
type KanbanBoard struct {
	Repository Repository `json:"repository"`
	FetchedAt  time.Time  `json:"fetchedAt"`
	Issues     []Issue    `json:"issues"`
}

// Repository identifies the source repository.
type Repository struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
}

// Issue is one normalized issue. ColumnName is nil when the issue has no
// board item or its item carries no Status value.
type Issue struct {
	Number         int          `json:"number"`
	Title          string       `json:"title"`
	State          IssueState   `json:"state"`
	ColumnName     *string      `json:"columnName"`
	Labels         []string     `json:"labels"`
	Assignees      []string     `json:"assignees"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
	ClosedAt       *time.Time   `json:"closedAt"`
	TimelineEvents []ColumnMove `json:"timelineEvents"`
}

// ColumnMove is a single column-move timeline event, kept in the provider's
// chronological order.
type ColumnMove struct {
	Event     string    `json:"event"`
	CreatedAt time.Time `json:"createdAt"`
	From      *string   `json:"from"`
	To        *string   `json:"to"`
}
