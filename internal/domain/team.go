package domain

import (
	"context"
	"time"
)

// Team is a student team whose board lives in an external provider.
type Team struct {
	ID           int32     `json:"id"`
	Name         string    `json:"name"`
	ClassGroupID *int32    `json:"classGroupId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// ClassGroup is populated on reads when the team belongs to one.
	ClassGroup *ClassGroupSummary `json:"classGroup,omitempty"`
}

// ClassGroupSummary is the reduced class group shape embedded in team reads.
type ClassGroupSummary struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
}

// TeamFilter narrows team list queries.
type TeamFilter struct {
	ClassGroupID *int32
}

type TeamRepository interface {
	Create(ctx context.Context, name string, classGroupID *int32) (*Team, error)
	List(ctx context.Context, filter TeamFilter) ([]Team, error)
	GetByID(ctx context.Context, teamID int32) (*Team, error)
	Update(ctx context.Context, teamID int32, name string, classGroupID *int32) (*Team, error)
	Delete(ctx context.Context, teamID int32) error
}
