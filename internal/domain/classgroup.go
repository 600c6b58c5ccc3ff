package domain

import (
	"context"
	"time"
)

// ClassGroup is a semester/cohort container for teams.
type ClassGroup struct {
	ID        int32     `json:"id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Teams is populated on single-group reads only.
	Teams []TeamSummary `json:"teams,omitempty"`
}

// TeamSummary is the reduced team shape embedded in class group reads.
type TeamSummary struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
}

// ListOptions carries optional pagination for list queries.
type ListOptions struct {
	Limit  int
	Offset int
}

type ClassGroupRepository interface {
	Create(ctx context.Context, name string, startDate, endDate time.Time) (*ClassGroup, error)
	List(ctx context.Context, opts ListOptions) ([]ClassGroup, error)
	GetByID(ctx context.Context, id int32) (*ClassGroup, error)
	Update(ctx context.Context, id int32, name string, startDate, endDate time.Time) (*ClassGroup, error)
	Delete(ctx context.Context, id int32) error
}
