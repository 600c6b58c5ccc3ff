package domain

import (
	"context"
	"time"
)

// Provider identifies the external issue tracker a credential belongs to.
type Provider string

const (
	ProviderJira   Provider = "jira"
	ProviderGitHub Provider = "github"
)

// Valid reports whether p is a known provider.
func (p Provider) Valid() bool {
	return p == ProviderJira || p == ProviderGitHub
}

// TeamCredential holds a team's provider credential. Email and APIToken are
// plaintext in memory; the persistence layer encrypts them at rest. One
// credential per team.
type TeamCredential struct {
	ID        int32
	TeamID    int32
	Provider  Provider
	BaseURL   *string
	Email     *string
	APIToken  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Sanitized returns the credential shape safe for API responses: the token
// itself is never echoed back, only whether one is stored.
func (c *TeamCredential) Sanitized() SanitizedCredential {
	return SanitizedCredential{
		ID:          c.ID,
		TeamID:      c.TeamID,
		Provider:    c.Provider,
		BaseURL:     c.BaseURL,
		Email:       c.Email,
		HasAPIToken: c.APIToken != "",
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// SanitizedCredential is TeamCredential without the secret.
type SanitizedCredential struct {
	ID          int32     `json:"id"`
	TeamID      int32     `json:"teamId"`
	Provider    Provider  `json:"provider"`
	BaseURL     *string   `json:"baseUrl"`
	Email       *string   `json:"email"`
	HasAPIToken bool      `json:"hasApiToken"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CredentialUpdate carries a partial credential update; nil fields are left
// unchanged.
type CredentialUpdate struct {
	Provider *Provider `json:"provider"`
	BaseURL  *string   `json:"baseUrl"`
	Email    *string   `json:"email"`
	APIToken *string   `json:"apiToken"`
}

type CredentialRepository interface {
	Create(ctx context.Context, cred TeamCredential) (*TeamCredential, error)
	GetByTeamID(ctx context.Context, teamID int32) (*TeamCredential, error)
	Update(ctx context.Context, teamID int32, update CredentialUpdate) (*TeamCredential, error)
	DeleteByTeamID(ctx context.Context, teamID int32) error
}
