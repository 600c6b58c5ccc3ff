// Package app is the application layer. It orchestrates repositories and
// provider gateways and is the single place where provider errors are
// classified for callers.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/SIT-Team-4/KABAS/internal/adapter/github"
	"github.com/SIT-Team-4/KABAS/internal/adapter/jira"
	"github.com/SIT-Team-4/KABAS/internal/adapter/metrics"
	"github.com/SIT-Team-4/KABAS/internal/domain"
	apperrors "github.com/SIT-Team-4/KABAS/internal/platform/errors"
	"github.com/SIT-Team-4/KABAS/internal/validation"
	gh "github.com/google/go-github/v61/github"
)

// GitHubGateway is the provider surface GetKanbanBoard needs. The concrete
// client is built per request from the caller's token.
type GitHubGateway interface {
	FetchIssues(ctx context.Context, owner, repo string) ([]*gh.Issue, error)
	FetchProjectBoardStatuses(ctx context.Context, owner, repo string) ([]github.BoardItem, error)
	FetchIssueTimeline(ctx context.Context, owner, repo string, issueNumber int) ([]*gh.Timeline, error)
}

// GitHubClientFactory builds an authenticated GitHub gateway from a token.
type GitHubClientFactory func(token string) GitHubGateway

// DefaultGitHubFactory builds the real GitHub client.
func DefaultGitHubFactory(token string) GitHubGateway {
	return github.NewClient(token)
}

// JiraGateway is the provider surface the Jira operations need.
type JiraGateway interface {
	SearchIssues(ctx context.Context, projectKey string) ([]jira.Issue, error)
	GetIssue(ctx context.Context, issueKey string) (*jira.Issue, error)
	Validate(ctx context.Context) error
	BaseURL() string
}

// JiraClientFactory builds an authenticated Jira gateway from a config.
type JiraClientFactory func(cfg jira.Config) (JiraGateway, error)

// DefaultJiraFactory builds the real Jira client.
func DefaultJiraFactory(cfg jira.Config) (JiraGateway, error) {
	return jira.NewClient(cfg)
}

// Service is the application layer. It owns all use cases over class groups,
// teams, credentials and the provider aggregation pipeline.
type Service struct {
	classGroups domain.ClassGroupRepository
	teams       domain.TeamRepository
	credentials domain.CredentialRepository
	newGitHub   GitHubClientFactory
	newJira     JiraClientFactory
	clock       clockwork.Clock
	provider    *metrics.ProviderMetrics
}

// NewService creates the application layer service. provider may be nil when
// metrics are not wired (tests).
func NewService(
	classGroups domain.ClassGroupRepository,
	teams domain.TeamRepository,
	credentials domain.CredentialRepository,
	newGitHub GitHubClientFactory,
	newJira JiraClientFactory,
	clock clockwork.Clock,
	provider *metrics.ProviderMetrics,
) *Service {
	return &Service{
		classGroups: classGroups,
		teams:       teams,
		credentials: credentials,
		newGitHub:   newGitHub,
		newJira:     newJira,
		clock:       clock,
		provider:    provider,
	}
}

func (s *Service) observe(provider, operation string, start time.Time, err error) {
	if s.provider == nil {
		return
	}
	s.provider.Observe(provider, operation, time.Since(start).Seconds(), err)
}

// --- class groups ---

// ClassGroupInput carries the writable fields of a class group.
type ClassGroupInput struct {
	Name      string    `json:"name"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

func (in ClassGroupInput) validate() error {
	return validation.Validate(
		validation.Required("name", in.Name),
		validation.DatesOrdered("startDate", "endDate", in.StartDate, in.EndDate),
	)
}

// CreateClassGroup validates and persists a new class group.
func (s *Service) CreateClassGroup(ctx context.Context, in ClassGroupInput) (*domain.ClassGroup, error) {
	if err := in.validate(); err != nil {
		return nil, apperrors.ValidationError(err.Error())
	}
	group, err := s.classGroups.Create(ctx, in.Name, in.StartDate, in.EndDate)
	if err != nil {
		return nil, apperrors.InternalError("failed to create class group", err)
	}
	return group, nil
}

// ListClassGroups returns class groups, newest first.
func (s *Service) ListClassGroups(ctx context.Context, opts domain.ListOptions) ([]domain.ClassGroup, error) {
	groups, err := s.classGroups.List(ctx, opts)
	if err != nil {
		return nil, apperrors.InternalError("failed to list class groups", err)
	}
	return groups, nil
}

// GetClassGroup returns one class group including its teams.
func (s *Service) GetClassGroup(ctx context.Context, id int32) (*domain.ClassGroup, error) {
	group, err := s.classGroups.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrClassGroupNotFound) {
			return nil, apperrors.NotFoundError("Class group not found")
		}
		return nil, apperrors.InternalError("failed to load class group", err)
	}
	return group, nil
}

// UpdateClassGroup validates and replaces the writable fields of a class group.
func (s *Service) UpdateClassGroup(ctx context.Context, id int32, in ClassGroupInput) (*domain.ClassGroup, error) {
	if err := in.validate(); err != nil {
		return nil, apperrors.ValidationError(err.Error())
	}
	group, err := s.classGroups.Update(ctx, id, in.Name, in.StartDate, in.EndDate)
	if err != nil {
		if errors.Is(err, domain.ErrClassGroupNotFound) {
			return nil, apperrors.NotFoundError("Class group not found")
		}
		return nil, apperrors.InternalError("failed to update class group", err)
	}
	return group, nil
}

// DeleteClassGroup removes a class group. Its teams stay and lose the
// association.
func (s *Service) DeleteClassGroup(ctx context.Context, id int32) error {
	if err := s.classGroups.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrClassGroupNotFound) {
			return apperrors.NotFoundError("Class group not found")
		}
		return apperrors.InternalError("failed to delete class group", err)
	}
	return nil
}

// --- teams ---

// TeamInput carries the writable fields of a team.
type TeamInput struct {
	Name         string `json:"name"`
	ClassGroupID *int32 `json:"classGroupId"`
}

// CreateTeam validates and persists a new team. A referenced class group
// must exist.
func (s *Service) CreateTeam(ctx context.Context, in TeamInput) (*domain.Team, error) {
	if err := validation.Validate(validation.Required("name", in.Name)); err != nil {
		return nil, apperrors.ValidationError(err.Error())
	}
	if err := s.ensureClassGroupExists(ctx, in.ClassGroupID); err != nil {
		return nil, err
	}

	team, err := s.teams.Create(ctx, in.Name, in.ClassGroupID)
	if err != nil {
		return nil, apperrors.InternalError("failed to create team", err)
	}
	return team, nil
}

// ListTeams returns teams, optionally narrowed to one class group.
func (s *Service) ListTeams(ctx context.Context, filter domain.TeamFilter) ([]domain.Team, error) {
	teams, err := s.teams.List(ctx, filter)
	if err != nil {
		return nil, apperrors.InternalError("failed to list teams", err)
	}
	return teams, nil
}

// GetTeam returns one team with its class group summary.
func (s *Service) GetTeam(ctx context.Context, teamID int32) (*domain.Team, error) {
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, domain.ErrTeamNotFound) {
			return nil, apperrors.NotFoundError("Team not found")
		}
		return nil, apperrors.InternalError("failed to load team", err)
	}
	return team, nil
}

// UpdateTeam validates and replaces the writable fields of a team.
func (s *Service) UpdateTeam(ctx context.Context, teamID int32, in TeamInput) (*domain.Team, error) {
	if err := validation.Validate(validation.Required("name", in.Name)); err != nil {
		return nil, apperrors.ValidationError(err.Error())
	}
	if err := s.ensureClassGroupExists(ctx, in.ClassGroupID); err != nil {
		return nil, err
	}

	team, err := s.teams.Update(ctx, teamID, in.Name, in.ClassGroupID)
	if err != nil {
		if errors.Is(err, domain.ErrTeamNotFound) {
			return nil, apperrors.NotFoundError("Team not found")
		}
		return nil, apperrors.InternalError("failed to update team", err)
	}
	return team, nil
}

// DeleteTeam removes a team and, via the schema, its stored credential.
func (s *Service) DeleteTeam(ctx context.Context, teamID int32) error {
	if err := s.teams.Delete(ctx, teamID); err != nil {
		if errors.Is(err, domain.ErrTeamNotFound) {
			return apperrors.NotFoundError("Team not found")
		}
		return apperrors.InternalError("failed to delete team", err)
	}
	return nil
}

func (s *Service) ensureClassGroupExists(ctx context.Context, classGroupID *int32) error {
	if classGroupID == nil {
		return nil
	}
	if _, err := s.classGroups.GetByID(ctx, *classGroupID); err != nil {
		if errors.Is(err, domain.ErrClassGroupNotFound) {
			return apperrors.ValidationError(fmt.Sprintf("class group %d does not exist", *classGroupID))
		}
		return apperrors.InternalError("failed to check class group", err)
	}
	return nil
}

// --- credentials ---

// CredentialInput carries the writable fields of a team credential.
type CredentialInput struct {
	Provider domain.Provider `json:"provider"`
	BaseURL  *string         `json:"baseUrl"`
	Email    *string         `json:"email"`
	APIToken string          `json:"apiToken"`
}

func (in CredentialInput) validate() error {
	return validation.Validate(
		validation.OneOf("provider", string(in.Provider), string(domain.ProviderJira), string(domain.ProviderGitHub)),
		validation.Required("apiToken", in.APIToken),
		validation.HTTPSURL("baseUrl", in.BaseURL),
		validation.Email("email", in.Email),
	)
}

// CreateCredential stores a provider credential for a team. Each team holds
// at most one credential.
func (s *Service) CreateCredential(ctx context.Context, teamID int32, in CredentialInput) (*domain.SanitizedCredential, error) {
	if err := in.validate(); err != nil {
		return nil, apperrors.ValidationError(err.Error())
	}
	if _, err := s.GetTeam(ctx, teamID); err != nil {
		return nil, err
	}

	cred, err := s.credentials.Create(ctx, domain.TeamCredential{
		TeamID:   teamID,
		Provider: in.Provider,
		BaseURL:  in.BaseURL,
		Email:    in.Email,
		APIToken: in.APIToken,
	})
	if err != nil {
		if errors.Is(err, domain.ErrCredentialExists) {
			return nil, apperrors.ConflictError("Credential already exists for this team")
		}
		return nil, apperrors.InternalError("failed to create credential", err)
	}

	sanitized := cred.Sanitized()
	return &sanitized, nil
}

// GetCredential returns a team's credential without the secret.
func (s *Service) GetCredential(ctx context.Context, teamID int32) (*domain.SanitizedCredential, error) {
	cred, err := s.credentials.GetByTeamID(ctx, teamID)
	if err != nil {
		if errors.Is(err, domain.ErrCredentialNotFound) {
			return nil, apperrors.NotFoundError("Credential not found")
		}
		return nil, apperrors.InternalError("failed to load credential", err)
	}

	sanitized := cred.Sanitized()
	return &sanitized, nil
}

// UpdateCredential applies a partial update to a team's credential.
func (s *Service) UpdateCredential(ctx context.Context, teamID int32, update domain.CredentialUpdate) (*domain.SanitizedCredential, error) {
	checks := []validation.Check{}
	if update.Provider != nil {
		checks = append(checks, validation.OneOf("provider", string(*update.Provider), string(domain.ProviderJira), string(domain.ProviderGitHub)))
	}
	if update.APIToken != nil {
		checks = append(checks, validation.NonEmptyIfSet("apiToken", update.APIToken))
	}
	checks = append(checks,
		validation.HTTPSURL("baseUrl", update.BaseURL),
		validation.Email("email", update.Email),
	)
	if err := validation.Validate(checks...); err != nil {
		return nil, apperrors.ValidationError(err.Error())
	}

	cred, err := s.credentials.Update(ctx, teamID, update)
	if err != nil {
		if errors.Is(err, domain.ErrCredentialNotFound) {
			return nil, apperrors.NotFoundError("Credential not found")
		}
		return nil, apperrors.InternalError("failed to update credential", err)
	}

	sanitized := cred.Sanitized()
	return &sanitized, nil
}

// DeleteCredential removes a team's credential.
func (s *Service) DeleteCredential(ctx context.Context, teamID int32) error {
	if err := s.credentials.DeleteByTeamID(ctx, teamID); err != nil {
		if errors.Is(err, domain.ErrCredentialNotFound) {
			return apperrors.NotFoundError("Credential not found")
		}
		return apperrors.InternalError("failed to delete credential", err)
	}
	return nil
}
