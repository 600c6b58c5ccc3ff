package app

import (
	"context"
	"fmt"
	"time"

	gh "github.com/google/go-github/v61/github"
	"github.com/jonboulle/clockwork"

	"github.com/SIT-Team-4/KABAS/internal/adapter/github"
	"github.com/SIT-Team-4/KABAS/internal/adapter/jira"
	"github.com/SIT-Team-4/KABAS/internal/domain"
)

// --- Mock implementations ---

type mockClassGroupRepo struct {
	createFn  func(ctx context.Context, name string, startDate, endDate time.Time) (*domain.ClassGroup, error)
	listFn    func(ctx context.Context, opts domain.ListOptions) ([]domain.ClassGroup, error)
	getByIDFn func(ctx context.Context, id int32) (*domain.ClassGroup, error)
	updateFn  func(ctx context.Context, id int32, name string, startDate, endDate time.Time) (*domain.ClassGroup, error)
	deleteFn  func(ctx context.Context, id int32) error
}

func (m *mockClassGroupRepo) Create(ctx context.Context, name string, startDate, endDate time.Time) (*domain.ClassGroup, error) {
	if m.createFn != nil {
		return m.createFn(ctx, name, startDate, endDate)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockClassGroupRepo) List(ctx context.Context, opts domain.ListOptions) ([]domain.ClassGroup, error) {
	if m.listFn != nil {
		return m.listFn(ctx, opts)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockClassGroupRepo) GetByID(ctx context.Context, id int32) (*domain.ClassGroup, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockClassGroupRepo) Update(ctx context.Context, id int32, name string, startDate, endDate time.Time) (*domain.ClassGroup, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, name, startDate, endDate)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockClassGroupRepo) Delete(ctx context.Context, id int32) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return fmt.Errorf("not implemented")
}

type mockTeamRepo struct {
	createFn  func(ctx context.Context, name string, classGroupID *int32) (*domain.Team, error)
	listFn    func(ctx context.Context, filter domain.TeamFilter) ([]domain.Team, error)
	getByIDFn func(ctx context.Context, teamID int32) (*domain.Team, error)
	updateFn  func(ctx context.Context, teamID int32, name string, classGroupID *int32) (*domain.Team, error)
	deleteFn  func(ctx context.Context, teamID int32) error
}

func (m *mockTeamRepo) Create(ctx context.Context, name string, classGroupID *int32) (*domain.Team, error) {
	if m.createFn != nil {
		return m.createFn(ctx, name, classGroupID)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockTeamRepo) List(ctx context.Context, filter domain.TeamFilter) ([]domain.Team, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockTeamRepo) GetByID(ctx context.Context, teamID int32) (*domain.Team, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, teamID)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockTeamRepo) Update(ctx context.Context, teamID int32, name string, classGroupID *int32) (*domain.Team, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, teamID, name, classGroupID)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockTeamRepo) Delete(ctx context.Context, teamID int32) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, teamID)
	}
	return fmt.Errorf("not implemented")
}

type mockCredentialRepo struct {
	createFn         func(ctx context.Context, cred domain.TeamCredential) (*domain.TeamCredential, error)
	getByTeamIDFn    func(ctx context.Context, teamID int32) (*domain.TeamCredential, error)
	updateFn         func(ctx context.Context, teamID int32, update domain.CredentialUpdate) (*domain.TeamCredential, error)
	deleteByTeamIDFn func(ctx context.Context, teamID int32) error
}

func (m *mockCredentialRepo) Create(ctx context.Context, cred domain.TeamCredential) (*domain.TeamCredential, error) {
	if m.createFn != nil {
		return m.createFn(ctx, cred)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockCredentialRepo) GetByTeamID(ctx context.Context, teamID int32) (*domain.TeamCredential, error) {
	if m.getByTeamIDFn != nil {
		return m.getByTeamIDFn(ctx, teamID)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockCredentialRepo) Update(ctx context.Context, teamID int32, update domain.CredentialUpdate) (*domain.TeamCredential, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, teamID, update)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockCredentialRepo) DeleteByTeamID(ctx context.Context, teamID int32) error {
	if m.deleteByTeamIDFn != nil {
		return m.deleteByTeamIDFn(ctx, teamID)
	}
	return fmt.Errorf("not implemented")
}

type fakeGitHubGateway struct {
	fetchIssuesFn   func(ctx context.Context, owner, repo string) ([]*gh.Issue, error)
	fetchBoardFn    func(ctx context.Context, owner, repo string) ([]github.BoardItem, error)
	fetchTimelineFn func(ctx context.Context, owner, repo string, issueNumber int) ([]*gh.Timeline, error)
}

func (f *fakeGitHubGateway) FetchIssues(ctx context.Context, owner, repo string) ([]*gh.Issue, error) {
	if f.fetchIssuesFn != nil {
		return f.fetchIssuesFn(ctx, owner, repo)
	}
	return nil, nil
}

func (f *fakeGitHubGateway) FetchProjectBoardStatuses(ctx context.Context, owner, repo string) ([]github.BoardItem, error) {
	if f.fetchBoardFn != nil {
		return f.fetchBoardFn(ctx, owner, repo)
	}
	return nil, nil
}

func (f *fakeGitHubGateway) FetchIssueTimeline(ctx context.Context, owner, repo string, issueNumber int) ([]*gh.Timeline, error) {
	if f.fetchTimelineFn != nil {
		return f.fetchTimelineFn(ctx, owner, repo, issueNumber)
	}
	return nil, nil
}

type fakeJiraGateway struct {
	baseURL        string
	searchIssuesFn func(ctx context.Context, projectKey string) ([]jira.Issue, error)
	getIssueFn     func(ctx context.Context, issueKey string) (*jira.Issue, error)
	validateFn     func(ctx context.Context) error
}

func (f *fakeJiraGateway) SearchIssues(ctx context.Context, projectKey string) ([]jira.Issue, error) {
	if f.searchIssuesFn != nil {
		return f.searchIssuesFn(ctx, projectKey)
	}
	return nil, nil
}

func (f *fakeJiraGateway) GetIssue(ctx context.Context, issueKey string) (*jira.Issue, error) {
	if f.getIssueFn != nil {
		return f.getIssueFn(ctx, issueKey)
	}
	return nil, fmt.Errorf("not implemented")
}

func (f *fakeJiraGateway) Validate(ctx context.Context) error {
	if f.validateFn != nil {
		return f.validateFn(ctx)
	}
	return nil
}

func (f *fakeJiraGateway) BaseURL() string {
	return f.baseURL
}

// --- Test fixtures ---

type serviceMocks struct {
	classGroups *mockClassGroupRepo
	teams       *mockTeamRepo
	credentials *mockCredentialRepo
	github      *fakeGitHubGateway
	jira        *fakeJiraGateway
	clock       *clockwork.FakeClock
}

func newTestService() (*Service, *serviceMocks) {
	mocks := &serviceMocks{
		classGroups: &mockClassGroupRepo{},
		teams:       &mockTeamRepo{},
		credentials: &mockCredentialRepo{},
		github:      &fakeGitHubGateway{},
		jira:        &fakeJiraGateway{baseURL: "https://example.atlassian.net"},
		clock:       clockwork.NewFakeClock(),
	}

	service := NewService(
		mocks.classGroups,
		mocks.teams,
		mocks.credentials,
		func(string) GitHubGateway { return mocks.github },
		func(jira.Config) (JiraGateway, error) { return mocks.jira, nil },
		mocks.clock,
		nil,
	)
	return service, mocks
}
