package server

import (
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SIT-Team-4/KABAS/internal/app"
	"github.com/SIT-Team-4/KABAS/internal/domain"
	"github.com/SIT-Team-4/KABAS/internal/platform/config"
)

const testAPIKey = "test-admin-key"

// mockAppService provides a minimal AppService for handler tests.
type mockAppService struct {
	createClassGroupFn func(ctx context.Context, in app.ClassGroupInput) (*domain.ClassGroup, error)
	listClassGroupsFn  func(ctx context.Context, opts domain.ListOptions) ([]domain.ClassGroup, error)
	getClassGroupFn    func(ctx context.Context, id int32) (*domain.ClassGroup, error)
	updateClassGroupFn func(ctx context.Context, id int32, in app.ClassGroupInput) (*domain.ClassGroup, error)
	deleteClassGroupFn func(ctx context.Context, id int32) error

	createTeamFn func(ctx context.Context, in app.TeamInput) (*domain.Team, error)
	listTeamsFn  func(ctx context.Context, filter domain.TeamFilter) ([]domain.Team, error)
	getTeamFn    func(ctx context.Context, teamID int32) (*domain.Team, error)
	updateTeamFn func(ctx context.Context, teamID int32, in app.TeamInput) (*domain.Team, error)
	deleteTeamFn func(ctx context.Context, teamID int32) error

	createCredentialFn func(ctx context.Context, teamID int32, in app.CredentialInput) (*domain.SanitizedCredential, error)
	getCredentialFn    func(ctx context.Context, teamID int32) (*domain.SanitizedCredential, error)
	updateCredentialFn func(ctx context.Context, teamID int32, update domain.CredentialUpdate) (*domain.SanitizedCredential, error)
	deleteCredentialFn func(ctx context.Context, teamID int32) error

	getKanbanBoardFn         func(ctx context.Context, token, owner, repo string) (*domain.KanbanBoard, error)
	listTeamJiraIssuesFn     func(ctx context.Context, teamID int32, projectKey string) ([]domain.JiraIssue, error)
	getTeamJiraIssueFn       func(ctx context.Context, teamID int32, issueKey string) (*domain.JiraIssueDetail, error)
	validateJiraCredentialFn func(ctx context.Context, in app.JiraValidationInput) error
}

var errNotImplemented = fmt.Errorf("not implemented")

func (m *mockAppService) CreateClassGroup(ctx context.Context, in app.ClassGroupInput) (*domain.ClassGroup, error) {
	if m.createClassGroupFn != nil {
		return m.createClassGroupFn(ctx, in)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) ListClassGroups(ctx context.Context, opts domain.ListOptions) ([]domain.ClassGroup, error) {
	if m.listClassGroupsFn != nil {
		return m.listClassGroupsFn(ctx, opts)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) GetClassGroup(ctx context.Context, id int32) (*domain.ClassGroup, error) {
	if m.getClassGroupFn != nil {
		return m.getClassGroupFn(ctx, id)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) UpdateClassGroup(ctx context.Context, id int32, in app.ClassGroupInput) (*domain.ClassGroup, error) {
	if m.updateClassGroupFn != nil {
		return m.updateClassGroupFn(ctx, id, in)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) DeleteClassGroup(ctx context.Context, id int32) error {
	if m.deleteClassGroupFn != nil {
		return m.deleteClassGroupFn(ctx, id)
	}
	return errNotImplemented
}

func (m *mockAppService) CreateTeam(ctx context.Context, in app.TeamInput) (*domain.Team, error) {
	if m.createTeamFn != nil {
		return m.createTeamFn(ctx, in)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) ListTeams(ctx context.Context, filter domain.TeamFilter) ([]domain.Team, error) {
	if m.listTeamsFn != nil {
		return m.listTeamsFn(ctx, filter)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) GetTeam(ctx context.Context, teamID int32) (*domain.Team, error) {
	if m.getTeamFn != nil {
		return m.getTeamFn(ctx, teamID)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) UpdateTeam(ctx context.Context, teamID int32, in app.TeamInput) (*domain.Team, error) {
	if m.updateTeamFn != nil {
		return m.updateTeamFn(ctx, teamID, in)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) DeleteTeam(ctx context.Context, teamID int32) error {
	if m.deleteTeamFn != nil {
		return m.deleteTeamFn(ctx, teamID)
	}
	return errNotImplemented
}

func (m *mockAppService) CreateCredential(ctx context.Context, teamID int32, in app.CredentialInput) (*domain.SanitizedCredential, error) {
	if m.createCredentialFn != nil {
		return m.createCredentialFn(ctx, teamID, in)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) GetCredential(ctx context.Context, teamID int32) (*domain.SanitizedCredential, error) {
	if m.getCredentialFn != nil {
		return m.getCredentialFn(ctx, teamID)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) UpdateCredential(ctx context.Context, teamID int32, update domain.CredentialUpdate) (*domain.SanitizedCredential, error) {
	if m.updateCredentialFn != nil {
		return m.updateCredentialFn(ctx, teamID, update)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) DeleteCredential(ctx context.Context, teamID int32) error {
	if m.deleteCredentialFn != nil {
		return m.deleteCredentialFn(ctx, teamID)
	}
	return errNotImplemented
}

func (m *mockAppService) GetKanbanBoard(ctx context.Context, token, owner, repo string) (*domain.KanbanBoard, error) {
	if m.getKanbanBoardFn != nil {
		return m.getKanbanBoardFn(ctx, token, owner, repo)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) ListTeamJiraIssues(ctx context.Context, teamID int32, projectKey string) ([]domain.JiraIssue, error) {
	if m.listTeamJiraIssuesFn != nil {
		return m.listTeamJiraIssuesFn(ctx, teamID, projectKey)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) GetTeamJiraIssue(ctx context.Context, teamID int32, issueKey string) (*domain.JiraIssueDetail, error) {
	if m.getTeamJiraIssueFn != nil {
		return m.getTeamJiraIssueFn(ctx, teamID, issueKey)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) ValidateJiraCredential(ctx context.Context, in app.JiraValidationInput) error {
	if m.validateJiraCredentialFn != nil {
		return m.validateJiraCredentialFn(ctx, in)
	}
	return errNotImplemented
}

// mockDB provides a minimal pinger for readiness checks.
type mockDB struct {
	pingErr error
}

func (m *mockDB) Ping(context.Context) error {
	return m.pingErr
}

func newTestServer(t *testing.T, appService AppService) *Server {
	t.Helper()
	cfg := &config.Config{AppEnv: "test", Port: "3000", AdminAPIKey: testAPIKey}
	return NewServer(cfg, appService, &mockDB{}, nil)
}

// request runs one request through the full middleware chain.
func request(srv *Server, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-API-Key", testAPIKey)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}
