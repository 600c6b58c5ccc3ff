package postgres

import (
	"context"
	"testing"

	"github.com/SIT-Team-4/KABAS/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeamCreate_WithoutClassGroup(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewTeamRepo(pool)
	ctx := context.Background()

	team, err := repo.Create(ctx, "Team Alpha", nil)

	require.NoError(t, err)
	assert.NotZero(t, team.ID)
	assert.Equal(t, "Team Alpha", team.Name)
	assert.Nil(t, team.ClassGroupID)
	assert.Nil(t, team.ClassGroup)
}

func TestTeamCreate_WithClassGroup(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewTeamRepo(pool)
	cgRepo := NewClassGroupRepo(pool)
	ctx := context.Background()

	start, end := testDates()
	cg, err := cgRepo.Create(ctx, "Semester 1", start, end)
	require.NoError(t, err)

	team, err := repo.Create(ctx, "Team Alpha", &cg.ID)
	require.NoError(t, err)
	require.NotNil(t, team.ClassGroup)
	assert.Equal(t, cg.ID, team.ClassGroup.ID)
	assert.Equal(t, "Semester 1", team.ClassGroup.Name)
}

func TestTeamList_FilterByClassGroup(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewTeamRepo(pool)
	cgRepo := NewClassGroupRepo(pool)
	ctx := context.Background()

	start, end := testDates()
	cg, err := cgRepo.Create(ctx, "Semester 1", start, end)
	require.NoError(t, err)

	_, err = repo.Create(ctx, "in group", &cg.ID)
	require.NoError(t, err)
	_, err = repo.Create(ctx, "no group", nil)
	require.NoError(t, err)

	all, err := repo.List(ctx, domain.TeamFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := repo.List(ctx, domain.TeamFilter{ClassGroupID: &cg.ID})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "in group", filtered[0].Name)
}

func TestTeamGetByID_NotFound(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewTeamRepo(pool)

	team, err := repo.GetByID(context.Background(), 99999)
	assert.ErrorIs(t, err, domain.ErrTeamNotFound)
	assert.Nil(t, team)
}

func TestTeamUpdate(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewTeamRepo(pool)
	cgRepo := NewClassGroupRepo(pool)
	ctx := context.Background()

	start, end := testDates()
	cg, err := cgRepo.Create(ctx, "Semester 1", start, end)
	require.NoError(t, err)

	team, err := repo.Create(ctx, "old name", nil)
	require.NoError(t, err)

	updated, err := repo.Update(ctx, team.ID, "new name", &cg.ID)
	require.NoError(t, err)
	assert.Equal(t, "new name", updated.Name)
	require.NotNil(t, updated.ClassGroupID)
	assert.Equal(t, cg.ID, *updated.ClassGroupID)
}

func TestTeamUpdate_NotFound(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewTeamRepo(pool)

	_, err := repo.Update(context.Background(), 99999, "name", nil)
	assert.ErrorIs(t, err, domain.ErrTeamNotFound)
}

func TestTeamDelete_CascadesCredential(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewTeamRepo(pool)
	credRepo := NewCredentialRepo(pool, newTestVault(t))
	ctx := context.Background()

	team, err := repo.Create(ctx, "Team Alpha", nil)
	require.NoError(t, err)

	_, err = credRepo.Create(ctx, domain.TeamCredential{
		TeamID:   team.ID,
		Provider: domain.ProviderGitHub,
		APIToken: "ghp_secret",
	})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, team.ID))

	// ON DELETE CASCADE: the credential goes with the team.
	_, err = credRepo.GetByTeamID(ctx, team.ID)
	assert.ErrorIs(t, err, domain.ErrCredentialNotFound)
}
