package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/SIT-Team-4/KABAS/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// teamColumns must match the Scan order in scanTeam. Teams are read with a
// left join so the class group summary comes back in one query.
const teamColumns = `t.id, t.name, t.class_group_id, t.created_at, t.updated_at, cg.id, cg.name`

const teamSelect = `
	SELECT ` + teamColumns + `
	FROM teams t
	LEFT JOIN class_groups cg ON cg.id = t.class_group_id`

// TeamRepo implements domain.TeamRepository backed by PostgreSQL.
type TeamRepo struct {
	pool *pgxpool.Pool
}

func NewTeamRepo(pool *pgxpool.Pool) *TeamRepo {
	return &TeamRepo{pool: pool}
}

func scanTeam(row pgx.Row) (*domain.Team, error) {
	var team domain.Team
	var cgID *int32
	var cgName *string
	err := row.Scan(&team.ID, &team.Name, &team.ClassGroupID, &team.CreatedAt, &team.UpdatedAt, &cgID, &cgName)
	if err != nil {
		return nil, err
	}
	if cgID != nil && cgName != nil {
		team.ClassGroup = &domain.ClassGroupSummary{ID: *cgID, Name: *cgName}
	}
	return &team, nil
}

func (r *TeamRepo) Create(ctx context.Context, name string, classGroupID *int32) (*domain.Team, error) {
	var id int32
	err := r.pool.QueryRow(ctx, `
		INSERT INTO teams (name, class_group_id)
		VALUES ($1, $2)
		RETURNING id`,
		name, classGroupID).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *TeamRepo) List(ctx context.Context, filter domain.TeamFilter) ([]domain.Team, error) {
	query := teamSelect
	args := []any{}
	if filter.ClassGroupID != nil {
		query += ` WHERE t.class_group_id = $1`
		args = append(args, *filter.ClassGroupID)
	}
	query += ` ORDER BY t.created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	teams := []domain.Team{}
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, *team)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read teams: %w", err)
	}
	return teams, nil
}

func (r *TeamRepo) GetByID(ctx context.Context, teamID int32) (*domain.Team, error) {
	team, err := scanTeam(r.pool.QueryRow(ctx, teamSelect+` WHERE t.id = $1`, teamID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTeamNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return team, nil
}

func (r *TeamRepo) Update(ctx context.Context, teamID int32, name string, classGroupID *int32) (*domain.Team, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE teams
		SET name = $1, class_group_id = $2, updated_at = NOW()
		WHERE id = $3`,
		name, classGroupID, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to update team: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrTeamNotFound
	}
	return r.GetByID(ctx, teamID)
}

func (r *TeamRepo) Delete(ctx context.Context, teamID int32) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM teams WHERE id = $1`, teamID)
	if err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTeamNotFound
	}
	return nil
}
