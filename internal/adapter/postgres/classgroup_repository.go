package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SIT-Team-4/KABAS/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// classGroupColumns must match the Scan order in scanClassGroup.
const classGroupColumns = `id, name, start_date, end_date, created_at, updated_at`

// ClassGroupRepo implements domain.ClassGroupRepository backed by PostgreSQL.
type ClassGroupRepo struct {
	pool *pgxpool.Pool
}

func NewClassGroupRepo(pool *pgxpool.Pool) *ClassGroupRepo {
	return &ClassGroupRepo{pool: pool}
}

func scanClassGroup(row pgx.Row) (*domain.ClassGroup, error) {
	var cg domain.ClassGroup
	err := row.Scan(&cg.ID, &cg.Name, &cg.StartDate, &cg.EndDate, &cg.CreatedAt, &cg.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &cg, nil
}

func (r *ClassGroupRepo) Create(ctx context.Context, name string, startDate, endDate time.Time) (*domain.ClassGroup, error) {
	cg, err := scanClassGroup(r.pool.QueryRow(ctx, `
		INSERT INTO class_groups (name, start_date, end_date)
		VALUES ($1, $2, $3)
		RETURNING `+classGroupColumns,
		name, startDate, endDate))
	if err != nil {
		return nil, fmt.Errorf("failed to create class group: %w", err)
	}
	return cg, nil
}

func (r *ClassGroupRepo) List(ctx context.Context, opts domain.ListOptions) ([]domain.ClassGroup, error) {
	query := `SELECT ` + classGroupColumns + ` FROM class_groups ORDER BY created_at DESC`
	args := []any{}
	if opts.Limit > 0 {
		query += ` LIMIT $1 OFFSET $2`
		args = append(args, opts.Limit, opts.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list class groups: %w", err)
	}
	defer rows.Close()

	groups := []domain.ClassGroup{}
	for rows.Next() {
		var cg domain.ClassGroup
		if err := rows.Scan(&cg.ID, &cg.Name, &cg.StartDate, &cg.EndDate, &cg.CreatedAt, &cg.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan class group: %w", err)
		}
		groups = append(groups, cg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read class groups: %w", err)
	}
	return groups, nil
}

func (r *ClassGroupRepo) GetByID(ctx context.Context, id int32) (*domain.ClassGroup, error) {
	cg, err := scanClassGroup(r.pool.QueryRow(ctx,
		`SELECT `+classGroupColumns+` FROM class_groups WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrClassGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get class group: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, name FROM teams WHERE class_group_id = $1 ORDER BY created_at DESC`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load class group teams: %w", err)
	}
	defer rows.Close()

	cg.Teams = []domain.TeamSummary{}
	for rows.Next() {
		var ts domain.TeamSummary
		if err := rows.Scan(&ts.ID, &ts.Name); err != nil {
			return nil, fmt.Errorf("failed to scan team summary: %w", err)
		}
		cg.Teams = append(cg.Teams, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read class group teams: %w", err)
	}
	return cg, nil
}

func (r *ClassGroupRepo) Update(ctx context.Context, id int32, name string, startDate, endDate time.Time) (*domain.ClassGroup, error) {
	cg, err := scanClassGroup(r.pool.QueryRow(ctx, `
		UPDATE class_groups
		SET name = $1, start_date = $2, end_date = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING `+classGroupColumns,
		name, startDate, endDate, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrClassGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update class group: %w", err)
	}
	return cg, nil
}

func (r *ClassGroupRepo) Delete(ctx context.Context, id int32) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM class_groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete class group: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrClassGroupNotFound
	}
	return nil
}
