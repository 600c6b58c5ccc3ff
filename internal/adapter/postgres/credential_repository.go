package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SIT-Team-4/KABAS/internal/crypto"
	"github.com/SIT-Team-4/KABAS/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

// credentialColumns must match the Scan order in scanCredential.
const credentialColumns = `id, team_id, provider, base_url, email, api_token, created_at, updated_at`

// CredentialRepo implements domain.CredentialRepository backed by PostgreSQL.
// It is the only component that ever sees ciphertext: email and api_token are
// encrypted before every write and decrypted after every read.
type CredentialRepo struct {
	pool  *pgxpool.Pool
	vault *crypto.Vault
}

func NewCredentialRepo(pool *pgxpool.Pool, vault *crypto.Vault) *CredentialRepo {
	return &CredentialRepo{pool: pool, vault: vault}
}

func (r *CredentialRepo) encryptPtr(value *string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	encrypted, err := r.vault.Encrypt(*value)
	if err != nil {
		return nil, err
	}
	return &encrypted, nil
}

// decryptPtr maps an undecryptable stored value to nil: a corrupted secret
// reads as "not configured" instead of failing the whole row.
func (r *CredentialRepo) decryptPtr(teamID int32, field string, stored *string) *string {
	if stored == nil {
		return nil
	}
	plaintext, ok := r.vault.Decrypt(*stored)
	if !ok {
		slog.Warn("Stored credential field failed to decrypt, treating as unset", "team_id", teamID, "field", field)
		return nil
	}
	return &plaintext
}

func (r *CredentialRepo) scanCredential(row pgx.Row) (*domain.TeamCredential, error) {
	var cred domain.TeamCredential
	var encEmail *string
	var encToken string
	err := row.Scan(&cred.ID, &cred.TeamID, &cred.Provider, &cred.BaseURL, &encEmail, &encToken, &cred.CreatedAt, &cred.UpdatedAt)
	if err != nil {
		return nil, err
	}

	cred.Email = r.decryptPtr(cred.TeamID, "email", encEmail)
	if token := r.decryptPtr(cred.TeamID, "api_token", &encToken); token != nil {
		cred.APIToken = *token
	}
	return &cred, nil
}

func (r *CredentialRepo) Create(ctx context.Context, cred domain.TeamCredential) (*domain.TeamCredential, error) {
	encEmail, err := r.encryptPtr(cred.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt email: %w", err)
	}
	encToken, err := r.vault.Encrypt(cred.APIToken)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt API token: %w", err)
	}

	created, err := r.scanCredential(r.pool.QueryRow(ctx, `
		INSERT INTO team_credentials (team_id, provider, base_url, email, api_token)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+credentialColumns,
		cred.TeamID, cred.Provider, cred.BaseURL, encEmail, encToken))

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return nil, domain.ErrCredentialExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create credential: %w", err)
	}
	return created, nil
}

func (r *CredentialRepo) GetByTeamID(ctx context.Context, teamID int32) (*domain.TeamCredential, error) {
	cred, err := r.scanCredential(r.pool.QueryRow(ctx,
		`SELECT `+credentialColumns+` FROM team_credentials WHERE team_id = $1`, teamID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCredentialNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}
	return cred, nil
}

func (r *CredentialRepo) Update(ctx context.Context, teamID int32, update domain.CredentialUpdate) (*domain.TeamCredential, error) {
	current, err := r.GetByTeamID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if update.Provider != nil {
		current.Provider = *update.Provider
	}
	if update.BaseURL != nil {
		current.BaseURL = update.BaseURL
	}
	if update.Email != nil {
		current.Email = update.Email
	}
	if update.APIToken != nil {
		current.APIToken = *update.APIToken
	}

	encEmail, err := r.encryptPtr(current.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt email: %w", err)
	}
	encToken, err := r.vault.Encrypt(current.APIToken)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt API token: %w", err)
	}

	updated, err := r.scanCredential(r.pool.QueryRow(ctx, `
		UPDATE team_credentials
		SET provider = $1, base_url = $2, email = $3, api_token = $4, updated_at = NOW()
		WHERE team_id = $5
		RETURNING `+credentialColumns,
		current.Provider, current.BaseURL, encEmail, encToken, teamID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCredentialNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update credential: %w", err)
	}
	return updated, nil
}

func (r *CredentialRepo) DeleteByTeamID(ctx context.Context, teamID int32) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM team_credentials WHERE team_id = $1`, teamID)
	if err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCredentialNotFound
	}
	return nil
}
