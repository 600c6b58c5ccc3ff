// Package postgres implements the persistence layer: class groups, teams,
// and team credentials backed by PostgreSQL via pgx. Credential secrets are
// encrypted on write and decrypted on read at this boundary; the rest of the
// application only ever sees plaintext.
package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/tern/v2/migrate"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Advisory lock id so concurrent replicas do not race the migrator.
// 0x6b61626173 is "kabas" in ASCII.
const (
	migrationLockID     = 0x6b61626173
	lockReleaseTimeout  = 5 * time.Second
	schemaVersionTable  = "public.schema_version"
	migrationsDirectory = "migrations"
)

// Connect opens a pgx pool and verifies connectivity with a ping.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	slog.Info("database connected", "min_conns", cfg.MinConns, "max_conns", cfg.MaxConns)
	return pool, nil
}

// RunMigrationsWithLock applies all pending migrations while holding a
// session-level advisory lock on a dedicated connection.
func RunMigrationsWithLock(ctx context.Context, pool *pgxpool.Pool) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire migration connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", migrationLockID); err != nil {
		return fmt.Errorf("acquire migration lock: %w", err)
	}
	defer releaseMigrationLock(conn.Conn())

	slog.Info("running database migrations")
	return runMigrations(ctx, conn.Conn())
}

func releaseMigrationLock(conn *pgx.Conn) {
	ctx, cancel := context.WithTimeout(context.Background(), lockReleaseTimeout)
	defer cancel()

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", migrationLockID); err != nil {
		slog.Error("failed to release migration lock", "error", err)
	}
}

func runMigrations(ctx context.Context, conn *pgx.Conn) error {
	migrationFS, err := fs.Sub(migrationFiles, migrationsDirectory)
	if err != nil {
		return fmt.Errorf("read embedded migrations: %w", err)
	}

	migrator, err := migrate.NewMigrator(ctx, conn, schemaVersionTable)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := migrator.LoadMigrations(migrationFS); err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	if version, err := migrator.GetCurrentVersion(ctx); err == nil {
		slog.Info("current schema version", "version", version)
	}

	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}
