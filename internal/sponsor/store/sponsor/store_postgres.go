package sponsor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"passport/internal/sponsor/models"
	"passport/pkg/platform/sentinel"
)

// Schema is the DDL for the sponsors table. Applied at boot and by the
// integration test harness.
const Schema = `
CREATE TABLE IF NOT EXISTS sponsors (
	sponsor_id  TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	secret_hash BYTEA NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
)`

// PostgresStore persists sponsor accounts in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, sp models.Sponsor) error {
	query := `
		INSERT INTO sponsors (sponsor_id, name, secret_hash, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (sponsor_id) DO NOTHING
	`
	res, err := s.db.ExecContext(ctx, query, sp.ID, sp.Name, sp.SecretHash, sp.CreatedAt)
	if err != nil {
		return fmt.Errorf("create sponsor: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("create sponsor rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*models.Sponsor, error) {
	query := `
		SELECT sponsor_id, name, secret_hash, created_at
		FROM sponsors
		WHERE sponsor_id = $1
	`
	var sp models.Sponsor
	err := s.db.QueryRowContext(ctx, query, id).Scan(&sp.ID, &sp.Name, &sp.SecretHash, &sp.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find sponsor: %w", err)
	}
	return &sp, nil
}
