package stamp

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"passport/internal/stamp/models"
	"passport/pkg/platform/sentinel"
)

// Schema is the DDL for the stamp ledger. Applied at boot and by the
// integration test harness.
const Schema = `
CREATE TABLE IF NOT EXISTS stamps (
	stamp_id     TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL,
	sponsor_id   TEXT NOT NULL,
	sponsor_name TEXT NOT NULL DEFAULT '',
	notes        TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS stamps_pair_idx
	ON stamps (user_id, sponsor_id, created_at DESC)`

// PostgresStore persists the ledger in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, st models.Stamp) error {
	query := `
		INSERT INTO stamps (stamp_id, user_id, sponsor_id, sponsor_name, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		st.ID, st.UserID, st.SponsorID, st.SponsorName, st.Notes, st.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append stamp: %w", err)
	}
	return nil
}

func (s *PostgresStore) LatestForPair(ctx context.Context, userID, sponsorID string) (*models.Stamp, error) {
	query := `
		SELECT stamp_id, user_id, sponsor_id, sponsor_name, notes, created_at
		FROM stamps
		WHERE user_id = $1 AND sponsor_id = $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	var st models.Stamp
	err := s.db.QueryRowContext(ctx, query, userID, sponsorID).Scan(
		&st.ID, &st.UserID, &st.SponsorID, &st.SponsorName, &st.Notes, &st.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("latest stamp: %w", err)
	}
	return &st, nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID string) ([]models.Stamp, error) {
	query := `
		SELECT stamp_id, user_id, sponsor_id, sponsor_name, notes, created_at
		FROM stamps
		WHERE user_id = $1
		ORDER BY created_at DESC, stamp_id DESC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list stamps: %w", err)
	}
	defer rows.Close()

	var out []models.Stamp
	for rows.Next() {
		var st models.Stamp
		if err := rows.Scan(&st.ID, &st.UserID, &st.SponsorID, &st.SponsorName, &st.Notes, &st.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stamp: %w", err)
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stamps: %w", err)
	}
	return out, nil
}
