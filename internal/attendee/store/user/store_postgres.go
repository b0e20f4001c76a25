package user

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"passport/internal/attendee/models"
	"passport/pkg/platform/sentinel"
)

// Schema is the DDL for the passport records table. Applied at boot and by
// the integration test harness.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	user_id          TEXT PRIMARY KEY,
	short_code       TEXT NOT NULL UNIQUE,
	first_name       TEXT NOT NULL DEFAULT '',
	last_name        TEXT NOT NULL DEFAULT '',
	company          TEXT NOT NULL DEFAULT '',
	role             TEXT NOT NULL DEFAULT '',
	gender           TEXT,
	email            TEXT NOT NULL DEFAULT '',
	phone            TEXT NOT NULL DEFAULT '',
	share_email      BOOLEAN NOT NULL DEFAULT FALSE,
	share_phone      BOOLEAN NOT NULL DEFAULT FALSE,
	pin              TEXT NOT NULL DEFAULT '',
	unlock_key       TEXT,
	initialized      BOOLEAN NOT NULL DEFAULT FALSE,
	social_links     JSONB NOT NULL DEFAULT '[]',
	profile_type     TEXT,
	age_range        TEXT,
	area_of_interest TEXT,
	created_at       TIMESTAMPTZ NOT NULL,
	updated_at       TIMESTAMPTZ NOT NULL
)`

// PostgresStore persists passport records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// CreateIfUninitialized performs the idempotent ingestion write. The ON
// CONFLICT guard keeps the create-or-skip decision inside one statement so
// concurrent duplicate webhooks cannot clobber an initialized profile.
func (s *PostgresStore) CreateIfUninitialized(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (
			user_id, short_code, first_name, last_name, company, role, gender,
			email, phone, initialized, social_links, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, FALSE, '[]', $10, $10)
		ON CONFLICT (user_id) DO UPDATE SET
			short_code = EXCLUDED.short_code,
			first_name = EXCLUDED.first_name,
			last_name  = EXCLUDED.last_name,
			company    = EXCLUDED.company,
			role       = EXCLUDED.role,
			gender     = EXCLUDED.gender,
			email      = EXCLUDED.email,
			phone      = EXCLUDED.phone,
			updated_at = EXCLUDED.updated_at
		WHERE NOT users.initialized
	`
	res, err := s.db.ExecContext(ctx, query,
		u.ID, u.ShortCode, u.FirstName, u.LastName, u.Company, u.Role,
		nullable(u.Gender), u.Contact.Email, u.Contact.Phone, u.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("create user rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *PostgresStore) FindByShortCode(ctx context.Context, shortCode string) (*models.User, error) {
	query := `
		SELECT user_id, short_code, first_name, last_name, company, role, gender,
		       email, phone, share_email, share_phone, pin, unlock_key,
		       initialized, social_links, profile_type, age_range,
		       area_of_interest, created_at, updated_at
		FROM users
		WHERE short_code = $1
	`
	var (
		u           models.User
		gender      sql.NullString
		unlockKey   sql.NullString
		socialLinks []byte
	)
	err := s.db.QueryRowContext(ctx, query, shortCode).Scan(
		&u.ID, &u.ShortCode, &u.FirstName, &u.LastName, &u.Company, &u.Role,
		&gender, &u.Contact.Email, &u.Contact.Phone, &u.Contact.ShareEmail,
		&u.Contact.SharePhone, &u.PIN, &unlockKey, &u.Initialized,
		&socialLinks, &u.ProfileType, &u.AgeRange, &u.AreaOfInterest,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find user by short code: %w", err)
	}
	u.Gender = gender.String
	u.UnlockKey = unlockKey.String
	if err := json.Unmarshal(socialLinks, &u.SocialLinks); err != nil {
		return nil, fmt.Errorf("decode social links: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) SetUnlockKey(ctx context.Context, userID, key string, now time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET unlock_key = $2, updated_at = $3 WHERE user_id = $1`,
		userID, key, now,
	)
	if err != nil {
		return fmt.Errorf("set unlock key: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set unlock key rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// ApplyProfileUpdate consumes the unlock key and applies the profile in one
// conditional UPDATE. Splitting this into read-then-write would open a key
// replay window.
func (s *PostgresStore) ApplyProfileUpdate(ctx context.Context, userID, unlockKey string, upd models.ProfileUpdate, now time.Time) error {
	links, err := json.Marshal(upd.SocialLinks)
	if err != nil {
		return fmt.Errorf("encode social links: %w", err)
	}
	if upd.SocialLinks == nil {
		links = []byte("[]")
	}

	query := `
		UPDATE users SET
			email = $3,
			phone = $4,
			share_email = $5,
			share_phone = $6,
			pin = $7,
			social_links = $8,
			gender = $9,
			profile_type = $10,
			age_range = $11,
			area_of_interest = $12,
			initialized = TRUE,
			unlock_key = NULL,
			updated_at = $13
		WHERE user_id = $1 AND unlock_key = $2
	`
	res, err := s.db.ExecContext(ctx, query,
		userID, unlockKey, upd.Email, upd.Phone, upd.ShareEmail, upd.SharePhone,
		upd.PIN, links, upd.Gender, upd.ProfileType, upd.AgeRange,
		upd.AreaOfInterest, now,
	)
	if err != nil {
		return fmt.Errorf("apply profile update: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("apply profile update rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNoRowsUpdated
	}
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
