package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PostgresStore reads and writes the users table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const userColumns = `id, bsn, email, email_verified, is_active, first_name, last_name, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.BSN, &u.Email, &u.EmailVerified, &u.IsActive, &u.FirstName, &u.LastName, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *PostgresStore) Save(ctx context.Context, u *User) error {
	if u == nil || u.BSN == "" {
		return fmt.Errorf("save user: bsn is required")
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	const query = `
		INSERT INTO users (id, bsn, email, email_verified, is_active, first_name, last_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET bsn = EXCLUDED.bsn,
		    email = EXCLUDED.email,
		    email_verified = EXCLUDED.email_verified,
		    is_active = EXCLUDED.is_active,
		    first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name
		RETURNING created_at`

	err := s.db.QueryRowContext(ctx, query,
		u.ID, u.BSN, u.Email, u.EmailVerified, u.IsActive, u.FirstName, u.LastName,
	).Scan(&u.CreatedAt)
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByBSN(ctx context.Context, bsn string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE bsn = $1`, bsn)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user by bsn: %w", err)
	}
	return u, nil
}

// FindNotifiableByBSNs filters active users in SQL and applies the email
// rules in Go, so the placeholder check lives in one place.
func (s *PostgresStore) FindNotifiableByBSNs(ctx context.Context, bsns []string) ([]*User, error) {
	if len(bsns) == 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE bsn = ANY($1::text[]) AND is_active ORDER BY bsn`,
		pq.Array(bsns),
	)
	if err != nil {
		return nil, fmt.Errorf("find notifiable users: %w", err)
	}
	defer rows.Close()

	var out []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		if u.HasUsableEmail() {
			out = append(out, u)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return out, nil
}
