package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	txcontext "caseflow/pkg/platform/tx"
	"caseflow/pkg/requestcontext"
)

// Dialect selects the placeholder style of the SQL statements.
type Dialect int

const (
	DialectPostgres Dialect = iota
	DialectSQLite
)

var insertQueries = map[Dialect]string{
	DialectPostgres: `
		INSERT INTO user_case_status_notifications (user_id, case_uuid, status_uuid, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, case_uuid, status_uuid) DO NOTHING`,
	DialectSQLite: `
		INSERT INTO user_case_status_notifications (user_id, case_uuid, status_uuid, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, case_uuid, status_uuid) DO NOTHING`,
}

var countQueries = map[Dialect]string{
	DialectPostgres: `SELECT COUNT(*) FROM user_case_status_notifications WHERE user_id = $1`,
	DialectSQLite:   `SELECT COUNT(*) FROM user_case_status_notifications WHERE user_id = ?`,
}

// SQLStore keeps the ledger in the user_case_status_notifications table.
// The composite primary key is what makes RecordIfUnique atomic.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

func NewSQLStore(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *SQLStore) RecordIfUnique(ctx context.Context, userID, caseUUID, statusUUID uuid.UUID) (bool, error) {
	key := Key{UserID: userID, CaseUUID: caseUUID, StatusUUID: statusUUID}
	if err := key.validate(); err != nil {
		return false, err
	}
	res, err := s.execer(ctx).ExecContext(ctx, insertQueries[s.dialect],
		userID.String(), caseUUID.String(), statusUUID.String(), requestcontext.Now(ctx).UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("record notification: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("record notification: %w", err)
	}
	return n == 1, nil
}

// CountForUser returns how many notifications were recorded for userID.
func (s *SQLStore) CountForUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	if err := s.execer(ctx).QueryRowContext(ctx, countQueries[s.dialect], userID.String()).Scan(&n); err != nil {
		return 0, fmt.Errorf("count notifications: %w", err)
	}
	return n, nil
}
