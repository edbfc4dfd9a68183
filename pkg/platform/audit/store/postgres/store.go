package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	audit "caseflow/pkg/platform/audit"
	txcontext "caseflow/pkg/platform/tx"
)

// Store implements audit.Store on the system_log table. Inside a transaction
// carried by ctx the event commits or rolls back with the surrounding work.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// Append writes one event. The category is always derived from the action.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	query := `
		INSERT INTO system_log (id, category, timestamp, user_id, subject, action, reason, request_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	var userID *uuid.UUID
	if event.UserID != uuid.Nil {
		userID = &event.UserID
	}

	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.New(),
		string(audit.AuditEvent(event.Action).Category()),
		event.Timestamp,
		userID,
		event.Subject,
		event.Action,
		event.Reason,
		event.RequestID,
	)
	if err != nil {
		return fmt.Errorf("insert system log entry: %w", err)
	}
	return nil
}

const selectEvents = `
	SELECT category, timestamp, user_id, subject, action, reason, request_id
	FROM system_log
`

// ListByUser returns events for a specific user, oldest first.
func (s *Store) ListByUser(ctx context.Context, userID uuid.UUID) ([]audit.Event, error) {
	rows, err := s.db.QueryContext(ctx, selectEvents+`WHERE user_id = $1 ORDER BY timestamp ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query system log: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// ListBySubject returns events about one resource, oldest first.
func (s *Store) ListBySubject(ctx context.Context, subject string) ([]audit.Event, error) {
	rows, err := s.db.QueryContext(ctx, selectEvents+`WHERE subject = $1 ORDER BY timestamp ASC`, subject)
	if err != nil {
		return nil, fmt.Errorf("query system log: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]audit.Event, error) {
	events := []audit.Event{}
	for rows.Next() {
		var (
			e        audit.Event
			category string
			userID   uuid.NullUUID
		)
		if err := rows.Scan(&category, &e.Timestamp, &userID, &e.Subject, &e.Action, &e.Reason, &e.RequestID); err != nil {
			return nil, fmt.Errorf("scan system log entry: %w", err)
		}
		e.Category = audit.EventCategory(category)
		if userID.Valid {
			e.UserID = userID.UUID
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate system log: %w", err)
	}
	return events, nil
}
