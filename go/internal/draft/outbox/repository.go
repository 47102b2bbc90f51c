package outbox

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/puckdraft/go/internal/apperrors"
	"github.com/sqlc-dev/pqtype"
)

// Repository is the listener-side view of the outbox table, over database/sql
// so it shares the lib/pq connection stack with the LISTEN socket.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const fetchUnsentSQL = `
SELECT id, draft_id, event_type, payload, created_at
FROM draft_outbox
WHERE sent_at IS NULL
ORDER BY created_at
LIMIT $1
FOR UPDATE SKIP LOCKED`

func (r *Repository) FetchUnsent(ctx context.Context, limit int32) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx, fetchUnsentSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unsent outbox events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan outbox event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

const fetchByIDSQL = `
SELECT id, draft_id, event_type, payload, created_at
FROM draft_outbox
WHERE id = $1 AND sent_at IS NULL`

func (r *Repository) FetchByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	e, err := scanEvent(r.db.QueryRowContext(ctx, fetchByIDSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("outbox event %s missing or already sent: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch outbox event: %w", err)
	}
	return e, nil
}

const markSentSQL = `UPDATE draft_outbox SET sent_at = now() WHERE id = $1`

func (r *Repository) MarkSent(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, markSentSQL, id); err != nil {
		return fmt.Errorf("failed to mark outbox event sent: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*Event, error) {
	var (
		e       Event
		payload pqtype.NullRawMessage
	)
	if err := row.Scan(&e.ID, &e.DraftID, &e.EventType, &payload, &e.CreatedAt); err != nil {
		return nil, err
	}
	if payload.Valid {
		e.Payload = payload.RawMessage
	}
	return &e, nil
}
