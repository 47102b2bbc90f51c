package outbox

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/puckdraft/go/internal/sqlutil"
)

// NotifyChannel is the Postgres NOTIFY channel that wakes the listener.
const NotifyChannel = "draft_outbox_events"

// Writer appends outbox rows on the pgx side, inside the caller's
// transaction. The NOTIFY fires only when that transaction commits, so the
// listener never sees an event for a rolled-back state change.
type Writer struct {
	db sqlutil.DBTX
}

func NewWriter(db sqlutil.DBTX) *Writer {
	return &Writer{db: db}
}

const appendEventSQL = `
INSERT INTO draft_outbox (id, draft_id, event_type, payload, created_at)
VALUES ($1, $2, $3, $4, now())`

const notifySQL = `SELECT pg_notify('` + NotifyChannel + `', $1)`

func (w *Writer) Append(ctx context.Context, draftID uuid.UUID, eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}

	id := uuid.New()
	if _, err := w.db.Exec(ctx, appendEventSQL, id, draftID, eventType, data); err != nil {
		return fmt.Errorf("failed to append %s outbox event: %w", eventType, err)
	}
	if _, err := w.db.Exec(ctx, notifySQL, id.String()); err != nil {
		return fmt.Errorf("failed to notify outbox listener: %w", err)
	}
	return nil
}
