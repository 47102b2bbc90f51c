// Package outbox implements the transactional outbox for draft events: rows
// are written in the same transaction as the state change they report, then a
// listener publishes them to NATS JetStream and marks them sent. NOTIFY wakes
// the listener immediately; a fallback poll catches anything missed.
package outbox

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID        uuid.UUID       `json:"id"`
	DraftID   uuid.UUID       `json:"draft_id"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
	SentAt    *time.Time      `json:"sent_at,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
