package models

import "github.com/google/uuid"

// DraftOrderEntry is one position of the round-1 base order. Snake reversal
// for later rounds is computed from this table, never stored.
type DraftOrderEntry struct {
	ID       uuid.UUID `json:"id"`
	DraftID  uuid.UUID `json:"draft_id"`
	TeamID   uuid.UUID `json:"team_id"`
	Position int       `json:"position"` // 1..teamCount, unique per draft
}
