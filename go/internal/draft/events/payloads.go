// Package events defines the outbox event types the draft runtime emits for
// downstream consumers (post-draft aggregation, audit). These are not pushed
// to clients.
package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeDraftStarted   = "DraftStarted"
	TypePickStarted    = "PickStarted"
	TypePickMade       = "PickMade"
	TypeDraftPaused    = "DraftPaused"
	TypeDraftResumed   = "DraftResumed"
	TypeDraftCompleted = "DraftCompleted"
)

type DraftStartedPayload struct {
	DraftID    uuid.UUID `json:"draft_id"`
	DraftType  string    `json:"draft_type"`
	Rounds     int       `json:"rounds"`
	TotalPicks int       `json:"total_picks"`
	StartedAt  time.Time `json:"started_at"`
}

// PickStartedPayload is emitted every time a pick goes on the clock,
// including after a tick-driven repair.
type PickStartedPayload struct {
	PickID         uuid.UUID `json:"pick_id"`
	TeamID         uuid.UUID `json:"team_id"`
	Round          int       `json:"round"`
	Pick           int       `json:"pick"`
	OverallPick    int       `json:"overall_pick"`
	StartedAt      time.Time `json:"started_at"`
	TimePerPickSec int       `json:"time_per_pick_sec"`
}

// PickMadePayload covers both manual and auto resolutions. PlayerID is nil
// when an expired pick resolved with no player left to assign.
type PickMadePayload struct {
	PickID      uuid.UUID  `json:"pick_id"`
	TeamID      uuid.UUID  `json:"team_id"`
	PlayerID    *uuid.UUID `json:"player_id,omitempty"`
	Round       int        `json:"round"`
	Pick        int        `json:"pick"`
	OverallPick int        `json:"overall_pick"`
	Auto        bool       `json:"auto"`
	MadeAt      time.Time  `json:"made_at"`
}

type DraftPausedPayload struct {
	DraftID  uuid.UUID `json:"draft_id"`
	PausedAt time.Time `json:"paused_at"`
}

type DraftResumedPayload struct {
	DraftID   uuid.UUID `json:"draft_id"`
	ResumedAt time.Time `json:"resumed_at"`
}

type DraftCompletedPayload struct {
	DraftID     uuid.UUID `json:"draft_id"`
	TotalPicks  int       `json:"total_picks"`
	CompletedAt time.Time `json:"completed_at"`
}
