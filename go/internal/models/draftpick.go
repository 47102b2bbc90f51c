package models

import (
	"github.com/google/uuid"
	"time"
)

// PickStatus is the per-pick state machine: UPCOMING -> ON_CLOCK -> MADE|AUTO.
type PickStatus string

const (
	PickStatusUpcoming PickStatus = "UPCOMING"
	PickStatusOnClock  PickStatus = "ON_CLOCK"
	PickStatusMade     PickStatus = "MADE"
	PickStatusAuto     PickStatus = "AUTO"
)

// Resolved reports whether the pick has left the clock for good.
func (s PickStatus) Resolved() bool {
	return s == PickStatusMade || s == PickStatusAuto
}

// DraftPick represents a single slot in the draft grid.
type DraftPick struct {
	ID      uuid.UUID `json:"id"`
	DraftID uuid.UUID `json:"draft_id"`

	Round       int `json:"round"`
	Pick        int `json:"pick"`         // pick number within the round
	OverallPick int `json:"overall_pick"` // global pick number, 1..rounds*teams

	// TeamID is the team currently owning the pick; OriginalTeamID records the
	// slot's original owner. They differ only when picks have been traded, and
	// both are locked once the draft is active.
	TeamID         uuid.UUID `json:"team_id"`
	OriginalTeamID uuid.UUID `json:"original_team_id"`

	PlayerID *uuid.UUID `json:"player_id,omitempty"` // nil until resolved

	Status         PickStatus `json:"status"`
	ClockStartedAt *time.Time `json:"clock_started_at,omitempty"`
	PickedAt       *time.Time `json:"picked_at,omitempty"`
}
