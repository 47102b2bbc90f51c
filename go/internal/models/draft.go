package models

import (
	"github.com/google/uuid"
	"time"
)

// DraftType defines how the round order is derived from the base order.
type DraftType string

const (
	DraftTypeSnake  DraftType = "SNAKE"
	DraftTypeLinear DraftType = "LINEAR"
)

// OrderMode defines how the round-1 base order is produced.
type OrderMode string

const (
	OrderModeRandom OrderMode = "RANDOM"
	OrderModeAlpha  OrderMode = "ALPHA"
	OrderModeManual OrderMode = "MANUAL"
)

// Draft represents the single draft of a league.
type Draft struct {
	ID             uuid.UUID `json:"id"`
	LeagueID       uuid.UUID `json:"league_id"`
	DraftType      DraftType `json:"draft_type"`
	OrderMode      OrderMode `json:"order_mode"`
	Rounds         int       `json:"rounds"`
	TimePerPickSec int       `json:"time_per_pick_sec"`

	IsActive    bool `json:"is_active"`
	IsCompleted bool `json:"is_completed"`

	// CurrentPick is the 1-based global pick number across all rounds.
	CurrentPick int `json:"current_pick"`

	ScheduledStart *time.Time `json:"scheduled_start,omitempty"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`

	// CurrentPickStartedAt drives server-side clock enforcement. Expiry is
	// evaluated against it on every tick; there is no timer process.
	CurrentPickStartedAt *time.Time `json:"current_pick_started_at,omitempty"`

	// OrderGenerated marks that the base order exists, so the 30-minute
	// pre-start auto-generation runs at most once.
	OrderGenerated bool `json:"order_generated"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TotalPicks returns the size of the full grid for a given team count.
func (d *Draft) TotalPicks(teamCount int) int {
	return d.Rounds * teamCount
}
