package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Player represents an NHL player in the draftable pool.
type Player struct {
	ID         uuid.UUID `json:"id"`
	ExternalID string    `json:"external_id"`
	FullName   string    `json:"full_name"`
	Position   string    `json:"position"` // C, LW, RW, D, G
	IsActive   bool      `json:"is_active"`

	// FantasyScore is the ranking used by auto-pick: higher is better,
	// ties broken by name ascending.
	FantasyScore float64 `json:"fantasy_score"`

	CreatedAt time.Time `json:"created_at"`
}

// IsGoalie reports whether the player belongs to the goalie pool.
func (p *Player) IsGoalie() bool {
	return strings.Contains(p.Position, "G")
}
