package models

import (
	"time"

	"github.com/google/uuid"
)

// Team is a fantasy team within a league, run by a manager.
type Team struct {
	ID        uuid.UUID `json:"id"`
	LeagueID  uuid.UUID `json:"league_id"`
	ManagerID uuid.UUID `json:"manager_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
