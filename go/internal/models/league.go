package models

import (
	"github.com/google/uuid"
	"time"
)

// League represents a fantasy hockey league. The draft engine only reads it
// for team membership and commissioner checks.
type League struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	CommissionerID uuid.UUID `json:"commissioner_id"`
	Season         string    `json:"season"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
