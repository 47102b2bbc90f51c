package draft

import (
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/puckdraft/go/internal/models"
)

// CreateDraftRequest creates the league's draft shell (grid built separately).
type CreateDraftRequest struct {
	ID             uuid.UUID        `json:"id"`
	LeagueID       uuid.UUID        `json:"league_id"`
	DraftType      models.DraftType `json:"draft_type"`
	OrderMode      models.OrderMode `json:"order_mode"`
	Rounds         int              `json:"rounds"`
	TimePerPickSec int              `json:"time_per_pick_sec"`
	ScheduledStart *time.Time       `json:"scheduled_start,omitempty"`
}
