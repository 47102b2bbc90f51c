package roster

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/puckdraft/go/internal/models"
	"github.com/mcdev12/puckdraft/go/internal/sqlutil"
)

type Repository struct {
	db sqlutil.DBTX
}

func NewRepository(db sqlutil.DBTX) *Repository {
	return &Repository{db: db}
}

// Duplicate adds are not an error: the unique (team_id, player_id) constraint
// plus DO NOTHING makes the insert idempotent.
const addPlayerSQL = `
INSERT INTO rosters (id, team_id, player_id, acquisition_type, acquired_at)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (team_id, player_id) DO NOTHING`

func (r *Repository) AddPlayer(ctx context.Context, teamID, playerID uuid.UUID, acq models.AcquisitionType) error {
	_, err := r.db.Exec(ctx, addPlayerSQL, uuid.New(), teamID, playerID, string(acq))
	if err != nil {
		return fmt.Errorf("failed to add player %s to roster of team %s: %w", playerID, teamID, err)
	}
	return nil
}

const countGoaliesSQL = `
SELECT count(*)
FROM rosters r
JOIN players p ON p.id = r.player_id
WHERE r.team_id = $1 AND p.position LIKE '%G%'`

// CountGoalies feeds the auto-pick need inference (prefer goalies until a
// team rosters two of them).
func (r *Repository) CountGoalies(ctx context.Context, teamID uuid.UUID) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, countGoaliesSQL, teamID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count goalies for team %s: %w", teamID, err)
	}
	return n, nil
}
