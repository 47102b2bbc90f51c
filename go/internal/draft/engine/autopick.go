package engine

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/puckdraft/go/internal/apperrors"
	"github.com/mcdev12/puckdraft/go/internal/draft/events"
	"github.com/mcdev12/puckdraft/go/internal/models"
	"github.com/mcdev12/puckdraft/go/internal/player"
)

// goalieTarget is the rostered-goalie count below which the auto-picker
// prefers the goalie pool.
const goalieTarget = 2

// autoPick resolves cur on behalf of its owning team. Pool preference comes
// from a single need rule (fewer than two rostered goalies -> goalies, else
// skaters) with an unrestricted fallback when the preferred pool is empty.
// When no eligible player remains anywhere the pick still resolves AUTO with
// no player, so the draft can always reach completion.
func (e *Engine) autoPick(ctx context.Context, r Repos, d *models.Draft, cur *models.DraftPick, now time.Time) (*models.DraftPick, error) {
	preferred, err := e.preferredPool(ctx, r, cur)
	if err != nil {
		return nil, err
	}

	selected, err := r.Players.BestAvailable(ctx, d.ID, preferred)
	if errors.Is(err, apperrors.ErrNotFound) {
		selected, err = r.Players.BestAvailable(ctx, d.ID, player.PoolAny)
	}
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	var playerID *uuid.UUID
	if selected != nil {
		playerID = &selected.ID
	}

	if err := r.Picks.ResolvePick(ctx, cur.ID, playerID, models.PickStatusAuto, now); err != nil {
		return nil, err
	}
	if playerID != nil {
		if err := r.Rosters.AddPlayer(ctx, cur.TeamID, *playerID, models.AcquisitionTypeDraft); err != nil {
			return nil, err
		}
	} else {
		e.log.Warn().
			Str("draft_id", d.ID.String()).
			Int("overall_pick", cur.OverallPick).
			Msg("no eligible player left, pick resolved empty")
	}

	if err := r.Events.Append(ctx, d.ID, events.TypePickMade, events.PickMadePayload{
		PickID:      cur.ID,
		TeamID:      cur.TeamID,
		PlayerID:    playerID,
		Round:       cur.Round,
		Pick:        cur.Pick,
		OverallPick: cur.OverallPick,
		Auto:        true,
		MadeAt:      now,
	}); err != nil {
		return nil, err
	}

	cur.Status = models.PickStatusAuto
	cur.PickedAt = &now
	cur.PlayerID = playerID
	return cur, nil
}

func (e *Engine) preferredPool(ctx context.Context, r Repos, cur *models.DraftPick) (player.Pool, error) {
	goalies, err := r.Rosters.CountGoalies(ctx, cur.TeamID)
	if err != nil {
		return player.PoolAny, err
	}
	if goalies < goalieTarget {
		return player.PoolGoalie, nil
	}
	return player.PoolSkater, nil
}
