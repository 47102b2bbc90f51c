package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/puckdraft/go/internal/apperrors"
	"github.com/mcdev12/puckdraft/go/internal/draft/clock"
	"github.com/mcdev12/puckdraft/go/internal/draft/order"
	"github.com/mcdev12/puckdraft/go/internal/models"
)

const minSecondsPerPick = 5

// Build creates or replaces the full pick grid: base order, rounds x teams
// UPCOMING picks, and a reset of every mutable draft field, all in one
// transaction. A draft with resolved picks is only rebuilt when Force is set;
// a live draft is never rebuilt.
func (e *Engine) Build(ctx context.Context, draftID, actingUserID uuid.UUID, req BuildRequest) (*BuildResult, error) {
	res := &BuildResult{}
	err := e.runner.InTx(ctx, func(r Repos) error {
		d, err := r.Drafts.GetDraftForUpdate(ctx, draftID)
		if err != nil {
			return err
		}
		if err := requireCommissioner(ctx, r, d, actingUserID); err != nil {
			return err
		}
		if d.IsActive {
			return fmt.Errorf("draft %s is live, stop it before rebuilding: %w", draftID, apperrors.ErrState)
		}
		if req.Rounds < 1 {
			return fmt.Errorf("rounds must be >= 1, got %d: %w", req.Rounds, apperrors.ErrConfiguration)
		}
		if req.SecondsPerPick < minSecondsPerPick {
			return fmt.Errorf("seconds per pick must be >= %d, got %d: %w",
				minSecondsPerPick, req.SecondsPerPick, apperrors.ErrConfiguration)
		}

		teams, err := r.Teams.ListTeamsByLeague(ctx, d.LeagueID)
		if err != nil {
			return err
		}

		resolved, err := r.Picks.AnyResolved(ctx, draftID)
		if err != nil {
			return err
		}
		if resolved && !req.Force {
			return fmt.Errorf("draft %s has resolved picks, rebuild requires force: %w",
				draftID, apperrors.ErrState)
		}

		var manual []models.DraftOrderEntry
		if d.OrderMode == models.OrderModeManual {
			manual, err = r.Orders.ListOrder(ctx, draftID)
			if err != nil {
				return err
			}
		}
		base, err := order.BaseOrder(d, teams, manual, e.rng)
		if err != nil {
			return err
		}

		if _, err := r.Picks.DeletePicksByDraft(ctx, draftID); err != nil {
			return err
		}
		if d.OrderMode != models.OrderModeManual {
			if err := r.Orders.ReplaceOrder(ctx, draftID, base); err != nil {
				return err
			}
		}

		d, err = r.Drafts.ResetForBuild(ctx, draftID, req.Rounds, req.SecondsPerPick)
		if err != nil {
			return err
		}
		if err := r.Drafts.SetOrderGenerated(ctx, draftID, true); err != nil {
			return err
		}
		d.OrderGenerated = true

		picks, err := buildGrid(d, base)
		if err != nil {
			return err
		}
		if err := r.Picks.CreatePicksBatch(ctx, picks); err != nil {
			return err
		}

		res.Draft = d
		res.TeamCount = len(teams)
		res.TotalPicks = len(picks)
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.Info().
		Str("draft_id", draftID.String()).
		Int("rounds", req.Rounds).
		Int("total_picks", res.TotalPicks).
		Msg("draft grid built")
	return res, nil
}

// buildGrid expands the base order into rounds x teams pick rows, numbered
// 1..N row-major. The owning team is baked in at build time with the same
// index math the live runtime uses.
func buildGrid(d *models.Draft, base []uuid.UUID) ([]models.DraftPick, error) {
	n := len(base)
	total := d.TotalPicks(n)
	picks := make([]models.DraftPick, 0, total)
	for overall := 1; overall <= total; overall++ {
		slot, err := clock.Locate(overall, n, d.DraftType)
		if err != nil {
			return nil, err
		}
		team := base[slot.OrderPosition-1]
		picks = append(picks, models.DraftPick{
			ID:             uuid.New(),
			DraftID:        d.ID,
			Round:          slot.Round,
			Pick:           slot.PickInRound,
			OverallPick:    overall,
			TeamID:         team,
			OriginalTeamID: team,
			Status:         models.PickStatusUpcoming,
		})
	}
	return picks, nil
}
