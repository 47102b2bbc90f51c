package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/puckdraft/go/internal/apperrors"
	"github.com/mcdev12/puckdraft/go/internal/draft/order"
	"github.com/mcdev12/puckdraft/go/internal/models"
)

// orderGenerationWindow is how far before a scheduled start the base order is
// generated automatically.
const orderGenerationWindow = 30 * time.Minute

// SaveManualOrder replaces the draft's order rows with the given team
// sequence. Full contiguity validation happens again at build time; here only
// team identity and duplicates are checked.
func (e *Engine) SaveManualOrder(ctx context.Context, draftID, actingUserID uuid.UUID, teamIDs []uuid.UUID) error {
	err := e.runner.InTx(ctx, func(r Repos) error {
		d, err := r.Drafts.GetDraftForUpdate(ctx, draftID)
		if err != nil {
			return err
		}
		if err := requireCommissioner(ctx, r, d, actingUserID); err != nil {
			return err
		}
		if d.IsActive || d.IsCompleted {
			return fmt.Errorf("draft %s order is locked once live: %w", draftID, apperrors.ErrState)
		}
		if d.OrderMode != models.OrderModeManual {
			return fmt.Errorf("draft %s order mode is %s, not MANUAL: %w",
				draftID, d.OrderMode, apperrors.ErrConfiguration)
		}
		if len(teamIDs) == 0 {
			return fmt.Errorf("manual order is empty: %w", apperrors.ErrConfiguration)
		}

		teams, err := r.Teams.ListTeamsByLeague(ctx, d.LeagueID)
		if err != nil {
			return err
		}
		inLeague := make(map[uuid.UUID]bool, len(teams))
		for _, t := range teams {
			inLeague[t.ID] = true
		}
		seen := make(map[uuid.UUID]bool, len(teamIDs))
		for _, id := range teamIDs {
			if !inLeague[id] {
				return fmt.Errorf("team %s is not in league %s: %w", id, d.LeagueID, apperrors.ErrNotFound)
			}
			if seen[id] {
				return fmt.Errorf("team %s listed twice: %w", id, apperrors.ErrConflict)
			}
			seen[id] = true
		}

		if err := r.Orders.ReplaceOrder(ctx, draftID, teamIDs); err != nil {
			return err
		}
		return r.Drafts.SetOrderGenerated(ctx, draftID, true)
	})
	if err != nil {
		return err
	}
	e.log.Info().Str("draft_id", draftID.String()).Int("teams", len(teamIDs)).Msg("manual order saved")
	return nil
}

// MaybeGenerateOrder creates the base order for a RANDOM draft once the
// scheduled start is at most 30 minutes away. Idempotent via the draft's
// order_generated flag; returns whether an order was generated on this call.
func (e *Engine) MaybeGenerateOrder(ctx context.Context, draftID uuid.UUID) (bool, error) {
	generated := false
	err := e.runner.InTx(ctx, func(r Repos) error {
		d, err := r.Drafts.GetDraftForUpdate(ctx, draftID)
		if err != nil {
			return err
		}
		if d.OrderGenerated || d.OrderMode != models.OrderModeRandom || d.ScheduledStart == nil {
			return nil
		}
		now := e.clock.Now().UTC()
		if now.Before(d.ScheduledStart.Add(-orderGenerationWindow)) {
			return nil
		}

		teams, err := r.Teams.ListTeamsByLeague(ctx, d.LeagueID)
		if err != nil {
			return err
		}
		base, err := order.BaseOrder(d, teams, nil, e.rng)
		if err != nil {
			return err
		}
		if err := r.Orders.ReplaceOrder(ctx, draftID, base); err != nil {
			return err
		}
		if err := r.Drafts.SetOrderGenerated(ctx, draftID, true); err != nil {
			return err
		}
		generated = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if generated {
		e.log.Info().Str("draft_id", draftID.String()).Msg("draft order generated ahead of scheduled start")
	}
	return generated, nil
}
