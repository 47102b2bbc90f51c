// Package engine owns the live draft state machine: start, tick, manual and
// automatic picks, advancement and completion. Expiry is pull-model: the pick
// clock is just a stored timestamp compared against wall-clock time whenever a
// request arrives, so there is no timer goroutine and correctness does not
// depend on polling cadence.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/puckdraft/go/internal/apperrors"
	"github.com/mcdev12/puckdraft/go/internal/draft/clock"
	"github.com/mcdev12/puckdraft/go/internal/draft/events"
	"github.com/mcdev12/puckdraft/go/internal/models"
	"github.com/rs/zerolog"
)

type Engine struct {
	runner TxRunner
	reader Reader
	clock  clockwork.Clock
	rng    *rand.Rand
	log    zerolog.Logger
}

func New(runner TxRunner, reader Reader, clk clockwork.Clock, rng *rand.Rand, log zerolog.Logger) *Engine {
	return &Engine{
		runner: runner,
		reader: reader,
		clock:  clk,
		rng:    rng,
		log:    log.With().Str("component", "draft_engine").Logger(),
	}
}

// requireCommissioner gates the control operations (build, start, pause,
// resume, order editing) on the league's commissioner.
func requireCommissioner(ctx context.Context, r Repos, d *models.Draft, actingUserID uuid.UUID) error {
	l, err := r.Leagues.GetLeague(ctx, d.LeagueID)
	if err != nil {
		return err
	}
	if l.CommissionerID != actingUserID {
		return fmt.Errorf("user %s is not the commissioner of league %s: %w",
			actingUserID, l.ID, apperrors.ErrAuthorization)
	}
	return nil
}

// Start activates the draft and puts pick 1 on the clock. The grid must
// already be built; a completed draft cannot be restarted.
func (e *Engine) Start(ctx context.Context, draftID, actingUserID uuid.UUID) (*models.DraftPick, error) {
	var current *models.DraftPick
	err := e.runner.InTx(ctx, func(r Repos) error {
		d, err := r.Drafts.GetDraftForUpdate(ctx, draftID)
		if err != nil {
			return err
		}
		if err := requireCommissioner(ctx, r, d, actingUserID); err != nil {
			return err
		}
		if d.IsCompleted {
			return fmt.Errorf("draft %s is completed: %w", draftID, apperrors.ErrState)
		}
		if d.IsActive {
			return fmt.Errorf("draft %s is already live: %w", draftID, apperrors.ErrState)
		}

		first, err := r.Picks.GetPickByOverall(ctx, draftID, 1)
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("draft %s has no pick grid built: %w", draftID, apperrors.ErrState)
		}
		if err != nil {
			return err
		}

		now := e.clock.Now().UTC()
		if err := r.Drafts.MarkStarted(ctx, draftID, now); err != nil {
			return err
		}
		if err := r.Picks.SetOnClock(ctx, first.ID, now); err != nil {
			return err
		}

		teams, err := r.Teams.ListTeamsByLeague(ctx, d.LeagueID)
		if err != nil {
			return err
		}
		if err := r.Events.Append(ctx, draftID, events.TypeDraftStarted, events.DraftStartedPayload{
			DraftID:    draftID,
			DraftType:  string(d.DraftType),
			Rounds:     d.Rounds,
			TotalPicks: d.TotalPicks(len(teams)),
			StartedAt:  now,
		}); err != nil {
			return err
		}
		if err := e.emitPickStarted(ctx, r, d, first, now); err != nil {
			return err
		}

		first.Status = models.PickStatusOnClock
		first.ClockStartedAt = &now
		current = first
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.Info().Str("draft_id", draftID.String()).Msg("draft started")
	return current, nil
}

// Tick evaluates the current pick's clock. It is a no-op on inactive or
// completed drafts. If the single ON_CLOCK row has drifted out of existence it
// is repaired from current_pick rather than trusted from any cache; if the
// elapsed time exceeds the per-pick budget, the pick is auto-resolved and the
// draft advances with a fresh clock starting now.
func (e *Engine) Tick(ctx context.Context, draftID uuid.UUID) (*TickResult, error) {
	res := &TickResult{}
	err := e.runner.InTx(ctx, func(r Repos) error {
		d, err := r.Drafts.GetDraftForUpdate(ctx, draftID)
		if err != nil {
			return err
		}
		if !d.IsActive || d.IsCompleted {
			res.Completed = d.IsCompleted
			return nil
		}

		now := e.clock.Now().UTC()
		cur, completedNow, err := e.currentOnClock(ctx, r, d, now)
		if err != nil {
			return err
		}
		if completedNow {
			res.Completed = true
			return nil
		}
		if cur == nil {
			// repair walked off the end of the grid
			return e.complete(ctx, r, d, now, res)
		}

		start := d.CurrentPickStartedAt
		if start == nil {
			start = cur.ClockStartedAt
		}
		if start == nil || now.Sub(*start) <= time.Duration(d.TimePerPickSec)*time.Second {
			res.Current = cur
			return nil
		}

		// overdue, possibly by a lot: resolve at evaluation time, not at the
		// moment the clock ran out
		resolved, err := e.autoPick(ctx, r, d, cur, now)
		if err != nil {
			return err
		}
		res.Expired = true
		res.AutoPicked = resolved

		next, err := e.advance(ctx, r, d, now)
		if err != nil {
			return err
		}
		if next == nil {
			res.Completed = true
			return nil
		}
		res.Current = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	if res.Expired {
		e.log.Info().
			Str("draft_id", draftID.String()).
			Bool("completed", res.Completed).
			Msg("tick auto-resolved expired pick")
	}
	return res, nil
}

// MakePick resolves the on-clock pick manually on behalf of actingUserID.
func (e *Engine) MakePick(ctx context.Context, draftID, actingUserID, playerID uuid.UUID) (*TickResult, error) {
	res := &TickResult{}
	err := e.runner.InTx(ctx, func(r Repos) error {
		d, err := r.Drafts.GetDraftForUpdate(ctx, draftID)
		if err != nil {
			return err
		}
		if d.IsCompleted {
			return fmt.Errorf("draft %s is completed: %w", draftID, apperrors.ErrState)
		}
		if !d.IsActive {
			return fmt.Errorf("draft %s is not live: %w", draftID, apperrors.ErrState)
		}

		cur, err := r.Picks.GetOnClockPick(ctx, draftID)
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("no pick is on the clock: %w", apperrors.ErrState)
		}
		if err != nil {
			return err
		}

		team, err := r.Teams.GetTeam(ctx, cur.TeamID)
		if err != nil {
			return err
		}
		if team.ManagerID != actingUserID {
			return fmt.Errorf("user %s does not manage the team on the clock: %w",
				actingUserID, apperrors.ErrAuthorization)
		}

		p, err := r.Players.GetPlayer(ctx, playerID)
		if err != nil {
			return err
		}
		if !p.IsActive {
			return fmt.Errorf("player %s is not active: %w", p.FullName, apperrors.ErrConflict)
		}
		drafted, err := r.Picks.IsPlayerDrafted(ctx, draftID, playerID)
		if err != nil {
			return err
		}
		if drafted {
			return fmt.Errorf("player %s is already drafted: %w", p.FullName, apperrors.ErrConflict)
		}

		now := e.clock.Now().UTC()
		if err := r.Picks.ResolvePick(ctx, cur.ID, &playerID, models.PickStatusMade, now); err != nil {
			return err
		}
		if err := r.Rosters.AddPlayer(ctx, cur.TeamID, playerID, models.AcquisitionTypeDraft); err != nil {
			return err
		}
		if err := r.Events.Append(ctx, draftID, events.TypePickMade, events.PickMadePayload{
			PickID:      cur.ID,
			TeamID:      cur.TeamID,
			PlayerID:    &playerID,
			Round:       cur.Round,
			Pick:        cur.Pick,
			OverallPick: cur.OverallPick,
			Auto:        false,
			MadeAt:      now,
		}); err != nil {
			return err
		}

		next, err := e.advance(ctx, r, d, now)
		if err != nil {
			return err
		}
		if next == nil {
			res.Completed = true
			return nil
		}
		res.Current = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.Info().
		Str("draft_id", draftID.String()).
		Str("player_id", playerID.String()).
		Bool("completed", res.Completed).
		Msg("pick made")
	return res, nil
}

// Pause suspends a live draft. The pick clock timestamp is left untouched, so
// elapsed time keeps accruing through the pause; a long pause usually means
// the current pick auto-resolves on the first tick after resume.
func (e *Engine) Pause(ctx context.Context, draftID, actingUserID uuid.UUID) error {
	err := e.runner.InTx(ctx, func(r Repos) error {
		d, err := r.Drafts.GetDraftForUpdate(ctx, draftID)
		if err != nil {
			return err
		}
		if err := requireCommissioner(ctx, r, d, actingUserID); err != nil {
			return err
		}
		if d.IsCompleted {
			return fmt.Errorf("draft %s is completed: %w", draftID, apperrors.ErrState)
		}
		if !d.IsActive {
			return fmt.Errorf("draft %s is not live: %w", draftID, apperrors.ErrState)
		}
		if err := r.Drafts.SetActive(ctx, draftID, false); err != nil {
			return err
		}
		now := e.clock.Now().UTC()
		return r.Events.Append(ctx, draftID, events.TypeDraftPaused, events.DraftPausedPayload{
			DraftID:  draftID,
			PausedAt: now,
		})
	})
	if err != nil {
		return err
	}
	e.log.Info().Str("draft_id", draftID.String()).Msg("draft paused")
	return nil
}

// Resume reactivates a paused draft.
func (e *Engine) Resume(ctx context.Context, draftID, actingUserID uuid.UUID) error {
	err := e.runner.InTx(ctx, func(r Repos) error {
		d, err := r.Drafts.GetDraftForUpdate(ctx, draftID)
		if err != nil {
			return err
		}
		if err := requireCommissioner(ctx, r, d, actingUserID); err != nil {
			return err
		}
		if d.IsCompleted {
			return fmt.Errorf("draft %s is completed: %w", draftID, apperrors.ErrState)
		}
		if d.IsActive {
			return fmt.Errorf("draft %s is already live: %w", draftID, apperrors.ErrState)
		}
		if d.StartedAt == nil {
			return fmt.Errorf("draft %s was never started: %w", draftID, apperrors.ErrState)
		}
		if err := r.Drafts.SetActive(ctx, draftID, true); err != nil {
			return err
		}
		now := e.clock.Now().UTC()
		return r.Events.Append(ctx, draftID, events.TypeDraftResumed, events.DraftResumedPayload{
			DraftID:   draftID,
			ResumedAt: now,
		})
	})
	if err != nil {
		return err
	}
	e.log.Info().Str("draft_id", draftID.String()).Msg("draft resumed")
	return nil
}

// CurrentClock answers "who is on the clock" without taking the draft lock.
func (e *Engine) CurrentClock(ctx context.Context, draftID uuid.UUID) (*ClockSnapshot, error) {
	d, err := e.reader.Drafts.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if !d.IsActive || d.IsCompleted {
		return nil, fmt.Errorf("draft %s is not live: %w", draftID, apperrors.ErrState)
	}

	teams, err := e.reader.Teams.ListTeamsByLeague(ctx, d.LeagueID)
	if err != nil {
		return nil, err
	}
	slot, err := clock.Locate(d.CurrentPick, len(teams), d.DraftType)
	if err != nil {
		return nil, err
	}

	cur, err := e.reader.Picks.GetPickByOverall(ctx, draftID, d.CurrentPick)
	if err != nil {
		return nil, err
	}

	now := e.clock.Now().UTC()
	snap := &ClockSnapshot{
		RoundNumber: slot.Round,
		PickInRound: slot.PickInRound,
		TeamID:      cur.TeamID,
		OverallPick: cur.OverallPick,
	}
	if d.CurrentPickStartedAt != nil {
		snap.StartedAt = *d.CurrentPickStartedAt
		remaining := time.Duration(d.TimePerPickSec)*time.Second - now.Sub(*d.CurrentPickStartedAt)
		if remaining > 0 {
			snap.RemainingSec = int(remaining / time.Second)
		}
	}
	return snap, nil
}

// currentOnClock returns the pick on the clock, repairing drifted state from
// current_pick. The bool reports that the repair path just completed the
// draft. A (nil, false) result means current_pick ran past the end of the
// grid without a completion mark.
func (e *Engine) currentOnClock(ctx context.Context, r Repos, d *models.Draft, now time.Time) (*models.DraftPick, bool, error) {
	cur, err := r.Picks.GetOnClockPick(ctx, d.ID)
	if err == nil {
		return cur, false, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, false, err
	}

	p, err := r.Picks.GetPickByOverall(ctx, d.ID, d.CurrentPick)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if p.Status.Resolved() {
		// the counter lagged a resolution, move past it
		next, err := e.advance(ctx, r, d, now)
		if err != nil {
			return nil, false, err
		}
		if next == nil {
			return nil, true, nil
		}
		return next, false, nil
	}

	start := now
	if d.CurrentPickStartedAt != nil {
		start = *d.CurrentPickStartedAt
	}
	if err := r.Picks.SetOnClock(ctx, p.ID, start); err != nil {
		return nil, false, err
	}
	if d.CurrentPickStartedAt == nil {
		if err := r.Drafts.AdvanceTo(ctx, d.ID, d.CurrentPick, start); err != nil {
			return nil, false, err
		}
		d.CurrentPickStartedAt = &start
	}
	e.log.Warn().
		Str("draft_id", d.ID.String()).
		Int("overall_pick", p.OverallPick).
		Msg("repaired missing on-clock pick")
	p.Status = models.PickStatusOnClock
	p.ClockStartedAt = &start
	return p, false, nil
}

// advance moves the draft to the next pick or completes it. Returns the new
// on-clock pick, or nil when the draft just finished. Mutates d to match.
func (e *Engine) advance(ctx context.Context, r Repos, d *models.Draft, now time.Time) (*models.DraftPick, error) {
	teams, err := r.Teams.ListTeamsByLeague(ctx, d.LeagueID)
	if err != nil {
		return nil, err
	}

	next := d.CurrentPick + 1
	if next > d.TotalPicks(len(teams)) {
		res := &TickResult{}
		if err := e.complete(ctx, r, d, now, res); err != nil {
			return nil, err
		}
		return nil, nil
	}

	if err := r.Drafts.AdvanceTo(ctx, d.ID, next, now); err != nil {
		return nil, err
	}
	d.CurrentPick = next
	d.CurrentPickStartedAt = &now

	p, err := r.Picks.GetPickByOverall(ctx, d.ID, next)
	if err != nil {
		return nil, err
	}
	if err := r.Picks.SetOnClock(ctx, p.ID, now); err != nil {
		return nil, err
	}
	if err := e.emitPickStarted(ctx, r, d, p, now); err != nil {
		return nil, err
	}
	p.Status = models.PickStatusOnClock
	p.ClockStartedAt = &now
	return p, nil
}

func (e *Engine) complete(ctx context.Context, r Repos, d *models.Draft, now time.Time, res *TickResult) error {
	if err := r.Drafts.MarkCompleted(ctx, d.ID, now); err != nil {
		return err
	}
	d.IsActive = false
	d.IsCompleted = true
	d.CompletedAt = &now
	res.Completed = true

	teams, err := r.Teams.ListTeamsByLeague(ctx, d.LeagueID)
	if err != nil {
		return err
	}
	if err := r.Events.Append(ctx, d.ID, events.TypeDraftCompleted, events.DraftCompletedPayload{
		DraftID:     d.ID,
		TotalPicks:  d.TotalPicks(len(teams)),
		CompletedAt: now,
	}); err != nil {
		return err
	}
	e.log.Info().Str("draft_id", d.ID.String()).Msg("draft completed")
	return nil
}

func (e *Engine) emitPickStarted(ctx context.Context, r Repos, d *models.Draft, p *models.DraftPick, now time.Time) error {
	return r.Events.Append(ctx, d.ID, events.TypePickStarted, events.PickStartedPayload{
		PickID:         p.ID,
		TeamID:         p.TeamID,
		Round:          p.Round,
		Pick:           p.Pick,
		OverallPick:    p.OverallPick,
		StartedAt:      now,
		TimePerPickSec: d.TimePerPickSec,
	})
}
