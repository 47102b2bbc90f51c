package draft

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/mcdev12/puckdraft/go/internal/apperrors"
	"github.com/mcdev12/puckdraft/go/internal/models"
	"github.com/mcdev12/puckdraft/go/internal/sqlutil"
)

type Repository struct {
	db sqlutil.DBTX
}

func NewRepository(db sqlutil.DBTX) *Repository {
	return &Repository{db: db}
}

const draftColumns = `
id, league_id, draft_type, order_mode, rounds, time_per_pick_sec,
is_active, is_completed, current_pick,
scheduled_start, started_at, completed_at, current_pick_started_at,
order_generated, created_at, updated_at`

const createDraftSQL = `
INSERT INTO drafts (
    id, league_id, draft_type, order_mode, rounds, time_per_pick_sec,
    scheduled_start, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
RETURNING ` + draftColumns

func (r *Repository) CreateDraft(ctx context.Context, req CreateDraftRequest) (*models.Draft, error) {
	row := r.db.QueryRow(ctx, createDraftSQL,
		req.ID, req.LeagueID, string(req.DraftType), string(req.OrderMode),
		req.Rounds, req.TimePerPickSec, sqlutil.Timestamptz(req.ScheduledStart),
	)
	d, err := scanDraft(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}
	return d, nil
}

const getDraftSQL = `SELECT ` + draftColumns + ` FROM drafts WHERE id = $1`

func (r *Repository) GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	d, err := scanDraft(r.db.QueryRow(ctx, getDraftSQL, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("draft %s: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return d, nil
}

// GetDraftForUpdate takes the per-draft exclusive row lock. Every
// read-decide-write sequence of the runtime goes through this, so concurrent
// callers on the same draft serialize behind each other (§ concurrency model).
const getDraftForUpdateSQL = `SELECT ` + draftColumns + ` FROM drafts WHERE id = $1 FOR UPDATE`

func (r *Repository) GetDraftForUpdate(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	d, err := scanDraft(r.db.QueryRow(ctx, getDraftForUpdateSQL, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("draft %s: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock draft: %w", err)
	}
	return d, nil
}

const getDraftByLeagueSQL = `SELECT ` + draftColumns + ` FROM drafts WHERE league_id = $1`

func (r *Repository) GetDraftByLeague(ctx context.Context, leagueID uuid.UUID) (*models.Draft, error) {
	d, err := scanDraft(r.db.QueryRow(ctx, getDraftByLeagueSQL, leagueID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("draft for league %s: %w", leagueID, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft by league: %w", err)
	}
	return d, nil
}

// ResetForBuild applies new build settings and clears every mutable runtime
// field. Ran inside the same transaction that replaces the pick grid.
const resetForBuildSQL = `
UPDATE drafts
SET rounds = $2,
    time_per_pick_sec = $3,
    is_active = FALSE,
    is_completed = FALSE,
    current_pick = 1,
    started_at = NULL,
    completed_at = NULL,
    current_pick_started_at = NULL,
    updated_at = now()
WHERE id = $1
RETURNING ` + draftColumns

func (r *Repository) ResetForBuild(ctx context.Context, id uuid.UUID, rounds, timePerPickSec int) (*models.Draft, error) {
	d, err := scanDraft(r.db.QueryRow(ctx, resetForBuildSQL, id, rounds, timePerPickSec))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("draft %s: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to reset draft for build: %w", err)
	}
	return d, nil
}

const markStartedSQL = `
UPDATE drafts
SET is_active = TRUE,
    started_at = COALESCE(started_at, $2),
    current_pick = 1,
    current_pick_started_at = $2,
    updated_at = now()
WHERE id = $1`

func (r *Repository) MarkStarted(ctx context.Context, id uuid.UUID, now time.Time) error {
	if _, err := r.db.Exec(ctx, markStartedSQL, id, now); err != nil {
		return fmt.Errorf("failed to mark draft started: %w", err)
	}
	return nil
}

const advanceToSQL = `
UPDATE drafts
SET current_pick = $2,
    current_pick_started_at = $3,
    updated_at = now()
WHERE id = $1`

func (r *Repository) AdvanceTo(ctx context.Context, id uuid.UUID, pickNumber int, clockStart time.Time) error {
	if _, err := r.db.Exec(ctx, advanceToSQL, id, pickNumber, clockStart); err != nil {
		return fmt.Errorf("failed to advance draft: %w", err)
	}
	return nil
}

const markCompletedSQL = `
UPDATE drafts
SET is_active = FALSE,
    is_completed = TRUE,
    completed_at = $2,
    current_pick_started_at = NULL,
    updated_at = now()
WHERE id = $1`

func (r *Repository) MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) error {
	if _, err := r.db.Exec(ctx, markCompletedSQL, id, at); err != nil {
		return fmt.Errorf("failed to mark draft completed: %w", err)
	}
	return nil
}

// SetActive flips only the active flag; pause/resume never touch
// current_pick_started_at, so elapsed clock time accrues through a pause.
const setActiveSQL = `
UPDATE drafts SET is_active = $2, updated_at = now() WHERE id = $1`

func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if _, err := r.db.Exec(ctx, setActiveSQL, id, active); err != nil {
		return fmt.Errorf("failed to set draft active=%t: %w", active, err)
	}
	return nil
}

const setOrderGeneratedSQL = `
UPDATE drafts SET order_generated = $2, updated_at = now() WHERE id = $1`

func (r *Repository) SetOrderGenerated(ctx context.Context, id uuid.UUID, generated bool) error {
	if _, err := r.db.Exec(ctx, setOrderGeneratedSQL, id, generated); err != nil {
		return fmt.Errorf("failed to set order_generated: %w", err)
	}
	return nil
}

func scanDraft(row pgx.Row) (*models.Draft, error) {
	var (
		d                                             models.Draft
		draftType, orderMode                          string
		scheduledStart, startedAt, completedAt, clock pgtype.Timestamptz
	)
	err := row.Scan(
		&d.ID, &d.LeagueID, &draftType, &orderMode, &d.Rounds, &d.TimePerPickSec,
		&d.IsActive, &d.IsCompleted, &d.CurrentPick,
		&scheduledStart, &startedAt, &completedAt, &clock,
		&d.OrderGenerated, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.DraftType = models.DraftType(draftType)
	d.OrderMode = models.OrderMode(orderMode)
	d.ScheduledStart = sqlutil.TimePtr(scheduledStart)
	d.StartedAt = sqlutil.TimePtr(startedAt)
	d.CompletedAt = sqlutil.TimePtr(completedAt)
	d.CurrentPickStartedAt = sqlutil.TimePtr(clock)
	return &d, nil
}
