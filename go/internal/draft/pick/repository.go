package pick

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

const pickColumns = `
id, draft_id, round, pick, overall_pick, team_id, original_team_id,
player_id, status, clock_started_at, picked_at`

const createPicksBatchSQL = `
INSERT INTO draft_picks (
    id, draft_id, round, pick, overall_pick, team_id, original_team_id, status
)
SELECT unnest($1::uuid[]), unnest($2::uuid[]), unnest($3::int[]), unnest($4::int[]),
       unnest($5::int[]), unnest($6::uuid[]), unnest($7::uuid[]), 'UPCOMING'`

// CreatePicksBatch inserts a freshly built grid. All rows land UPCOMING.
func (r *Repository) CreatePicksBatch(ctx context.Context, picks []models.DraftPick) error {
	if len(picks) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(picks))
	draftIDs := make([]uuid.UUID, len(picks))
	rounds := make([]int32, len(picks))
	pickNumbers := make([]int32, len(picks))
	overallPicks := make([]int32, len(picks))
	teamIDs := make([]uuid.UUID, len(picks))
	originalTeamIDs := make([]uuid.UUID, len(picks))

	for i, p := range picks {
		ids[i] = p.ID
		draftIDs[i] = p.DraftID
		rounds[i] = int32(p.Round)
		pickNumbers[i] = int32(p.Pick)
		overallPicks[i] = int32(p.OverallPick)
		teamIDs[i] = p.TeamID
		originalTeamIDs[i] = p.OriginalTeamID
	}

	_, err := r.db.Exec(ctx, createPicksBatchSQL,
		ids, draftIDs, rounds, pickNumbers, overallPicks, teamIDs, originalTeamIDs,
	)
	if err != nil {
		return fmt.Errorf("failed to batch create draft picks: %w", err)
	}
	return nil
}

const deletePicksByDraftSQL = `DELETE FROM draft_picks WHERE draft_id = $1`

func (r *Repository) DeletePicksByDraft(ctx context.Context, draftID uuid.UUID) (int, error) {
	tag, err := r.db.Exec(ctx, deletePicksByDraftSQL, draftID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete draft picks: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

const getPickByOverallSQL = `
SELECT ` + pickColumns + ` FROM draft_picks WHERE draft_id = $1 AND overall_pick = $2`

func (r *Repository) GetPickByOverall(ctx context.Context, draftID uuid.UUID, overall int) (*models.DraftPick, error) {
	p, err := scanPick(r.db.QueryRow(ctx, getPickByOverallSQL, draftID, overall))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("pick %d of draft %s: %w", overall, draftID, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pick by overall number: %w", err)
	}
	return p, nil
}

// GetOnClockPick returns the single ON_CLOCK row, or ErrNotFound when state
// has drifted and the runtime must repair from current_pick.
const getOnClockPickSQL = `
SELECT ` + pickColumns + ` FROM draft_picks WHERE draft_id = $1 AND status = 'ON_CLOCK'`

func (r *Repository) GetOnClockPick(ctx context.Context, draftID uuid.UUID) (*models.DraftPick, error) {
	p, err := scanPick(r.db.QueryRow(ctx, getOnClockPickSQL, draftID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("no pick on the clock for draft %s: %w", draftID, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get on-clock pick: %w", err)
	}
	return p, nil
}

// SetOnClock stamps a pick ON_CLOCK. The status guard keeps a resolved pick
// from ever re-entering the clock.
const setOnClockSQL = `
UPDATE draft_picks
SET status = 'ON_CLOCK', clock_started_at = $2
WHERE id = $1 AND status = 'UPCOMING'`

func (r *Repository) SetOnClock(ctx context.Context, pickID uuid.UUID, at time.Time) error {
	tag, err := r.db.Exec(ctx, setOnClockSQL, pickID, at)
	if err != nil {
		return fmt.Errorf("failed to put pick on clock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("pick %s is not upcoming: %w", pickID, apperrors.ErrState)
	}
	return nil
}

// ResolvePick transitions the pick out of ON_CLOCK exactly once. A zero
// rows-affected result means another caller already resolved it.
const resolvePickSQL = `
UPDATE draft_picks
SET player_id = $2, status = $3, picked_at = $4
WHERE id = $1 AND status = 'ON_CLOCK'`

func (r *Repository) ResolvePick(ctx context.Context, pickID uuid.UUID, playerID *uuid.UUID, status models.PickStatus, at time.Time) error {
	if !status.Resolved() {
		return fmt.Errorf("status %s is not a resolved status: %w", status, apperrors.ErrState)
	}
	tag, err := r.db.Exec(ctx, resolvePickSQL, pickID, sqlutil.NullUUID(playerID), string(status), at)
	if err != nil {
		return fmt.Errorf("failed to resolve pick: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("pick %s already resolved: %w", pickID, apperrors.ErrConflict)
	}
	return nil
}

const isPlayerDraftedSQL = `
SELECT EXISTS (
    SELECT 1 FROM draft_picks WHERE draft_id = $1 AND player_id = $2
)`

func (r *Repository) IsPlayerDrafted(ctx context.Context, draftID, playerID uuid.UUID) (bool, error) {
	var drafted bool
	if err := r.db.QueryRow(ctx, isPlayerDraftedSQL, draftID, playerID).Scan(&drafted); err != nil {
		return false, fmt.Errorf("failed to check drafted player: %w", err)
	}
	return drafted, nil
}

const anyResolvedSQL = `
SELECT EXISTS (
    SELECT 1 FROM draft_picks WHERE draft_id = $1 AND status IN ('MADE', 'AUTO')
)`

// AnyResolved guards the rebuild path: a grid with resolved picks is only
// replaced when the caller forces a wipe.
func (r *Repository) AnyResolved(ctx context.Context, draftID uuid.UUID) (bool, error) {
	var any bool
	if err := r.db.QueryRow(ctx, anyResolvedSQL, draftID).Scan(&any); err != nil {
		return false, fmt.Errorf("failed to check resolved picks: %w", err)
	}
	return any, nil
}

const listPicksByDraftSQL = `
SELECT ` + pickColumns + ` FROM draft_picks WHERE draft_id = $1 ORDER BY overall_pick`

func (r *Repository) ListPicksByDraft(ctx context.Context, draftID uuid.UUID) ([]models.DraftPick, error) {
	rows, err := r.db.Query(ctx, listPicksByDraftSQL, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list draft picks: %w", err)
	}
	defer rows.Close()

	var picks []models.DraftPick
	for rows.Next() {
		p, err := scanPick(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan draft pick: %w", err)
		}
		picks = append(picks, *p)
	}
	return picks, rows.Err()
}

func scanPick(row pgx.Row) (*models.DraftPick, error) {
	var (
		p                 models.DraftPick
		playerID          pgtype.UUID
		status            string
		clockStart, madeAt pgtype.Timestamptz
	)
	err := row.Scan(
		&p.ID, &p.DraftID, &p.Round, &p.Pick, &p.OverallPick,
		&p.TeamID, &p.OriginalTeamID, &playerID, &status, &clockStart, &madeAt,
	)
	if err != nil {
		return nil, err
	}
	p.PlayerID = sqlutil.UUIDPtr(playerID)
	p.Status = models.PickStatus(status)
	p.ClockStartedAt = sqlutil.TimePtr(clockStart)
	p.PickedAt = sqlutil.TimePtr(madeAt)
	return &p, nil
}
