package player

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mcdev12/puckdraft/go/internal/apperrors"
	"github.com/mcdev12/puckdraft/go/internal/models"
	"github.com/mcdev12/puckdraft/go/internal/sqlutil"
)

// Pool selects which slice of the available-player set a query runs over.
type Pool string

const (
	PoolGoalie Pool = "GOALIE"
	PoolSkater Pool = "SKATER"
	PoolAny    Pool = "ANY"
)

type Repository struct {
	db sqlutil.DBTX
}

func NewRepository(db sqlutil.DBTX) *Repository {
	return &Repository{db: db}
}

const getPlayerSQL = `
SELECT id, external_id, full_name, position, is_active, fantasy_score, created_at
FROM players
WHERE id = $1`

func (r *Repository) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	var p models.Player
	err := r.db.QueryRow(ctx, getPlayerSQL, id).Scan(
		&p.ID, &p.ExternalID, &p.FullName, &p.Position, &p.IsActive, &p.FantasyScore, &p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("player %s: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return &p, nil
}

// Excludes players already resolved into any pick of the draft and inactive
// players. "Highest ranked" = fantasy_score desc, name asc for determinism.
const bestAvailableSQL = `
SELECT p.id, p.external_id, p.full_name, p.position, p.is_active, p.fantasy_score, p.created_at
FROM players p
WHERE p.is_active
  AND p.id NOT IN (
      SELECT dp.player_id FROM draft_picks dp
      WHERE dp.draft_id = $1 AND dp.player_id IS NOT NULL
  )
  AND ($2::text = 'ANY'
       OR ($2::text = 'GOALIE' AND p.position LIKE '%G%')
       OR ($2::text = 'SKATER' AND p.position NOT LIKE '%G%'))
ORDER BY p.fantasy_score DESC, p.full_name ASC
LIMIT 1`

// BestAvailable returns the top undrafted player of the pool, or ErrNotFound
// when the pool is empty.
func (r *Repository) BestAvailable(ctx context.Context, draftID uuid.UUID, pool Pool) (*models.Player, error) {
	var p models.Player
	err := r.db.QueryRow(ctx, bestAvailableSQL, draftID, string(pool)).Scan(
		&p.ID, &p.ExternalID, &p.FullName, &p.Position, &p.IsActive, &p.FantasyScore, &p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("no available player in pool %s: %w", pool, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query best available player: %w", err)
	}
	return &p, nil
}

const createPlayerSQL = `
INSERT INTO players (id, external_id, full_name, position, is_active, fantasy_score, created_at)
VALUES ($1, $2, $3, $4, $5, $6, now())
ON CONFLICT (external_id) DO UPDATE
SET full_name = EXCLUDED.full_name,
    position = EXCLUDED.position,
    is_active = EXCLUDED.is_active,
    fantasy_score = EXCLUDED.fantasy_score`

// UpsertPlayer inserts or refreshes a player by external id. Used by seeding.
func (r *Repository) UpsertPlayer(ctx context.Context, p models.Player) error {
	_, err := r.db.Exec(ctx, createPlayerSQL,
		p.ID, p.ExternalID, p.FullName, p.Position, p.IsActive, p.FantasyScore,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert player %s: %w", p.ExternalID, err)
	}
	return nil
}
