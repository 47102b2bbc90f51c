package leagues

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

type Repository struct {
	db sqlutil.DBTX
}

func NewRepository(db sqlutil.DBTX) *Repository {
	return &Repository{db: db}
}

const getLeagueSQL = `
SELECT id, name, commissioner_id, season, created_at, updated_at
FROM leagues
WHERE id = $1`

func (r *Repository) GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error) {
	var l models.League
	err := r.db.QueryRow(ctx, getLeagueSQL, id).Scan(
		&l.ID, &l.Name, &l.CommissionerID, &l.Season, &l.CreatedAt, &l.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("league %s: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get league: %w", err)
	}
	return &l, nil
}
