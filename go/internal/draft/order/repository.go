package order

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

const deleteOrderSQL = `DELETE FROM draft_order WHERE draft_id = $1`

func (r *Repository) DeleteOrder(ctx context.Context, draftID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, deleteOrderSQL, draftID); err != nil {
		return fmt.Errorf("failed to delete draft order: %w", err)
	}
	return nil
}

const insertOrderSQL = `
INSERT INTO draft_order (id, draft_id, team_id, position)
SELECT unnest($1::uuid[]), $2, unnest($3::uuid[]), unnest($4::int[])`

// ReplaceOrder clears previous entries and writes positions 1..len(teamIDs).
func (r *Repository) ReplaceOrder(ctx context.Context, draftID uuid.UUID, teamIDs []uuid.UUID) error {
	if err := r.DeleteOrder(ctx, draftID); err != nil {
		return err
	}

	ids := make([]uuid.UUID, len(teamIDs))
	positions := make([]int32, len(teamIDs))
	for i := range teamIDs {
		ids[i] = uuid.New()
		positions[i] = int32(i + 1)
	}

	if _, err := r.db.Exec(ctx, insertOrderSQL, ids, draftID, teamIDs, positions); err != nil {
		return fmt.Errorf("failed to insert draft order: %w", err)
	}
	return nil
}

const listOrderSQL = `
SELECT id, draft_id, team_id, position
FROM draft_order
WHERE draft_id = $1
ORDER BY position`

func (r *Repository) ListOrder(ctx context.Context, draftID uuid.UUID) ([]models.DraftOrderEntry, error) {
	rows, err := r.db.Query(ctx, listOrderSQL, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list draft order: %w", err)
	}
	defer rows.Close()

	var entries []models.DraftOrderEntry
	for rows.Next() {
		var e models.DraftOrderEntry
		if err := rows.Scan(&e.ID, &e.DraftID, &e.TeamID, &e.Position); err != nil {
			return nil, fmt.Errorf("failed to scan order entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
