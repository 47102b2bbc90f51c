// Package order builds and stores the round-1 base order that every other
// round is derived from.
package order

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/mcdev12/puckdraft/go/internal/apperrors"
	"github.com/mcdev12/puckdraft/go/internal/models"
)

// BaseOrder computes the round-1 team sequence for the draft's order mode.
// Every team appears exactly once in the result.
//
// MANUAL expects the caller to pass the already-persisted order entries and
// validates them: exactly one entry per team, positions contiguous 1..N.
func BaseOrder(d *models.Draft, teams []models.Team, manual []models.DraftOrderEntry, rng *rand.Rand) ([]uuid.UUID, error) {
	if len(teams) < 2 {
		return nil, fmt.Errorf("league has %d teams, need at least 2: %w", len(teams), apperrors.ErrConfiguration)
	}

	switch d.OrderMode {
	case models.OrderModeRandom:
		base := make([]uuid.UUID, len(teams))
		for i, t := range teams {
			base[i] = t.ID
		}
		rng.Shuffle(len(base), func(i, j int) {
			base[i], base[j] = base[j], base[i]
		})
		return base, nil

	case models.OrderModeAlpha:
		sorted := make([]models.Team, len(teams))
		copy(sorted, teams)
		sort.SliceStable(sorted, func(i, j int) bool {
			return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
		})
		base := make([]uuid.UUID, len(sorted))
		for i, t := range sorted {
			base[i] = t.ID
		}
		return base, nil

	case models.OrderModeManual:
		return manualBaseOrder(teams, manual)

	default:
		return nil, fmt.Errorf("unknown order mode %q: %w", d.OrderMode, apperrors.ErrConfiguration)
	}
}

func manualBaseOrder(teams []models.Team, manual []models.DraftOrderEntry) ([]uuid.UUID, error) {
	if len(manual) != len(teams) {
		return nil, fmt.Errorf("manual order has %d entries for %d teams: %w",
			len(manual), len(teams), apperrors.ErrConfiguration)
	}

	entries := make([]models.DraftOrderEntry, len(manual))
	copy(entries, manual)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Position < entries[j].Position })

	leagueTeams := make(map[uuid.UUID]bool, len(teams))
	for _, t := range teams {
		leagueTeams[t.ID] = true
	}

	seenTeams := make(map[uuid.UUID]bool, len(entries))
	base := make([]uuid.UUID, 0, len(entries))
	for idx, e := range entries {
		// contiguity check: positions must be exactly 1..N, no gaps or dupes
		if e.Position != idx+1 {
			return nil, fmt.Errorf("manual order positions must be contiguous 1..%d: %w",
				len(teams), apperrors.ErrConfiguration)
		}
		if !leagueTeams[e.TeamID] {
			return nil, fmt.Errorf("team %s is not in this league: %w", e.TeamID, apperrors.ErrConfiguration)
		}
		if seenTeams[e.TeamID] {
			return nil, fmt.Errorf("team %s appears twice in manual order: %w", e.TeamID, apperrors.ErrConflict)
		}
		seenTeams[e.TeamID] = true
		base = append(base, e.TeamID)
	}
	return base, nil
}
