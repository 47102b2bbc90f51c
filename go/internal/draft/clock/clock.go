// Package clock holds the pure pick-index math shared by the grid builder and
// the live runtime. Both must agree bit-for-bit on who owns a given pick.
package clock

import (
	"fmt"

	"github.com/mcdev12/puckdraft/go/internal/apperrors"
	"github.com/mcdev12/puckdraft/go/internal/models"
)

// Slot locates a global pick number inside the grid.
type Slot struct {
	Round       int // 1-based round number
	PickInRound int // 1..teamCount
	// OrderPosition is the base-order position that owns the pick, after
	// applying snake reversal for even rounds.
	OrderPosition int
}

// Locate maps a 1-based global pick number to its grid slot.
//
// For teamCount n: round = floor((p-1)/n)+1, pickInRound = ((p-1) mod n)+1.
// LINEAR uses the base order every round; SNAKE reverses even rounds.
func Locate(overallPick, teamCount int, draftType models.DraftType) (Slot, error) {
	if teamCount < 2 {
		return Slot{}, fmt.Errorf("team count %d: need at least 2 teams: %w", teamCount, apperrors.ErrConfiguration)
	}
	if overallPick < 1 {
		return Slot{}, fmt.Errorf("pick number %d must be >= 1: %w", overallPick, apperrors.ErrConfiguration)
	}

	round := (overallPick-1)/teamCount + 1
	pickInRound := (overallPick-1)%teamCount + 1

	pos := pickInRound
	if draftType == models.DraftTypeSnake && round%2 == 0 {
		pos = teamCount - pickInRound + 1
	}

	return Slot{Round: round, PickInRound: pickInRound, OrderPosition: pos}, nil
}
