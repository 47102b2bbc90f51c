package clock

import (
	"errors"
	"testing"

	"github.com/mcdev12/puckdraft/go/internal/apperrors"
	"github.com/mcdev12/puckdraft/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocate(t *testing.T) {
	cases := []struct {
		name      string
		overall   int
		teams     int
		draftType models.DraftType
		want      Slot
	}{
		{"first pick", 1, 4, models.DraftTypeSnake, Slot{Round: 1, PickInRound: 1, OrderPosition: 1}},
		{"end of round 1", 4, 4, models.DraftTypeSnake, Slot{Round: 1, PickInRound: 4, OrderPosition: 4}},
		{"snake reverses round 2 start", 5, 4, models.DraftTypeSnake, Slot{Round: 2, PickInRound: 1, OrderPosition: 4}},
		{"snake reverses round 2 end", 8, 4, models.DraftTypeSnake, Slot{Round: 2, PickInRound: 4, OrderPosition: 1}},
		{"snake round 3 forward again", 9, 4, models.DraftTypeSnake, Slot{Round: 3, PickInRound: 1, OrderPosition: 1}},
		{"linear round 2 unchanged", 5, 4, models.DraftTypeLinear, Slot{Round: 2, PickInRound: 1, OrderPosition: 1}},
		{"two teams snake", 4, 2, models.DraftTypeSnake, Slot{Round: 2, PickInRound: 2, OrderPosition: 1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Locate(tc.overall, tc.teams, tc.draftType)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

// Four teams in alpha order A,B,C,D with a snake draft: global picks 1..8
// must map to A,B,C,D,D,C,B,A.
func TestLocateSnakeFullGrid(t *testing.T) {
	base := []string{"A", "B", "C", "D"}
	want := []string{"A", "B", "C", "D", "D", "C", "B", "A"}

	for overall := 1; overall <= 8; overall++ {
		slot, err := Locate(overall, 4, models.DraftTypeSnake)
		require.NoError(t, err)
		assert.Equal(t, want[overall-1], base[slot.OrderPosition-1], "pick %d", overall)
	}
}

func TestLocateErrors(t *testing.T) {
	cases := []struct {
		name    string
		overall int
		teams   int
	}{
		{"one team", 1, 1},
		{"zero teams", 1, 0},
		{"pick zero", 0, 4},
		{"negative pick", -3, 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Locate(tc.overall, tc.teams, models.DraftTypeSnake)
			assert.True(t, errors.Is(err, apperrors.ErrConfiguration), "got %v", err)
		})
	}
}
