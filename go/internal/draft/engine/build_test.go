package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/mcdev12/puckdraft/go/internal/apperrors"
	"github.com/mcdev12/puckdraft/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAlphaSnakeGrid(t *testing.T) {
	ctx := context.Background()
	d := fixtureDraft(models.OrderModeAlpha, models.DraftTypeSnake)
	teams := fixtureTeams(d.LeagueID, "Canucks", "Avalanche", "Devils", "Bruins")
	store := newMemStore(d, teams, nil)
	eng, _ := newTestEngine(store)

	res, err := eng.Build(ctx, d.ID, store.commissioner(), BuildRequest{Rounds: 2, SecondsPerPick: 5})
	require.NoError(t, err)

	assert.Equal(t, 4, res.TeamCount)
	assert.Equal(t, 8, res.TotalPicks)
	assert.True(t, res.Draft.OrderGenerated)
	assert.Equal(t, 1, res.Draft.CurrentPick)

	// alpha base order: Avalanche, Bruins, Canucks, Devils
	avalanche, bruins, canucks, devils := teams[1].ID, teams[3].ID, teams[0].ID, teams[2].ID

	orderRows, err := store.ListOrder(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, orderRows, 4)
	wantOrder := []uuid.UUID{avalanche, bruins, canucks, devils}
	for i, row := range orderRows {
		assert.Equal(t, i+1, row.Position)
		assert.Equal(t, wantOrder[i], row.TeamID)
	}

	picks, err := store.ListPicksByDraft(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, picks, 8)

	// round 2 of a snake reverses
	wantTeams := []uuid.UUID{avalanche, bruins, canucks, devils, devils, canucks, bruins, avalanche}
	for i, p := range picks {
		assert.Equal(t, i+1, p.OverallPick)
		assert.Equal(t, wantTeams[i], p.TeamID, "pick %d", i+1)
		assert.Equal(t, p.TeamID, p.OriginalTeamID)
		assert.Equal(t, models.PickStatusUpcoming, p.Status)
		assert.Nil(t, p.PlayerID)
	}
	assert.Equal(t, 1, picks[3].Round)
	assert.Equal(t, 4, picks[3].Pick)
	assert.Equal(t, 2, picks[4].Round)
	assert.Equal(t, 1, picks[4].Pick)
}

func TestBuildLinearGridRepeatsOrder(t *testing.T) {
	ctx := context.Background()
	d := fixtureDraft(models.OrderModeAlpha, models.DraftTypeLinear)
	teams := fixtureTeams(d.LeagueID, "Avalanche", "Bruins")
	store := newMemStore(d, teams, nil)
	eng, _ := newTestEngine(store)

	_, err := eng.Build(ctx, d.ID, store.commissioner(), BuildRequest{Rounds: 2, SecondsPerPick: 5})
	require.NoError(t, err)

	picks, err := store.ListPicksByDraft(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, picks, 4)
	want := []uuid.UUID{teams[0].ID, teams[1].ID, teams[0].ID, teams[1].ID}
	for i, p := range picks {
		assert.Equal(t, want[i], p.TeamID, "pick %d", i+1)
	}
}

func TestBuildValidation(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name  string
		teams []string
		req   BuildRequest
	}{
		{"zero rounds", []string{"A", "B"}, BuildRequest{Rounds: 0, SecondsPerPick: 5}},
		{"clock below minimum", []string{"A", "B"}, BuildRequest{Rounds: 2, SecondsPerPick: 4}},
		{"one team league", []string{"A"}, BuildRequest{Rounds: 2, SecondsPerPick: 5}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := fixtureDraft(models.OrderModeAlpha, models.DraftTypeSnake)
			store := newMemStore(d, fixtureTeams(d.LeagueID, tc.teams...), nil)
			eng, _ := newTestEngine(store)

			_, err := eng.Build(ctx, d.ID, store.commissioner(), tc.req)
			assert.True(t, errors.Is(err, apperrors.ErrConfiguration), "got %v", err)
			assert.Empty(t, store.picks)
		})
	}
}

func TestBuildManualUsesStoredOrder(t *testing.T) {
	ctx := context.Background()
	d := fixtureDraft(models.OrderModeManual, models.DraftTypeSnake)
	d.Rounds = 1
	teams := fixtureTeams(d.LeagueID, "A", "B", "C", "D")
	store := newMemStore(d, teams, nil)
	eng, _ := newTestEngine(store)

	// commissioner seeds D, C, B, A
	reversed := []uuid.UUID{teams[3].ID, teams[2].ID, teams[1].ID, teams[0].ID}
	require.NoError(t, eng.SaveManualOrder(ctx, d.ID, store.commissioner(), reversed))

	_, err := eng.Build(ctx, d.ID, store.commissioner(), BuildRequest{Rounds: 1, SecondsPerPick: 5})
	require.NoError(t, err)

	picks, err := store.ListPicksByDraft(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, picks, 4)
	for i, p := range picks {
		assert.Equal(t, reversed[i], p.TeamID, "pick %d", i+1)
	}

	// the stored rows survive the build untouched
	orderRows, err := store.ListOrder(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, orderRows, 4)
	for i, row := range orderRows {
		assert.Equal(t, reversed[i], row.TeamID)
	}
}

// An invalid manual order must fail the whole build without creating any
// picks.
func TestBuildManualInvalidPositions(t *testing.T) {
	ctx := context.Background()
	d := fixtureDraft(models.OrderModeManual, models.DraftTypeSnake)
	teams := fixtureTeams(d.LeagueID, "A", "B", "C", "D")
	store := newMemStore(d, teams, nil)
	eng, _ := newTestEngine(store)

	positions := []int{1, 2, 2, 4}
	for i, pos := range positions {
		store.order = append(store.order, models.DraftOrderEntry{
			ID:       uuid.New(),
			DraftID:  d.ID,
			TeamID:   teams[i].ID,
			Position: pos,
		})
	}

	_, err := eng.Build(ctx, d.ID, store.commissioner(), BuildRequest{Rounds: 2, SecondsPerPick: 5})
	assert.True(t, errors.Is(err, apperrors.ErrConfiguration), "got %v", err)
	assert.Empty(t, store.picks)
}

func TestRebuildGuards(t *testing.T) {
	ctx := context.Background()
	d := fixtureDraft(models.OrderModeAlpha, models.DraftTypeSnake)
	teams := fixtureTeams(d.LeagueID, "A", "B")
	store := newMemStore(d, teams, manyPlayers(8))
	eng, _ := newTestEngine(store)
	mustBuild(t, eng, store)

	_, err := eng.Start(ctx, d.ID, store.commissioner())
	require.NoError(t, err)

	// live drafts are never rebuilt
	_, err = eng.Build(ctx, d.ID, store.commissioner(), BuildRequest{Rounds: 2, SecondsPerPick: 5, Force: true})
	assert.True(t, errors.Is(err, apperrors.ErrState), "got %v", err)

	_, err = eng.MakePick(ctx, d.ID, teams[0].ManagerID, store.players[0].ID)
	require.NoError(t, err)
	require.NoError(t, eng.Pause(ctx, d.ID, store.commissioner()))

	// a resolved pick blocks a plain rebuild
	_, err = eng.Build(ctx, d.ID, store.commissioner(), BuildRequest{Rounds: 2, SecondsPerPick: 5})
	assert.True(t, errors.Is(err, apperrors.ErrState), "got %v", err)

	// force wipes everything and resets the draft
	res, err := eng.Build(ctx, d.ID, store.commissioner(), BuildRequest{Rounds: 3, SecondsPerPick: 10, Force: true})
	require.NoError(t, err)
	assert.Equal(t, 6, res.TotalPicks)
	assert.Equal(t, 3, res.Draft.Rounds)
	assert.Equal(t, 10, res.Draft.TimePerPickSec)
	assert.Equal(t, 1, res.Draft.CurrentPick)
	assert.Nil(t, res.Draft.StartedAt)
	assert.Nil(t, res.Draft.CurrentPickStartedAt)
	assert.False(t, res.Draft.IsActive)

	picks, err := store.ListPicksByDraft(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, picks, 6)
	for _, p := range picks {
		assert.Equal(t, models.PickStatusUpcoming, p.Status)
		assert.Nil(t, p.PlayerID)
	}
}
