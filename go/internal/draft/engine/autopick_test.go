package engine

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/puckdraft/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startAndExpire(t *testing.T, eng *Engine, clk *clockwork.FakeClock, store *memStore) *TickResult {
	t.Helper()
	ctx := context.Background()
	mustBuild(t, eng, store)
	_, err := eng.Start(ctx, store.draft.ID, store.commissioner())
	require.NoError(t, err)

	clk.Advance(6 * time.Second)
	res, err := eng.Tick(ctx, store.draft.ID)
	require.NoError(t, err)
	require.True(t, res.Expired)
	return res
}

// A team short on goalies takes the best goalie even when a stronger skater
// is available.
func TestAutoPickPrefersGoaliesWhenShort(t *testing.T) {
	d := fixtureDraft(models.OrderModeAlpha, models.DraftTypeSnake)
	teams := fixtureTeams(d.LeagueID, "Avalanche", "Bruins")
	star := skater("Connor McDavid", 160)
	netminder := goalie("Jake Oettinger", 40)
	store := newMemStore(d, teams, []models.Player{star, netminder})
	eng, clk := newTestEngine(store)

	res := startAndExpire(t, eng, clk, store)

	require.NotNil(t, res.AutoPicked.PlayerID)
	assert.Equal(t, netminder.ID, *res.AutoPicked.PlayerID)
	assert.Contains(t, store.rosters[teams[0].ID], netminder.ID)
}

func TestAutoPickPrefersSkatersAtGoalieTarget(t *testing.T) {
	ctx := context.Background()
	d := fixtureDraft(models.OrderModeAlpha, models.DraftTypeSnake)
	teams := fixtureTeams(d.LeagueID, "Avalanche", "Bruins")
	g1 := goalie("Igor Shesterkin", 95)
	g2 := goalie("Jake Oettinger", 90)
	g3 := goalie("Juuse Saros", 85)
	winger := skater("Kirill Kaprizov", 20)
	store := newMemStore(d, teams, []models.Player{g1, g2, g3, winger})
	require.NoError(t, store.AddPlayer(ctx, teams[0].ID, g1.ID, models.AcquisitionTypeDraft))
	require.NoError(t, store.AddPlayer(ctx, teams[0].ID, g2.ID, models.AcquisitionTypeDraft))
	eng, clk := newTestEngine(store)

	res := startAndExpire(t, eng, clk, store)

	require.NotNil(t, res.AutoPicked.PlayerID)
	assert.Equal(t, winger.ID, *res.AutoPicked.PlayerID)
}

// Two goalies rostered and no skater left anywhere: the unrestricted fallback
// still hands the team a goalie rather than skipping the pick.
func TestAutoPickFallsBackAcrossPools(t *testing.T) {
	ctx := context.Background()
	d := fixtureDraft(models.OrderModeAlpha, models.DraftTypeSnake)
	teams := fixtureTeams(d.LeagueID, "Avalanche", "Bruins")
	g1 := goalie("Igor Shesterkin", 95)
	g2 := goalie("Jake Oettinger", 90)
	g3 := goalie("Juuse Saros", 85)
	store := newMemStore(d, teams, []models.Player{g1, g2, g3})
	require.NoError(t, store.AddPlayer(ctx, teams[0].ID, g1.ID, models.AcquisitionTypeDraft))
	require.NoError(t, store.AddPlayer(ctx, teams[0].ID, g2.ID, models.AcquisitionTypeDraft))
	eng, clk := newTestEngine(store)

	res := startAndExpire(t, eng, clk, store)

	require.NotNil(t, res.AutoPicked.PlayerID)
	assert.Equal(t, g3.ID, *res.AutoPicked.PlayerID)
}

func TestAutoPickTieBreaksOnName(t *testing.T) {
	d := fixtureDraft(models.OrderModeAlpha, models.DraftTypeSnake)
	teams := fixtureTeams(d.LeagueID, "Avalanche", "Bruins")
	second := goalie("Zachary Fucale", 70)
	first := goalie("Adin Hill", 70)
	store := newMemStore(d, teams, []models.Player{second, first})
	eng, clk := newTestEngine(store)

	res := startAndExpire(t, eng, clk, store)

	require.NotNil(t, res.AutoPicked.PlayerID)
	assert.Equal(t, first.ID, *res.AutoPicked.PlayerID)
}

// An exhausted player pool must not wedge the draft: picks resolve AUTO with
// no player and the draft still reaches completion.
func TestAutoPickExhaustedPoolRunsToCompletion(t *testing.T) {
	ctx := context.Background()
	d := fixtureDraft(models.OrderModeAlpha, models.DraftTypeSnake)
	d.Rounds = 1
	teams := fixtureTeams(d.LeagueID, "Avalanche", "Bruins")
	store := newMemStore(d, teams, nil)
	eng, clk := newTestEngine(store)

	_, err := eng.Build(ctx, d.ID, store.commissioner(), BuildRequest{Rounds: 1, SecondsPerPick: 5})
	require.NoError(t, err)
	_, err = eng.Start(ctx, d.ID, store.commissioner())
	require.NoError(t, err)

	clk.Advance(6 * time.Second)
	res, err := eng.Tick(ctx, d.ID)
	require.NoError(t, err)
	require.True(t, res.Expired)
	assert.Nil(t, res.AutoPicked.PlayerID)
	assert.False(t, res.Completed)

	clk.Advance(6 * time.Second)
	res, err = eng.Tick(ctx, d.ID)
	require.NoError(t, err)
	require.True(t, res.Expired)
	assert.True(t, res.Completed)

	picks, err := store.ListPicksByDraft(ctx, d.ID)
	require.NoError(t, err)
	for _, p := range picks {
		assert.Equal(t, models.PickStatusAuto, p.Status)
		assert.Nil(t, p.PlayerID)
	}
	assert.True(t, store.draft.IsCompleted)
	assert.Empty(t, store.rosters[teams[0].ID])
}
