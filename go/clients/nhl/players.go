package nhl

import (
	"context"
	"encoding/json"
	"fmt"
)

type localizedName struct {
	Default string `json:"default"`
}

type rosterPlayer struct {
	ID           int           `json:"id"`
	FirstName    localizedName `json:"firstName"`
	LastName     localizedName `json:"lastName"`
	PositionCode string        `json:"positionCode"`
}

type rosterResponse struct {
	Forwards   []rosterPlayer `json:"forwards"`
	Defensemen []rosterPlayer `json:"defensemen"`
	Goalies    []rosterPlayer `json:"goalies"`
}

type skaterStats struct {
	PlayerID int `json:"playerId"`
	Points   int `json:"points"`
}

type goalieStats struct {
	PlayerID int `json:"playerId"`
	Wins     int `json:"wins"`
	Shutouts int `json:"shutouts"`
}

type clubStatsResponse struct {
	Skaters []skaterStats `json:"skaters"`
	Goalies []goalieStats `json:"goalies"`
}

// Player is the flattened view the seeder consumes.
type Player struct {
	ID           int
	FullName     string
	Position     string // C, LW, RW, D, G
	FantasyScore float64
}

// GetTeamPlayers fetches a club's current roster and merges in this season's
// stats as a crude fantasy score: points for skaters, 2*wins + shutouts for
// goalies. Players without stats yet score zero.
func (c *Client) GetTeamPlayers(ctx context.Context, teamAbbrev string) ([]Player, error) {
	body, err := c.Get(ctx, fmt.Sprintf(RosterEndpoint, teamAbbrev))
	if err != nil {
		return nil, fmt.Errorf("failed to get roster for %s: %w", teamAbbrev, err)
	}
	var roster rosterResponse
	if err := json.Unmarshal(body, &roster); err != nil {
		return nil, fmt.Errorf("failed to unmarshal roster for %s: %w", teamAbbrev, err)
	}

	scores, err := c.getFantasyScores(ctx, teamAbbrev)
	if err != nil {
		return nil, err
	}

	var players []Player
	for _, group := range [][]rosterPlayer{roster.Forwards, roster.Defensemen, roster.Goalies} {
		for _, rp := range group {
			players = append(players, Player{
				ID:           rp.ID,
				FullName:     rp.FirstName.Default + " " + rp.LastName.Default,
				Position:     rp.PositionCode,
				FantasyScore: scores[rp.ID],
			})
		}
	}
	return players, nil
}

func (c *Client) getFantasyScores(ctx context.Context, teamAbbrev string) (map[int]float64, error) {
	body, err := c.Get(ctx, fmt.Sprintf(ClubStatsEndpoint, teamAbbrev))
	if err != nil {
		return nil, fmt.Errorf("failed to get club stats for %s: %w", teamAbbrev, err)
	}
	var stats clubStatsResponse
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal club stats for %s: %w", teamAbbrev, err)
	}

	scores := make(map[int]float64, len(stats.Skaters)+len(stats.Goalies))
	for _, s := range stats.Skaters {
		scores[s.PlayerID] = float64(s.Points)
	}
	for _, g := range stats.Goalies {
		scores[g.PlayerID] = float64(2*g.Wins + g.Shutouts)
	}
	return scores, nil
}
