package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/puckdraft/go/internal/apperrors"
	"github.com/mcdev12/puckdraft/go/internal/models"
	"github.com/mcdev12/puckdraft/go/internal/player"
)

// memStore is an in-memory stand-in for the whole storage layer. It enforces
// the same guarded transitions as the SQL repositories (SetOnClock only from
// UPCOMING, ResolvePick only from ON_CLOCK) so race-loser behavior is
// observable in tests. It implements every engine repository interface.
type memStore struct {
	draft   *models.Draft
	league  *models.League
	picks   []*models.DraftPick
	order   []models.DraftOrderEntry
	teams   []models.Team
	players []models.Player
	rosters map[uuid.UUID][]uuid.UUID // teamID -> playerIDs
	events  []recordedEvent
}

type recordedEvent struct {
	DraftID   uuid.UUID
	EventType string
	Payload   any
}

func newMemStore(d *models.Draft, teams []models.Team, players []models.Player) *memStore {
	return &memStore{
		draft: d,
		league: &models.League{
			ID:             d.LeagueID,
			Name:           "test league",
			CommissionerID: uuid.New(),
			Season:         "2025-26",
		},
		teams:   teams,
		players: players,
		rosters: make(map[uuid.UUID][]uuid.UUID),
	}
}

// commissioner returns the user allowed to run control operations.
func (s *memStore) commissioner() uuid.UUID {
	return s.league.CommissionerID
}

// memRunner hands the store straight to fn. Rollback fidelity is not
// simulated; tests assert on operations that either fail before mutating or
// succeed entirely.
type memRunner struct {
	store *memStore
}

func (m *memRunner) InTx(_ context.Context, fn func(r Repos) error) error {
	return fn(m.store.repos())
}

func (s *memStore) repos() Repos {
	return Repos{
		Drafts:  s,
		Picks:   s,
		Orders:  s,
		Leagues: s,
		Teams:   s,
		Players: s,
		Rosters: s,
		Events:  s,
	}
}

func (s *memStore) reader() Reader {
	return Reader{Drafts: s, Picks: s, Teams: s, Orders: s}
}

// DraftRepository

func (s *memStore) getDraft(id uuid.UUID) (*models.Draft, error) {
	if s.draft == nil || s.draft.ID != id {
		return nil, fmt.Errorf("draft %s: %w", id, apperrors.ErrNotFound)
	}
	cp := *s.draft
	return &cp, nil
}

func (s *memStore) GetDraft(_ context.Context, id uuid.UUID) (*models.Draft, error) {
	return s.getDraft(id)
}

func (s *memStore) GetDraftForUpdate(_ context.Context, id uuid.UUID) (*models.Draft, error) {
	return s.getDraft(id)
}

func (s *memStore) ResetForBuild(_ context.Context, id uuid.UUID, rounds, timePerPickSec int) (*models.Draft, error) {
	if _, err := s.getDraft(id); err != nil {
		return nil, err
	}
	s.draft.Rounds = rounds
	s.draft.TimePerPickSec = timePerPickSec
	s.draft.IsActive = false
	s.draft.IsCompleted = false
	s.draft.CurrentPick = 1
	s.draft.StartedAt = nil
	s.draft.CompletedAt = nil
	s.draft.CurrentPickStartedAt = nil
	cp := *s.draft
	return &cp, nil
}

func (s *memStore) MarkStarted(_ context.Context, id uuid.UUID, now time.Time) error {
	if _, err := s.getDraft(id); err != nil {
		return err
	}
	s.draft.IsActive = true
	if s.draft.StartedAt == nil {
		started := now
		s.draft.StartedAt = &started
	}
	s.draft.CurrentPick = 1
	clock := now
	s.draft.CurrentPickStartedAt = &clock
	return nil
}

func (s *memStore) AdvanceTo(_ context.Context, id uuid.UUID, pickNumber int, clockStart time.Time) error {
	if _, err := s.getDraft(id); err != nil {
		return err
	}
	s.draft.CurrentPick = pickNumber
	start := clockStart
	s.draft.CurrentPickStartedAt = &start
	return nil
}

func (s *memStore) MarkCompleted(_ context.Context, id uuid.UUID, at time.Time) error {
	if _, err := s.getDraft(id); err != nil {
		return err
	}
	s.draft.IsActive = false
	s.draft.IsCompleted = true
	done := at
	s.draft.CompletedAt = &done
	s.draft.CurrentPickStartedAt = nil
	return nil
}

func (s *memStore) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	if _, err := s.getDraft(id); err != nil {
		return err
	}
	s.draft.IsActive = active
	return nil
}

func (s *memStore) SetOrderGenerated(_ context.Context, id uuid.UUID, generated bool) error {
	if _, err := s.getDraft(id); err != nil {
		return err
	}
	s.draft.OrderGenerated = generated
	return nil
}

// PickRepository

func (s *memStore) CreatePicksBatch(_ context.Context, picks []models.DraftPick) error {
	for i := range picks {
		cp := picks[i]
		s.picks = append(s.picks, &cp)
	}
	return nil
}

func (s *memStore) DeletePicksByDraft(_ context.Context, draftID uuid.UUID) (int, error) {
	var kept []*models.DraftPick
	deleted := 0
	for _, p := range s.picks {
		if p.DraftID == draftID {
			deleted++
			continue
		}
		kept = append(kept, p)
	}
	s.picks = kept
	return deleted, nil
}

func (s *memStore) GetPickByOverall(_ context.Context, draftID uuid.UUID, overall int) (*models.DraftPick, error) {
	for _, p := range s.picks {
		if p.DraftID == draftID && p.OverallPick == overall {
			cp := *p
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("pick %d of draft %s: %w", overall, draftID, apperrors.ErrNotFound)
}

func (s *memStore) GetOnClockPick(_ context.Context, draftID uuid.UUID) (*models.DraftPick, error) {
	for _, p := range s.picks {
		if p.DraftID == draftID && p.Status == models.PickStatusOnClock {
			cp := *p
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("no pick on the clock for draft %s: %w", draftID, apperrors.ErrNotFound)
}

func (s *memStore) SetOnClock(_ context.Context, pickID uuid.UUID, at time.Time) error {
	for _, p := range s.picks {
		if p.ID == pickID {
			if p.Status != models.PickStatusUpcoming {
				return fmt.Errorf("pick %s is not upcoming: %w", pickID, apperrors.ErrState)
			}
			p.Status = models.PickStatusOnClock
			start := at
			p.ClockStartedAt = &start
			return nil
		}
	}
	return fmt.Errorf("pick %s: %w", pickID, apperrors.ErrNotFound)
}

func (s *memStore) ResolvePick(_ context.Context, pickID uuid.UUID, playerID *uuid.UUID, status models.PickStatus, at time.Time) error {
	if !status.Resolved() {
		return fmt.Errorf("status %s is not a resolved status: %w", status, apperrors.ErrState)
	}
	for _, p := range s.picks {
		if p.ID == pickID {
			if p.Status != models.PickStatusOnClock {
				return fmt.Errorf("pick %s already resolved: %w", pickID, apperrors.ErrConflict)
			}
			p.Status = status
			p.PlayerID = playerID
			done := at
			p.PickedAt = &done
			return nil
		}
	}
	return fmt.Errorf("pick %s: %w", pickID, apperrors.ErrNotFound)
}

func (s *memStore) IsPlayerDrafted(_ context.Context, draftID, playerID uuid.UUID) (bool, error) {
	for _, p := range s.picks {
		if p.DraftID == draftID && p.PlayerID != nil && *p.PlayerID == playerID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) AnyResolved(_ context.Context, draftID uuid.UUID) (bool, error) {
	for _, p := range s.picks {
		if p.DraftID == draftID && p.Status.Resolved() {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) ListPicksByDraft(_ context.Context, draftID uuid.UUID) ([]models.DraftPick, error) {
	var out []models.DraftPick
	for _, p := range s.picks {
		if p.DraftID == draftID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OverallPick < out[j].OverallPick })
	return out, nil
}

// OrderRepository

func (s *memStore) ReplaceOrder(_ context.Context, draftID uuid.UUID, teamIDs []uuid.UUID) error {
	s.order = nil
	for i, teamID := range teamIDs {
		s.order = append(s.order, models.DraftOrderEntry{
			ID:       uuid.New(),
			DraftID:  draftID,
			TeamID:   teamID,
			Position: i + 1,
		})
	}
	return nil
}

func (s *memStore) ListOrder(_ context.Context, draftID uuid.UUID) ([]models.DraftOrderEntry, error) {
	var out []models.DraftOrderEntry
	for _, e := range s.order {
		if e.DraftID == draftID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (s *memStore) DeleteOrder(_ context.Context, draftID uuid.UUID) error {
	var kept []models.DraftOrderEntry
	for _, e := range s.order {
		if e.DraftID != draftID {
			kept = append(kept, e)
		}
	}
	s.order = kept
	return nil
}

// LeagueRepository

func (s *memStore) GetLeague(_ context.Context, id uuid.UUID) (*models.League, error) {
	if s.league == nil || s.league.ID != id {
		return nil, fmt.Errorf("league %s: %w", id, apperrors.ErrNotFound)
	}
	cp := *s.league
	return &cp, nil
}

// TeamRepository

func (s *memStore) GetTeam(_ context.Context, id uuid.UUID) (*models.Team, error) {
	for _, t := range s.teams {
		if t.ID == id {
			cp := t
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("team %s: %w", id, apperrors.ErrNotFound)
}

func (s *memStore) ListTeamsByLeague(_ context.Context, leagueID uuid.UUID) ([]models.Team, error) {
	var out []models.Team
	for _, t := range s.teams {
		if t.LeagueID == leagueID {
			out = append(out, t)
		}
	}
	return out, nil
}

// PlayerRepository

func (s *memStore) GetPlayer(_ context.Context, id uuid.UUID) (*models.Player, error) {
	for _, p := range s.players {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("player %s: %w", id, apperrors.ErrNotFound)
}

func (s *memStore) BestAvailable(ctx context.Context, draftID uuid.UUID, pool player.Pool) (*models.Player, error) {
	var best *models.Player
	for i := range s.players {
		p := s.players[i]
		if !p.IsActive {
			continue
		}
		drafted, _ := s.IsPlayerDrafted(ctx, draftID, p.ID)
		if drafted {
			continue
		}
		switch pool {
		case player.PoolGoalie:
			if !p.IsGoalie() {
				continue
			}
		case player.PoolSkater:
			if p.IsGoalie() {
				continue
			}
		}
		if best == nil ||
			p.FantasyScore > best.FantasyScore ||
			(p.FantasyScore == best.FantasyScore && p.FullName < best.FullName) {
			cp := p
			best = &cp
		}
	}
	if best == nil {
		return nil, fmt.Errorf("no available player in pool %s: %w", pool, apperrors.ErrNotFound)
	}
	return best, nil
}

// RosterRepository

func (s *memStore) AddPlayer(_ context.Context, teamID, playerID uuid.UUID, _ models.AcquisitionType) error {
	for _, existing := range s.rosters[teamID] {
		if existing == playerID {
			return nil
		}
	}
	s.rosters[teamID] = append(s.rosters[teamID], playerID)
	return nil
}

func (s *memStore) CountGoalies(ctx context.Context, teamID uuid.UUID) (int, error) {
	count := 0
	for _, playerID := range s.rosters[teamID] {
		p, err := s.GetPlayer(ctx, playerID)
		if err != nil {
			return 0, err
		}
		if p.IsGoalie() {
			count++
		}
	}
	return count, nil
}

// EventStore

func (s *memStore) Append(_ context.Context, draftID uuid.UUID, eventType string, payload any) error {
	s.events = append(s.events, recordedEvent{DraftID: draftID, EventType: eventType, Payload: payload})
	return nil
}

func (s *memStore) eventTypes() []string {
	out := make([]string, len(s.events))
	for i, e := range s.events {
		out[i] = e.EventType
	}
	return out
}

func (s *memStore) onClockCount() int {
	n := 0
	for _, p := range s.picks {
		if p.Status == models.PickStatusOnClock {
			n++
		}
	}
	return n
}
