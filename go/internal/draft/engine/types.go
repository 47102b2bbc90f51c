package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/puckdraft/go/internal/models"
	"github.com/mcdev12/puckdraft/go/internal/player"
)

// Consumer-side interfaces over the storage layer. Implemented by the pgx
// repositories in production and by in-memory fakes in tests.

type DraftRepository interface {
	GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error)
	GetDraftForUpdate(ctx context.Context, id uuid.UUID) (*models.Draft, error)
	ResetForBuild(ctx context.Context, id uuid.UUID, rounds, timePerPickSec int) (*models.Draft, error)
	MarkStarted(ctx context.Context, id uuid.UUID, now time.Time) error
	AdvanceTo(ctx context.Context, id uuid.UUID, pickNumber int, clockStart time.Time) error
	MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	SetOrderGenerated(ctx context.Context, id uuid.UUID, generated bool) error
}

type PickRepository interface {
	CreatePicksBatch(ctx context.Context, picks []models.DraftPick) error
	DeletePicksByDraft(ctx context.Context, draftID uuid.UUID) (int, error)
	GetPickByOverall(ctx context.Context, draftID uuid.UUID, overall int) (*models.DraftPick, error)
	GetOnClockPick(ctx context.Context, draftID uuid.UUID) (*models.DraftPick, error)
	SetOnClock(ctx context.Context, pickID uuid.UUID, at time.Time) error
	ResolvePick(ctx context.Context, pickID uuid.UUID, playerID *uuid.UUID, status models.PickStatus, at time.Time) error
	IsPlayerDrafted(ctx context.Context, draftID, playerID uuid.UUID) (bool, error)
	AnyResolved(ctx context.Context, draftID uuid.UUID) (bool, error)
	ListPicksByDraft(ctx context.Context, draftID uuid.UUID) ([]models.DraftPick, error)
}

type OrderRepository interface {
	ReplaceOrder(ctx context.Context, draftID uuid.UUID, teamIDs []uuid.UUID) error
	ListOrder(ctx context.Context, draftID uuid.UUID) ([]models.DraftOrderEntry, error)
	DeleteOrder(ctx context.Context, draftID uuid.UUID) error
}

type LeagueRepository interface {
	GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error)
}

type TeamRepository interface {
	GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error)
	ListTeamsByLeague(ctx context.Context, leagueID uuid.UUID) ([]models.Team, error)
}

type PlayerRepository interface {
	GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error)
	BestAvailable(ctx context.Context, draftID uuid.UUID, pool player.Pool) (*models.Player, error)
}

type RosterRepository interface {
	AddPlayer(ctx context.Context, teamID, playerID uuid.UUID, acq models.AcquisitionType) error
	CountGoalies(ctx context.Context, teamID uuid.UUID) (int, error)
}

// EventStore appends an outbox row in the same transaction as the state
// change it reports.
type EventStore interface {
	Append(ctx context.Context, draftID uuid.UUID, eventType string, payload any) error
}

// Repos bundles everything a runtime operation may touch inside one
// transaction.
type Repos struct {
	Drafts  DraftRepository
	Picks   PickRepository
	Orders  OrderRepository
	Leagues LeagueRepository
	Teams   TeamRepository
	Players PlayerRepository
	Rosters RosterRepository
	Events  EventStore
}

// TxRunner runs fn with transaction-bound repositories. Implementations must
// guarantee all-or-nothing semantics: if fn errors, nothing fn did persists.
type TxRunner interface {
	InTx(ctx context.Context, fn func(r Repos) error) error
}

// BuildRequest configures a grid build or rebuild.
type BuildRequest struct {
	Rounds         int  `json:"rounds"`
	SecondsPerPick int  `json:"seconds_per_pick"`
	Force          bool `json:"force"`
}

// BuildResult reports what a build produced.
type BuildResult struct {
	Draft      *models.Draft `json:"draft"`
	TeamCount  int           `json:"team_count"`
	TotalPicks int           `json:"total_picks"`
}

// TickResult is the outcome of one tick evaluation.
type TickResult struct {
	// Current is the pick on the clock after the tick, nil when the draft is
	// inactive or just completed.
	Current *models.DraftPick `json:"current,omitempty"`
	// Expired reports that this tick auto-resolved an overdue pick.
	Expired bool `json:"expired"`
	// AutoPicked is the pick the tick resolved, set only when Expired.
	AutoPicked *models.DraftPick `json:"auto_picked,omitempty"`
	Completed  bool              `json:"completed"`
}

// ClockSnapshot answers "who is on the clock right now".
type ClockSnapshot struct {
	RoundNumber  int       `json:"round_number"`
	PickInRound  int       `json:"pick_in_round"`
	TeamID       uuid.UUID `json:"team_id"`
	OverallPick  int       `json:"overall_pick"`
	StartedAt    time.Time `json:"started_at"`
	RemainingSec int       `json:"remaining_sec"`
}

// Reader is the lock-free read surface used by clock and room-state queries.
type Reader struct {
	Drafts DraftRepository
	Picks  PickRepository
	Teams  TeamRepository
	Orders OrderRepository
}
