// Package draft exposes the draft engine over HTTP for the commissioner UI
// and the draft room. The draft room polls: every room read runs a tick
// first, which is how expired picks get auto-resolved without any timer
// process.
package draft

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mcdev12/puckdraft/go/internal/apperrors"
	draftrepo "github.com/mcdev12/puckdraft/go/internal/draft/draft"
	"github.com/mcdev12/puckdraft/go/internal/draft/engine"
	"github.com/mcdev12/puckdraft/go/internal/models"
	"github.com/rs/zerolog"
)

type Service struct {
	engine *engine.Engine
	reader engine.Reader
	drafts *draftrepo.Repository
	log    zerolog.Logger
}

func NewService(eng *engine.Engine, reader engine.Reader, drafts *draftrepo.Repository, log zerolog.Logger) *Service {
	return &Service{
		engine: eng,
		reader: reader,
		drafts: drafts,
		log:    log.With().Str("component", "draft_service").Logger(),
	}
}

func (s *Service) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", s.handleCreateDraft)
	r.Route("/{draftID}", func(r chi.Router) {
		r.Get("/", s.handleRoomState)
		r.Post("/build", s.handleBuild)
		r.Post("/start", s.handleStart)
		r.Post("/tick", s.handleTick)
		r.Post("/picks", s.handleMakePick)
		r.Post("/pause", s.handlePause)
		r.Post("/resume", s.handleResume)
		r.Put("/order", s.handleSaveOrder)
		r.Get("/clock", s.handleClock)
	})
	return r
}

type createDraftBody struct {
	LeagueID       uuid.UUID  `json:"league_id"`
	DraftType      string     `json:"draft_type"`
	OrderMode      string     `json:"order_mode"`
	Rounds         int        `json:"rounds"`
	TimePerPickSec int        `json:"time_per_pick_sec"`
	ScheduledStart *time.Time `json:"scheduled_start,omitempty"`
}

func (s *Service) handleCreateDraft(w http.ResponseWriter, r *http.Request) {
	var body createDraftBody
	if err := readJSON(w, r, &body); err != nil {
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	d, err := s.drafts.CreateDraft(r.Context(), draftrepo.CreateDraftRequest{
		ID:             uuid.New(),
		LeagueID:       body.LeagueID,
		DraftType:      models.DraftType(body.DraftType),
		OrderMode:      models.OrderMode(body.OrderMode),
		Rounds:         body.Rounds,
		TimePerPickSec: body.TimePerPickSec,
		ScheduledStart: body.ScheduledStart,
	})
	if err != nil {
		respondError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"draft": d})
}

func (s *Service) handleBuild(w http.ResponseWriter, r *http.Request) {
	draftID, err := draftIDFromURL(r)
	if err != nil {
		respondError(w, s.log, err)
		return
	}
	userID, err := actingUser(r)
	if err != nil {
		respondError(w, s.log, err)
		return
	}
	var req engine.BuildRequest
	if err := readJSON(w, r, &req); err != nil {
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.engine.Build(r.Context(), draftID, userID, req)
	if err != nil {
		respondError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{
		"draft":       res.Draft,
		"team_count":  res.TeamCount,
		"total_picks": res.TotalPicks,
	})
}

func (s *Service) handleStart(w http.ResponseWriter, r *http.Request) {
	draftID, err := draftIDFromURL(r)
	if err != nil {
		respondError(w, s.log, err)
		return
	}
	userID, err := actingUser(r)
	if err != nil {
		respondError(w, s.log, err)
		return
	}

	current, err := s.engine.Start(r.Context(), draftID, userID)
	if err != nil {
		respondError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"current_pick": current})
}

func (s *Service) handleTick(w http.ResponseWriter, r *http.Request) {
	draftID, err := draftIDFromURL(r)
	if err != nil {
		respondError(w, s.log, err)
		return
	}

	res, err := s.engine.Tick(r.Context(), draftID)
	if err != nil {
		respondError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, tickResponse(res))
}

type makePickBody struct {
	PlayerID uuid.UUID `json:"player_id"`
}

func (s *Service) handleMakePick(w http.ResponseWriter, r *http.Request) {
	draftID, err := draftIDFromURL(r)
	if err != nil {
		respondError(w, s.log, err)
		return
	}
	userID, err := actingUser(r)
	if err != nil {
		respondError(w, s.log, err)
		return
	}
	var body makePickBody
	if err := readJSON(w, r, &body); err != nil {
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	// evaluate the clock before accepting the submission, so an expired pick
	// auto-resolves instead of being stolen by a late request
	if _, err := s.engine.Tick(r.Context(), draftID); err != nil {
		respondError(w, s.log, err)
		return
	}

	res, err := s.engine.MakePick(r.Context(), draftID, userID, body.PlayerID)
	if err != nil {
		respondError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{
		"next_pick": res.Current,
		"completed": res.Completed,
	})
}

func (s *Service) handlePause(w http.ResponseWriter, r *http.Request) {
	draftID, err := draftIDFromURL(r)
	if err != nil {
		respondError(w, s.log, err)
		return
	}
	userID, err := actingUser(r)
	if err != nil {
		respondError(w, s.log, err)
		return
	}
	if err := s.engine.Pause(r.Context(), draftID, userID); err != nil {
		respondError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"paused": true})
}

func (s *Service) handleResume(w http.ResponseWriter, r *http.Request) {
	draftID, err := draftIDFromURL(r)
	if err != nil {
		respondError(w, s.log, err)
		return
	}
	userID, err := actingUser(r)
	if err != nil {
		respondError(w, s.log, err)
		return
	}
	if err := s.engine.Resume(r.Context(), draftID, userID); err != nil {
		respondError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"resumed": true})
}

type saveOrderBody struct {
	TeamIDs []uuid.UUID `json:"team_ids"`
}

func (s *Service) handleSaveOrder(w http.ResponseWriter, r *http.Request) {
	draftID, err := draftIDFromURL(r)
	if err != nil {
		respondError(w, s.log, err)
		return
	}
	userID, err := actingUser(r)
	if err != nil {
		respondError(w, s.log, err)
		return
	}
	var body saveOrderBody
	if err := readJSON(w, r, &body); err != nil {
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.engine.SaveManualOrder(r.Context(), draftID, userID, body.TeamIDs); err != nil {
		respondError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"saved": true})
}

func (s *Service) handleClock(w http.ResponseWriter, r *http.Request) {
	draftID, err := draftIDFromURL(r)
	if err != nil {
		respondError(w, s.log, err)
		return
	}

	snap, err := s.engine.CurrentClock(r.Context(), draftID)
	if err != nil {
		respondError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"clock": snap})
}

// handleRoomState is the draft room's poll target: generate a pending order
// if the scheduled start is close, tick the clock, then return a full view.
func (s *Service) handleRoomState(w http.ResponseWriter, r *http.Request) {
	draftID, err := draftIDFromURL(r)
	if err != nil {
		respondError(w, s.log, err)
		return
	}

	if _, err := s.engine.MaybeGenerateOrder(r.Context(), draftID); err != nil {
		respondError(w, s.log, err)
		return
	}
	tick, err := s.engine.Tick(r.Context(), draftID)
	if err != nil {
		respondError(w, s.log, err)
		return
	}

	d, err := s.reader.Drafts.GetDraft(r.Context(), draftID)
	if err != nil {
		respondError(w, s.log, err)
		return
	}
	picks, err := s.reader.Picks.ListPicksByDraft(r.Context(), draftID)
	if err != nil {
		respondError(w, s.log, err)
		return
	}
	order, err := s.reader.Orders.ListOrder(r.Context(), draftID)
	if err != nil {
		respondError(w, s.log, err)
		return
	}

	resp := jsonResponse{
		"draft":        d,
		"picks":        picks,
		"order":        order,
		"tick_expired": tick.Expired,
	}
	if d.IsActive && !d.IsCompleted {
		snap, err := s.engine.CurrentClock(r.Context(), draftID)
		if err != nil && !errors.Is(err, apperrors.ErrState) {
			respondError(w, s.log, err)
			return
		}
		if snap != nil {
			resp["clock"] = snap
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func tickResponse(res *engine.TickResult) jsonResponse {
	return jsonResponse{
		"current_pick": res.Current,
		"expired":      res.Expired,
		"auto_picked":  res.AutoPicked,
		"completed":    res.Completed,
	}
}
