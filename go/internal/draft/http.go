package draft

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mcdev12/puckdraft/go/internal/apperrors"
	"github.com/rs/zerolog"
)

type jsonResponse map[string]any

func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("body must not be empty")
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	js, err := json.Marshal(data)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(js)
}

func errorResponse(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, jsonResponse{"error": message})
}

// respondError maps the engine's error taxonomy onto HTTP statuses.
// Conflicts from races are expected under concurrency: the loser gets a 409
// and is expected to re-fetch state, not retry blindly.
func respondError(w http.ResponseWriter, log zerolog.Logger, err error) {
	switch {
	case errors.Is(err, apperrors.ErrConfiguration):
		errorResponse(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, apperrors.ErrState):
		errorResponse(w, http.StatusConflict, err.Error())
	case errors.Is(err, apperrors.ErrAuthorization):
		errorResponse(w, http.StatusForbidden, err.Error())
	case errors.Is(err, apperrors.ErrConflict):
		errorResponse(w, http.StatusConflict, err.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		errorResponse(w, http.StatusNotFound, err.Error())
	default:
		log.Error().Err(err).Msg("internal error")
		errorResponse(w, http.StatusInternalServerError, "internal server error")
	}
}

func draftIDFromURL(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "draftID"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid draft id: %w", apperrors.ErrNotFound)
	}
	return id, nil
}

// actingUser reads the authenticated user forwarded by the auth layer.
func actingUser(r *http.Request) (uuid.UUID, error) {
	raw := r.Header.Get("X-User-ID")
	if raw == "" {
		return uuid.Nil, fmt.Errorf("missing X-User-ID header: %w", apperrors.ErrAuthorization)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid X-User-ID header: %w", apperrors.ErrAuthorization)
	}
	return id, nil
}
