package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Harshitk-cp/deduce/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps service sentinel errors to HTTP statuses. Anything
// unrecognised is reported as a 500 with the fallback message.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrGameNotFound),
		errors.Is(err, service.ErrPlayerNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrGameIDMissing),
		errors.Is(err, service.ErrPlayerIDMissing),
		errors.Is(err, service.ErrSpeakerMissing),
		errors.Is(err, service.ErrActionTypeMissing),
		errors.Is(err, service.ErrInvalidRound),
		errors.Is(err, service.ErrInvalidGameStatus),
		errors.Is(err, service.ErrInvalidThreshold),
		errors.Is(err, service.ErrStatementEmpty),
		errors.Is(err, service.ErrNoActionCandidates),
		errors.Is(err, service.ErrNoPlayers),
		errors.Is(err, service.ErrInvalidWolfCount),
		errors.Is(err, service.ErrInvalidEvidenceScore),
		errors.Is(err, service.ErrInvalidPrior),
		errors.Is(err, service.ErrRelationTypeMissing),
		errors.Is(err, service.ErrInvalidRelationWeight),
		errors.Is(err, service.ErrInvalidSearchDepth),
		errors.Is(err, service.ErrSearchDepthExceeded),
		errors.Is(err, service.ErrInvalidSearchState),
		errors.Is(err, service.ErrInvalidSuspicion):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNumericDomain):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// queryFloat parses an optional float query parameter.
func queryFloat(r *http.Request, key string, def float64) (float64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
