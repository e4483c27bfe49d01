package handlers

import (
	"net/http"

	"github.com/Harshitk-cp/deduce/internal/service"
	"github.com/go-chi/chi/v5"
)

type GraphHandler struct {
	svc *service.GameService
}

func NewGraphHandler(svc *service.GameService) *GraphHandler {
	return &GraphHandler{svc: svc}
}

func (h *GraphHandler) Relations(w http.ResponseWriter, r *http.Request) {
	rep, err := h.svc.PlayerRelations(r.Context(), chi.URLParam(r, "gameID"), chi.URLParam(r, "playerID"))
	if err != nil {
		writeServiceError(w, err, "failed to get relations")
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// Patterns reports suspicious pairs and the attack/support networks.
// Query: threshold (default 0.7).
func (h *GraphHandler) Patterns(w http.ResponseWriter, r *http.Request) {
	threshold, err := queryFloat(r, "threshold", service.DefaultWolfPairThreshold)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid threshold")
		return
	}

	rep, err := h.svc.DetectWolfPatterns(r.Context(), chi.URLParam(r, "gameID"), threshold)
	if err != nil {
		writeServiceError(w, err, "failed to detect patterns")
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

type applyPatternsRequest struct {
	Threshold *float64 `json:"threshold"`
}

func (h *GraphHandler) ApplyPatterns(w http.ResponseWriter, r *http.Request) {
	threshold := service.DefaultWolfPairThreshold
	if r.ContentLength != 0 {
		var req applyPatternsRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Threshold != nil {
			threshold = *req.Threshold
		}
	}

	updates, err := h.svc.ApplyPatternEvidence(r.Context(), chi.URLParam(r, "gameID"), threshold)
	if err != nil {
		writeServiceError(w, err, "failed to apply pattern evidence")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"updates": updates,
		"count":   len(updates),
	})
}
