package handlers

import (
	"net/http"

	"github.com/Harshitk-cp/deduce/internal/domain"
	"github.com/Harshitk-cp/deduce/internal/service"
	"github.com/go-chi/chi/v5"
)

type BeliefHandler struct {
	svc *service.GameService
}

func NewBeliefHandler(svc *service.GameService) *BeliefHandler {
	return &BeliefHandler{svc: svc}
}

type analyzeSuspicionRequest struct {
	PlayerID      string   `json:"player_id"`
	EvidenceScore *float64 `json:"evidence_score"`
	EvidenceType  string   `json:"evidence_type"`
	Description   string   `json:"description"`
}

func (h *BeliefHandler) AnalyzeSuspicion(w http.ResponseWriter, r *http.Request) {
	var req analyzeSuspicionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PlayerID == "" {
		writeError(w, http.StatusBadRequest, "player_id is required")
		return
	}
	if req.EvidenceScore == nil {
		writeError(w, http.StatusBadRequest, "evidence_score is required")
		return
	}

	upd, err := h.svc.AnalyzeSuspicion(r.Context(), chi.URLParam(r, "gameID"),
		req.PlayerID, *req.EvidenceScore, req.EvidenceType, req.Description)
	if err != nil {
		writeServiceError(w, err, "failed to analyze suspicion")
		return
	}
	writeJSON(w, http.StatusOK, upd)
}

func (h *BeliefHandler) Suspicions(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	scores, err := h.svc.Suspicions(r.Context(), gameID)
	if err != nil {
		writeServiceError(w, err, "failed to get suspicions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"game_id":    gameID,
		"suspicions": scores,
		"count":      len(scores),
	})
}

type analyzeContradictionRequest struct {
	PlayerID  string   `json:"player_id"`
	Statement string   `json:"statement"`
	History   []string `json:"history,omitempty"`
	Apply     bool     `json:"apply"`
}

func (h *BeliefHandler) AnalyzeContradiction(w http.ResponseWriter, r *http.Request) {
	var req analyzeContradictionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	history := make([]domain.Statement, 0, len(req.History))
	for _, c := range req.History {
		history = append(history, domain.Statement{Content: c})
	}

	res, err := h.svc.AnalyzeContradiction(r.Context(), service.ContradictionRequest{
		GameID:    chi.URLParam(r, "gameID"),
		PlayerID:  req.PlayerID,
		Statement: req.Statement,
		History:   history,
		Apply:     req.Apply,
	})
	if err != nil {
		writeServiceError(w, err, "failed to analyze contradiction")
		return
	}
	writeJSON(w, http.StatusOK, res)
}
