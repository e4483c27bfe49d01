package handlers

import (
	"net/http"

	"github.com/Harshitk-cp/deduce/internal/domain"
	"github.com/Harshitk-cp/deduce/internal/service"
	"github.com/go-chi/chi/v5"
)

type DecisionHandler struct {
	svc *service.GameService
}

func NewDecisionHandler(svc *service.GameService) *DecisionHandler {
	return &DecisionHandler{svc: svc}
}

type utilityRequest struct {
	Actions    []domain.ActionCandidate `json:"actions"`
	Role       string                   `json:"role"`
	AliveCount int                      `json:"alive_count"`
	Suspicions map[string]float64       `json:"suspicions"`
}

func (h *DecisionHandler) Utility(w http.ResponseWriter, r *http.Request) {
	var req utilityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.AliveCount < 0 {
		writeError(w, http.StatusBadRequest, "alive_count must not be negative")
		return
	}

	rep, err := h.svc.ScoreActions(req.Actions, domain.Role(req.Role), req.AliveCount, req.Suspicions)
	if err != nil {
		writeServiceError(w, err, "failed to score actions")
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

type minimaxRequest struct {
	State      domain.SearchState `json:"state"`
	Depth      int                `json:"depth"`
	Maximizing *bool              `json:"maximizing"`
}

func (h *DecisionHandler) Minimax(w http.ResponseWriter, r *http.Request) {
	req := minimaxRequest{Depth: h.svc.Engine().MaxDepth()}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	maximizing := true
	if req.Maximizing != nil {
		maximizing = *req.Maximizing
	}

	res, err := h.svc.Search(req.State, req.Depth, maximizing)
	if err != nil {
		writeServiceError(w, err, "failed to search")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type recommendRequest struct {
	Role        string   `json:"role"`
	ActionTypes []string `json:"action_types"`
	Exclude     []string `json:"exclude"`
}

func (h *DecisionHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	types := make([]domain.ActionType, 0, len(req.ActionTypes))
	for _, t := range req.ActionTypes {
		types = append(types, domain.ActionType(t))
	}

	rep, err := h.svc.RecommendActions(r.Context(), chi.URLParam(r, "gameID"), service.RecommendRequest{
		Role:        domain.Role(req.Role),
		ActionTypes: types,
		Exclude:     req.Exclude,
	})
	if err != nil {
		writeServiceError(w, err, "failed to recommend actions")
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
