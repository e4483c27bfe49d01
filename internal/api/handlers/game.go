package handlers

import (
	"net/http"

	"github.com/Harshitk-cp/deduce/internal/domain"
	"github.com/Harshitk-cp/deduce/internal/service"
	"github.com/go-chi/chi/v5"
)

type GameHandler struct {
	svc *service.GameService
}

func NewGameHandler(svc *service.GameService) *GameHandler {
	return &GameHandler{svc: svc}
}

type createGameRequest struct {
	GameID      string   `json:"game_id"`
	Players     []string `json:"players"`
	TotalWolves int      `json:"total_wolves"`
}

func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	game, err := h.svc.InitializeGame(r.Context(), req.GameID, req.Players, req.TotalWolves)
	if err != nil {
		writeServiceError(w, err, "failed to initialize game")
		return
	}

	writeJSON(w, http.StatusCreated, game)
}

func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	game, err := h.svc.GetGame(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		writeServiceError(w, err, "failed to get game")
		return
	}
	writeJSON(w, http.StatusOK, game)
}

type updateGameRequest struct {
	CurrentRound *int     `json:"current_round"`
	AlivePlayers []string `json:"alive_players"`
	Status       *string  `json:"game_status"`
}

func (h *GameHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateGameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	upd := service.GameUpdate{
		CurrentRound: req.CurrentRound,
		AlivePlayers: req.AlivePlayers,
	}
	if req.Status != nil {
		st := domain.GameStatus(*req.Status)
		upd.Status = &st
	}

	game, err := h.svc.UpdateGame(r.Context(), chi.URLParam(r, "gameID"), upd)
	if err != nil {
		writeServiceError(w, err, "failed to update game")
		return
	}
	writeJSON(w, http.StatusOK, game)
}

func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteGame(r.Context(), chi.URLParam(r, "gameID")); err != nil {
		writeServiceError(w, err, "failed to delete game")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *GameHandler) Reset(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	if err := h.svc.ResetGame(r.Context(), gameID); err != nil {
		writeServiceError(w, err, "failed to reset game")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"game_id": gameID, "status": "reset"})
}

type recordEventRequest struct {
	RoundNum     int     `json:"round_num"`
	Speaker      string  `json:"speaker"`
	Content      string  `json:"content"`
	ActionType   string  `json:"action_type"`
	TargetPlayer string  `json:"target_player,omitempty"`
	RelationType string  `json:"relation_type,omitempty"`
	Weight       float64 `json:"weight,omitempty"`
}

func (h *GameHandler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	var req recordEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	event := &domain.GameEvent{
		GameID:       chi.URLParam(r, "gameID"),
		RoundNum:     req.RoundNum,
		Speaker:      req.Speaker,
		Content:      req.Content,
		ActionType:   domain.ActionType(req.ActionType),
		TargetPlayer: req.TargetPlayer,
		RelationType: domain.RelationType(req.RelationType),
		Weight:       req.Weight,
	}
	if err := h.svc.RecordEvent(r.Context(), event); err != nil {
		writeServiceError(w, err, "failed to record event")
		return
	}

	writeJSON(w, http.StatusCreated, event)
}

// History serves recall_memory. Filters: round, player, action_type, limit.
func (h *GameHandler) History(w http.ResponseWriter, r *http.Request) {
	round, err := queryInt(r, "round", 0)
	if err != nil || round < 0 {
		writeError(w, http.StatusBadRequest, "invalid round")
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil || limit < 0 {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}

	q := r.URL.Query()
	recall, err := h.svc.RecallMemory(r.Context(), domain.HistoryFilter{
		GameID:     chi.URLParam(r, "gameID"),
		RoundNum:   round,
		Speaker:    q.Get("player"),
		ActionType: domain.ActionType(q.Get("action_type")),
		Limit:      limit,
	})
	if err != nil {
		writeServiceError(w, err, "failed to recall history")
		return
	}
	writeJSON(w, http.StatusOK, recall)
}

type annotateProfileRequest struct {
	RoleAssumed string `json:"role_assumed"`
	Personality string `json:"personality"`
}

func (h *GameHandler) AnnotateProfile(w http.ResponseWriter, r *http.Request) {
	var req annotateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	gameID := chi.URLParam(r, "gameID")
	playerID := chi.URLParam(r, "playerID")
	if err := h.svc.AnnotateProfile(r.Context(), gameID, playerID, req.RoleAssumed, req.Personality); err != nil {
		writeServiceError(w, err, "failed to update profile")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"game_id":      gameID,
		"player_id":    playerID,
		"role_assumed": req.RoleAssumed,
		"personality":  req.Personality,
	})
}

func (h *GameHandler) Situation(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rep, err := h.svc.Situation(r.Context(), chi.URLParam(r, "gameID"), domain.Role(q.Get("role")), q.Get("focus"))
	if err != nil {
		writeServiceError(w, err, "failed to build situation report")
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *GameHandler) Investigate(w http.ResponseWriter, r *http.Request) {
	inv, err := h.svc.InvestigatePlayer(r.Context(), chi.URLParam(r, "gameID"), chi.URLParam(r, "playerID"))
	if err != nil {
		writeServiceError(w, err, "failed to investigate player")
		return
	}
	writeJSON(w, http.StatusOK, inv)
}
