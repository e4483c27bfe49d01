package domain

import (
	"time"

	"github.com/google/uuid"
)

type GameStatus string

const (
	GameActive   GameStatus = "active"
	GameFinished GameStatus = "finished"
)

func ValidGameStatus(s string) bool {
	switch GameStatus(s) {
	case GameActive, GameFinished:
		return true
	}
	return false
}

type Game struct {
	ID           string     `json:"game_id"`
	CurrentRound int        `json:"current_round"`
	AlivePlayers []string   `json:"alive_players"`
	Status       GameStatus `json:"game_status"`
	TotalWolves  int        `json:"total_wolves"`
	// ResetAt is set by a reset; beliefs are rebuilt only from later events.
	ResetAt   *time.Time `json:"reset_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// GameEvent is one recorded action. TargetPlayer and RelationType are
// optional; when both are set the event also becomes a graph relation.
type GameEvent struct {
	ID           uuid.UUID    `json:"id"`
	GameID       string       `json:"game_id"`
	RoundNum     int          `json:"round_num"`
	Speaker      string       `json:"speaker"`
	Content      string       `json:"content"`
	ActionType   ActionType   `json:"action_type"`
	TargetPlayer string       `json:"target_player,omitempty"`
	RelationType RelationType `json:"relation_type,omitempty"`
	Weight       float64      `json:"weight,omitempty"`
	Timestamp    time.Time    `json:"timestamp"`
}

type PlayerProfile struct {
	GameID         string    `json:"game_id"`
	PlayerID       string    `json:"player_id"`
	RoleAssumed    string    `json:"role_assumed,omitempty"`
	SuspicionScore float64   `json:"suspicion_score"`
	Personality    string    `json:"personality,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}
