package domain

import (
	"context"
	"time"
)

type GameStore interface {
	Upsert(ctx context.Context, g *Game) error
	GetByID(ctx context.Context, id string) (*Game, error)
	Delete(ctx context.Context, id string) error
	MarkReset(ctx context.Context, id string) (time.Time, error)
}

// HistoryFilter narrows an event listing. Zero values mean "any".
type HistoryFilter struct {
	GameID     string
	RoundNum   int
	Speaker    string
	ActionType ActionType
	Limit      int
}

type EventStore interface {
	Create(ctx context.Context, e *GameEvent) error
	List(ctx context.Context, f HistoryFilter) ([]GameEvent, error)
	// ListSince returns a game's events recorded after since, oldest first.
	ListSince(ctx context.Context, gameID string, since time.Time) ([]GameEvent, error)
}

type ProfileStore interface {
	UpsertSuspicion(ctx context.Context, gameID, playerID string, score float64) error
	Annotate(ctx context.Context, gameID, playerID, roleAssumed, personality string) error
	Get(ctx context.Context, gameID, playerID string) (*PlayerProfile, error)
	ListByGame(ctx context.Context, gameID string) ([]PlayerProfile, error)
	DeleteByGame(ctx context.Context, gameID string) error
}
