package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Harshitk-cp/deduce/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventStore struct {
	db *pgxpool.Pool
}

func NewEventStore(db *pgxpool.Pool) *EventStore {
	return &EventStore{db: db}
}

const eventColumns = `id, game_id, round_num, speaker, content, action_type,
	COALESCE(target_player, ''), COALESCE(relation_type, ''), weight, created_at`

func (s *EventStore) Create(ctx context.Context, e *domain.GameEvent) error {
	weight := e.Weight
	if weight == 0 {
		weight = 1.0
	}
	return s.db.QueryRow(ctx,
		`INSERT INTO game_events (game_id, round_num, speaker, content, action_type, target_player, relation_type, weight)
		 VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8)
		 RETURNING id, weight, created_at`,
		e.GameID, e.RoundNum, e.Speaker, e.Content, e.ActionType, e.TargetPlayer, string(e.RelationType), weight,
	).Scan(&e.ID, &e.Weight, &e.Timestamp)
}

// List returns events matching f, newest first.
func (s *EventStore) List(ctx context.Context, f domain.HistoryFilter) ([]domain.GameEvent, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.GameID != "" {
		add("game_id = $%d", f.GameID)
	}
	if f.RoundNum > 0 {
		add("round_num = $%d", f.RoundNum)
	}
	if f.Speaker != "" {
		add("speaker = $%d", f.Speaker)
	}
	if f.ActionType != "" {
		add("action_type = $%d", string(f.ActionType))
	}

	query := `SELECT ` + eventColumns + ` FROM game_events`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

// ListSince returns the game's events recorded after since, oldest first,
// so replaying them rebuilds the graph in recording order. A zero since
// lists every event.
func (s *EventStore) ListSince(ctx context.Context, gameID string, since time.Time) ([]domain.GameEvent, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+eventColumns+`
		 FROM game_events
		 WHERE game_id = $1 AND created_at > $2
		 ORDER BY created_at ASC`,
		gameID, since,
	)
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

func scanEvents(rows pgx.Rows) ([]domain.GameEvent, error) {
	defer rows.Close()

	var results []domain.GameEvent
	for rows.Next() {
		var e domain.GameEvent
		if err := rows.Scan(&e.ID, &e.GameID, &e.RoundNum, &e.Speaker, &e.Content, &e.ActionType,
			&e.TargetPlayer, &e.RelationType, &e.Weight, &e.Timestamp); err != nil {
			return nil, err
		}
		results = append(results, e)
	}
	return results, rows.Err()
}
