package store

import (
	"context"
	"errors"
	"time"

	"github.com/Harshitk-cp/deduce/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GameStore struct {
	db *pgxpool.Pool
}

func NewGameStore(db *pgxpool.Pool) *GameStore {
	return &GameStore{db: db}
}

func (s *GameStore) Upsert(ctx context.Context, g *domain.Game) error {
	alive := g.AlivePlayers
	if alive == nil {
		alive = []string{}
	}
	return s.db.QueryRow(ctx,
		`INSERT INTO games (id, current_round, alive_players, game_status, total_wolves)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE
		 SET current_round = EXCLUDED.current_round,
		     alive_players = EXCLUDED.alive_players,
		     game_status = EXCLUDED.game_status,
		     total_wolves = EXCLUDED.total_wolves,
		     updated_at = NOW()
		 RETURNING reset_at, created_at, updated_at`,
		g.ID, g.CurrentRound, alive, g.Status, g.TotalWolves,
	).Scan(&g.ResetAt, &g.CreatedAt, &g.UpdatedAt)
}

// MarkReset stamps the game's reset watermark and returns it. The clock
// matches the one game_events.created_at is taken from.
func (s *GameStore) MarkReset(ctx context.Context, id string) (time.Time, error) {
	var at time.Time
	err := s.db.QueryRow(ctx,
		`UPDATE games SET reset_at = clock_timestamp(), updated_at = NOW()
		 WHERE id = $1
		 RETURNING reset_at`,
		id,
	).Scan(&at)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, ErrNotFound
		}
		return time.Time{}, err
	}
	return at, nil
}

func (s *GameStore) GetByID(ctx context.Context, id string) (*domain.Game, error) {
	g := &domain.Game{}
	err := s.db.QueryRow(ctx,
		`SELECT id, current_round, alive_players, game_status, total_wolves, reset_at, created_at, updated_at
		 FROM games WHERE id = $1`,
		id,
	).Scan(&g.ID, &g.CurrentRound, &g.AlivePlayers, &g.Status, &g.TotalWolves, &g.ResetAt, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return g, nil
}

// Delete removes a game together with its events and profiles.
func (s *GameStore) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
