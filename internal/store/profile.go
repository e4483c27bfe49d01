package store

import (
	"context"
	"errors"

	"github.com/Harshitk-cp/deduce/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfileStore struct {
	db *pgxpool.Pool
}

func NewProfileStore(db *pgxpool.Pool) *ProfileStore {
	return &ProfileStore{db: db}
}

func (s *ProfileStore) UpsertSuspicion(ctx context.Context, gameID, playerID string, score float64) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO player_profiles (game_id, player_id, suspicion_score)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (game_id, player_id) DO UPDATE
		 SET suspicion_score = EXCLUDED.suspicion_score, updated_at = NOW()`,
		gameID, playerID, score,
	)
	return err
}

// Annotate sets the claimed role and personality, leaving the suspicion
// score alone. A new profile gets the column default score.
func (s *ProfileStore) Annotate(ctx context.Context, gameID, playerID, roleAssumed, personality string) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO player_profiles (game_id, player_id, role_assumed, personality)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (game_id, player_id) DO UPDATE
		 SET role_assumed = EXCLUDED.role_assumed,
		     personality = EXCLUDED.personality,
		     updated_at = NOW()`,
		gameID, playerID, roleAssumed, personality,
	)
	return err
}

func (s *ProfileStore) Get(ctx context.Context, gameID, playerID string) (*domain.PlayerProfile, error) {
	p := &domain.PlayerProfile{}
	err := s.db.QueryRow(ctx,
		`SELECT game_id, player_id, role_assumed, suspicion_score, personality, updated_at
		 FROM player_profiles WHERE game_id = $1 AND player_id = $2`,
		gameID, playerID,
	).Scan(&p.GameID, &p.PlayerID, &p.RoleAssumed, &p.SuspicionScore, &p.Personality, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// DeleteByGame drops every profile of a game.
func (s *ProfileStore) DeleteByGame(ctx context.Context, gameID string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM player_profiles WHERE game_id = $1`, gameID)
	return err
}

func (s *ProfileStore) ListByGame(ctx context.Context, gameID string) ([]domain.PlayerProfile, error) {
	rows, err := s.db.Query(ctx,
		`SELECT game_id, player_id, role_assumed, suspicion_score, personality, updated_at
		 FROM player_profiles WHERE game_id = $1
		 ORDER BY player_id`,
		gameID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.PlayerProfile
	for rows.Next() {
		var p domain.PlayerProfile
		if err := rows.Scan(&p.GameID, &p.PlayerID, &p.RoleAssumed, &p.SuspicionScore, &p.Personality, &p.UpdatedAt); err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	return results, rows.Err()
}
