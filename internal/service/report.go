package service

import (
	"context"
	"errors"
	"sort"

	"github.com/Harshitk-cp/deduce/internal/domain"
	"github.com/Harshitk-cp/deduce/internal/store"
)

const (
	situationEventLimit     = 5
	investigationEventLimit = 20
)

type PlayerSuspicion struct {
	PlayerID string                `json:"player_id"`
	Score    float64               `json:"score"`
	Level    domain.SuspicionLevel `json:"level"`
}

type FocusSummary struct {
	PlayerID   string  `json:"player_id"`
	Outgoing   int     `json:"outgoing_relations"`
	Incoming   int     `json:"incoming_relations"`
	Centrality float64 `json:"centrality"`
}

// SituationReport is a snapshot of a game for an agent deciding its next
// move.
type SituationReport struct {
	GameID       string             `json:"game_id"`
	Round        int                `json:"current_round"`
	Role         domain.Role        `json:"role,omitempty"`
	AlivePlayers []string           `json:"alive_players"`
	Suspicions   []PlayerSuspicion  `json:"suspicions"`
	RecentEvents []domain.GameEvent `json:"recent_events"`
	Focus        *FocusSummary      `json:"focus,omitempty"`
}

// Situation ranks the alive players by suspicion, highest first with ties
// broken by player id, and attaches the latest events.
func (s *GameService) Situation(ctx context.Context, gameID string, role domain.Role, focus string) (*SituationReport, error) {
	game, err := s.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	sess, err := s.session(ctx, gameID)
	if err != nil {
		return nil, err
	}

	rep := &SituationReport{
		GameID:       game.ID,
		Round:        game.CurrentRound,
		Role:         role,
		AlivePlayers: game.AlivePlayers,
		Suspicions:   []PlayerSuspicion{},
	}

	_ = sess.Do(func(b *BeliefTracker, g *RelationshipGraph) error {
		for _, p := range game.AlivePlayers {
			score := b.Suspicion(p)
			rep.Suspicions = append(rep.Suspicions, PlayerSuspicion{
				PlayerID: p,
				Score:    score,
				Level:    domain.LevelFor(score),
			})
		}
		if focus != "" {
			rel := g.PlayerRelations(focus)
			rep.Focus = &FocusSummary{
				PlayerID:   focus,
				Outgoing:   len(rel.Outgoing),
				Incoming:   len(rel.Incoming),
				Centrality: g.Centrality(focus),
			}
		}
		return nil
	})

	sort.SliceStable(rep.Suspicions, func(i, j int) bool {
		if rep.Suspicions[i].Score != rep.Suspicions[j].Score {
			return rep.Suspicions[i].Score > rep.Suspicions[j].Score
		}
		return rep.Suspicions[i].PlayerID < rep.Suspicions[j].PlayerID
	})

	events, err := s.events.List(ctx, domain.HistoryFilter{GameID: gameID, Limit: situationEventLimit})
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []domain.GameEvent{}
	}
	rep.RecentEvents = events
	return rep, nil
}

// Investigation gathers everything known about one player.
type Investigation struct {
	Profile    domain.PlayerProfile   `json:"profile"`
	Suspicion  float64                `json:"suspicion"`
	Evidence   []domain.Evidence      `json:"evidence"`
	History    []domain.GameEvent     `json:"history"`
	Relations  domain.PlayerRelations `json:"relations"`
	Centrality float64                `json:"centrality"`
	InPairs    []domain.PlayerPair    `json:"suspicious_pairs"`

	// Consistency is the contradiction score of the player's latest
	// statement against the earlier ones.
	Consistency float64 `json:"contradiction_score"`
}

func (s *GameService) InvestigatePlayer(ctx context.Context, gameID, playerID string) (*Investigation, error) {
	if playerID == "" {
		return nil, ErrPlayerIDMissing
	}
	sess, err := s.session(ctx, gameID)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.Get(ctx, gameID, playerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}

	history, err := s.events.List(ctx, domain.HistoryFilter{
		GameID:  gameID,
		Speaker: playerID,
		Limit:   investigationEventLimit,
	})
	if err != nil {
		return nil, err
	}
	if history == nil {
		history = []domain.GameEvent{}
	}

	inv := &Investigation{Profile: *profile, History: history, InPairs: []domain.PlayerPair{}}
	_ = sess.Do(func(b *BeliefTracker, g *RelationshipGraph) error {
		inv.Suspicion = b.Suspicion(playerID)
		inv.Evidence = b.Evidence(playerID)
		inv.Relations = g.PlayerRelations(playerID)
		inv.Centrality = g.Centrality(playerID)
		for _, p := range g.DetectWolfPairs(DefaultWolfPairThreshold) {
			if p.Source == playerID || p.Target == playerID {
				inv.InPairs = append(inv.InPairs, p)
			}
		}
		// History is newest first: score the latest statement against the rest.
		statements := statementsOf(history)
		if len(statements) > 1 {
			inv.Consistency = b.AnalyzeContradiction(playerID, statements[0].Content, statements[1:])
		}
		return nil
	})
	return inv, nil
}
