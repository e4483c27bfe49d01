package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Harshitk-cp/deduce/internal/domain"
	"github.com/Harshitk-cp/deduce/internal/store"
	"go.uber.org/zap"
)

const (
	DefaultWolfPairThreshold = 0.7

	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

var (
	ErrGameNotFound       = errors.New("game not found")
	ErrGameIDMissing      = errors.New("game_id is required")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrSpeakerMissing     = errors.New("speaker is required")
	ErrActionTypeMissing  = errors.New("action_type is required")
	ErrInvalidRound       = errors.New("round_num must be positive")
	ErrInvalidGameStatus  = errors.New("invalid game_status")
	ErrInvalidThreshold   = errors.New("threshold must be within [0, 1]")
	ErrStatementEmpty     = errors.New("statement is required")
	ErrNoActionCandidates = errors.New("no action candidates")
)

// GameService is the surface the protocol layer calls. It owns the
// per-game sessions and is the only component that talks to storage; the
// tracker, graph and engine only ever see plain data.
type GameService struct {
	games    domain.GameStore
	events   domain.EventStore
	profiles domain.ProfileStore
	sessions *SessionRegistry
	engine   *DecisionEngine
	logger   *zap.Logger
}

func NewGameService(
	games domain.GameStore,
	events domain.EventStore,
	profiles domain.ProfileStore,
	sessions *SessionRegistry,
	engine *DecisionEngine,
	logger *zap.Logger,
) *GameService {
	return &GameService{
		games:    games,
		events:   events,
		profiles: profiles,
		sessions: sessions,
		engine:   engine,
		logger:   logger,
	}
}

func (s *GameService) Engine() *DecisionEngine {
	return s.engine
}

// InitializeGame starts a game at round 1 with uniform priors and replaces
// any earlier game with the same id.
func (s *GameService) InitializeGame(ctx context.Context, gameID string, players []string, totalWolves int) (*domain.Game, error) {
	if gameID == "" {
		return nil, ErrGameIDMissing
	}

	sess := NewSession(gameID, s.logger)
	var prior float64
	err := sess.Do(func(b *BeliefTracker, g *RelationshipGraph) error {
		if err := b.Initialize(players, totalWolves); err != nil {
			return err
		}
		for _, p := range players {
			if err := g.AddNode(p, nil); err != nil {
				return err
			}
		}
		prior = b.Suspicion(players[0])
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Re-initializing an id starts a fresh game; stored events and
	// profiles of the old one go with it.
	if err := s.games.Delete(ctx, gameID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("clear game: %w", err)
	}

	game := &domain.Game{
		ID:           gameID,
		CurrentRound: 1,
		AlivePlayers: append([]string(nil), players...),
		Status:       domain.GameActive,
		TotalWolves:  totalWolves,
	}
	if err := s.games.Upsert(ctx, game); err != nil {
		return nil, fmt.Errorf("store game: %w", err)
	}
	for _, p := range players {
		if err := s.profiles.UpsertSuspicion(ctx, gameID, p, prior); err != nil {
			return nil, fmt.Errorf("store profile %s: %w", p, err)
		}
	}

	s.sessions.Put(sess)

	s.logger.Info("initialized game",
		zap.String("game_id", gameID),
		zap.Int("players", len(players)),
		zap.Int("wolves", totalWolves))
	return game, nil
}

// ResetGame clears the game's beliefs and relationship graph. Stored
// profiles are dropped and the game's reset watermark is moved, so a
// session rebuilt later only replays events recorded after the reset.
// The events themselves stay available to RecallMemory.
func (s *GameService) ResetGame(ctx context.Context, gameID string) error {
	sess, err := s.session(ctx, gameID)
	if err != nil {
		return err
	}

	err = sess.Do(func(b *BeliefTracker, g *RelationshipGraph) error {
		if _, err := s.games.MarkReset(ctx, gameID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrGameNotFound
			}
			return fmt.Errorf("mark reset: %w", err)
		}
		if err := s.profiles.DeleteByGame(ctx, gameID); err != nil {
			return fmt.Errorf("clear profiles: %w", err)
		}
		b.Reset()
		g.Reset()
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("reset game", zap.String("game_id", gameID))
	return nil
}

func (s *GameService) GetGame(ctx context.Context, gameID string) (*domain.Game, error) {
	if gameID == "" {
		return nil, ErrGameIDMissing
	}
	g, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return g, nil
}

// DeleteGame removes the game with its events and profiles and drops the
// live session.
func (s *GameService) DeleteGame(ctx context.Context, gameID string) error {
	if gameID == "" {
		return ErrGameIDMissing
	}
	if err := s.games.Delete(ctx, gameID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrGameNotFound
		}
		return err
	}
	s.sessions.Delete(gameID)
	s.logger.Info("deleted game", zap.String("game_id", gameID))
	return nil
}

// GameUpdate is a partial update; nil fields are left unchanged.
type GameUpdate struct {
	CurrentRound *int
	AlivePlayers []string
	Status       *domain.GameStatus
}

func (s *GameService) UpdateGame(ctx context.Context, gameID string, upd GameUpdate) (*domain.Game, error) {
	game, err := s.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if upd.CurrentRound != nil {
		if *upd.CurrentRound < 1 {
			return nil, ErrInvalidRound
		}
		game.CurrentRound = *upd.CurrentRound
	}
	if upd.AlivePlayers != nil {
		game.AlivePlayers = upd.AlivePlayers
	}
	if upd.Status != nil {
		if !domain.ValidGameStatus(string(*upd.Status)) {
			return nil, ErrInvalidGameStatus
		}
		game.Status = *upd.Status
	}

	if err := s.games.Upsert(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

// session returns the live session for gameID, rebuilding it from storage
// when it was never loaded or has been evicted.
func (s *GameService) session(ctx context.Context, gameID string) (*Session, error) {
	if gameID == "" {
		return nil, ErrGameIDMissing
	}
	if sess, ok := s.sessions.Get(gameID); ok {
		return sess, nil
	}
	game, err := s.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	sess := NewSession(gameID, s.logger)
	if err := s.hydrate(ctx, sess, game); err != nil {
		return nil, fmt.Errorf("rebuild session: %w", err)
	}
	return s.sessions.PutIfAbsent(sess), nil
}

func (s *GameService) hydrate(ctx context.Context, sess *Session, game *domain.Game) error {
	profiles, err := s.profiles.ListByGame(ctx, sess.GameID)
	if err != nil {
		return err
	}
	var since time.Time
	if game.ResetAt != nil {
		since = *game.ResetAt
	}
	events, err := s.events.ListSince(ctx, sess.GameID, since)
	if err != nil {
		return err
	}

	err = sess.Do(func(b *BeliefTracker, g *RelationshipGraph) error {
		for _, p := range profiles {
			if err := b.Restore(p.PlayerID, p.SuspicionScore); err != nil {
				return err
			}
			if err := g.AddNode(p.PlayerID, profileAttributes(p)); err != nil {
				return err
			}
		}
		for _, e := range events {
			if err := applyEvent(g, e); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("rebuilt session from storage",
		zap.String("game_id", sess.GameID),
		zap.Int("profiles", len(profiles)),
		zap.Int("events", len(events)))
	return nil
}

func profileAttributes(p domain.PlayerProfile) map[string]any {
	if p.RoleAssumed == "" && p.Personality == "" {
		return nil
	}
	return map[string]any{
		"role_assumed": p.RoleAssumed,
		"personality":  p.Personality,
	}
}

// applyEvent adds an event's speaker and target to the graph and, when it
// names a relation, the relation itself.
func applyEvent(g *RelationshipGraph, e domain.GameEvent) error {
	if e.TargetPlayer != "" && e.RelationType != "" {
		if err := g.AddEdge(e.Speaker, e.TargetPlayer, e.RelationType, eventWeight(e), eventMetadata(e)); err != nil {
			return err
		}
	}
	if err := g.AddNode(e.Speaker, nil); err != nil {
		return err
	}
	if e.TargetPlayer != "" {
		return g.AddNode(e.TargetPlayer, nil)
	}
	return nil
}

// RecordEvent stores an event and, when it names both a target and a
// relation type, adds the matching relation to the game's graph.
func (s *GameService) RecordEvent(ctx context.Context, e *domain.GameEvent) error {
	if e.Speaker == "" {
		return ErrSpeakerMissing
	}
	if e.ActionType == "" {
		return ErrActionTypeMissing
	}
	if e.RoundNum < 1 {
		return ErrInvalidRound
	}
	if e.Weight == 0 {
		e.Weight = DefaultRelationWeight
	}
	if math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0) || e.Weight < 0 {
		return ErrInvalidRelationWeight
	}

	sess, err := s.session(ctx, e.GameID)
	if err != nil {
		return err
	}

	if err := s.events.Create(ctx, e); err != nil {
		return fmt.Errorf("store event: %w", err)
	}

	err = sess.Do(func(_ *BeliefTracker, g *RelationshipGraph) error {
		return applyEvent(g, *e)
	})
	if err != nil {
		return err
	}

	s.logger.Info("recorded event",
		zap.String("game_id", e.GameID),
		zap.String("speaker", e.Speaker),
		zap.String("action_type", string(e.ActionType)),
		zap.Int("round", e.RoundNum))
	return nil
}

func eventWeight(e domain.GameEvent) float64 {
	if e.Weight <= 0 {
		return DefaultRelationWeight
	}
	return e.Weight
}

func eventMetadata(e domain.GameEvent) map[string]any {
	return map[string]any{
		"round":       e.RoundNum,
		"action_type": string(e.ActionType),
		"content":     e.Content,
	}
}

type MemoryRecall struct {
	PlayerID string             `json:"player_id,omitempty"`
	Memories []domain.GameEvent `json:"memories"`
	Summary  string             `json:"summary"`
	Count    int                `json:"count"`
}

// RecallMemory lists recorded events, newest first, with a per-action-type
// summary.
func (s *GameService) RecallMemory(ctx context.Context, f domain.HistoryFilter) (*MemoryRecall, error) {
	if f.Limit <= 0 {
		f.Limit = defaultHistoryLimit
	}
	if f.Limit > maxHistoryLimit {
		f.Limit = maxHistoryLimit
	}

	events, err := s.events.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []domain.GameEvent{}
	}

	s.logger.Info("recalled memories",
		zap.String("game_id", f.GameID),
		zap.String("player_id", f.Speaker),
		zap.Int("count", len(events)))

	return &MemoryRecall{
		PlayerID: f.Speaker,
		Memories: events,
		Summary:  summarizeMemories(events),
		Count:    len(events),
	}, nil
}

func summarizeMemories(events []domain.GameEvent) string {
	if len(events) == 0 {
		return "No historical records found"
	}

	var order []domain.ActionType
	counts := make(map[domain.ActionType]int)
	for _, e := range events {
		if _, ok := counts[e.ActionType]; !ok {
			order = append(order, e.ActionType)
		}
		counts[e.ActionType]++
	}

	parts := []string{fmt.Sprintf("Total records: %d", len(events))}
	for _, t := range order {
		parts = append(parts, fmt.Sprintf("%s: %d", t, counts[t]))
	}
	return strings.Join(parts, "; ")
}

type SuspicionUpdate struct {
	PlayerID          string  `json:"player_id"`
	PreviousSuspicion float64 `json:"previous_suspicion"`
	CurrentSuspicion  float64 `json:"current_suspicion"`
	EvidenceCount     int     `json:"evidence_count"`
	EvidenceType      string  `json:"evidence_type"`
}

// AnalyzeSuspicion updates a player's suspicion with new evidence and
// persists the posterior to the player's profile.
func (s *GameService) AnalyzeSuspicion(ctx context.Context, gameID, playerID string, score float64, evidenceType, description string) (*SuspicionUpdate, error) {
	sess, err := s.session(ctx, gameID)
	if err != nil {
		return nil, err
	}

	var upd *SuspicionUpdate
	err = sess.Do(func(b *BeliefTracker, _ *RelationshipGraph) error {
		var err error
		upd, err = updateSuspicion(b, playerID, score, evidenceType, description)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := s.profiles.UpsertSuspicion(ctx, gameID, playerID, upd.CurrentSuspicion); err != nil {
		return nil, fmt.Errorf("store suspicion: %w", err)
	}

	s.logger.Info("analyzed suspicion",
		zap.String("game_id", gameID),
		zap.String("player_id", playerID),
		zap.Float64("previous", upd.PreviousSuspicion),
		zap.Float64("current", upd.CurrentSuspicion))
	return upd, nil
}

func updateSuspicion(b *BeliefTracker, playerID string, score float64, evidenceType, description string) (*SuspicionUpdate, error) {
	prev := b.Suspicion(playerID)
	cur, err := b.UpdateSuspicion(playerID, score, evidenceType, description)
	if err != nil {
		return nil, err
	}
	if evidenceType == "" {
		evidenceType = domain.EvidenceGeneral
	}
	return &SuspicionUpdate{
		PlayerID:          playerID,
		PreviousSuspicion: prev,
		CurrentSuspicion:  cur,
		EvidenceCount:     b.EvidenceCount(playerID),
		EvidenceType:      evidenceType,
	}, nil
}

func (s *GameService) Suspicions(ctx context.Context, gameID string) (map[string]float64, error) {
	sess, err := s.session(ctx, gameID)
	if err != nil {
		return nil, err
	}
	var out map[string]float64
	_ = sess.Do(func(b *BeliefTracker, _ *RelationshipGraph) error {
		out = b.AllSuspicions()
		return nil
	})
	return out, nil
}

type ContradictionRequest struct {
	GameID    string
	PlayerID  string
	Statement string
	// History overrides the player's stored statements when non-empty.
	History []domain.Statement
	// Apply feeds a non-zero score back into the player's suspicion.
	Apply bool
}

type ContradictionResult struct {
	PlayerID     string           `json:"player_id"`
	Score        float64          `json:"contradiction_score"`
	HistoryCount int              `json:"history_count"`
	Update       *SuspicionUpdate `json:"suspicion_update,omitempty"`
}

// AnalyzeContradiction scores a statement against what the player said
// before. With Apply set, a score s > 0 becomes evidence 0.5+s/2 so that
// any detected contradiction raises suspicion.
func (s *GameService) AnalyzeContradiction(ctx context.Context, req ContradictionRequest) (*ContradictionResult, error) {
	if req.PlayerID == "" {
		return nil, ErrPlayerIDMissing
	}
	if strings.TrimSpace(req.Statement) == "" {
		return nil, ErrStatementEmpty
	}
	sess, err := s.session(ctx, req.GameID)
	if err != nil {
		return nil, err
	}

	history := req.History
	if len(history) == 0 {
		events, err := s.events.List(ctx, domain.HistoryFilter{
			GameID:  req.GameID,
			Speaker: req.PlayerID,
			Limit:   maxHistoryLimit,
		})
		if err != nil {
			return nil, err
		}
		history = statementsOf(events)
	}

	res := &ContradictionResult{PlayerID: req.PlayerID, HistoryCount: len(history)}
	err = sess.Do(func(b *BeliefTracker, _ *RelationshipGraph) error {
		res.Score = b.AnalyzeContradiction(req.PlayerID, req.Statement, history)
		if !req.Apply || res.Score == 0 {
			return nil
		}
		upd, err := updateSuspicion(b, req.PlayerID, 0.5+res.Score/2, domain.EvidenceContradiction,
			fmt.Sprintf("contradiction score %.2f over %d statements", res.Score, len(history)))
		res.Update = upd
		return err
	})
	if err != nil {
		return nil, err
	}

	if res.Update != nil {
		if err := s.profiles.UpsertSuspicion(ctx, req.GameID, req.PlayerID, res.Update.CurrentSuspicion); err != nil {
			return nil, fmt.Errorf("store suspicion: %w", err)
		}
	}
	return res, nil
}

func statementsOf(events []domain.GameEvent) []domain.Statement {
	out := make([]domain.Statement, 0, len(events))
	for _, e := range events {
		if strings.TrimSpace(e.Content) != "" {
			out = append(out, domain.Statement{Content: e.Content})
		}
	}
	return out
}

type RelationsReport struct {
	PlayerID   string                 `json:"player_id"`
	Relations  domain.PlayerRelations `json:"relations"`
	Centrality float64                `json:"centrality"`
}

func (s *GameService) PlayerRelations(ctx context.Context, gameID, playerID string) (*RelationsReport, error) {
	if playerID == "" {
		return nil, ErrPlayerIDMissing
	}
	sess, err := s.session(ctx, gameID)
	if err != nil {
		return nil, err
	}
	rep := &RelationsReport{PlayerID: playerID}
	_ = sess.Do(func(_ *BeliefTracker, g *RelationshipGraph) error {
		rep.Relations = g.PlayerRelations(playerID)
		rep.Centrality = g.Centrality(playerID)
		return nil
	})
	return rep, nil
}

// AnnotateProfile records what role a player claims and how they play,
// both on the stored profile and as the player's graph node attributes.
func (s *GameService) AnnotateProfile(ctx context.Context, gameID, playerID, roleAssumed, personality string) error {
	if playerID == "" {
		return ErrPlayerIDMissing
	}
	sess, err := s.session(ctx, gameID)
	if err != nil {
		return err
	}
	if err := s.profiles.Annotate(ctx, gameID, playerID, roleAssumed, personality); err != nil {
		return err
	}
	return sess.Do(func(_ *BeliefTracker, g *RelationshipGraph) error {
		return g.AddNode(playerID, map[string]any{
			"role_assumed": roleAssumed,
			"personality":  personality,
		})
	})
}

type PatternReport struct {
	SuspiciousPairs []domain.PlayerPair `json:"suspicious_pairs"`
	CollusionScores map[string]float64  `json:"collusion_scores"`
	AttackNetwork   map[string][]string `json:"attack_network"`
	SupportNetwork  map[string][]string `json:"support_network"`
}

func validThreshold(t float64) bool {
	return !math.IsNaN(t) && t >= 0 && t <= 1
}

func (s *GameService) DetectWolfPatterns(ctx context.Context, gameID string, threshold float64) (*PatternReport, error) {
	if !validThreshold(threshold) {
		return nil, ErrInvalidThreshold
	}
	sess, err := s.session(ctx, gameID)
	if err != nil {
		return nil, err
	}
	rep := &PatternReport{}
	_ = sess.Do(func(_ *BeliefTracker, g *RelationshipGraph) error {
		rep.SuspiciousPairs = g.DetectWolfPairs(threshold)
		rep.CollusionScores = g.DetectCollusion(g.Nodes())
		rep.AttackNetwork = g.AttackNetwork()
		rep.SupportNetwork = g.SupportNetwork()
		return nil
	})
	s.logger.Info("detected wolf patterns",
		zap.String("game_id", gameID),
		zap.Int("pairs", len(rep.SuspiciousPairs)))
	return rep, nil
}

// ApplyPatternEvidence feeds graph patterns back into beliefs: every player
// that one-sidedly supports another in a suspicious pair receives its
// collusion score as evidence, once per call.
func (s *GameService) ApplyPatternEvidence(ctx context.Context, gameID string, threshold float64) ([]SuspicionUpdate, error) {
	if !validThreshold(threshold) {
		return nil, ErrInvalidThreshold
	}
	sess, err := s.session(ctx, gameID)
	if err != nil {
		return nil, err
	}

	updates := []SuspicionUpdate{}
	err = sess.Do(func(b *BeliefTracker, g *RelationshipGraph) error {
		pairs := g.DetectWolfPairs(threshold)
		seen := make(map[string]bool)
		var sources []string
		for _, p := range pairs {
			if !seen[p.Source] {
				seen[p.Source] = true
				sources = append(sources, p.Source)
			}
		}
		collusion := g.DetectCollusion(sources)
		for _, p := range sources {
			upd, err := updateSuspicion(b, p, collusion[p], domain.EvidenceCollusion,
				fmt.Sprintf("support-only relations at threshold %.2f", threshold))
			if err != nil {
				return err
			}
			updates = append(updates, *upd)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, u := range updates {
		if err := s.profiles.UpsertSuspicion(ctx, gameID, u.PlayerID, u.CurrentSuspicion); err != nil {
			return nil, fmt.Errorf("store suspicion: %w", err)
		}
	}
	return updates, nil
}

type UtilityReport struct {
	Actions    []domain.ScoredAction `json:"actions"`
	BestAction *domain.ScoredAction  `json:"best_action"`
	Count      int                   `json:"count"`
}

func newUtilityReport(actions []domain.ScoredAction) *UtilityReport {
	rep := &UtilityReport{Actions: actions, Count: len(actions)}
	if len(actions) > 0 {
		best := actions[0]
		rep.BestAction = &best
	}
	return rep
}

// ScoreActions ranks explicit candidates against caller-supplied scores,
// which must lie in [0, 1].
func (s *GameService) ScoreActions(candidates []domain.ActionCandidate, role domain.Role, aliveCount int, suspicion map[string]float64) (*UtilityReport, error) {
	if err := ValidateSuspicions(suspicion); err != nil {
		return nil, err
	}
	return newUtilityReport(s.engine.ScoreActions(candidates, role, aliveCount, suspicion)), nil
}

type RecommendRequest struct {
	Role        domain.Role
	ActionTypes []domain.ActionType
	// Exclude removes players, typically the caller, from the candidates.
	Exclude []string
}

// RecommendActions builds candidates for every alive player and each
// requested action type, then ranks them with the game's current beliefs.
func (s *GameService) RecommendActions(ctx context.Context, gameID string, req RecommendRequest) (*UtilityReport, error) {
	game, err := s.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	sess, err := s.session(ctx, gameID)
	if err != nil {
		return nil, err
	}

	types := req.ActionTypes
	if len(types) == 0 {
		types = []domain.ActionType{domain.ActionVote}
	}
	excluded := make(map[string]bool, len(req.Exclude))
	for _, p := range req.Exclude {
		excluded[p] = true
	}

	var candidates []domain.ActionCandidate
	for _, p := range game.AlivePlayers {
		if excluded[p] {
			continue
		}
		for _, t := range types {
			candidates = append(candidates, domain.ActionCandidate{Type: t, Target: p})
		}
	}
	if len(candidates) == 0 {
		return nil, ErrNoActionCandidates
	}

	scores := make(map[string]float64, len(game.AlivePlayers))
	_ = sess.Do(func(b *BeliefTracker, _ *RelationshipGraph) error {
		all := b.AllSuspicions()
		for _, p := range game.AlivePlayers {
			if v, ok := all[p]; ok {
				scores[p] = v
			}
		}
		return nil
	})

	return s.ScoreActions(candidates, req.Role, len(game.AlivePlayers), scores)
}

type SearchResult struct {
	Action *domain.ActionCandidate `json:"best_action"`
	Value  float64                 `json:"best_value"`
	Depth  int                     `json:"depth"`
}

func (s *GameService) Search(state domain.SearchState, depth int, maximizing bool) (*SearchResult, error) {
	action, value, err := s.engine.MinimaxSearch(state, depth, maximizing)
	if err != nil {
		return nil, err
	}
	return &SearchResult{Action: action, Value: value, Depth: depth}, nil
}
