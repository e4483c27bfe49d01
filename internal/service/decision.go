package service

import (
	"errors"
	"math"
	"sort"
	"sync/atomic"

	"github.com/Harshitk-cp/deduce/internal/domain"
	"go.uber.org/zap"
)

const (
	DefaultMaxSearchDepth = 3

	unknownTargetUtility = 0.3
	neutralUtility       = 0.5
)

var (
	ErrInvalidSearchDepth  = errors.New("search depth must not be negative")
	ErrSearchDepthExceeded = errors.New("search depth exceeds the configured maximum")
	ErrInvalidSearchState  = errors.New("alive_wolves and alive_villagers must not be negative")
	ErrInvalidSuspicion    = errors.New("suspicion scores must be within [0, 1]")
)

// DecisionEngine ranks candidate actions and runs minimax over abstract
// game states. Every result depends only on the call's arguments, so one
// engine can serve concurrent callers. The only state it keeps are
// counters for metrics.
type DecisionEngine struct {
	logger   *zap.Logger
	maxDepth int

	searches     atomic.Int64
	nodesVisited atomic.Int64
}

func NewDecisionEngine(logger *zap.Logger) *DecisionEngine {
	return &DecisionEngine{logger: logger, maxDepth: DefaultMaxSearchDepth}
}

func (e *DecisionEngine) SetMaxDepth(d int) {
	if d >= 0 {
		e.maxDepth = d
	}
}

func (e *DecisionEngine) MaxDepth() int {
	return e.maxDepth
}

// ScoreActions assigns each candidate a utility and tier and sorts them by
// utility, highest first. Equal utilities keep their input order.
func (e *DecisionEngine) ScoreActions(candidates []domain.ActionCandidate, role domain.Role, aliveCount int, suspicion map[string]float64) []domain.ScoredAction {
	scored := make([]domain.ScoredAction, 0, len(candidates))
	for _, c := range candidates {
		var utility float64
		switch c.Type {
		case domain.ActionCheck:
			utility = checkUtility(c.Target, aliveCount, suspicion)
		case domain.ActionVote:
			utility = voteUtility(c.Target, aliveCount, suspicion)
		default:
			utility = neutralUtility
		}
		scored = append(scored, domain.ScoredAction{
			ActionCandidate: c,
			Utility:         utility,
			Recommendation:  domain.RecommendationFor(utility),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Utility > scored[j].Utility
	})

	e.logger.Debug("scored actions",
		zap.String("role", string(role)),
		zap.Int("alive_count", aliveCount),
		zap.Int("candidates", len(scored)))
	return scored
}

// ValidateSuspicions reports ErrInvalidSuspicion when a score is NaN or
// outside [0, 1].
func ValidateSuspicions(suspicion map[string]float64) error {
	for _, v := range suspicion {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return ErrInvalidSuspicion
		}
	}
	return nil
}

func checkUtility(target string, aliveCount int, suspicion map[string]float64) float64 {
	s, ok := suspicion[target]
	if !ok {
		return unknownTargetUtility
	}

	informationGain := s * 0.6

	strategicValue := 0.0
	if s > 0.7 {
		strategicValue = 0.3
	} else if s < 0.3 {
		strategicValue = 0.2
	}

	urgency := 0.1 / float64(max(aliveCount, 1))

	return math.Min(1.0, informationGain+strategicValue+urgency*0.1)
}

func voteUtility(target string, aliveCount int, suspicion map[string]float64) float64 {
	s, ok := suspicion[target]
	if !ok {
		return unknownTargetUtility
	}

	eliminationValue := s * 0.7

	riskFactor := 0.0
	if aliveCount <= 3 {
		riskFactor = 0.2
	}

	consensusFactor := 0.1

	return math.Min(1.0, eliminationValue+riskFactor+consensusFactor)
}

// MinimaxSearch explores actions to the given depth, alternating between
// the best and worst value for the searching side. It returns the chosen
// action, or nil at a leaf, together with its value.
//
// No pruning is done and the cost grows as (players*action types)^depth,
// so depth is capped by the engine's maximum.
func (e *DecisionEngine) MinimaxSearch(state domain.SearchState, depth int, maximizing bool) (*domain.ActionCandidate, float64, error) {
	if depth < 0 {
		return nil, 0, ErrInvalidSearchDepth
	}
	if depth > e.maxDepth {
		return nil, 0, ErrSearchDepthExceeded
	}
	if state.AliveWolves < 0 || state.AliveVillagers < 0 {
		return nil, 0, ErrInvalidSearchState
	}

	e.searches.Add(1)
	var visited int64
	action, value := minimax(state, depth, maximizing, &visited)
	e.nodesVisited.Add(visited)
	if err := checkFinite(value); err != nil {
		return nil, 0, err
	}

	e.logger.Debug("minimax search finished",
		zap.Int("depth", depth),
		zap.Bool("maximizing", maximizing),
		zap.Int64("nodes", visited),
		zap.Float64("value", value))
	return action, value, nil
}

func minimax(state domain.SearchState, depth int, maximizing bool, visited *int64) (*domain.ActionCandidate, float64) {
	*visited++
	if depth == 0 {
		return nil, EvaluateState(state)
	}

	actions := GenerateActions(state)
	if len(actions) == 0 {
		return nil, EvaluateState(state)
	}

	var best *domain.ActionCandidate
	bestValue := math.Inf(-1)
	if !maximizing {
		bestValue = math.Inf(1)
	}

	for i := range actions {
		_, value := minimax(ApplyAction(state, actions[i]), depth-1, !maximizing, visited)
		if (maximizing && value > bestValue) || (!maximizing && value < bestValue) {
			bestValue = value
			best = &actions[i]
		}
	}
	return best, bestValue
}

// EvaluateState scores a position from the villagers' side: 1 when no
// wolves remain, -1 when no villagers remain, otherwise the villager share.
func EvaluateState(state domain.SearchState) float64 {
	if state.AliveWolves == 0 {
		return 1.0
	}
	if state.AliveVillagers == 0 {
		return -1.0
	}
	villagers := float64(state.AliveVillagers)
	return villagers / (villagers + float64(state.AliveWolves))
}

func checkFinite(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ErrNumericDomain
	}
	return nil
}

// GenerateActions lists a check and/or a vote on every alive player,
// depending on which capabilities the state enables.
func GenerateActions(state domain.SearchState) []domain.ActionCandidate {
	var actions []domain.ActionCandidate
	for _, p := range state.AlivePlayers {
		if state.CanCheck {
			actions = append(actions, domain.Check(p))
		}
		if state.CanVote {
			actions = append(actions, domain.Vote(p))
		}
	}
	return actions
}

// ApplyAction returns the state after action. Only the checked and voted
// lists change; alive counts are left alone because the search estimates
// outcomes rather than simulating them. The input state is not modified.
func ApplyAction(state domain.SearchState, action domain.ActionCandidate) domain.SearchState {
	next := state
	switch action.Type {
	case domain.ActionCheck:
		next.CheckedPlayers = appendCopy(state.CheckedPlayers, action.Target)
	case domain.ActionVote:
		next.VotedPlayers = appendCopy(state.VotedPlayers, action.Target)
	}
	return next
}

func appendCopy(list []string, v string) []string {
	out := make([]string, len(list), len(list)+1)
	copy(out, list)
	return append(out, v)
}

type DecisionStats struct {
	Searches     int64 `json:"searches"`
	NodesVisited int64 `json:"nodes_visited"`
}

func (e *DecisionEngine) Stats() DecisionStats {
	return DecisionStats{
		Searches:     e.searches.Load(),
		NodesVisited: e.nodesVisited.Load(),
	}
}

// Reset zeroes the engine's counters. Results never depend on them.
func (e *DecisionEngine) Reset() {
	e.searches.Store(0)
	e.nodesVisited.Store(0)
	e.logger.Info("decision engine reset")
}
