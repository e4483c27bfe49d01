package service

import (
	"errors"
	"math"

	"github.com/Harshitk-cp/deduce/internal/domain"
	"go.uber.org/zap"
)

// DefaultPrior is the wolf probability assumed for a player the tracker
// has never seen.
const DefaultPrior = 0.4

var (
	ErrInvalidEvidenceScore = errors.New("evidence score must be within [0, 1]")
	ErrNumericDomain        = errors.New("computation produced a non-finite value")
	ErrNoPlayers            = errors.New("at least one player is required")
	ErrInvalidWolfCount     = errors.New("wolf count must be between 0 and the number of players")
	ErrPlayerIDMissing      = errors.New("player_id is required")
	ErrInvalidPrior         = errors.New("prior must be within [0, 1]")
)

// Posterior applies one Bayesian update to prior given an evidence score.
//
// The wolf likelihood rises linearly from 0.5 to 1 with the score and the
// villager likelihood mirrors it, so a score of 0.5 leaves the prior
// untouched. Priors of exactly 0 or 1 are absorbing.
func Posterior(prior, evidenceScore float64) float64 {
	likelihoodWolf := 0.5 + 0.5*evidenceScore
	likelihoodVillager := 0.5 + 0.5*(1-evidenceScore)
	return (likelihoodWolf * prior) / (likelihoodWolf*prior + likelihoodVillager*(1-prior))
}

// BeliefTracker keeps an independent suspicion probability and evidence
// log per player. Posteriors are not renormalised against the wolf count.
//
// A tracker is not safe for concurrent use; Session serialises access.
type BeliefTracker struct {
	priors   map[string]float64
	evidence map[string][]domain.Evidence
	detector ContradictionDetector
	logger   *zap.Logger
}

func NewBeliefTracker(logger *zap.Logger) *BeliefTracker {
	return &BeliefTracker{
		priors:   make(map[string]float64),
		evidence: make(map[string][]domain.Evidence),
		detector: NewKeywordContradictionDetector(),
		logger:   logger,
	}
}

// SetContradictionDetector swaps the heuristic used by AnalyzeContradiction.
func (t *BeliefTracker) SetContradictionDetector(d ContradictionDetector) {
	if d != nil {
		t.detector = d
	}
}

// Initialize gives every listed player the prior wolfCount/len(players)
// and clears their evidence.
func (t *BeliefTracker) Initialize(players []string, wolfCount int) error {
	if len(players) == 0 {
		return ErrNoPlayers
	}
	if wolfCount < 0 || wolfCount > len(players) {
		return ErrInvalidWolfCount
	}

	prior := float64(wolfCount) / float64(len(players))
	for _, p := range players {
		if p == "" {
			return ErrPlayerIDMissing
		}
	}
	for _, p := range players {
		t.priors[p] = prior
		t.evidence[p] = nil
	}

	t.logger.Info("initialized priors",
		zap.Int("players", len(players)),
		zap.Int("wolves", wolfCount),
		zap.Float64("prior", prior))
	return nil
}

// UpdateSuspicion folds one piece of evidence into the player's suspicion
// and returns the posterior. Unseen players start from DefaultPrior.
func (t *BeliefTracker) UpdateSuspicion(player string, evidenceScore float64, evidenceType, description string) (float64, error) {
	if player == "" {
		return 0, ErrPlayerIDMissing
	}
	if math.IsNaN(evidenceScore) || evidenceScore < 0 || evidenceScore > 1 {
		return 0, ErrInvalidEvidenceScore
	}
	if evidenceType == "" {
		evidenceType = domain.EvidenceGeneral
	}

	prior, ok := t.priors[player]
	if !ok {
		prior = DefaultPrior
	}

	posterior := Posterior(prior, evidenceScore)
	if math.IsNaN(posterior) || math.IsInf(posterior, 0) {
		return 0, ErrNumericDomain
	}

	t.evidence[player] = append(t.evidence[player], domain.Evidence{
		Score:       evidenceScore,
		Type:        evidenceType,
		Description: description,
	})
	t.priors[player] = posterior

	t.logger.Debug("updated suspicion",
		zap.String("player_id", player),
		zap.Float64("prior", prior),
		zap.Float64("posterior", posterior),
		zap.Float64("evidence", evidenceScore),
		zap.String("evidence_type", evidenceType))

	return posterior, nil
}

// Restore sets a player's prior without recording evidence. It is used
// when a session is rebuilt from persisted profiles.
func (t *BeliefTracker) Restore(player string, prior float64) error {
	if player == "" {
		return ErrPlayerIDMissing
	}
	if math.IsNaN(prior) || prior < 0 || prior > 1 {
		return ErrInvalidPrior
	}
	t.priors[player] = prior
	return nil
}

func (t *BeliefTracker) Suspicion(player string) float64 {
	if p, ok := t.priors[player]; ok {
		return p
	}
	return DefaultPrior
}

func (t *BeliefTracker) AllSuspicions() map[string]float64 {
	out := make(map[string]float64, len(t.priors))
	for k, v := range t.priors {
		out[k] = v
	}
	return out
}

func (t *BeliefTracker) Evidence(player string) []domain.Evidence {
	log := t.evidence[player]
	out := make([]domain.Evidence, len(log))
	copy(out, log)
	return out
}

func (t *BeliefTracker) EvidenceCount(player string) int {
	return len(t.evidence[player])
}

// AnalyzeContradiction scores how much current conflicts with the player's
// earlier statements. It does not change the player's suspicion.
func (t *BeliefTracker) AnalyzeContradiction(player, current string, history []domain.Statement) float64 {
	score := t.detector.Score(current, history)
	t.logger.Debug("analyzed contradiction",
		zap.String("player_id", player),
		zap.Int("history", len(history)),
		zap.Float64("score", score))
	return score
}

func (t *BeliefTracker) Reset() {
	clear(t.priors)
	clear(t.evidence)
	t.logger.Info("belief tracker reset")
}
