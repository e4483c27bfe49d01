package service

import (
	"math"
	"strings"

	"github.com/Harshitk-cp/deduce/internal/domain"
)

const (
	contradictionMatchWeight = 0.3
	maxContradictionScore    = 0.9
)

// ContradictionDetector scores a statement against a player's history.
// Implementations return a value in [0, 1].
type ContradictionDetector interface {
	Score(current string, history []domain.Statement) float64
}

// KeywordPair is a negation/affirmation pair. A statement containing one
// word and another statement containing the other counts as a conflict.
type KeywordPair struct {
	Negation    string
	Affirmation string
}

func DefaultKeywordPairs() []KeywordPair {
	return []KeywordPair{
		{"not", "is"},
		{"never", "always"},
		{"did", "didn't"},
		{"was", "wasn't"},
		{"saw", "didn't see"},
	}
}

// KeywordContradictionDetector is a lexical heuristic, not inference: it
// does substring matching, so "not" also matches inside "nothing".
type KeywordContradictionDetector struct {
	Pairs []KeywordPair
}

func NewKeywordContradictionDetector() *KeywordContradictionDetector {
	return &KeywordContradictionDetector{Pairs: DefaultKeywordPairs()}
}

// Score adds 0.3 for every historical statement that conflicts with
// current, averages over the history and caps the result at 0.9.
func (d *KeywordContradictionDetector) Score(current string, history []domain.Statement) float64 {
	if len(history) == 0 {
		return 0
	}

	acc := 0.0
	matches := 0
	for _, h := range history {
		if d.contradicts(current, h.Content) {
			matches++
			acc += contradictionMatchWeight
		}
	}
	if matches == 0 {
		return 0
	}
	return math.Min(maxContradictionScore, acc/float64(len(history)))
}

func (d *KeywordContradictionDetector) contradicts(a, b string) bool {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	for _, p := range d.Pairs {
		neg := strings.ToLower(p.Negation)
		pos := strings.ToLower(p.Affirmation)
		if (strings.Contains(a, neg) && strings.Contains(b, pos)) ||
			(strings.Contains(b, neg) && strings.Contains(a, pos)) {
			return true
		}
	}
	return false
}
