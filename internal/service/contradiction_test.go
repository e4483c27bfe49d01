package service

import (
	"testing"

	"github.com/Harshitk-cp/deduce/internal/domain"
	"github.com/stretchr/testify/assert"
)

func statements(contents ...string) []domain.Statement {
	out := make([]domain.Statement, 0, len(contents))
	for _, c := range contents {
		out = append(out, domain.Statement{Content: c})
	}
	return out
}

func TestKeywordContradictionDetector_EmptyHistory(t *testing.T) {
	d := NewKeywordContradictionDetector()
	assert.Equal(t, 0.0, d.Score("I was at home", nil))
	assert.Equal(t, 0.0, d.Score("I was at home", []domain.Statement{}))
}

func TestKeywordContradictionDetector_SingleMatch(t *testing.T) {
	d := NewKeywordContradictionDetector()
	assert.InDelta(t, 0.3, d.Score("I never vote early", statements("I always vote early")), epsilon)
}

func TestKeywordContradictionDetector_EitherDirection(t *testing.T) {
	d := NewKeywordContradictionDetector()
	assert.InDelta(t, 0.3, d.Score("I always vote early", statements("I never vote early")), epsilon)
}

func TestKeywordContradictionDetector_CaseInsensitive(t *testing.T) {
	d := NewKeywordContradictionDetector()
	assert.InDelta(t, 0.3, d.Score("I NEVER lie", statements("i Always lie")), epsilon)
}

func TestKeywordContradictionDetector_NoMatch(t *testing.T) {
	d := NewKeywordContradictionDetector()
	assert.Equal(t, 0.0, d.Score("hello", statements("good morning", "vote p3")))
}

func TestKeywordContradictionDetector_AveragesOverHistory(t *testing.T) {
	d := NewKeywordContradictionDetector()
	history := statements("I always check", "good morning", "hello", "vote p3")
	assert.InDelta(t, 0.3/4, d.Score("I never check", history), epsilon)
}

func TestKeywordContradictionDetector_CustomPairsAndCap(t *testing.T) {
	d := &KeywordContradictionDetector{Pairs: []KeywordPair{{Negation: "x", Affirmation: "y"}}}
	score := d.Score("x", statements("y", "y", "y"))
	assert.InDelta(t, 0.3, score, epsilon)
	assert.LessOrEqual(t, score, maxContradictionScore)
}

func TestKeywordContradictionDetector_ImplementsInterface(t *testing.T) {
	var _ ContradictionDetector = NewKeywordContradictionDetector()
	assert.Len(t, DefaultKeywordPairs(), 5)
}
