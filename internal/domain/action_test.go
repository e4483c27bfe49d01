package domain

import "testing"

func TestRecommendationFor(t *testing.T) {
	tests := []struct {
		name    string
		utility float64
		want    Recommendation
	}{
		{"highly - 1.0", 1.0, RecommendHighly},
		{"highly boundary - 0.8", 0.8, RecommendHighly},
		{"recommended - 0.79", 0.79, Recommended},
		{"recommended boundary - 0.6", 0.6, Recommended},
		{"neutral - 0.59", 0.59, RecommendNeutral},
		{"neutral - 0.422", 0.422, RecommendNeutral},
		{"neutral boundary - 0.4", 0.4, RecommendNeutral},
		{"not recommended - 0.39", 0.39, NotRecommended},
		{"not recommended - 0.0", 0.0, NotRecommended},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RecommendationFor(tt.utility)
			if got != tt.want {
				t.Errorf("RecommendationFor(%v) = %v, want %v", tt.utility, got, tt.want)
			}
		})
	}
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		score float64
		want  SuspicionLevel
	}{
		{0.95, SuspicionHigh},
		{0.71, SuspicionHigh},
		{0.7, SuspicionMedium},
		{0.41, SuspicionMedium},
		{0.4, SuspicionLow},
		{0.0, SuspicionLow},
	}

	for _, tt := range tests {
		if got := LevelFor(tt.score); got != tt.want {
			t.Errorf("LevelFor(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestActionConstructors(t *testing.T) {
	if c := Check("p1"); c.Type != ActionCheck || c.Target != "p1" {
		t.Errorf("Check(p1) = %+v", c)
	}
	if v := Vote("p2"); v.Type != ActionVote || v.Target != "p2" {
		t.Errorf("Vote(p2) = %+v", v)
	}
}

func TestValidGameStatus(t *testing.T) {
	if !ValidGameStatus("active") || !ValidGameStatus("finished") {
		t.Error("expected active and finished to be valid")
	}
	if ValidGameStatus("paused") {
		t.Error("paused should not be valid")
	}
}
