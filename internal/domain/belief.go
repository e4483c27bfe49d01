package domain

// EvidenceType tags where a piece of evidence came from. It is free-form;
// the constants below are the values the service itself produces.
const (
	EvidenceGeneral       = "general"
	EvidenceContradiction = "contradiction"
	EvidenceBehavior      = "behavior"
	EvidenceVotePattern   = "vote_pattern"
	EvidenceCollusion     = "collusion"
)

// Evidence is one scored observation about a player. Score is in [0,1],
// higher meaning more wolf-like.
type Evidence struct {
	Score       float64 `json:"score"`
	Type        string  `json:"type"`
	Description string  `json:"description,omitempty"`
}

// Statement is a historical utterance used for contradiction analysis.
type Statement struct {
	Content string `json:"content"`
}

// SuspicionLevel buckets a suspicion score for human-readable reports.
type SuspicionLevel string

const (
	SuspicionHigh   SuspicionLevel = "high"
	SuspicionMedium SuspicionLevel = "medium"
	SuspicionLow    SuspicionLevel = "low"
)

func LevelFor(score float64) SuspicionLevel {
	switch {
	case score > 0.7:
		return SuspicionHigh
	case score > 0.4:
		return SuspicionMedium
	default:
		return SuspicionLow
	}
}
