package domain

type ActionType string

const (
	ActionCheck ActionType = "check"
	ActionVote  ActionType = "vote"
	ActionSpeak ActionType = "speak"
)

type Role string

const (
	RoleSeer     Role = "seer"
	RoleVillager Role = "villager"
	RoleWerewolf Role = "werewolf"
	RoleWitch    Role = "witch"
	RoleHunter   Role = "hunter"
)

// ActionCandidate is a possible move. Check and Vote are the two variants
// the decision engine reasons about; any other type is scored neutral.
type ActionCandidate struct {
	Type   ActionType `json:"type"`
	Target string     `json:"target"`
}

func Check(target string) ActionCandidate {
	return ActionCandidate{Type: ActionCheck, Target: target}
}

func Vote(target string) ActionCandidate {
	return ActionCandidate{Type: ActionVote, Target: target}
}

type Recommendation string

const (
	RecommendHighly  Recommendation = "highly_recommended"
	Recommended      Recommendation = "recommended"
	RecommendNeutral Recommendation = "neutral"
	NotRecommended   Recommendation = "not_recommended"
)

// RecommendationFor maps a utility to its tier.
func RecommendationFor(utility float64) Recommendation {
	switch {
	case utility >= 0.8:
		return RecommendHighly
	case utility >= 0.6:
		return Recommended
	case utility >= 0.4:
		return RecommendNeutral
	default:
		return NotRecommended
	}
}

type ScoredAction struct {
	ActionCandidate
	Utility        float64        `json:"utility"`
	Recommendation Recommendation `json:"recommendation"`
}

// SearchState is the abstract game position explored by minimax. It is
// built per search call and never persisted.
type SearchState struct {
	AlivePlayers   []string `json:"alive_players"`
	AliveWolves    int      `json:"alive_wolves"`
	AliveVillagers int      `json:"alive_villagers"`
	CanCheck       bool     `json:"can_check"`
	CanVote        bool     `json:"can_vote"`
	CheckedPlayers []string `json:"checked_players,omitempty"`
	VotedPlayers   []string `json:"voted_players,omitempty"`
}
