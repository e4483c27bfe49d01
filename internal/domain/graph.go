package domain

type RelationType string

const (
	RelationSupport RelationType = "support"
	RelationAttack  RelationType = "attack"
)

// Relation is one typed, weighted link recorded for a single event.
type Relation struct {
	Type     RelationType   `json:"type"`
	Weight   float64        `json:"weight"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Edge aggregates every relation recorded for one ordered (source, target)
// pair. TotalWeight is always the sum of the relation weights.
type Edge struct {
	Source      string     `json:"source"`
	Target      string     `json:"target"`
	Relations   []Relation `json:"relations"`
	TotalWeight float64    `json:"total_weight"`
}

type PlayerRelations struct {
	Outgoing []Relation `json:"outgoing"`
	Incoming []Relation `json:"incoming"`
}

type PlayerPair struct {
	Source string `json:"source"`
	Target string `json:"target"`
}
