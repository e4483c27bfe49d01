package service

import (
	"errors"
	"math"

	"github.com/Harshitk-cp/deduce/internal/domain"
	"go.uber.org/zap"
)

// DefaultRelationWeight is the weight callers use when an event does not
// specify one.
const DefaultRelationWeight = 1.0

var (
	ErrRelationTypeMissing   = errors.New("relation_type is required")
	ErrInvalidRelationWeight = errors.New("relation weight must be a positive finite number")
)

type edgeKey struct {
	source string
	target string
}

// RelationshipGraph is a directed multigraph of player interactions.
// Relations on the same ordered pair are aggregated into one edge, never
// merged by type. Nodes and edges iterate in insertion order.
//
// Queries scan every edge, so they cost O(E) per call. That is fine at the
// scale of a single game session (dozens of players, hundreds of events).
type RelationshipGraph struct {
	nodes      []string
	nodeIndex  map[string]struct{}
	attributes map[string]map[string]any

	edges     []*domain.Edge
	edgeIndex map[edgeKey]int

	logger *zap.Logger
}

func NewRelationshipGraph(logger *zap.Logger) *RelationshipGraph {
	return &RelationshipGraph{
		nodeIndex:  make(map[string]struct{}),
		attributes: make(map[string]map[string]any),
		edgeIndex:  make(map[edgeKey]int),
		logger:     logger,
	}
}

// AddNode inserts id if absent. Non-nil attrs replace any stored attributes.
func (g *RelationshipGraph) AddNode(id string, attrs map[string]any) error {
	if id == "" {
		return ErrPlayerIDMissing
	}
	if _, ok := g.nodeIndex[id]; !ok {
		g.nodeIndex[id] = struct{}{}
		g.nodes = append(g.nodes, id)
	}
	if attrs != nil {
		g.attributes[id] = attrs
	}
	g.logger.Debug("added node", zap.String("player_id", id))
	return nil
}

// AddEdge records one relation from source to target, creating both
// endpoints and the edge bucket as needed.
func (g *RelationshipGraph) AddEdge(source, target string, relType domain.RelationType, weight float64, metadata map[string]any) error {
	if source == "" || target == "" {
		return ErrPlayerIDMissing
	}
	if relType == "" {
		return ErrRelationTypeMissing
	}
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight <= 0 {
		return ErrInvalidRelationWeight
	}

	_ = g.AddNode(source, nil)
	_ = g.AddNode(target, nil)

	key := edgeKey{source: source, target: target}
	idx, ok := g.edgeIndex[key]
	if !ok {
		g.edges = append(g.edges, &domain.Edge{Source: source, Target: target})
		idx = len(g.edges) - 1
		g.edgeIndex[key] = idx
	}

	if metadata == nil {
		metadata = map[string]any{}
	}
	edge := g.edges[idx]
	edge.Relations = append(edge.Relations, domain.Relation{
		Type:     relType,
		Weight:   weight,
		Metadata: metadata,
	})
	edge.TotalWeight += weight

	g.logger.Debug("added edge",
		zap.String("source", source),
		zap.String("target", target),
		zap.String("relation_type", string(relType)),
		zap.Float64("weight", weight))
	return nil
}

// PlayerRelations collects the relations on every edge leaving (outgoing)
// or entering (incoming) player. A self-loop contributes to both.
func (g *RelationshipGraph) PlayerRelations(player string) domain.PlayerRelations {
	out := domain.PlayerRelations{
		Outgoing: []domain.Relation{},
		Incoming: []domain.Relation{},
	}
	for _, e := range g.edges {
		if e.Source == player {
			out.Outgoing = append(out.Outgoing, e.Relations...)
		}
		if e.Target == player {
			out.Incoming = append(out.Incoming, e.Relations...)
		}
	}
	return out
}

// DetectWolfPairs returns the ordered pairs whose edge carries support but
// no attack at all, with a support share of at least threshold.
func (g *RelationshipGraph) DetectWolfPairs(threshold float64) []domain.PlayerPair {
	pairs := []domain.PlayerPair{}
	for _, e := range g.edges {
		support, attack := typedWeights(e.Relations)
		if support > 0 && attack == 0 && support/e.TotalWeight >= threshold {
			pairs = append(pairs, domain.PlayerPair{Source: e.Source, Target: e.Target})
		}
	}
	g.logger.Debug("detected suspicious pairs", zap.Int("count", len(pairs)))
	return pairs
}

// DetectCollusion scores each player by the share of its outgoing weight
// that is support. Players with no outgoing relations are omitted.
func (g *RelationshipGraph) DetectCollusion(players []string) map[string]float64 {
	scores := make(map[string]float64)
	for _, p := range players {
		outgoing := g.PlayerRelations(p).Outgoing
		support, _ := typedWeights(outgoing)
		total := 0.0
		for _, r := range outgoing {
			total += r.Weight
		}
		if total > 0 {
			scores[p] = support / total
		}
	}
	return scores
}

func (g *RelationshipGraph) AttackNetwork() map[string][]string {
	return g.network(domain.RelationAttack)
}

func (g *RelationshipGraph) SupportNetwork() map[string][]string {
	return g.network(domain.RelationSupport)
}

// network projects relations of one type onto a source -> targets
// adjacency list. A pair appears once per matching relation.
func (g *RelationshipGraph) network(relType domain.RelationType) map[string][]string {
	adj := make(map[string][]string)
	for _, e := range g.edges {
		for _, r := range e.Relations {
			if r.Type == relType {
				adj[e.Source] = append(adj[e.Source], e.Target)
			}
		}
	}
	return adj
}

// Centrality is the fraction of edges (not relations) touching player.
func (g *RelationshipGraph) Centrality(player string) float64 {
	if len(g.edges) == 0 {
		return 0
	}
	incoming, outgoing := 0, 0
	for _, e := range g.edges {
		if e.Target == player {
			incoming++
		}
		if e.Source == player {
			outgoing++
		}
	}
	return float64(incoming+outgoing) / float64(len(g.edges))
}

func (g *RelationshipGraph) Nodes() []string {
	out := make([]string, len(g.nodes))
	copy(out, g.nodes)
	return out
}

func (g *RelationshipGraph) HasNode(id string) bool {
	_, ok := g.nodeIndex[id]
	return ok
}

func (g *RelationshipGraph) NodeAttributes(id string) map[string]any {
	return g.attributes[id]
}

// Edges returns a copy of every edge in insertion order.
func (g *RelationshipGraph) Edges() []domain.Edge {
	out := make([]domain.Edge, 0, len(g.edges))
	for _, e := range g.edges {
		cp := *e
		cp.Relations = append([]domain.Relation(nil), e.Relations...)
		out = append(out, cp)
	}
	return out
}

func (g *RelationshipGraph) EdgeCount() int {
	return len(g.edges)
}

func (g *RelationshipGraph) Reset() {
	g.nodes = nil
	clear(g.nodeIndex)
	clear(g.attributes)
	g.edges = nil
	clear(g.edgeIndex)
	g.logger.Info("relationship graph reset")
}

func typedWeights(relations []domain.Relation) (support, attack float64) {
	for _, r := range relations {
		switch r.Type {
		case domain.RelationSupport:
			support += r.Weight
		case domain.RelationAttack:
			attack += r.Weight
		}
	}
	return support, attack
}
